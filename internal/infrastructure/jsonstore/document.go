package jsonstore

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

func init() {
	// Montos como números JSON (1500000) en el archivo y en las respuestas, sin importar
	// qué binario escribe el documento.
	decimal.MarshalJSONWithoutQuotes = true
}

// document es el contenido completo del archivo: cuatro colecciones y sus contadores.
type document struct {
	Users        []userRecord        `json:"users"`
	Categories   []categoryRecord    `json:"categories"`
	Inventory    []itemRecord        `json:"inventory"`
	Transactions []transactionRecord `json:"transactions"`
	LastIDs      lastIDs             `json:"lastIds"`
}

// lastIDs contadores por colección; solo crecen y los IDs no se reutilizan.
type lastIDs struct {
	Users        int64 `json:"users"`
	Categories   int64 `json:"categories"`
	Inventory    int64 `json:"inventory"`
	Transactions int64 `json:"transactions"`
}

type userRecord struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FullName     string `json:"full_name,omitempty"`
	PasswordHash string `json:"password_hash,omitempty"`
	// Password credencial heredada en texto plano; la migración la mueve a PasswordHash.
	Password    string     `json:"password,omitempty"`
	Role        string     `json:"role"`
	IsActive    *bool      `json:"is_active,omitempty"`
	LastLoginAt *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type categoryRecord struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type itemRecord struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	SKU             string          `json:"sku"`
	CategoryID      int64           `json:"category_id"`
	Quantity        int64           `json:"quantity"`
	MinimumQuantity int64           `json:"minimum_quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Unit            string          `json:"unit"`
	Supplier        string          `json:"supplier,omitempty"`
	Location        string          `json:"location,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type transactionRecord struct {
	ID         int64           `json:"id"`
	ItemID     int64           `json:"item_id"`
	UserID     int64           `json:"user_id"`
	Type       string          `json:"type"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// UnmarshalJSON acepta los alias heredados inventory_id y created_by.
func (r *transactionRecord) UnmarshalJSON(b []byte) error {
	type plain transactionRecord
	var aux struct {
		plain
		InventoryID *int64 `json:"inventory_id"`
		CreatedBy   *int64 `json:"created_by"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = transactionRecord(aux.plain)
	if r.ItemID == 0 && aux.InventoryID != nil {
		r.ItemID = *aux.InventoryID
	}
	if r.UserID == 0 && aux.CreatedBy != nil {
		r.UserID = *aux.CreatedBy
	}
	return nil
}

// clone copia profunda de las colecciones (los registros son valores).
// Una colección vacía sigue siendo [] en la copia.
func (d *document) clone() *document {
	return &document{
		Users:        cloneSlice(d.Users),
		Categories:   cloneSlice(d.Categories),
		Inventory:    cloneSlice(d.Inventory),
		Transactions: cloneSlice(d.Transactions),
		LastIDs:      d.LastIDs,
	}
}

func cloneSlice[T any](src []T) []T {
	out := make([]T, len(src))
	copy(out, src)
	return out
}

// normalize reemplaza colecciones nulas por vacías para serializar [] y no null.
func (d *document) normalize() {
	if d.Users == nil {
		d.Users = []userRecord{}
	}
	if d.Categories == nil {
		d.Categories = []categoryRecord{}
	}
	if d.Inventory == nil {
		d.Inventory = []itemRecord{}
	}
	if d.Transactions == nil {
		d.Transactions = []transactionRecord{}
	}
	// Un documento editado a mano puede traer contadores atrasados.
	for _, u := range d.Users {
		if u.ID > d.LastIDs.Users {
			d.LastIDs.Users = u.ID
		}
	}
	for _, c := range d.Categories {
		if c.ID > d.LastIDs.Categories {
			d.LastIDs.Categories = c.ID
		}
	}
	for _, it := range d.Inventory {
		if it.ID > d.LastIDs.Inventory {
			d.LastIDs.Inventory = it.ID
		}
	}
	for _, t := range d.Transactions {
		if t.ID > d.LastIDs.Transactions {
			d.LastIDs.Transactions = t.ID
		}
	}
}

func (r *userRecord) toEntity() *entity.User {
	var lastLogin *time.Time
	if r.LastLoginAt != nil {
		t := *r.LastLoginAt
		lastLogin = &t
	}
	return &entity.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		FullName:     r.FullName,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		IsActive:     r.IsActive == nil || *r.IsActive,
		LastLoginAt:  lastLogin,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func userRecordFrom(u *entity.User) userRecord {
	active := u.IsActive
	var lastLogin *time.Time
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		lastLogin = &t
	}
	return userRecord{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsActive:     &active,
		LastLoginAt:  lastLogin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *categoryRecord) toEntity() *entity.Category {
	return &entity.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func categoryRecordFrom(c *entity.Category) categoryRecord {
	return categoryRecord{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (r *itemRecord) toEntity() *entity.InventoryItem {
	unit := r.Unit
	if unit == "" {
		unit = entity.DefaultUnit
	}
	return &entity.InventoryItem{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		SKU:             r.SKU,
		CategoryID:      r.CategoryID,
		Quantity:        r.Quantity,
		MinimumQuantity: r.MinimumQuantity,
		UnitPrice:       r.UnitPrice,
		Unit:            unit,
		Supplier:        r.Supplier,
		Location:        r.Location,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func itemRecordFrom(it *entity.InventoryItem) itemRecord {
	return itemRecord{
		ID:              it.ID,
		Name:            it.Name,
		Description:     it.Description,
		SKU:             it.SKU,
		CategoryID:      it.CategoryID,
		Quantity:        it.Quantity,
		MinimumQuantity: it.MinimumQuantity,
		UnitPrice:       it.UnitPrice,
		Unit:            it.Unit,
		Supplier:        it.Supplier,
		Location:        it.Location,
		CreatedAt:       it.CreatedAt,
		UpdatedAt:       it.UpdatedAt,
	}
}

func (r *transactionRecord) toEntity() *entity.Transaction {
	return &entity.Transaction{
		ID:         r.ID,
		ItemID:     r.ItemID,
		UserID:     r.UserID,
		Type:       r.Type,
		Quantity:   r.Quantity,
		UnitPrice:  r.UnitPrice,
		TotalPrice: r.TotalPrice,
		Notes:      r.Notes,
		CreatedAt:  r.CreatedAt,
	}
}

func transactionRecordFrom(t *entity.Transaction) transactionRecord {
	return transactionRecord{
		ID:         t.ID,
		ItemID:     t.ItemID,
		UserID:     t.UserID,
		Type:       t.Type,
		Quantity:   t.Quantity,
		UnitPrice:  t.UnitPrice,
		TotalPrice: t.TotalPrice,
		Notes:      t.Notes,
		CreatedAt:  t.CreatedAt,
	}
}

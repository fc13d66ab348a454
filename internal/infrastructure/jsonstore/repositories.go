package jsonstore

import (
	"time"

	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// executor fuente de documento de los repositorios: el store (cada mutación persiste)
// o la copia de una transacción de TxRunner.
type executor interface {
	view(fn func(d *document) error) error
	update(fn func(d *document) error) error
	now() time.Time
}

var (
	_ executor = (*Store)(nil)
	_ executor = (*txExecutor)(nil)
)

func newRepositories(ex executor) repository.Repositories {
	return repository.Repositories{
		Users:        &UserRepo{ex: ex},
		Categories:   &CategoryRepo{ex: ex},
		Items:        &InventoryItemRepo{ex: ex},
		Transactions: &TransactionRepo{ex: ex},
	}
}

func indexOf[T any](s []T, match func(*T) bool) int {
	for i := range s {
		if match(&s[i]) {
			return i
		}
	}
	return -1
}

func removeAt[T any](s []T, i int) []T {
	return append(s[:i:i], s[i+1:]...)
}

// ---------- Users ----------

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo colección users del documento.
type UserRepo struct {
	ex executor
}

// Create asigna el siguiente ID y los timestamps.
func (r *UserRepo) Create(user *entity.User) error {
	return r.ex.update(func(d *document) error {
		d.LastIDs.Users++
		now := r.ex.now()
		user.ID = d.LastIDs.Users
		user.CreatedAt = now
		user.UpdatedAt = now
		d.Users = append(d.Users, userRecordFrom(user))
		return nil
	})
}

// GetByID obtiene un usuario por ID; (nil, nil) si no existe.
func (r *UserRepo) GetByID(id int64) (*entity.User, error) {
	var out *entity.User
	err := r.ex.view(func(d *document) error {
		if i := indexOf(d.Users, func(u *userRecord) bool { return u.ID == id }); i >= 0 {
			out = d.Users[i].toEntity()
		}
		return nil
	})
	return out, err
}

// GetByUsername búsqueda exacta (sensible a mayúsculas).
func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	var out *entity.User
	err := r.ex.view(func(d *document) error {
		if i := indexOf(d.Users, func(u *userRecord) bool { return u.Username == username }); i >= 0 {
			out = d.Users[i].toEntity()
		}
		return nil
	})
	return out, err
}

// List todos los usuarios en orden de inserción.
func (r *UserRepo) List() ([]*entity.User, error) {
	var out []*entity.User
	err := r.ex.view(func(d *document) error {
		out = make([]*entity.User, 0, len(d.Users))
		for i := range d.Users {
			out = append(out, d.Users[i].toEntity())
		}
		return nil
	})
	return out, err
}

// Update reemplaza el registro; CreatedAt se conserva y UpdatedAt se refresca.
func (r *UserRepo) Update(user *entity.User) error {
	return r.ex.update(func(d *document) error {
		i := indexOf(d.Users, func(u *userRecord) bool { return u.ID == user.ID })
		if i < 0 {
			return domain.ErrUserNotFound
		}
		user.CreatedAt = d.Users[i].CreatedAt
		user.UpdatedAt = r.ex.now()
		d.Users[i] = userRecordFrom(user)
		return nil
	})
}

// Delete elimina físicamente el usuario.
func (r *UserRepo) Delete(id int64) error {
	return r.ex.update(func(d *document) error {
		i := indexOf(d.Users, func(u *userRecord) bool { return u.ID == id })
		if i < 0 {
			return domain.ErrUserNotFound
		}
		d.Users = removeAt(d.Users, i)
		return nil
	})
}

// ---------- Categories ----------

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo colección categories del documento.
type CategoryRepo struct {
	ex executor
}

func (r *CategoryRepo) Create(category *entity.Category) error {
	return r.ex.update(func(d *document) error {
		d.LastIDs.Categories++
		now := r.ex.now()
		category.ID = d.LastIDs.Categories
		category.CreatedAt = now
		category.UpdatedAt = now
		d.Categories = append(d.Categories, categoryRecordFrom(category))
		return nil
	})
}

func (r *CategoryRepo) GetByID(id int64) (*entity.Category, error) {
	var out *entity.Category
	err := r.ex.view(func(d *document) error {
		if i := indexOf(d.Categories, func(c *categoryRecord) bool { return c.ID == id }); i >= 0 {
			out = d.Categories[i].toEntity()
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) List() ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.ex.view(func(d *document) error {
		out = make([]*entity.Category, 0, len(d.Categories))
		for i := range d.Categories {
			out = append(out, d.Categories[i].toEntity())
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Update(category *entity.Category) error {
	return r.ex.update(func(d *document) error {
		i := indexOf(d.Categories, func(c *categoryRecord) bool { return c.ID == category.ID })
		if i < 0 {
			return domain.ErrNotFound
		}
		category.CreatedAt = d.Categories[i].CreatedAt
		category.UpdatedAt = r.ex.now()
		d.Categories[i] = categoryRecordFrom(category)
		return nil
	})
}

func (r *CategoryRepo) Delete(id int64) error {
	return r.ex.update(func(d *document) error {
		i := indexOf(d.Categories, func(c *categoryRecord) bool { return c.ID == id })
		if i < 0 {
			return domain.ErrNotFound
		}
		d.Categories = removeAt(d.Categories, i)
		return nil
	})
}

// ---------- Inventory ----------

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo colección inventory del documento.
type InventoryItemRepo struct {
	ex executor
}

func (r *InventoryItemRepo) Create(item *entity.InventoryItem) error {
	return r.ex.update(func(d *document) error {
		d.LastIDs.Inventory++
		now := r.ex.now()
		item.ID = d.LastIDs.Inventory
		item.CreatedAt = now
		item.UpdatedAt = now
		d.Inventory = append(d.Inventory, itemRecordFrom(item))
		return nil
	})
}

func (r *InventoryItemRepo) GetByID(id int64) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	err := r.ex.view(func(d *document) error {
		if i := indexOf(d.Inventory, func(it *itemRecord) bool { return it.ID == id }); i >= 0 {
			out = d.Inventory[i].toEntity()
		}
		return nil
	})
	return out, err
}

func (r *InventoryItemRepo) GetBySKU(sku string) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	err := r.ex.view(func(d *document) error {
		if i := indexOf(d.Inventory, func(it *itemRecord) bool { return it.SKU == sku }); i >= 0 {
			out = d.Inventory[i].toEntity()
		}
		return nil
	})
	return out, err
}

func (r *InventoryItemRepo) List() ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	err := r.ex.view(func(d *document) error {
		out = make([]*entity.InventoryItem, 0, len(d.Inventory))
		for i := range d.Inventory {
			out = append(out, d.Inventory[i].toEntity())
		}
		return nil
	})
	return out, err
}

func (r *InventoryItemRepo) Update(item *entity.InventoryItem) error {
	return r.ex.update(func(d *document) error {
		i := indexOf(d.Inventory, func(it *itemRecord) bool { return it.ID == item.ID })
		if i < 0 {
			return domain.ErrNotFound
		}
		item.CreatedAt = d.Inventory[i].CreatedAt
		item.UpdatedAt = r.ex.now()
		d.Inventory[i] = itemRecordFrom(item)
		return nil
	})
}

func (r *InventoryItemRepo) Delete(id int64) error {
	return r.ex.update(func(d *document) error {
		i := indexOf(d.Inventory, func(it *itemRecord) bool { return it.ID == id })
		if i < 0 {
			return domain.ErrNotFound
		}
		d.Inventory = removeAt(d.Inventory, i)
		return nil
	})
}

// CountByCategory ítems que referencian la categoría.
func (r *InventoryItemRepo) CountByCategory(categoryID int64) (int, error) {
	n := 0
	err := r.ex.view(func(d *document) error {
		for i := range d.Inventory {
			if d.Inventory[i].CategoryID == categoryID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// ---------- Transactions ----------

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo colección transactions del documento.
type TransactionRepo struct {
	ex executor
}

func (r *TransactionRepo) Create(tx *entity.Transaction) error {
	return r.ex.update(func(d *document) error {
		d.LastIDs.Transactions++
		tx.ID = d.LastIDs.Transactions
		tx.CreatedAt = r.ex.now()
		d.Transactions = append(d.Transactions, transactionRecordFrom(tx))
		return nil
	})
}

func (r *TransactionRepo) GetByID(id int64) (*entity.Transaction, error) {
	var out *entity.Transaction
	err := r.ex.view(func(d *document) error {
		if i := indexOf(d.Transactions, func(t *transactionRecord) bool { return t.ID == id }); i >= 0 {
			out = d.Transactions[i].toEntity()
		}
		return nil
	})
	return out, err
}

func (r *TransactionRepo) List() ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	err := r.ex.view(func(d *document) error {
		out = make([]*entity.Transaction, 0, len(d.Transactions))
		for i := range d.Transactions {
			out = append(out, d.Transactions[i].toEntity())
		}
		return nil
	})
	return out, err
}

func (r *TransactionRepo) ListByItem(itemID int64) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	err := r.ex.view(func(d *document) error {
		out = []*entity.Transaction{}
		for i := range d.Transactions {
			if d.Transactions[i].ItemID == itemID {
				out = append(out, d.Transactions[i].toEntity())
			}
		}
		return nil
	})
	return out, err
}

// UpdateNotes único cambio permitido sobre una transacción registrada.
func (r *TransactionRepo) UpdateNotes(id int64, notes string) (*entity.Transaction, error) {
	var out *entity.Transaction
	err := r.ex.update(func(d *document) error {
		i := indexOf(d.Transactions, func(t *transactionRecord) bool { return t.ID == id })
		if i < 0 {
			return domain.ErrNotFound
		}
		d.Transactions[i].Notes = notes
		out = d.Transactions[i].toEntity()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TransactionRepo) Delete(id int64) error {
	return r.ex.update(func(d *document) error {
		i := indexOf(d.Transactions, func(t *transactionRecord) bool { return t.ID == id })
		if i < 0 {
			return domain.ErrNotFound
		}
		d.Transactions = removeAt(d.Transactions, i)
		return nil
	})
}

// CountByItem transacciones que referencian el ítem.
func (r *TransactionRepo) CountByItem(itemID int64) (int, error) {
	n := 0
	err := r.ex.view(func(d *document) error {
		for i := range d.Transactions {
			if d.Transactions[i].ItemID == itemID {
				n++
			}
		}
		return nil
	})
	return n, err
}

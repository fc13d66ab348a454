package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCategoryRequest body de POST /inventory/categories.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateCategoryRequest campos mutables de una categoría.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateInventoryItemRequest body de POST /inventory.
type CreateInventoryItemRequest struct {
	Name            string           `json:"name" validate:"required,max=200"`
	Description     string           `json:"description" validate:"max=1000"`
	SKU             string           `json:"sku" validate:"required,max=100"`
	CategoryID      int64            `json:"category_id" validate:"required,gt=0"`
	Quantity        *int64           `json:"quantity" validate:"required,gte=0"`
	MinimumQuantity *int64           `json:"minimum_quantity" validate:"required,gte=0"`
	UnitPrice       *decimal.Decimal `json:"unit_price" validate:"required"`
	Unit            string           `json:"unit" validate:"max=20"`
	Supplier        string           `json:"supplier" validate:"max=200"`
	Location        string           `json:"location" validate:"max=200"`
}

// UpdateInventoryItemRequest campos mutables de un ítem. La cantidad solo cambia vía transacciones.
type UpdateInventoryItemRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description     *string          `json:"description" validate:"omitempty,max=1000"`
	SKU             *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	CategoryID      *int64           `json:"category_id" validate:"omitempty,gt=0"`
	MinimumQuantity *int64           `json:"minimum_quantity" validate:"omitempty,gte=0"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	Unit            *string          `json:"unit" validate:"omitempty,max=20"`
	Supplier        *string          `json:"supplier" validate:"omitempty,max=200"`
	Location        *string          `json:"location" validate:"omitempty,max=200"`
}

// IsEmpty indica que no hay nada que actualizar.
func (r UpdateInventoryItemRequest) IsEmpty() bool {
	return r.Name == nil && r.Description == nil && r.SKU == nil && r.CategoryID == nil &&
		r.MinimumQuantity == nil && r.UnitPrice == nil && r.Unit == nil && r.Supplier == nil && r.Location == nil
}

// InventoryFilter filtros de GET /inventory.
type InventoryFilter struct {
	PageRequest
	Search     string `query:"search"`
	CategoryID int64  `query:"category_id"`
	// LowStock solo el valor "true" filtra; cualquier otro se ignora.
	LowStock string `query:"low_stock"`
}

// OnlyLowStock indica si se pidieron solo los ítems en o bajo el mínimo.
func (f InventoryFilter) OnlyLowStock() bool { return f.LowStock == "true" }

// InventoryItemResponse salida de un ítem con el nombre de su categoría.
type InventoryItemResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	SKU             string          `json:"sku"`
	CategoryID      int64           `json:"category_id"`
	CategoryName    string          `json:"category_name"`
	Quantity        int64           `json:"quantity"`
	MinimumQuantity int64           `json:"minimum_quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Unit            string          `json:"unit"`
	Supplier        string          `json:"supplier,omitempty"`
	Location        string          `json:"location,omitempty"`
	LowStock        bool            `json:"low_stock"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// LowStockItemResponse ítem en alerta (quantity <= minimum_quantity).
type LowStockItemResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	SKU             string `json:"sku"`
	CategoryName    string `json:"category_name"`
	Quantity        int64  `json:"quantity"`
	MinimumQuantity int64  `json:"minimum_quantity"`
	Slack           int64  `json:"slack"` // quantity - minimum_quantity
	Location        string `json:"location,omitempty"`
}

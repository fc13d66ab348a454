package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultUnit unidad usada cuando el ítem no declara una.
const DefaultUnit = "pcs"

// InventoryItem representa un SKU del inventario.
// Quantity y MinimumQuantity nunca son negativos; Quantity solo cambia vía transacciones
// o al crear el ítem.
type InventoryItem struct {
	ID              int64
	Name            string
	Description     string
	SKU             string // único global
	CategoryID      int64
	Quantity        int64
	MinimumQuantity int64 // punto de reorden
	UnitPrice       decimal.Decimal
	Unit            string
	Supplier        string
	Location        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsLowStock indica si la cantidad está en o por debajo del mínimo.
func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.MinimumQuantity
}

// Slack margen entre la cantidad actual y el mínimo (negativo si está por debajo).
func (i *InventoryItem) Slack() int64 {
	return i.Quantity - i.MinimumQuantity
}

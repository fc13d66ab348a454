package repository

import "github.com/jhoicas/stock-tracker/internal/domain/entity"

// InventoryItemRepository define el puerto de persistencia para InventoryItem (DIP).
type InventoryItemRepository interface {
	Create(item *entity.InventoryItem) error
	GetByID(id int64) (*entity.InventoryItem, error)
	GetBySKU(sku string) (*entity.InventoryItem, error)
	List() ([]*entity.InventoryItem, error)
	Update(item *entity.InventoryItem) error
	Delete(id int64) error
	// CountByCategory número de ítems que referencian la categoría.
	CountByCategory(categoryID int64) (int, error)
}

package repository

import "github.com/jhoicas/stock-tracker/internal/domain/entity"

// TransactionRepository define el puerto de persistencia para transacciones de inventario (DIP).
type TransactionRepository interface {
	// Create asigna ID y CreatedAt; CreatedAt no cambia después.
	Create(tx *entity.Transaction) error
	GetByID(id int64) (*entity.Transaction, error)
	List() ([]*entity.Transaction, error)
	ListByItem(itemID int64) ([]*entity.Transaction, error)
	UpdateNotes(id int64, notes string) (*entity.Transaction, error)
	Delete(id int64) error
	CountByItem(itemID int64) (int, error)
}

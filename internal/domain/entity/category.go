package entity

import "time"

// Category agrupa ítems de inventario. El nombre es único sin distinguir mayúsculas.
type Category struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

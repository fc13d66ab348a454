package repository

import "github.com/jhoicas/stock-tracker/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
// Las búsquedas devuelven (nil, nil) cuando el registro no existe.
type UserRepository interface {
	// Create asigna ID y timestamps sobre user.
	Create(user *entity.User) error
	GetByID(id int64) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	List() ([]*entity.User, error)
	// Update reemplaza el registro y refresca UpdatedAt.
	Update(user *entity.User) error
	Delete(id int64) error
}

package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/ports"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo   repository.UserRepository
	tx     ports.TxRunner
	hasher ports.PasswordHasher
	now    func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, tx ports.TxRunner, hasher ports.PasswordHasher) *UserUseCase {
	return &UserUseCase{repo: repo, tx: tx, hasher: hasher, now: time.Now}
}

// SetClock reemplaza el reloj (tests).
func (uc *UserUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// List usuarios filtrados por búsqueda (username, email, nombre), rol y estado; más recientes primero.
func (uc *UserUseCase) List(ctx context.Context, f dto.UserFilter) (*dto.Page[dto.UserResponse], error) {
	f.Normalize()
	users, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	filtered := make([]*entity.User, 0, len(users))
	for _, u := range users {
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Username), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) &&
			!strings.Contains(strings.ToLower(u.FullName), search) {
			continue
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if (f.Status == dto.StatusActive && !u.IsActive) || (f.Status == dto.StatusInactive && u.IsActive) {
			continue
		}
		filtered = append(filtered, u)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].ID > filtered[j].ID
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	page := dto.Paginate(filtered, f.PageRequest)
	items := make([]dto.UserResponse, 0, len(page))
	for _, u := range page {
		items = append(items, dto.NewUserResponse(u))
	}
	return &dto.Page[dto.UserResponse]{Items: items, Pagination: dto.NewPagination(f.PageRequest, len(filtered))}, nil
}

// GetByID obtiene un usuario. Un no-admin solo puede consultarse a sí mismo.
func (uc *UserUseCase) GetByID(ctx context.Context, actor dto.Actor, id int64) (*dto.UserResponse, error) {
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, domain.ErrForbidden
	}
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	out := dto.NewUserResponse(user)
	return &out, nil
}

// Create registra un usuario activo. Devuelve ErrDuplicate si el username ya existe.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || len(in.Password) < 6 || !entity.ValidRole(in.Role) {
		return nil, domain.ErrInvalidInput
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     true,
	}
	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		existing, err := repos.Users.GetByUsername(username)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: el username %q ya existe", domain.ErrDuplicate, username)
		}
		return repos.Users.Create(user)
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewUserResponse(user)
	return &out, nil
}

// Update modifica los campos presentes en in. Rol, estado y contraseña solo los cambia un admin;
// no se puede degradar ni desactivar al último admin activo.
func (uc *UserUseCase) Update(ctx context.Context, actor dto.Actor, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !actor.IsAdmin() {
		if actor.UserID != id {
			return nil, domain.ErrForbidden
		}
		if in.Role != nil || in.IsActive != nil || in.Password != nil {
			return nil, fmt.Errorf("%w: rol, estado y contraseña solo los modifica un admin", domain.ErrForbidden)
		}
	}
	if in.IsEmpty() {
		return nil, fmt.Errorf("%w: no hay información para actualizar", domain.ErrInvalidInput)
	}
	if in.Role != nil && !entity.ValidRole(*in.Role) {
		return nil, fmt.Errorf("%w: rol inválido", domain.ErrInvalidInput)
	}
	var hash string
	if in.Password != nil {
		if len(*in.Password) < 6 {
			return nil, fmt.Errorf("%w: la contraseña debe tener al menos 6 caracteres", domain.ErrInvalidInput)
		}
		h, err := uc.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	var updated *entity.User
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		user, err := repos.Users.GetByID(id)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		wasActiveAdmin := user.IsAdmin() && user.IsActive
		if in.FullName != nil {
			user.FullName = strings.TrimSpace(*in.FullName)
		}
		if in.Email != nil {
			user.Email = strings.TrimSpace(*in.Email)
		}
		if in.Role != nil {
			user.Role = *in.Role
		}
		if in.IsActive != nil {
			user.IsActive = *in.IsActive
		}
		if hash != "" {
			user.PasswordHash = hash
		}
		if wasActiveAdmin && !(user.IsAdmin() && user.IsActive) {
			remaining, err := countActiveAdmins(repos.Users, id)
			if err != nil {
				return err
			}
			if remaining == 0 {
				return fmt.Errorf("%w: debe existir al menos un admin activo", domain.ErrIntegrity)
			}
		}
		if err := repos.Users.Update(user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewUserResponse(updated)
	return &out, nil
}

// Delete elimina un usuario. Nadie puede eliminarse a sí mismo ni eliminar al último admin activo.
func (uc *UserUseCase) Delete(ctx context.Context, actor dto.Actor, id int64) error {
	if actor.UserID == id {
		return fmt.Errorf("%w: no puede eliminar su propia cuenta", domain.ErrIntegrity)
	}
	return uc.tx.Run(ctx, func(repos repository.Repositories) error {
		user, err := repos.Users.GetByID(id)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		if user.IsAdmin() && user.IsActive {
			remaining, err := countActiveAdmins(repos.Users, id)
			if err != nil {
				return err
			}
			if remaining == 0 {
				return fmt.Errorf("%w: no se puede eliminar el último admin activo", domain.ErrIntegrity)
			}
		}
		return repos.Users.Delete(id)
	})
}

// Stats conteos de usuarios; todayLogins cuenta accesos desde la medianoche local.
func (uc *UserUseCase) Stats(ctx context.Context) (*dto.UserStatsResponse, error) {
	users, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	now := uc.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	out := &dto.UserStatsResponse{Total: len(users)}
	for _, u := range users {
		if u.IsActive {
			out.Active++
		}
		if u.IsAdmin() {
			out.Admins++
		}
		if u.LastLoginAt != nil && !u.LastLoginAt.Before(midnight) {
			out.TodayLogins++
		}
	}
	return out, nil
}

// countActiveAdmins admins activos distintos de excludeID.
func countActiveAdmins(repo repository.UserRepository, excludeID int64) (int, error) {
	users, err := repo.List()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, u := range users {
		if u.ID != excludeID && u.IsAdmin() && u.IsActive {
			n++
		}
	}
	return n, nil
}

// IsActive indica si el usuario existe y está activo. Un usuario borrado cuenta como inactivo.
func (uc *UserUseCase) IsActive(ctx context.Context, id int64) (bool, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return false, err
	}
	return user != nil && user.IsActive, nil
}

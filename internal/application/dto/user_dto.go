package dto

import (
	"time"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// Estados derivados de User.IsActive.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Actor identidad autenticada que ejecuta un caso de uso (claims del token).
type Actor struct {
	UserID   int64
	Username string
	Role     string
}

// IsAdmin indica si el actor tiene rol admin.
func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
	Role     string `json:"role" validate:"required,oneof=admin employee"`
}

// UpdateUserRequest campos mutables de un usuario. Role, IsActive y Password solo los cambia un admin.
type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin employee"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// IsEmpty indica que no hay nada que actualizar.
func (r UpdateUserRequest) IsEmpty() bool {
	return r.FullName == nil && r.Email == nil && r.Role == nil && r.IsActive == nil && r.Password == nil
}

// UserFilter filtros de GET /users.
type UserFilter struct {
	PageRequest
	Search string `query:"search"`
	Role   string `query:"role"`
	Status string `query:"status"` // active | inactive
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserStatsResponse salida de GET /users/stats.
type UserStatsResponse struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Admins      int `json:"admins"`
	TodayLogins int `json:"todayLogins"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// ChangePasswordRequest entrada de PUT /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// NewUserResponse proyecta un usuario sin su credencial.
func NewUserResponse(u *entity.User) UserResponse {
	status := StatusActive
	if !u.IsActive {
		status = StatusInactive
	}
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        u.Role,
		Status:      status,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

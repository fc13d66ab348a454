package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/ports"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
	"github.com/jhoicas/stock-tracker/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login, perfil y cambio de contraseña.
type AuthUseCase struct {
	users  repository.UserRepository
	tx     ports.TxRunner
	hasher ports.PasswordHasher
	jwtCfg JWTConfig
	now    func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, tx ports.TxRunner, hasher ports.PasswordHasher, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{users: users, tx: tx, hasher: hasher, jwtCfg: jwtCfg, now: time.Now}
}

// SetClock reemplaza el reloj (tests).
func (uc *AuthUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// Login verifica usuario/password, registra el último acceso y emite un JWT.
// Usuario inexistente o password incorrecto devuelven ErrUnauthorized; cuenta inactiva ErrForbidden.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.users.GetByUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := uc.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}

	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		u, err := repos.Users.GetByID(user.ID)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUnauthorized
		}
		at := uc.now().UTC()
		u.LastLoginAt = &at
		if err := repos.Users.Update(u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Success: true,
		Token:   token,
		User:    dto.NewUserResponse(user),
	}, nil
}

// Me devuelve el usuario del token. El token puede seguir siendo válido aunque el usuario
// ya no exista; en ese caso devuelve ErrUserNotFound.
func (uc *AuthUseCase) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	out := dto.NewUserResponse(user)
	return &out, nil
}

// ChangePassword valida la contraseña actual y guarda el hash de la nueva.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID int64, in dto.ChangePasswordRequest) error {
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return fmt.Errorf("%w: contraseña actual y nueva son requeridas", domain.ErrInvalidInput)
	}
	if len(in.NewPassword) < 6 {
		return fmt.Errorf("%w: la nueva contraseña debe tener al menos 6 caracteres", domain.ErrInvalidInput)
	}
	return uc.tx.Run(ctx, func(repos repository.Repositories) error {
		user, err := repos.Users.GetByID(userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		if err := uc.hasher.Compare(user.PasswordHash, in.CurrentPassword); err != nil {
			return fmt.Errorf("%w: la contraseña actual es incorrecta", domain.ErrInvalidInput)
		}
		hash, err := uc.hasher.Hash(in.NewPassword)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		return repos.Users.Update(user)
	})
}

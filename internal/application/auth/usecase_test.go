package auth_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-tracker/internal/application/auth"
	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/jsonstore"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/security"
	pkgjwt "github.com/jhoicas/stock-tracker/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

type fixture struct {
	uc     *auth.AuthUseCase
	repos  repository.Repositories
	hasher *security.BcryptHasher
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	store, err := jsonstore.Open(jsonstore.Options{
		Path:          filepath.Join(t.TempDir(), "inventory.json"),
		Hasher:        hasher,
		AdminPassword: "admin123",
	})
	require.NoError(t, err)
	repos := store.Repositories()
	uc := auth.NewAuthUseCase(repos.Users, jsonstore.NewTxRunner(store), hasher, auth.JWTConfig{
		Secret: testSecret, ExpMinutes: 60, Issuer: "stock-tracker-test",
	})
	return fixture{uc: uc, repos: repos, hasher: hasher}
}

func TestLogin_CredencialesCorrectas(t *testing.T) {
	f := newFixture(t)
	loginAt := time.Date(2025, 5, 2, 9, 30, 0, 0, time.UTC)
	f.uc.SetClock(func() time.Time { return loginAt })

	out, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, "admin", out.User.Username)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)

	claims, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, entity.RoleAdmin, claims.Role)

	admin, err := f.repos.Users.GetByID(1)
	require.NoError(t, err)
	require.NotNil(t, admin.LastLoginAt)
	assert.Equal(t, loginAt, *admin.LastLoginAt)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "nope"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "fantasma", Password: "admin123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsernameSensibleAMayusculas(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "Admin", Password: "admin123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	f := newFixture(t)
	hash, err := f.hasher.Hash("clave123")
	require.NoError(t, err)
	require.NoError(t, f.repos.Users.Create(&entity.User{
		Username: "ana", Email: "ana@company.com", PasswordHash: hash, Role: entity.RoleEmployee, IsActive: false,
	}))

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "clave123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMe_UsuarioEliminado(t *testing.T) {
	f := newFixture(t)
	hash, err := f.hasher.Hash("clave123")
	require.NoError(t, err)
	u := &entity.User{Username: "luis", Email: "luis@company.com", PasswordHash: hash, Role: entity.RoleEmployee, IsActive: true}
	require.NoError(t, f.repos.Users.Create(u))

	out, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "luis", Password: "clave123"})
	require.NoError(t, err)
	require.NoError(t, f.repos.Users.Delete(u.ID))

	claims, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err, "el token sigue siendo válido")

	_, err = f.uc.Me(context.Background(), claims.UserID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.uc.ChangePassword(ctx, 1, dto.ChangePasswordRequest{CurrentPassword: "mala", NewPassword: "nueva123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = f.uc.ChangePassword(ctx, 1, dto.ChangePasswordRequest{CurrentPassword: "admin123", NewPassword: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = f.uc.ChangePassword(ctx, 1, dto.ChangePasswordRequest{CurrentPassword: "admin123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = f.uc.ChangePassword(ctx, 99, dto.ChangePasswordRequest{CurrentPassword: "admin123", NewPassword: "nueva123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	require.NoError(t, f.uc.ChangePassword(ctx, 1, dto.ChangePasswordRequest{CurrentPassword: "admin123", NewPassword: "nueva123"}))

	_, err = f.uc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "admin123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.uc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "nueva123"})
	assert.NoError(t, err)
}

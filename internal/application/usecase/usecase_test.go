package usecase_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/usecase"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/jsonstore"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/security"
)

var adminActor = dto.Actor{UserID: 1, Username: "admin", Role: entity.RoleAdmin}

func ptr[T any](v T) *T { return &v }

type fixture struct {
	users      *usecase.UserUseCase
	categories *usecase.CategoryUseCase
	repos      repository.Repositories
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
	runner := jsonstore.NewTxRunner(store)
	return fixture{
		users:      usecase.NewUserUseCase(repos.Users, runner, hasher),
		categories: usecase.NewCategoryUseCase(repos.Categories, repos.Items, runner),
		repos:      repos,
	}
}

func (f fixture) createEmployee(t *testing.T, username string) *dto.UserResponse {
	t.Helper()
	u, err := f.users.Create(context.Background(), dto.CreateUserRequest{
		Username: username, Password: "clave123", Email: username + "@company.com", Role: entity.RoleEmployee,
	})
	require.NoError(t, err)
	return u
}

// ── Usuarios ────────────────────────────────────────────────────────────────

func TestUserCreate_UsernameDuplicado(t *testing.T) {
	f := newFixture(t)
	f.createEmployee(t, "ana")

	_, err := f.users.Create(context.Background(), dto.CreateUserRequest{
		Username: "ana", Password: "otra123", Email: "ana2@company.com", Role: entity.RoleEmployee,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUserCreate_GuardaHash(t *testing.T) {
	f := newFixture(t)
	out := f.createEmployee(t, "ana")
	assert.Equal(t, dto.StatusActive, out.Status)

	stored, err := f.repos.Users.GetByID(out.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "clave123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("clave123")))
}

func TestUserDelete_UltimoAdmin(t *testing.T) {
	f := newFixture(t)
	other := dto.Actor{UserID: 50, Role: entity.RoleAdmin}
	err := f.users.Delete(context.Background(), other, 1)
	assert.ErrorIs(t, err, domain.ErrIntegrity)
}

// Un admin inactivo no cuenta: borrar al único admin activo dejaría el sistema sin acceso.
func TestUserDelete_UltimoAdminActivoConOtroInactivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root, err := f.users.Create(ctx, dto.CreateUserRequest{
		Username: "root", Password: "clave123", Email: "root@company.com", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)
	_, err = f.users.Update(ctx, adminActor, root.ID, dto.UpdateUserRequest{IsActive: ptr(false)})
	require.NoError(t, err)

	err = f.users.Delete(ctx, dto.Actor{UserID: root.ID, Role: entity.RoleAdmin}, 1)
	assert.ErrorIs(t, err, domain.ErrIntegrity)

	// El admin inactivo sí puede eliminarse.
	require.NoError(t, f.users.Delete(ctx, adminActor, root.ID))
}

func TestUserDelete_PropiaCuenta(t *testing.T) {
	f := newFixture(t)
	err := f.users.Delete(context.Background(), adminActor, 1)
	assert.ErrorIs(t, err, domain.ErrIntegrity)
}

func TestUserDelete_Empleado(t *testing.T) {
	f := newFixture(t)
	ana := f.createEmployee(t, "ana")
	require.NoError(t, f.users.Delete(context.Background(), adminActor, ana.ID))

	_, err := f.users.GetByID(context.Background(), adminActor, ana.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserIsActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.createEmployee(t, "ana")

	active, err := f.users.IsActive(ctx, ana.ID)
	require.NoError(t, err)
	assert.True(t, active)

	_, err = f.users.Update(ctx, adminActor, ana.ID, dto.UpdateUserRequest{IsActive: ptr(false)})
	require.NoError(t, err)
	active, err = f.users.IsActive(ctx, ana.ID)
	require.NoError(t, err)
	assert.False(t, active)

	active, err = f.users.IsActive(ctx, 999)
	require.NoError(t, err)
	assert.False(t, active, "un usuario inexistente no está activo")
}

func TestUserUpdate_EmpleadoNoCambiaRol(t *testing.T) {
	f := newFixture(t)
	ana := f.createEmployee(t, "ana")
	actor := dto.Actor{UserID: ana.ID, Username: "ana", Role: entity.RoleEmployee}

	_, err := f.users.Update(context.Background(), actor, ana.ID, dto.UpdateUserRequest{Role: ptr(entity.RoleAdmin)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := f.users.Update(context.Background(), actor, ana.ID, dto.UpdateUserRequest{FullName: ptr("Ana Pérez")})
	require.NoError(t, err)
	assert.Equal(t, "Ana Pérez", out.FullName)
}

func TestUserUpdate_EmpleadoNoEditaOtros(t *testing.T) {
	f := newFixture(t)
	ana := f.createEmployee(t, "ana")
	actor := dto.Actor{UserID: ana.ID, Role: entity.RoleEmployee}

	_, err := f.users.Update(context.Background(), actor, 1, dto.UpdateUserRequest{FullName: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.users.GetByID(context.Background(), actor, 1)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUserUpdate_NoDegradaUltimoAdmin(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Update(context.Background(), adminActor, 1, dto.UpdateUserRequest{Role: ptr(entity.RoleEmployee)})
	assert.ErrorIs(t, err, domain.ErrIntegrity)

	_, err = f.users.Update(context.Background(), adminActor, 1, dto.UpdateUserRequest{IsActive: ptr(false)})
	assert.ErrorIs(t, err, domain.ErrIntegrity)
}

func TestUserUpdate_SinCampos(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Update(context.Background(), adminActor, 1, dto.UpdateUserRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserList_FiltrosYPaginacion(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"ana", "beto", "carla"} {
		f.createEmployee(t, name)
	}
	_, err := f.users.Update(context.Background(), adminActor, 3, dto.UpdateUserRequest{IsActive: ptr(false)})
	require.NoError(t, err)

	page, err := f.users.List(context.Background(), dto.UserFilter{Role: entity.RoleEmployee, PageRequest: dto.PageRequest{Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Len(t, page.Items, 2)

	inactive, err := f.users.List(context.Background(), dto.UserFilter{Status: dto.StatusInactive})
	require.NoError(t, err)
	require.Len(t, inactive.Items, 1)
	assert.Equal(t, "beto", inactive.Items[0].Username)

	search, err := f.users.List(context.Background(), dto.UserFilter{Search: "CARLA@"})
	require.NoError(t, err)
	require.Len(t, search.Items, 1)
	assert.Equal(t, "carla", search.Items[0].Username)
}

func TestUserStats(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2025, 6, 4, 15, 0, 0, 0, time.UTC)
	f.users.SetClock(func() time.Time { return now })

	f.createEmployee(t, "ana")
	beto := f.createEmployee(t, "beto")
	_, err := f.users.Update(context.Background(), adminActor, beto.ID, dto.UpdateUserRequest{IsActive: ptr(false)})
	require.NoError(t, err)

	admin, err := f.repos.Users.GetByID(1)
	require.NoError(t, err)
	at := now.Add(-2 * time.Hour)
	admin.LastLoginAt = &at
	require.NoError(t, f.repos.Users.Update(admin))

	stats, err := f.users.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 1, stats.Admins)
	assert.Equal(t, 1, stats.TodayLogins)
}

// ── Categorías ──────────────────────────────────────────────────────────────

func TestCategoryCreate_NombreDuplicadoSinMayusculas(t *testing.T) {
	f := newFixture(t)
	_, err := f.categories.Create(context.Background(), dto.CreateCategoryRequest{Name: "  ELECTRÓNICA "})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCategoryCreate_NombreVacio(t *testing.T) {
	f := newFixture(t)
	_, err := f.categories.Create(context.Background(), dto.CreateCategoryRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategoryList_OrdenadoPorNombre(t *testing.T) {
	f := newFixture(t)
	_, err := f.categories.Create(context.Background(), dto.CreateCategoryRequest{Name: "Aseo"})
	require.NoError(t, err)

	list, err := f.categories.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Aseo", list[0].Name)
	assert.Equal(t, "Electrónica", list[1].Name)
	assert.Equal(t, "Papelería", list[2].Name)
	assert.Equal(t, 1, list[1].ItemCount)
}

func TestCategoryUpdate_MismoNombrePropio(t *testing.T) {
	f := newFixture(t)
	out, err := f.categories.Update(context.Background(), 1, dto.UpdateCategoryRequest{Name: ptr("electrónica")})
	require.NoError(t, err)
	assert.Equal(t, "electrónica", out.Name)

	_, err = f.categories.Update(context.Background(), 1, dto.UpdateCategoryRequest{Name: ptr("Papelería")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.categories.Update(context.Background(), 99, dto.UpdateCategoryRequest{Name: ptr("Nueva")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryDelete_ConItemsRechazado(t *testing.T) {
	f := newFixture(t)
	err := f.categories.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrIntegrity)

	created, err := f.categories.Create(context.Background(), dto.CreateCategoryRequest{Name: "Vacía"})
	require.NoError(t, err)
	require.NoError(t, f.categories.Delete(context.Background(), created.ID))
}

func TestSameCategoryName(t *testing.T) {
	assert.True(t, usecase.SameCategoryName("Papelería", "PAPELERÍA"))
	assert.False(t, usecase.SameCategoryName("Papelería", "Papeleria"))
}

package inventory_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/jsonstore"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/security"
)

const (
	notebookID = int64(1) // NB-001: 10 unidades, mínimo 2
	penID      = int64(2) // PEN-001: 100 unidades, mínimo 20
)

var actor = dto.Actor{UserID: 1, Username: "admin", Role: entity.RoleAdmin}

func ptr[T any](v T) *T { return &v }

type fixture struct {
	items    *inventory.ItemUseCase
	txs      *inventory.TransactionUseCase
	lowStock *inventory.LowStockUseCase
	repos    repository.Repositories
	clock    *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2025, 4, 16, 10, 0, 0, 0, time.UTC)
	f := &fixture{clock: &now}
	store, err := jsonstore.Open(jsonstore.Options{
		Path:          filepath.Join(t.TempDir(), "inventory.json"),
		Hasher:        security.NewBcryptHasher(bcrypt.MinCost),
		AdminPassword: "admin123",
		Now:           func() time.Time { return *f.clock },
	})
	require.NoError(t, err)
	f.repos = store.Repositories()
	runner := jsonstore.NewTxRunner(store)
	f.items = inventory.NewItemUseCase(f.repos.Items, f.repos.Categories, runner)
	f.txs = inventory.NewTransactionUseCase(f.repos.Transactions, f.repos.Items, f.repos.Users, runner)
	f.txs.SetClock(func() time.Time { return *f.clock })
	f.lowStock = inventory.NewLowStockUseCase(f.repos.Items, f.repos.Categories, nil)
	return f
}

func (f *fixture) quantity(t *testing.T, id int64) int64 {
	t.Helper()
	it, err := f.repos.Items.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it.Quantity
}

func (f *fixture) record(t *testing.T, itemID int64, typ string, qty int64) *dto.TransactionResponse {
	t.Helper()
	out, err := f.txs.Create(context.Background(), actor, dto.CreateTransactionRequest{InventoryID: itemID, Type: typ, Quantity: qty})
	require.NoError(t, err)
	return out
}

// ── Transacciones ───────────────────────────────────────────────────────────

func TestCreateTransaction_SalidaGeneraAlertaStockBajo(t *testing.T) {
	f := newFixture(t)

	out := f.record(t, penID, entity.TransactionTypeOut, 90)
	assert.Equal(t, "PEN-001", out.InventorySKU)
	assert.Equal(t, "admin", out.UserName)
	assert.True(t, decimal.NewFromInt(1000).Equal(out.UnitPrice))
	assert.True(t, decimal.NewFromInt(90000).Equal(out.TotalPrice))
	assert.Equal(t, int64(10), f.quantity(t, penID))

	alerts, err := f.lowStock.List(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "PEN-001", alerts[0].SKU)
	assert.Equal(t, int64(-10), alerts[0].Slack)
}

func TestCreateTransaction_StockInsuficienteNoPersiste(t *testing.T) {
	f := newFixture(t)

	_, err := f.txs.Create(context.Background(), actor, dto.CreateTransactionRequest{InventoryID: notebookID, Type: entity.TransactionTypeOut, Quantity: 11})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), f.quantity(t, notebookID))

	n, err := f.repos.Transactions.CountByItem(notebookID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateTransaction_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.txs.Create(ctx, actor, dto.CreateTransactionRequest{InventoryID: penID, Type: "adjust", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.txs.Create(ctx, actor, dto.CreateTransactionRequest{InventoryID: penID, Type: entity.TransactionTypeIn, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.txs.Create(ctx, actor, dto.CreateTransactionRequest{InventoryID: 99, Type: entity.TransactionTypeIn, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteTransaction_RevierteExactamente(t *testing.T) {
	f := newFixture(t)

	out := f.record(t, notebookID, entity.TransactionTypeOut, 5)
	assert.Equal(t, int64(5), f.quantity(t, notebookID))

	require.NoError(t, f.txs.Delete(context.Background(), out.ID))
	assert.Equal(t, int64(10), f.quantity(t, notebookID))

	_, err := f.txs.GetByID(context.Background(), out.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteTransaction_EntradaConsumidaRechazada(t *testing.T) {
	f := newFixture(t)

	in := f.record(t, notebookID, entity.TransactionTypeIn, 5)  // 15
	f.record(t, notebookID, entity.TransactionTypeOut, 12)       // 3

	err := f.txs.Delete(context.Background(), in.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), f.quantity(t, notebookID))

	got, err := f.txs.GetByID(context.Background(), in.ID)
	require.NoError(t, err)
	assert.Equal(t, in.ID, got.ID)
}

func TestUpdateTransaction_SoloNotas(t *testing.T) {
	f := newFixture(t)
	out := f.record(t, penID, entity.TransactionTypeIn, 3)

	updated, err := f.txs.UpdateNotes(context.Background(), out.ID, dto.UpdateTransactionRequest{Notes: ptr("reposición semanal")})
	require.NoError(t, err)
	assert.Equal(t, "reposición semanal", updated.Notes)
	assert.Equal(t, out.Quantity, updated.Quantity)
	assert.Equal(t, out.CreatedAt, updated.CreatedAt)

	_, err = f.txs.UpdateNotes(context.Background(), out.ID, dto.UpdateTransactionRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListTransactions_FiltrosYFechas(t *testing.T) {
	f := newFixture(t)

	*f.clock = time.Date(2025, 4, 14, 8, 0, 0, 0, time.UTC)
	f.record(t, penID, entity.TransactionTypeOut, 1)
	*f.clock = time.Date(2025, 4, 15, 23, 30, 0, 0, time.UTC)
	f.record(t, notebookID, entity.TransactionTypeIn, 2)
	*f.clock = time.Date(2025, 4, 16, 9, 0, 0, 0, time.UTC)
	last := f.record(t, penID, entity.TransactionTypeIn, 3)

	ctx := context.Background()
	all, err := f.txs.List(ctx, dto.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
	assert.Equal(t, last.ID, all.Items[0].ID, "más recientes primero")

	byDay, err := f.txs.List(ctx, dto.TransactionFilter{StartDate: "2025-04-15", EndDate: "2025-04-15"})
	require.NoError(t, err)
	require.Len(t, byDay.Items, 1, "end_date incluye el día completo")
	assert.Equal(t, "NB-001", byDay.Items[0].InventorySKU)

	ins, err := f.txs.List(ctx, dto.TransactionFilter{Type: entity.TransactionTypeIn, InventoryID: penID})
	require.NoError(t, err)
	require.Len(t, ins.Items, 1)

	search, err := f.txs.List(ctx, dto.TransactionFilter{Search: "pen-"})
	require.NoError(t, err)
	assert.Equal(t, 2, search.Pagination.Total)

	_, err = f.txs.List(ctx, dto.TransactionFilter{StartDate: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistory_PorItem(t *testing.T) {
	f := newFixture(t)
	f.record(t, penID, entity.TransactionTypeOut, 1)
	f.record(t, notebookID, entity.TransactionTypeOut, 1)
	f.record(t, penID, entity.TransactionTypeOut, 2)

	page, err := f.txs.History(context.Background(), penID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Pagination.Total)
	assert.Equal(t, 10, page.Pagination.Limit)

	_, err = f.txs.History(context.Background(), 99, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuantityNuncaNegativa(t *testing.T) {
	f := newFixture(t)
	ops := []struct {
		typ string
		qty int64
	}{
		{entity.TransactionTypeOut, 4}, {entity.TransactionTypeOut, 7}, {entity.TransactionTypeIn, 2},
		{entity.TransactionTypeOut, 8}, {entity.TransactionTypeOut, 1}, {entity.TransactionTypeIn, 1},
	}
	for _, op := range ops {
		_, _ = f.txs.Create(context.Background(), actor, dto.CreateTransactionRequest{InventoryID: notebookID, Type: op.typ, Quantity: op.qty})
		assert.GreaterOrEqual(t, f.quantity(t, notebookID), int64(0))
	}
	list, err := f.repos.Transactions.List()
	require.NoError(t, err)
	for i := len(list) - 1; i >= 0; i-- {
		_ = f.txs.Delete(context.Background(), list[i].ID)
		assert.GreaterOrEqual(t, f.quantity(t, notebookID), int64(0))
	}
	assert.Equal(t, int64(10), f.quantity(t, notebookID))
}

// ── Ítems ───────────────────────────────────────────────────────────────────

func newItemRequest(sku string) dto.CreateInventoryItemRequest {
	return dto.CreateInventoryItemRequest{
		Name:            "Grapadora",
		SKU:             sku,
		CategoryID:      2,
		Quantity:        ptr(int64(5)),
		MinimumQuantity: ptr(int64(1)),
		UnitPrice:       ptr(decimal.RequireFromString("12500.50")),
	}
}

func TestCreateItem(t *testing.T) {
	f := newFixture(t)
	out, err := f.items.Create(context.Background(), newItemRequest("GR-001"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.ID)
	assert.Equal(t, "Papelería", out.CategoryName)
	assert.Equal(t, entity.DefaultUnit, out.Unit)
	assert.False(t, out.LowStock)
}

func TestCreateItem_SKUDuplicado(t *testing.T) {
	f := newFixture(t)
	_, err := f.items.Create(context.Background(), newItemRequest("PEN-001"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateItem_CategoriaInexistente(t *testing.T) {
	f := newFixture(t)
	req := newItemRequest("GR-001")
	req.CategoryID = 42
	_, err := f.items.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateItem_ValoresNegativos(t *testing.T) {
	f := newFixture(t)
	req := newItemRequest("GR-001")
	req.UnitPrice = ptr(decimal.NewFromInt(-1))
	_, err := f.items.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = newItemRequest("GR-001")
	req.Quantity = nil
	_, err = f.items.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.items.Update(ctx, penID, dto.UpdateInventoryItemRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.items.Update(ctx, penID, dto.UpdateInventoryItemRequest{SKU: ptr("NB-001")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	out, err := f.items.Update(ctx, penID, dto.UpdateInventoryItemRequest{MinimumQuantity: ptr(int64(150)), Location: ptr("Bodega C")})
	require.NoError(t, err)
	assert.Equal(t, int64(100), out.Quantity)
	assert.True(t, out.LowStock)
	assert.Equal(t, "Bodega C", out.Location)
}

func TestDeleteItem_ConTransaccionesRechazado(t *testing.T) {
	f := newFixture(t)
	f.record(t, penID, entity.TransactionTypeIn, 1)

	err := f.items.Delete(context.Background(), penID)
	assert.ErrorIs(t, err, domain.ErrIntegrity)

	require.NoError(t, f.items.Delete(context.Background(), notebookID))
	_, err = f.items.GetByID(context.Background(), notebookID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListItems_Filtros(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	page, err := f.items.List(ctx, dto.InventoryFilter{Search: "pen"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Papelería", page.Items[0].CategoryName)

	page, err = f.items.List(ctx, dto.InventoryFilter{CategoryID: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "NB-001", page.Items[0].SKU)

	page, err = f.items.List(ctx, dto.InventoryFilter{LowStock: "true"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = f.items.List(ctx, dto.InventoryFilter{PageRequest: dto.PageRequest{Page: 1, Limit: 500}})
	require.NoError(t, err)
	assert.Equal(t, dto.MaxLimit, page.Pagination.Limit)
	assert.Equal(t, 2, page.Pagination.Total)
}

func TestLowStock_OrdenPorMargen(t *testing.T) {
	f := newFixture(t)
	f.record(t, notebookID, entity.TransactionTypeOut, 9) // 1 vs 2  → -1
	f.record(t, penID, entity.TransactionTypeOut, 85)     // 15 vs 20 → -5

	alerts, err := f.lowStock.List(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "PEN-001", alerts[0].SKU)
	assert.Equal(t, "NB-001", alerts[1].SKU)
}

type reportStub struct {
	generatedAt time.Time
	items       []dto.LowStockItemResponse
}

func (r *reportStub) GenerateLowStockReport(_ context.Context, generatedAt time.Time, items []dto.LowStockItemResponse) ([]byte, error) {
	r.generatedAt, r.items = generatedAt, items
	return []byte("%PDF-stub"), nil
}

func TestLowStockReport_UsaLaListaDeAlertas(t *testing.T) {
	f := newFixture(t)
	f.record(t, penID, entity.TransactionTypeOut, 90)

	stub := &reportStub{}
	uc := inventory.NewLowStockUseCase(f.repos.Items, f.repos.Categories, stub)
	uc.SetClock(func() time.Time { return *f.clock })

	out, err := uc.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-stub"), out)
	require.Len(t, stub.items, 1)
	assert.Equal(t, "PEN-001", stub.items[0].SKU)
	assert.True(t, stub.generatedAt.Equal(*f.clock))
}

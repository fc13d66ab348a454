package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/inventory"
)

func TestApplyMovement_EntradaSuma(t *testing.T) {
	got, err := inventory.ApplyMovement(10, entity.TransactionTypeIn, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), got)
}

func TestApplyMovement_SalidaResta(t *testing.T) {
	got, err := inventory.ApplyMovement(10, entity.TransactionTypeOut, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got, "una salida igual al stock deja la cantidad en cero")
}

func TestApplyMovement_SalidaMayorQueStock(t *testing.T) {
	got, err := inventory.ApplyMovement(10, entity.TransactionTypeOut, 11)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), got, "la cantidad no cambia si la salida se rechaza")
}

func TestApplyMovement_EntradaInvalida(t *testing.T) {
	_, err := inventory.ApplyMovement(10, entity.TransactionTypeIn, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.ApplyMovement(10, "adjust", 3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReverseMovement_EsInversaExacta(t *testing.T) {
	cases := []struct {
		typ string
		qty int64
	}{
		{entity.TransactionTypeIn, 7},
		{entity.TransactionTypeOut, 5},
	}
	for _, tc := range cases {
		after, err := inventory.ApplyMovement(10, tc.typ, tc.qty)
		require.NoError(t, err)
		tx := &entity.Transaction{Type: tc.typ, Quantity: tc.qty}
		restored, err := inventory.ReverseMovement(after, tx)
		require.NoError(t, err)
		assert.Equal(t, int64(10), restored, tc.typ)
	}
}

func TestReverseMovement_RechazaNegativos(t *testing.T) {
	// Entrada de 8 ya consumida por otras salidas: revertirla dejaría la cantidad en -5.
	tx := &entity.Transaction{Type: entity.TransactionTypeIn, Quantity: 8}
	got, err := inventory.ReverseMovement(3, tx)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), got)
}

func TestStockValue(t *testing.T) {
	items := []*entity.InventoryItem{
		{Quantity: 10, UnitPrice: decimal.NewFromInt(1500000)},
		{Quantity: 100, UnitPrice: decimal.RequireFromString("1000.50")},
	}
	assert.True(t, decimal.RequireFromString("15100050").Equal(inventory.StockValue(items)))
}

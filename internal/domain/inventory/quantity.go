package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// ApplyMovement calcula la nueva cantidad de un ítem al registrar una transacción (servicio de dominio).
// in suma, out resta; una salida que deja la cantidad negativa devuelve ErrInsufficientStock.
func ApplyMovement(current int64, txType string, qty int64) (int64, error) {
	if qty <= 0 || !entity.ValidTransactionType(txType) {
		return current, domain.ErrInvalidInput
	}
	next := current + qty
	if txType == entity.TransactionTypeOut {
		next = current - qty
	}
	if next < 0 {
		return current, domain.ErrInsufficientStock
	}
	return next, nil
}

// ReverseMovement deshace el efecto de tx sobre current; es la inversa exacta de ApplyMovement.
// Si la reversión dejaría la cantidad negativa (una entrada ya consumida por salidas
// posteriores) devuelve ErrInsufficientStock y la cantidad original.
func ReverseMovement(current int64, tx *entity.Transaction) (int64, error) {
	next := current - tx.Effect()
	if next < 0 {
		return current, domain.ErrInsufficientStock
	}
	return next, nil
}

// TotalPrice = cantidad * precio unitario.
func TotalPrice(qty int64, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(qty))
}

// StockValue valor del inventario: Σ cantidad * precio unitario.
func StockValue(items []*entity.InventoryItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(TotalPrice(it.Quantity, it.UnitPrice))
	}
	return total
}

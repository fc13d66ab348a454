package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de inventario.
const (
	TransactionTypeIn  = "in"  // entrada
	TransactionTypeOut = "out" // salida
)

// Transaction movimiento de entrada o salida sobre un ítem.
// Solo Notes es mutable después de crearse.
type Transaction struct {
	ID         int64
	ItemID     int64
	UserID     int64
	Type       string // in, out
	Quantity   int64  // siempre > 0
	UnitPrice  decimal.Decimal // precio del ítem al momento de la transacción
	TotalPrice decimal.Decimal // Quantity * UnitPrice
	Notes      string
	CreatedAt  time.Time
}

// Effect cambio que la transacción aplica a la cantidad del ítem.
func (t *Transaction) Effect() int64 {
	if t.Type == TransactionTypeOut {
		return -t.Quantity
	}
	return t.Quantity
}

// ValidTransactionType indica si typ es in u out.
func ValidTransactionType(typ string) bool {
	return typ == TransactionTypeIn || typ == TransactionTypeOut
}

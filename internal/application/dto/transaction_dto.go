package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransactionRequest body de POST /transactions.
type CreateTransactionRequest struct {
	InventoryID int64  `json:"inventory_id" validate:"required,gt=0"`
	Type        string `json:"type" validate:"required,oneof=in out"`
	Quantity    int64  `json:"quantity" validate:"required,gt=0"`
	Notes       string `json:"notes" validate:"max=1000"`
}

// UpdateTransactionRequest solo las notas son editables.
type UpdateTransactionRequest struct {
	Notes *string `json:"notes" validate:"omitempty,max=1000"`
}

// TransactionFilter filtros de GET /transactions. Las fechas aceptan YYYY-MM-DD o RFC 3339;
// end_date incluye el día completo.
type TransactionFilter struct {
	PageRequest
	Type        string `query:"type"`
	InventoryID int64  `query:"inventory_id"`
	StartDate   string `query:"start_date"`
	EndDate     string `query:"end_date"`
	Search      string `query:"search"`
}

// TransactionResponse salida de una transacción con datos del ítem y del usuario.
type TransactionResponse struct {
	ID            int64           `json:"id"`
	InventoryID   int64           `json:"inventory_id"`
	InventoryName string          `json:"inventory_name"`
	InventorySKU  string          `json:"inventory_sku"`
	UserID        int64           `json:"user_id"`
	UserName      string          `json:"user_name"`
	Type          string          `json:"type"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TransactionStatsResponse salida de GET /transactions/stats.
type TransactionStatsResponse struct {
	TodayIn    int64 `json:"todayIn"`
	TodayOut   int64 `json:"todayOut"`
	WeekTotal  int   `json:"weekTotal"`
	MonthTotal int   `json:"monthTotal"`
}

// DashboardStatsResponse salida de GET /dashboard/stats.
type DashboardStatsResponse struct {
	TotalItems         int             `json:"totalItems"`
	LowStockItems      int             `json:"lowStockItems"`
	TotalCategories    int             `json:"totalCategories"`
	RecentTransactions int             `json:"recentTransactions"` // últimos 7 días
	TotalValue         decimal.Decimal `json:"totalValue"`
}

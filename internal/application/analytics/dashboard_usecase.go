// Package analytics contiene los casos de uso de estadísticas: resumen del dashboard
// y conteos de transacciones por periodo.
package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/inventory"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// recentWindow ventana de "transacciones recientes" del dashboard.
const recentWindow = 7 * 24 * time.Hour

// DashboardUseCase genera los resúmenes de inventario y de movimientos.
// Fuente de datos: repositorios en modo lectura.
type DashboardUseCase struct {
	items      repository.InventoryItemRepository
	categories repository.CategoryRepository
	txs        repository.TransactionRepository
	now        func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	items repository.InventoryItemRepository,
	categories repository.CategoryRepository,
	txs repository.TransactionRepository,
) *DashboardUseCase {
	return &DashboardUseCase{items: items, categories: categories, txs: txs, now: time.Now}
}

// SetClock reemplaza el reloj (tests). Su zona horaria define los límites de día.
func (uc *DashboardUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// GetSummary totales de inventario: ítems, ítems en alerta, categorías, transacciones de
// los últimos 7 días y valor del stock (Σ cantidad * precio unitario).
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	items, err := uc.items.List()
	if err != nil {
		return nil, err
	}
	cats, err := uc.categories.List()
	if err != nil {
		return nil, err
	}
	txs, err := uc.txs.List()
	if err != nil {
		return nil, err
	}

	out := &dto.DashboardStatsResponse{
		TotalItems:      len(items),
		TotalCategories: len(cats),
		TotalValue:      inventory.StockValue(items),
	}
	for _, it := range items {
		if it.IsLowStock() {
			out.LowStockItems++
		}
	}
	since := uc.now().Add(-recentWindow)
	for _, t := range txs {
		if !t.CreatedAt.Before(since) {
			out.RecentTransactions++
		}
	}
	return out, nil
}

// TransactionStats unidades de entrada/salida de hoy y número de transacciones de la
// semana (desde el lunes) y del mes en curso.
func (uc *DashboardUseCase) TransactionStats(ctx context.Context) (*dto.TransactionStatsResponse, error) {
	txs, err := uc.txs.List()
	if err != nil {
		return nil, err
	}
	now := uc.now()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.AddDate(0, 0, 1)
	weekStart := WeekStart(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	out := &dto.TransactionStatsResponse{}
	for _, t := range txs {
		at := t.CreatedAt
		if !at.Before(todayStart) && at.Before(todayEnd) {
			switch t.Type {
			case entity.TransactionTypeIn:
				out.TodayIn += t.Quantity
			case entity.TransactionTypeOut:
				out.TodayOut += t.Quantity
			}
		}
		if !at.Before(weekStart) {
			out.WeekTotal++
		}
		if !at.Before(monthStart) {
			out.MonthTotal++
		}
	}
	return out, nil
}

// WeekStart medianoche del lunes de la semana de t (domingo pertenece a la semana anterior).
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/ports"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// LowStockUseCase alertas de reposición: ítems con cantidad en o por debajo del mínimo.
type LowStockUseCase struct {
	items      repository.InventoryItemRepository
	categories repository.CategoryRepository
	report     ports.StockReportGenerator
	now        func() time.Time
}

// NewLowStockUseCase construye el caso de uso. report puede ser nil si no se expone el PDF.
func NewLowStockUseCase(
	items repository.InventoryItemRepository,
	categories repository.CategoryRepository,
	report ports.StockReportGenerator,
) *LowStockUseCase {
	return &LowStockUseCase{items: items, categories: categories, report: report, now: time.Now}
}

// SetClock reemplaza el reloj (tests).
func (uc *LowStockUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// List devuelve los ítems con quantity <= minimum_quantity, del margen más negativo al menos
// negativo (quantity - minimum_quantity ascendente). Empates por ID.
func (uc *LowStockUseCase) List(ctx context.Context) ([]dto.LowStockItemResponse, error) {
	items, err := uc.items.List()
	if err != nil {
		return nil, err
	}
	names, err := categoryNames(uc.categories)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItemResponse, 0)
	for _, it := range items {
		if !it.IsLowStock() {
			continue
		}
		out = append(out, dto.LowStockItemResponse{
			ID:              it.ID,
			Name:            it.Name,
			SKU:             it.SKU,
			CategoryName:    names[it.CategoryID],
			Quantity:        it.Quantity,
			MinimumQuantity: it.MinimumQuantity,
			Slack:           it.Slack(),
			Location:        it.Location,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Slack != out[j].Slack {
			return out[i].Slack < out[j].Slack
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Report genera el PDF imprimible de la lista de alertas.
func (uc *LowStockUseCase) Report(ctx context.Context) ([]byte, error) {
	items, err := uc.List(ctx)
	if err != nil {
		return nil, err
	}
	return uc.report.GenerateLowStockReport(ctx, uc.now(), items)
}

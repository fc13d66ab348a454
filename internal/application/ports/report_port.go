package ports

import (
	"context"
	"time"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
)

// StockReportGenerator genera el reporte imprimible de ítems con stock bajo.
type StockReportGenerator interface {
	GenerateLowStockReport(ctx context.Context, generatedAt time.Time, items []dto.LowStockItemResponse) ([]byte, error)
}

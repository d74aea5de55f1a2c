package report

import (
	"context"
	"time"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
)

// InventoryReport inventario valorizado listo para renderizar.
type InventoryReport struct {
	GeneratedAt time.Time
	Rows        []dto.InventoryReportRow
	Total       string // Σ total, 2 decimales
}

// Label datos de una etiqueta con código de barras.
type Label struct {
	Code  string
	Name  string
	Price string
}

// InventoryRenderer genera el archivo del inventario valorizado (PDF, XLSX).
type InventoryRenderer interface {
	RenderInventory(ctx context.Context, report *InventoryReport) ([]byte, error)
}

// MovementsRenderer genera el archivo del listado de movimientos.
type MovementsRenderer interface {
	RenderMovements(ctx context.Context, rows []dto.MovementResponse) ([]byte, error)
}

// LabelRenderer genera la hoja de etiquetas Code128.
type LabelRenderer interface {
	RenderLabels(ctx context.Context, labels []Label) ([]byte, error)
}

// Package report casos de uso de reportes exportables y etiquetas.
package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/ledger"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// MaxLabels límite de etiquetas por pedido.
const MaxLabels = 500

// Renderers agrupa los generadores de archivos por formato.
type Renderers struct {
	InventoryPDF  InventoryRenderer
	InventoryXLSX InventoryRenderer
	MovementsXLSX MovementsRenderer
	Labels        LabelRenderer
}

// UseCase arma los datos de cada reporte y delega el formato en los renderers.
type UseCase struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
	ledger    *ledger.UseCase
	render    Renderers
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	products repository.ProductRepository,
	movements repository.MovementRepository,
	ledgerUC *ledger.UseCase,
	render Renderers,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		products:  products,
		movements: movements,
		ledger:    ledgerUC,
		render:    render,
		log:       log.Component("report"),
		now:       time.Now,
	}
}

// Inventory código, nombre, saldo, precio y total (precio × saldo) de cada producto.
func (uc *UseCase) Inventory(ctx context.Context) (*InventoryReport, error) {
	balances, err := uc.movements.Balances(ctx, entity.ProductFilter{})
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	rows := make([]dto.InventoryReportRow, 0, len(balances))
	for _, b := range balances {
		line := b.Price.Mul(decimal.NewFromInt(b.Balance))
		total = total.Add(line)
		rows = append(rows, dto.InventoryReportRow{
			Code:    b.Code,
			Name:    b.Name,
			Balance: b.Balance,
			Price:   b.Price.StringFixed(2),
			Total:   line.StringFixed(2),
		})
	}
	return &InventoryReport{GeneratedAt: uc.now(), Rows: rows, Total: total.StringFixed(2)}, nil
}

// InventoryPDF inventario valorizado en PDF.
func (uc *UseCase) InventoryPDF(ctx context.Context) ([]byte, error) {
	return uc.renderInventory(ctx, uc.render.InventoryPDF)
}

// InventoryXLSX inventario valorizado en hoja de cálculo.
func (uc *UseCase) InventoryXLSX(ctx context.Context) ([]byte, error) {
	return uc.renderInventory(ctx, uc.render.InventoryXLSX)
}

func (uc *UseCase) renderInventory(ctx context.Context, r InventoryRenderer) ([]byte, error) {
	rep, err := uc.Inventory(ctx)
	if err != nil {
		return nil, err
	}
	out, err := r.RenderInventory(ctx, rep)
	if err != nil {
		uc.log.Error().Err(err).Msg("no se pudo generar el inventario")
		return nil, err
	}
	return out, nil
}

// Movements listado de movimientos con el mismo filtro que la API.
func (uc *UseCase) Movements(ctx context.Context, filter entity.MovementFilter) ([]dto.MovementResponse, error) {
	return uc.ledger.CollectMovements(ctx, filter)
}

// MovementsXLSX listado de movimientos en hoja de cálculo.
func (uc *UseCase) MovementsXLSX(ctx context.Context, filter entity.MovementFilter) ([]byte, error) {
	rows, err := uc.Movements(ctx, filter)
	if err != nil {
		return nil, err
	}
	out, err := uc.render.MovementsXLSX.RenderMovements(ctx, rows)
	if err != nil {
		uc.log.Error().Err(err).Msg("no se pudo generar el listado de movimientos")
		return nil, err
	}
	return out, nil
}

// Labels PDF con una etiqueta Code128 por producto, en el orden pedido.
// Los IDs inexistentes se omiten; si ninguno existe devuelve ErrNotFound.
func (uc *UseCase) Labels(ctx context.Context, productIDs []string) ([]byte, error) {
	if len(productIDs) == 0 {
		return nil, domain.Validation("debe indicar al menos un producto")
	}
	if len(productIDs) > MaxLabels {
		return nil, domain.Validation("demasiadas etiquetas en un solo pedido")
	}
	labels := make([]Label, 0, len(productIDs))
	for _, id := range productIDs {
		p, err := uc.products.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		labels = append(labels, Label{Code: p.Code, Name: p.Name, Price: p.Price.StringFixed(2)})
	}
	if len(labels) == 0 {
		return nil, domain.NotFound("ninguno de los productos existe")
	}
	return uc.render.Labels.RenderLabels(ctx, labels)
}

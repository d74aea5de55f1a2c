package report_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/apptest"
	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/ledger"
	"github.com/jhoicas/Estoque-api/internal/application/report"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// renderSpy guarda lo recibido y devuelve bytes fijos.
type renderSpy struct {
	inventory *report.InventoryReport
	movements []dto.MovementResponse
	labels    []report.Label
}

func (s *renderSpy) RenderInventory(_ context.Context, r *report.InventoryReport) ([]byte, error) {
	s.inventory = r
	return []byte("inv"), nil
}

func (s *renderSpy) RenderMovements(_ context.Context, rows []dto.MovementResponse) ([]byte, error) {
	s.movements = rows
	return []byte("mov"), nil
}

func (s *renderSpy) RenderLabels(_ context.Context, labels []report.Label) ([]byte, error) {
	s.labels = labels
	return []byte("lbl"), nil
}

func setup(t *testing.T) (*report.UseCase, *renderSpy, *apptest.Store) {
	t.Helper()
	store := apptest.NewStore()
	spy := &renderSpy{}
	ledgerUC := ledger.NewUseCase(store, store.Products(), store.Movements(), logger.Nop())
	uc := report.NewUseCase(store.Products(), store.Movements(), ledgerUC, report.Renderers{
		InventoryPDF: spy, InventoryXLSX: spy, MovementsXLSX: spy, Labels: spy,
	}, logger.Nop())
	return uc, spy, store
}

func addProduct(t *testing.T, store *apptest.Store, code, name, price string, balance int64) *entity.Product {
	t.Helper()
	ctx := context.Background()
	p := &entity.Product{ID: uuid.NewString(), Code: code, Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, store.Products().Create(ctx, p))
	if balance > 0 {
		require.NoError(t, store.Movements().Create(ctx, &entity.StockMovement{
			ID: uuid.NewString(), ProductID: p.ID, Kind: entity.MovementEntry, Quantity: balance,
		}))
	}
	return p
}

func TestInventory_TotalesPorLinea(t *testing.T) {
	uc, spy, store := setup(t)
	addProduct(t, store, "A", "Alfa", "1.10", 3)
	addProduct(t, store, "B", "Beta", "2.00", 0)

	out, err := uc.InventoryPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("inv"), out)
	require.NotNil(t, spy.inventory)
	require.Len(t, spy.inventory.Rows, 2)
	assert.Equal(t, "3.30", spy.inventory.Rows[0].Total)
	assert.Equal(t, "0.00", spy.inventory.Rows[1].Total)
	assert.Equal(t, "3.30", spy.inventory.Total)
}

func TestMovementsXLSX(t *testing.T) {
	uc, spy, store := setup(t)
	addProduct(t, store, "M", "Mov", "1", 2)
	_, err := uc.MovementsXLSX(context.Background(), entity.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, spy.movements, 1)
	assert.Equal(t, entity.MissingPlaceholder, spy.movements[0].UserName, "usuario inexistente")
}

func TestLabels(t *testing.T) {
	uc, spy, store := setup(t)
	p := addProduct(t, store, "L1", "Lámpara", "15", 0)
	ctx := context.Background()

	_, err := uc.Labels(ctx, []string{uuid.NewString(), p.ID})
	require.NoError(t, err)
	require.Len(t, spy.labels, 1)
	assert.Equal(t, report.Label{Code: "L1", Name: "Lámpara", Price: "15.00"}, spy.labels[0])

	_, err = uc.Labels(ctx, []string{uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Labels(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

package analytics_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/analytics"
	"github.com/jhoicas/Estoque-api/internal/application/apptest"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

func TestGetKPIs(t *testing.T) {
	store := apptest.NewStore()
	ctx := context.Background()
	uc := analytics.NewDashboardUseCase(store.Products(), store.Named(entity.KindSupplier), store.Analytics())

	kpis, err := uc.GetKPIs(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.00", kpis.TotalStockValue)

	p := &entity.Product{ID: uuid.NewString(), Code: "K1", Name: "Caja", Price: decimal.RequireFromString("2.25")}
	require.NoError(t, store.Products().Create(ctx, p))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: uuid.NewString(), Code: "K2", Name: "Sin saldo", Price: decimal.NewFromInt(99)}))
	require.NoError(t, store.Named(entity.KindSupplier).Create(ctx, &entity.NamedEntity{ID: uuid.NewString(), Name: "Prov"}))
	require.NoError(t, store.Movements().Create(ctx, &entity.StockMovement{ID: uuid.NewString(), ProductID: p.ID, Kind: entity.MovementEntry, Quantity: 10}))
	require.NoError(t, store.Movements().Create(ctx, &entity.StockMovement{ID: uuid.NewString(), ProductID: p.ID, Kind: entity.MovementExit, Quantity: 4}))

	kpis, err = uc.GetKPIs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, kpis.TotalProducts)
	assert.Equal(t, 1, kpis.TotalSuppliers)
	assert.Equal(t, "13.50", kpis.TotalStockValue)
}

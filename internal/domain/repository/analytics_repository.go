package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// AnalyticsRepository consultas de solo lectura para el dashboard.
type AnalyticsRepository interface {
	// StockValue Σ precio × saldo de los productos con movimientos.
	StockValue(ctx context.Context) (decimal.Decimal, error)
}

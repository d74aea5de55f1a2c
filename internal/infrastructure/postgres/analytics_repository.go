package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas agregadas para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el repositorio de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// StockValue Σ precio × saldo derivado.
func (r *AnalyticsRepo) StockValue(ctx context.Context) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(p.price * b.balance), 0)
		FROM products p
		JOIN (
			SELECT m.product_id, SUM(` + signedQuantity + `) AS balance
			FROM stock_movements m
			GROUP BY m.product_id
		) b ON b.product_id = p.id`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("stock value: %w", err)
	}
	return total, nil
}

package repository

import (
	"context"
	"iter"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// MovementRepository puerto del libro de movimientos (solo inserción y lectura).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// BalanceOf Σ Entrada − Σ Saida del producto; 0 si no hay movimientos.
	BalanceOf(ctx context.Context, productID string) (int64, error)
	ExistsForProduct(ctx context.Context, productID string) (bool, error)
	// Iterate recorre los movimientos perezosamente; cada range vuelve a consultar.
	Iterate(ctx context.Context, filter entity.MovementFilter) iter.Seq2[entity.MovementRecord, error]
	Balances(ctx context.Context, filter entity.ProductFilter) ([]entity.ProductBalance, error)
}

package postgres

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// signedQuantity expresión SQL de la cantidad con signo según el tipo.
const signedQuantity = `CASE WHEN m.kind = 'Entrada' THEN m.quantity ELSE -m.quantity END`

// MovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx). Solo inserta y lee.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, user_id, kind, quantity, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, m.ID, m.ProductID, m.UserID, m.Kind, m.Quantity, m.Reason, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// BalanceOf Σ Entrada − Σ Saida; 0 si el producto no tiene movimientos.
func (r *MovementRepo) BalanceOf(ctx context.Context, productID string) (int64, error) {
	query := `SELECT COALESCE(SUM(` + signedQuantity + `), 0)::bigint FROM stock_movements m WHERE m.product_id = $1`
	var balance int64
	if err := r.q.QueryRow(ctx, query, productID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("balance of product: %w", err)
	}
	return balance, nil
}

func (r *MovementRepo) ExistsForProduct(ctx context.Context, productID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stock_movements WHERE product_id = $1)`, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("movements exist: %w", err)
	}
	return exists, nil
}

// Iterate ejecuta la consulta al empezar cada recorrido y entrega fila a fila.
// Producto o usuario ya inexistentes se devuelven con nombre vacío.
func (r *MovementRepo) Iterate(ctx context.Context, filter entity.MovementFilter) iter.Seq2[entity.MovementRecord, error] {
	var (
		conds []string
		args  []any
	)
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		conds = append(conds, fmt.Sprintf("m.kind = $%d", len(args)))
	}
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		conds = append(conds, fmt.Sprintf("m.product_id = $%d", len(args)))
	}
	var sb strings.Builder
	sb.WriteString(`
		SELECT m.id, m.product_id, m.user_id, m.kind, m.quantity, m.reason, m.created_at,
			COALESCE(p.code, ''), COALESCE(p.name, ''), COALESCE(u.name, '')
		FROM stock_movements m
		LEFT JOIN products p ON p.id = m.product_id
		LEFT JOIN users u ON u.id = m.user_id`)
	if len(conds) > 0 {
		sb.WriteString("\n\t\tWHERE " + strings.Join(conds, " AND "))
	}
	if filter.NewestFirst {
		sb.WriteString("\n\t\tORDER BY m.created_at DESC, m.id DESC")
	} else {
		sb.WriteString("\n\t\tORDER BY m.created_at ASC, m.id ASC")
	}
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(fmt.Sprintf("\n\t\tLIMIT $%d", len(args)))
	}
	query := sb.String()

	return func(yield func(entity.MovementRecord, error) bool) {
		rows, err := r.q.Query(ctx, query, args...)
		if err != nil {
			yield(entity.MovementRecord{}, fmt.Errorf("list stock movements: %w", err))
			return
		}
		defer rows.Close()
		for rows.Next() {
			var rec entity.MovementRecord
			if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.UserID, &rec.Kind, &rec.Quantity, &rec.Reason,
				&rec.CreatedAt, &rec.ProductCode, &rec.ProductName, &rec.UserName); err != nil {
				yield(entity.MovementRecord{}, fmt.Errorf("scan stock movement: %w", err))
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(entity.MovementRecord{}, err)
		}
	}
}

// Balances saldo derivado de cada producto que cumple el filtro, ordenado por nombre.
func (r *MovementRepo) Balances(ctx context.Context, filter entity.ProductFilter) ([]entity.ProductBalance, error) {
	query := `
		SELECT p.id, p.code, p.name, p.code_b, p.code_c, p.price, COALESCE(s.name, ''),
			COALESCE(SUM(` + signedQuantity + `), 0)::bigint
		FROM products p
		LEFT JOIN sectors s ON s.id = p.sector_id
		LEFT JOIN stock_movements m ON m.product_id = p.id
		WHERE ($1 = '' OR p.name ILIKE '%' || $1 || '%' OR p.code ILIKE '%' || $1 || '%'
			OR p.code_b ILIKE '%' || $1 || '%' OR p.code_c ILIKE '%' || $1 || '%')
			AND ($2::uuid IS NULL OR p.sector_id = $2::uuid)
		GROUP BY p.id, s.name
		ORDER BY p.name, p.code`
	rows, err := r.q.Query(ctx, query, filter.Term, nullable(filter.SectorID))
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []entity.ProductBalance
	for rows.Next() {
		var b entity.ProductBalance
		if err := rows.Scan(&b.ProductID, &b.Code, &b.Name, &b.CodeB, &b.CodeC, &b.Price, &b.SectorName, &b.Balance); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

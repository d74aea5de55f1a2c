package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// relationTables tabla de unión y columna por tipo de relación N:M.
var relationTables = map[entity.NamedKind]struct{ join, column, target string }{
	entity.KindSupplier: {join: "product_suppliers", column: "supplier_id", target: "suppliers"},
	entity.KindNature:   {join: "product_natures", column: "nature_id", target: "natures"},
}

const productColumns = `p.id, p.code, p.name, p.description, p.price, p.code_b, p.code_c, p.sector_id, p.created_at, p.updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, code, name, description, price, code_b, code_c, sector_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.Description, p.Price, p.CodeB, p.CodeC, nullable(p.SectorID),
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicate(fmt.Sprintf("ya existe un producto con el código '%s'", p.Code))
		}
		if isForeignKeyViolation(err) {
			return domain.Validation("el sector indicado no existe")
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila (solo tiene efecto dentro de una tx).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1 FOR UPDATE`, id)
}

// GetByCode obtiene un producto por su código principal.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products p WHERE p.code = $1`, code)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var sectorID *string
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.Price, &p.CodeB, &p.CodeC,
		&sectorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.SectorID = deref(sectorID)
	return &p, nil
}

// GetDetail producto con nombre de sector, proveedores y naturalezas.
func (r *ProductRepo) GetDetail(ctx context.Context, id string) (*entity.ProductDetail, error) {
	list, err := r.search(ctx, `p.id = $1`, []any{id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// Search busca por subcadena (sin distinguir mayúsculas) en nombre y códigos, opcionalmente por sector.
// Resultado ordenado por nombre.
func (r *ProductRepo) Search(ctx context.Context, filter entity.ProductFilter) ([]*entity.ProductDetail, error) {
	where := `($1 = '' OR p.name ILIKE '%' || $1 || '%' OR p.code ILIKE '%' || $1 || '%'
		OR p.code_b ILIKE '%' || $1 || '%' OR p.code_c ILIKE '%' || $1 || '%')
		AND ($2::uuid IS NULL OR p.sector_id = $2::uuid)`
	return r.search(ctx, where, []any{filter.Term, nullable(filter.SectorID)})
}

func (r *ProductRepo) search(ctx context.Context, where string, args []any) ([]*entity.ProductDetail, error) {
	query := `
		SELECT ` + productColumns + `, COALESCE(s.name, '')
		FROM products p
		LEFT JOIN sectors s ON s.id = p.sector_id
		WHERE ` + where + `
		ORDER BY p.name, p.code`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProductDetail
	index := map[string]*entity.ProductDetail{}
	for rows.Next() {
		var d entity.ProductDetail
		var sectorID *string
		if err := rows.Scan(&d.ID, &d.Code, &d.Name, &d.Description, &d.Price, &d.CodeB, &d.CodeC,
			&sectorID, &d.CreatedAt, &d.UpdatedAt, &d.SectorName); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		d.SectorID = deref(sectorID)
		list = append(list, &d)
		index[d.ID] = &d
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}
	if err := r.loadRelations(ctx, index); err != nil {
		return nil, err
	}
	return list, nil
}

// loadRelations completa proveedores y naturalezas de todos los productos en dos consultas.
func (r *ProductRepo) loadRelations(ctx context.Context, index map[string]*entity.ProductDetail) error {
	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	for kind, t := range relationTables {
		query := fmt.Sprintf(`
			SELECT j.product_id, e.id, e.name, e.created_at, e.updated_at
			FROM %s j JOIN %s e ON e.id = j.%s
			WHERE j.product_id = ANY($1::uuid[])
			ORDER BY e.name`, t.join, t.target, t.column)
		rows, err := r.q.Query(ctx, query, ids)
		if err != nil {
			return fmt.Errorf("load %s: %w", t.target, err)
		}
		for rows.Next() {
			var productID string
			e := entity.NamedEntity{Kind: kind}
			if err := rows.Scan(&productID, &e.ID, &e.Name, &e.CreatedAt, &e.UpdatedAt); err != nil {
				rows.Close()
				return fmt.Errorf("scan %s: %w", t.target, err)
			}
			d := index[productID]
			if kind == entity.KindSupplier {
				d.Suppliers = append(d.Suppliers, e)
			} else {
				d.Natures = append(d.Natures, e)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}
	return nil
}

// Update actualiza los campos propios del producto (las relaciones N:M van aparte).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET code = $2, name = $3, description = $4, price = $5, code_b = $6, code_c = $7,
			sector_id = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.Description, p.Price, p.CodeB, p.CodeC, nullable(p.SectorID), p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicate(fmt.Sprintf("ya existe un producto con el código '%s'", p.Code))
		}
		if isForeignKeyViolation(err) {
			return domain.Validation("el sector indicado no existe")
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("producto no encontrado")
	}
	return nil
}

// Delete elimina el producto y sus vínculos N:M. Falla si tiene movimientos.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflict("el producto tiene movimientos registrados y no puede eliminarse")
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("producto no encontrado")
	}
	return nil
}

// Count total de productos.
func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// ReplaceRelations sustituye el conjunto completo; los IDs inexistentes se ignoran.
func (r *ProductRepo) ReplaceRelations(ctx context.Context, productID string, kind entity.NamedKind, ids []string) error {
	t, ok := relationTables[kind]
	if !ok {
		return fmt.Errorf("relación no soportada: %s", kind)
	}
	if _, err := r.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE product_id = $1`, t.join), productID); err != nil {
		return fmt.Errorf("clear %s: %w", t.join, err)
	}
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (product_id, %s)
		SELECT $1, e.id FROM %s e WHERE e.id = ANY($2::uuid[])
		ON CONFLICT DO NOTHING`, t.join, t.column, t.target)
	if _, err := r.q.Exec(ctx, query, productID, ids); err != nil {
		return fmt.Errorf("insert %s: %w", t.join, err)
	}
	return nil
}

// AddRelationsByName vincula por nombre exacto; los nombres sin coincidencia se ignoran.
func (r *ProductRepo) AddRelationsByName(ctx context.Context, productID string, kind entity.NamedKind, names []string) error {
	t, ok := relationTables[kind]
	if !ok {
		return fmt.Errorf("relación no soportada: %s", kind)
	}
	if len(names) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (product_id, %s)
		SELECT $1, e.id FROM %s e WHERE e.name = ANY($2::text[])
		ON CONFLICT DO NOTHING`, t.join, t.column, t.target)
	if _, err := r.q.Exec(ctx, query, productID, names); err != nil {
		return fmt.Errorf("link %s by name: %w", t.join, err)
	}
	return nil
}

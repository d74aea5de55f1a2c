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

var _ repository.NamedEntityRepository = (*NamedEntityRepo)(nil)

// namedTables tabla propia de cada tipo y la consulta que detecta si está en uso.
var namedTables = map[entity.NamedKind]struct{ table, inUse string }{
	entity.KindSector:   {table: "sectors", inUse: `SELECT EXISTS (SELECT 1 FROM products WHERE sector_id = $1)`},
	entity.KindSupplier: {table: "suppliers", inUse: `SELECT EXISTS (SELECT 1 FROM product_suppliers WHERE supplier_id = $1)`},
	entity.KindNature:   {table: "natures", inUse: `SELECT EXISTS (SELECT 1 FROM product_natures WHERE nature_id = $1)`},
}

// NamedEntityRepo repositorio genérico para sectores, proveedores y naturalezas.
type NamedEntityRepo struct {
	q     Querier
	kind  entity.NamedKind
	table string
	inUse string
}

// NewNamedEntityRepository construye el repositorio para el tipo indicado.
func NewNamedEntityRepository(q Querier, kind entity.NamedKind) (*NamedEntityRepo, error) {
	t, ok := namedTables[kind]
	if !ok {
		return nil, fmt.Errorf("tipo de entidad desconocido: %q", kind)
	}
	return &NamedEntityRepo{q: q, kind: kind, table: t.table, inUse: t.inUse}, nil
}

// Kind tipo de entidad que maneja este repositorio.
func (r *NamedEntityRepo) Kind() entity.NamedKind { return r.kind }

func (r *NamedEntityRepo) duplicate(name string) error {
	return domain.Duplicate(fmt.Sprintf("ya existe un %s con el nombre '%s'", r.kind.Label(), name))
}

func (r *NamedEntityRepo) Create(ctx context.Context, e *entity.NamedEntity) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`, r.table)
	if _, err := r.q.Exec(ctx, query, e.ID, e.Name, e.CreatedAt, e.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return r.duplicate(e.Name)
		}
		return fmt.Errorf("insert %s: %w", r.table, err)
	}
	return nil
}

func (r *NamedEntityRepo) GetByID(ctx context.Context, id string) (*entity.NamedEntity, error) {
	query := fmt.Sprintf(`SELECT id, name, created_at, updated_at FROM %s WHERE id = $1`, r.table)
	e := entity.NamedEntity{Kind: r.kind}
	err := r.q.QueryRow(ctx, query, id).Scan(&e.ID, &e.Name, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.table, err)
	}
	return &e, nil
}

func (r *NamedEntityRepo) Update(ctx context.Context, e *entity.NamedEntity) error {
	query := fmt.Sprintf(`UPDATE %s SET name = $2, updated_at = $3 WHERE id = $1`, r.table)
	cmd, err := r.q.Exec(ctx, query, e.ID, e.Name, e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return r.duplicate(e.Name)
		}
		return fmt.Errorf("update %s: %w", r.table, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound(r.kind.Label() + " no encontrado")
	}
	return nil
}

// Delete borra la entidad; si algún producto aún la referencia devuelve ErrConflict.
func (r *NamedEntityRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table), id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflict(fmt.Sprintf("el %s está vinculado a productos", r.kind.Label()))
		}
		return fmt.Errorf("delete %s: %w", r.table, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound(r.kind.Label() + " no encontrado")
	}
	return nil
}

// List todas las entidades ordenadas por nombre.
func (r *NamedEntityRepo) List(ctx context.Context) ([]*entity.NamedEntity, error) {
	query := fmt.Sprintf(`SELECT id, name, created_at, updated_at FROM %s ORDER BY name`, r.table)
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()
	var list []*entity.NamedEntity
	for rows.Next() {
		e := entity.NamedEntity{Kind: r.kind}
		if err := rows.Scan(&e.ID, &e.Name, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table, err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

func (r *NamedEntityRepo) InUse(ctx context.Context, id string) (bool, error) {
	var used bool
	if err := r.q.QueryRow(ctx, r.inUse, id).Scan(&used); err != nil {
		return false, fmt.Errorf("check %s in use: %w", r.table, err)
	}
	return used, nil
}

func (r *NamedEntityRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table, err)
	}
	return n, nil
}

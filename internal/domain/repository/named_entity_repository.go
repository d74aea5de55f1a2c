package repository

import (
	"context"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// NamedEntityRepository puerto común para sector, proveedor y naturaleza.
// Cada instancia trabaja sobre un único entity.NamedKind.
type NamedEntityRepository interface {
	Kind() entity.NamedKind
	Create(ctx context.Context, e *entity.NamedEntity) error
	GetByID(ctx context.Context, id string) (*entity.NamedEntity, error)
	Update(ctx context.Context, e *entity.NamedEntity) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.NamedEntity, error)
	// InUse indica si algún producto referencia la entidad.
	InUse(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

package repository

import (
	"context"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los Get devuelven (nil, nil) cuando el registro no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto bloqueando su fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	GetDetail(ctx context.Context, id string) (*entity.ProductDetail, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, filter entity.ProductFilter) ([]*entity.ProductDetail, error)
	Count(ctx context.Context) (int, error)

	// ReplaceRelations sustituye el conjunto de proveedores o naturalezas del producto.
	// Los IDs que no existen se ignoran.
	ReplaceRelations(ctx context.Context, productID string, kind entity.NamedKind, ids []string) error
	// AddRelationsByName vincula por nombre exacto; los nombres sin coincidencia se ignoran.
	AddRelationsByName(ctx context.Context, productID string, kind entity.NamedKind, names []string) error
}

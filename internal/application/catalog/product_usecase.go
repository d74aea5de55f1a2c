// Package catalog casos de uso del catálogo: productos, sus etiquetas
// (sector, proveedor, naturaleza) y la importación masiva.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/ports"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// ProductUseCase CRUD de productos. El saldo no se toca aquí: solo vía movimientos.
type ProductUseCase struct {
	txRunner  ports.TxRunner
	products  repository.ProductRepository
	sectors   repository.NamedEntityRepository
	suppliers repository.NamedEntityRepository
	natures   repository.NamedEntityRepository
	log       *logger.Logger
	now       func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner ports.TxRunner,
	products repository.ProductRepository,
	sectors, suppliers, natures repository.NamedEntityRepository,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner:  txRunner,
		products:  products,
		sectors:   sectors,
		suppliers: suppliers,
		natures:   natures,
		log:       log.Component("catalog"),
		now:       time.Now,
	}
}

// Create crea un producto con sus proveedores y naturalezas.
// Un código repetido devuelve ErrDuplicate y deja intacto el producto existente.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	price, err := ParsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		Price:       price,
		CodeB:       in.CodeB,
		CodeC:       in.CodeC,
		SectorID:    strings.TrimSpace(in.SectorID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := normalizeProduct(p); err != nil {
		return nil, err
	}
	if err := uc.checkSector(ctx, p.SectorID); err != nil {
		return nil, err
	}
	existing, err := uc.products.GetByCode(ctx, p.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Duplicate(fmt.Sprintf("ya existe un producto con el código '%s'", p.Code))
	}

	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.MovementRepository) error {
		if err := productRepo.Create(ctx, p); err != nil {
			return err
		}
		if err := productRepo.ReplaceRelations(ctx, p.ID, entity.KindSupplier, in.SupplierIDs); err != nil {
			return err
		}
		return productRepo.ReplaceRelations(ctx, p.ID, entity.KindNature, in.NatureIDs)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", p.ID).Str("code", p.Code).Msg("producto creado")
	return uc.Get(ctx, p.ID)
}

// Get producto con relaciones.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	d, err := uc.products.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.NotFound("producto no encontrado")
	}
	return ToProductResponse(d), nil
}

// GetByCode busca por el código principal exacto.
func (uc *ProductUseCase) GetByCode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto no encontrado")
	}
	return uc.Get(ctx, p.ID)
}

// Update aplica solo los campos presentes. Cambiar el código a uno ya usado devuelve ErrDuplicate.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto no encontrado")
	}
	if in.Code != nil {
		p.Code = *in.Code
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		price, err := ParsePrice(*in.Price)
		if err != nil {
			return nil, err
		}
		p.Price = price
	}
	if in.CodeB != nil {
		p.CodeB = *in.CodeB
	}
	if in.CodeC != nil {
		p.CodeC = *in.CodeC
	}
	if in.SectorID != nil {
		p.SectorID = strings.TrimSpace(*in.SectorID)
	}
	if err := normalizeProduct(p); err != nil {
		return nil, err
	}
	if in.SectorID != nil {
		if err := uc.checkSector(ctx, p.SectorID); err != nil {
			return nil, err
		}
	}
	other, err := uc.products.GetByCode(ctx, p.Code)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != p.ID {
		return nil, domain.Duplicate(fmt.Sprintf("ya existe un producto con el código '%s'", p.Code))
	}
	p.UpdatedAt = uc.now()

	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.MovementRepository) error {
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		if in.SupplierIDs != nil {
			if err := productRepo.ReplaceRelations(ctx, p.ID, entity.KindSupplier, *in.SupplierIDs); err != nil {
				return err
			}
		}
		if in.NatureIDs != nil {
			return productRepo.ReplaceRelations(ctx, p.ID, entity.KindNature, *in.NatureIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", p.ID).Msg("producto actualizado")
	return uc.Get(ctx, p.ID)
}

// Delete elimina el producto solo si no tiene movimientos; en ese caso ErrConflict.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.MovementRepository) error {
		p, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFound("producto no encontrado")
		}
		hasHistory, err := movRepo.ExistsForProduct(ctx, id)
		if err != nil {
			return err
		}
		if hasHistory {
			return domain.Conflict(fmt.Sprintf("el producto '%s' tiene movimientos registrados y no puede eliminarse", p.Name))
		}
		return productRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("product_id", id).Msg("producto eliminado")
	return nil
}

// Search listado filtrado y ordenado por nombre.
func (uc *ProductUseCase) Search(ctx context.Context, filter entity.ProductFilter) ([]dto.ProductSummaryResponse, error) {
	filter.Term = strings.TrimSpace(filter.Term)
	list, err := uc.products.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductSummaryResponse, 0, len(list))
	for _, d := range list {
		out = append(out, ToProductSummary(d))
	}
	return out, nil
}

// FormData proveedores y naturalezas disponibles más el producto (si se pide uno).
func (uc *ProductUseCase) FormData(ctx context.Context, productID string) (*dto.ProductFormDataResponse, error) {
	suppliers, err := uc.suppliers.List(ctx)
	if err != nil {
		return nil, err
	}
	natures, err := uc.natures.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductFormDataResponse{
		Suppliers: toRefs(suppliers),
		Natures:   toRefs(natures),
	}
	if productID != "" {
		p, err := uc.Get(ctx, productID)
		if err != nil {
			return nil, err
		}
		out.Product = p
	}
	return out, nil
}

func (uc *ProductUseCase) checkSector(ctx context.Context, sectorID string) error {
	if sectorID == "" {
		return nil
	}
	sector, err := uc.sectors.GetByID(ctx, sectorID)
	if err != nil {
		return err
	}
	if sector == nil {
		return domain.NotFound("el sector indicado no existe")
	}
	return nil
}

// normalizeProduct recorta espacios y valida obligatorios y longitudes.
func normalizeProduct(p *entity.Product) error {
	p.Code = strings.TrimSpace(p.Code)
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.CodeB = strings.TrimSpace(p.CodeB)
	p.CodeC = strings.TrimSpace(p.CodeC)

	if p.Code == "" {
		return domain.Validation("el código es obligatorio")
	}
	if p.Name == "" {
		return domain.Validation("el nombre es obligatorio")
	}
	limits := []struct {
		field, value string
		max          int
	}{
		{"código", p.Code, entity.ProductCodeMaxLen},
		{"nombre", p.Name, entity.ProductNameMaxLen},
		{"descripción", p.Description, entity.ProductDescriptionMaxLen},
		{"código B", p.CodeB, entity.ProductCodeMaxLen},
		{"código C", p.CodeC, entity.ProductCodeMaxLen},
	}
	for _, l := range limits {
		if utf8.RuneCountInString(l.value) > l.max {
			return domain.Validation(fmt.Sprintf("el %s no puede superar %d caracteres", l.field, l.max))
		}
	}
	return nil
}

// ToProductResponse mapea el detalle a la salida HTTP.
func ToProductResponse(d *entity.ProductDetail) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          d.ID,
		Code:        d.Code,
		Name:        d.Name,
		Description: d.Description,
		Price:       FormatPrice(d.Price),
		CodeB:       d.CodeB,
		CodeC:       d.CodeC,
		SectorID:    d.SectorID,
		SectorName:  d.SectorName,
		Suppliers:   toRefs(ptrs(d.Suppliers)),
		Natures:     toRefs(ptrs(d.Natures)),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ToProductSummary fila de listado; las relaciones van como nombres ordenados y unidos por coma.
func ToProductSummary(d *entity.ProductDetail) dto.ProductSummaryResponse {
	return dto.ProductSummaryResponse{
		ID:          d.ID,
		Code:        d.Code,
		Name:        d.Name,
		Description: d.Description,
		Price:       FormatPrice(d.Price),
		CodeB:       d.CodeB,
		CodeC:       d.CodeC,
		SectorID:    d.SectorID,
		SectorName:  d.SectorName,
		Suppliers:   joinNames(d.Suppliers),
		Natures:     joinNames(d.Natures),
	}
}

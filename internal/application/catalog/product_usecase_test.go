package catalog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/apptest"
	"github.com/jhoicas/Estoque-api/internal/application/catalog"
	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

type catalogFixture struct {
	store     *apptest.Store
	products  *catalog.ProductUseCase
	sectors   *catalog.NamedEntityUseCase
	suppliers *catalog.NamedEntityUseCase
	natures   *catalog.NamedEntityUseCase
}

func newCatalog() *catalogFixture {
	store := apptest.NewStore()
	log := logger.Nop()
	return &catalogFixture{
		store: store,
		products: catalog.NewProductUseCase(store, store.Products(),
			store.Named(entity.KindSector), store.Named(entity.KindSupplier), store.Named(entity.KindNature), log),
		sectors:   catalog.NewNamedEntityUseCase(store.Named(entity.KindSector), log),
		suppliers: catalog.NewNamedEntityUseCase(store.Named(entity.KindSupplier), log),
		natures:   catalog.NewNamedEntityUseCase(store.Named(entity.KindNature), log),
	}
}

func named(t *testing.T, uc *catalog.NamedEntityUseCase, name string) string {
	t.Helper()
	res, err := uc.Create(context.Background(), dto.NamedEntityRequest{Name: name})
	require.NoError(t, err)
	return res.ID
}

func TestCreateProduct_NormalizaYRelaciona(t *testing.T) {
	f := newCatalog()
	ctx := context.Background()
	sector := named(t, f.sectors, "Ferretería")
	zeta := named(t, f.suppliers, "Zeta")
	acme := named(t, f.suppliers, "ACME")
	nature := named(t, f.natures, "Consumible")

	res, err := f.products.Create(ctx, dto.CreateProductRequest{
		Code:        "  P-001 ",
		Name:        " Martillo ",
		Price:       "12,5",
		SectorID:    sector,
		SupplierIDs: []string{zeta, acme, uuid.NewString()},
		NatureIDs:   []string{nature},
	})
	require.NoError(t, err)
	assert.Equal(t, "P-001", res.Code)
	assert.Equal(t, "Martillo", res.Name)
	assert.Equal(t, "12.50", res.Price)
	assert.Equal(t, "Ferretería", res.SectorName)
	require.Len(t, res.Suppliers, 2, "los ids inexistentes se ignoran")
	assert.Equal(t, "ACME", res.Suppliers[0].Name)
	require.Len(t, res.Natures, 1)

	list, err := f.products.Search(ctx, entity.ProductFilter{Term: "martillo"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ACME, Zeta", list[0].Suppliers)
	assert.Equal(t, "Consumible", list[0].Natures)
}

func TestCreateProduct_PrecioPorDefecto(t *testing.T) {
	f := newCatalog()
	res, err := f.products.Create(context.Background(), dto.CreateProductRequest{Code: "P-0", Name: "Gratis"})
	require.NoError(t, err)
	assert.Equal(t, "0.00", res.Price)
}

func TestCreateProduct_Validaciones(t *testing.T) {
	f := newCatalog()
	ctx := context.Background()
	cases := map[string]dto.CreateProductRequest{
		"sin código":      {Name: "X"},
		"código espacios": {Code: "   ", Name: "X"},
		"sin nombre":      {Code: "X"},
		"código largo":    {Code: "123456789012345678901", Name: "X"},
		"precio negativo": {Code: "X", Name: "X", Price: "-1"},
		"precio texto":    {Code: "X", Name: "X", Price: "barato"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.products.Create(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := f.products.Create(ctx, dto.CreateProductRequest{Code: "X", Name: "X", SectorID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	count, _ := f.store.Products().Count(ctx)
	assert.Zero(t, count)
}

func TestCreateProduct_DuplicadoNoModificaExistente(t *testing.T) {
	f := newCatalog()
	ctx := context.Background()
	first, err := f.products.Create(ctx, dto.CreateProductRequest{Code: "DUP", Name: "Original", Price: "1"})
	require.NoError(t, err)

	_, err = f.products.Create(ctx, dto.CreateProductRequest{Code: "DUP", Name: "Impostor", Price: "9"})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := f.products.GetByCode(ctx, "DUP")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "Original", got.Name)
	assert.Equal(t, "1.00", got.Price)
}

func TestUpdateProduct_ParcialYRelaciones(t *testing.T) {
	f := newCatalog()
	ctx := context.Background()
	s1 := named(t, f.suppliers, "Uno")
	s2 := named(t, f.suppliers, "Dos")
	n1 := named(t, f.natures, "Frágil")
	created, err := f.products.Create(ctx, dto.CreateProductRequest{
		Code: "U1", Name: "Vaso", Description: "vidrio", SupplierIDs: []string{s1}, NatureIDs: []string{n1},
	})
	require.NoError(t, err)

	newName := "Vaso grande"
	suppliers := []string{s2}
	res, err := f.products.Update(ctx, created.ID, dto.UpdateProductRequest{Name: &newName, SupplierIDs: &suppliers})
	require.NoError(t, err)
	assert.Equal(t, "Vaso grande", res.Name)
	assert.Equal(t, "vidrio", res.Description, "los campos ausentes no cambian")
	require.Len(t, res.Suppliers, 1)
	assert.Equal(t, "Dos", res.Suppliers[0].Name)
	assert.Len(t, res.Natures, 1, "naturalezas nil = sin cambios")

	empty := []string{}
	res, err = f.products.Update(ctx, created.ID, dto.UpdateProductRequest{NatureIDs: &empty})
	require.NoError(t, err)
	assert.Empty(t, res.Natures, "lista vacía = quitar todas")
}

func TestUpdateProduct_CodigoDuplicadoEInexistente(t *testing.T) {
	f := newCatalog()
	ctx := context.Background()
	_, err := f.products.Create(ctx, dto.CreateProductRequest{Code: "A", Name: "A"})
	require.NoError(t, err)
	b, err := f.products.Create(ctx, dto.CreateProductRequest{Code: "B", Name: "B"})
	require.NoError(t, err)

	code := "A"
	_, err = f.products.Update(ctx, b.ID, dto.UpdateProductRequest{Code: &code})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.products.Update(ctx, uuid.NewString(), dto.UpdateProductRequest{Code: &code})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteProduct_ConMovimientosConflicto(t *testing.T) {
	f := newCatalog()
	ctx := context.Background()
	p, err := f.products.Create(ctx, dto.CreateProductRequest{Code: "D1", Name: "Borrable"})
	require.NoError(t, err)
	q, err := f.products.Create(ctx, dto.CreateProductRequest{Code: "D2", Name: "Con historia"})
	require.NoError(t, err)
	require.NoError(t, f.store.Movements().Create(ctx, &entity.StockMovement{
		ID: uuid.NewString(), ProductID: q.ID, Kind: entity.MovementEntry, Quantity: 1,
	}))

	require.NoError(t, f.products.Delete(ctx, p.ID))
	_, err = f.products.Get(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.products.Delete(ctx, q.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.products.Get(ctx, q.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, f.products.Delete(ctx, uuid.NewString()), domain.ErrNotFound)
}

func TestSearchProducts_TerminoYSector(t *testing.T) {
	f := newCatalog()
	ctx := context.Background()
	sec := named(t, f.sectors, "Baño")
	_, err := f.products.Create(ctx, dto.CreateProductRequest{Code: "S1", Name: "Grifo", CodeB: "XB-77", SectorID: sec})
	require.NoError(t, err)
	_, err = f.products.Create(ctx, dto.CreateProductRequest{Code: "S2", Name: "Ducha"})
	require.NoError(t, err)

	byCodeB, err := f.products.Search(ctx, entity.ProductFilter{Term: "xb-7"})
	require.NoError(t, err)
	require.Len(t, byCodeB, 1)
	assert.Equal(t, "Grifo", byCodeB[0].Name)

	bySector, err := f.products.Search(ctx, entity.ProductFilter{SectorID: sec})
	require.NoError(t, err)
	assert.Len(t, bySector, 1)

	all, err := f.products.Search(ctx, entity.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ducha", all[0].Name, "ordenado por nombre")
}

func TestFormData(t *testing.T) {
	f := newCatalog()
	ctx := context.Background()
	sup := named(t, f.suppliers, "Prov")
	named(t, f.natures, "Nat")
	p, err := f.products.Create(ctx, dto.CreateProductRequest{Code: "F1", Name: "Form", SupplierIDs: []string{sup}})
	require.NoError(t, err)

	data, err := f.products.FormData(ctx, "")
	require.NoError(t, err)
	assert.Len(t, data.Suppliers, 1)
	assert.Len(t, data.Natures, 1)
	assert.Nil(t, data.Product)

	data, err = f.products.FormData(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, data.Product)
	assert.Equal(t, sup, data.Product.Suppliers[0].ID)
}

// Package analytics contiene los casos de uso del tablero principal.
package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// DashboardUseCase genera los indicadores del tablero.
//
// Fuente de datos: repositorios de solo lectura; no toca el libro de movimientos directamente.
type DashboardUseCase struct {
	products      repository.ProductRepository
	suppliers     repository.NamedEntityRepository
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	products repository.ProductRepository,
	suppliers repository.NamedEntityRepository,
	analyticsRepo repository.AnalyticsRepository,
) *DashboardUseCase {
	return &DashboardUseCase{products: products, suppliers: suppliers, analyticsRepo: analyticsRepo}
}

// GetKPIs construye el DashboardKPIsDTO.
//
// Tres consultas en paralelo:
//  1. Count de productos
//  2. Count de proveedores
//  3. StockValue (Σ precio × saldo)
func (uc *DashboardUseCase) GetKPIs(ctx context.Context) (*dto.DashboardKPIsDTO, error) {
	type countResult struct {
		n   int
		err error
	}
	type valueResult struct {
		v   decimal.Decimal
		err error
	}

	productsCh := make(chan countResult, 1)
	suppliersCh := make(chan countResult, 1)
	valueCh := make(chan valueResult, 1)

	go func() {
		n, err := uc.products.Count(ctx)
		productsCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.suppliers.Count(ctx)
		suppliersCh <- countResult{n, err}
	}()
	go func() {
		v, err := uc.analyticsRepo.StockValue(ctx)
		valueCh <- valueResult{v, err}
	}()

	products := <-productsCh
	suppliers := <-suppliersCh
	value := <-valueCh

	if products.err != nil {
		return nil, fmt.Errorf("dashboard: total productos: %w", products.err)
	}
	if suppliers.err != nil {
		return nil, fmt.Errorf("dashboard: total proveedores: %w", suppliers.err)
	}
	if value.err != nil {
		return nil, fmt.Errorf("dashboard: valor del inventario: %w", value.err)
	}

	return &dto.DashboardKPIsDTO{
		TotalProducts:   products.n,
		TotalSuppliers:  suppliers.n,
		TotalStockValue: value.v.StringFixed(2),
	}, nil
}

// Package ledger implementa el libro de existencias: entradas, salidas, saldos
// derivados y listados de movimientos.
package ledger

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Estoque-api/internal/application/auth"
	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/ports"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	domledger "github.com/jhoicas/Estoque-api/internal/domain/ledger"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// ReasonMaxLen longitud máxima del motivo de salida.
const ReasonMaxLen = 200

// UseCase registra movimientos de forma transaccional y deriva saldos.
// Cada escritura bloquea la fila del producto (SELECT FOR UPDATE) antes de leer el saldo,
// así dos salidas concurrentes sobre el mismo producto se serializan.
type UseCase struct {
	txRunner  ports.TxRunner
	products  repository.ProductRepository
	movements repository.MovementRepository
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner ports.TxRunner,
	products repository.ProductRepository,
	movements repository.MovementRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		products:  products,
		movements: movements,
		log:       log.Component("ledger"),
		now:       time.Now,
	}
}

// RecordEntry agrega una Entrada y devuelve el saldo resultante.
func (uc *UseCase) RecordEntry(ctx context.Context, p auth.Principal, productID string, quantity int64) (*dto.BalanceResponse, error) {
	if quantity <= 0 {
		return nil, domain.Validation("la cantidad debe ser un entero positivo")
	}
	return uc.record(ctx, p, productID, entity.MovementEntry, quantity, "")
}

// RecordExit agrega una Saida si el saldo actual alcanza; el motivo es obligatorio.
func (uc *UseCase) RecordExit(ctx context.Context, p auth.Principal, productID string, quantity int64, reason string) (*dto.BalanceResponse, error) {
	if quantity <= 0 {
		return nil, domain.Validation("la cantidad debe ser un entero positivo")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.Validation("el motivo de salida es obligatorio")
	}
	if len([]rune(reason)) > ReasonMaxLen {
		return nil, domain.Validation(fmt.Sprintf("el motivo no puede superar %d caracteres", ReasonMaxLen))
	}
	return uc.record(ctx, p, productID, entity.MovementExit, quantity, reason)
}

func (uc *UseCase) record(ctx context.Context, p auth.Principal, productID, kind string, quantity int64, reason string) (*dto.BalanceResponse, error) {
	if !p.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	if productID == "" {
		return nil, domain.Validation("product_id es requerido")
	}

	var newBalance int64
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
	) error {
		// Bloquea la fila del producto hasta el Commit/Rollback
		product, err := productRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return &domain.Error{Kind: domain.ErrNotFound, Also: domain.ErrInvalidInput, Message: "producto no encontrado"}
		}
		current, err := movRepo.BalanceOf(ctx, productID)
		if err != nil {
			return err
		}
		if kind == entity.MovementExit && !domledger.CanWithdraw(current, quantity) {
			return domain.NewError(domain.ErrInsufficientBalance,
				fmt.Sprintf("saldo insuficiente: disponible %d, solicitado %d", current, quantity))
		}
		mov := &entity.StockMovement{
			ID:        uuid.New().String(),
			ProductID: productID,
			UserID:    p.UserID,
			Kind:      kind,
			Quantity:  quantity,
			Reason:    reason,
			CreatedAt: uc.now(),
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		newBalance = domledger.Apply(current, kind, quantity)
		return nil
	})
	if err != nil {
		uc.logFailure(err, "registrar movimiento", productID)
		return nil, err
	}

	uc.log.Info().
		Str("product_id", productID).
		Str("user_id", p.UserID).
		Str("kind", kind).
		Int64("quantity", quantity).
		Int64("balance", newBalance).
		Msg("movimiento registrado")
	return &dto.BalanceResponse{ProductID: productID, Balance: newBalance}, nil
}

// GetBalance saldo derivado del producto (0 sin movimientos).
func (uc *UseCase) GetBalance(ctx context.Context, productID string) (*dto.BalanceResponse, error) {
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto no encontrado")
	}
	balance, err := uc.movements.BalanceOf(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{ProductID: productID, Balance: balance}, nil
}

// ListMovements secuencia perezosa y finita de movimientos. Cada range vuelve a
// ejecutar la consulta, por lo que la secuencia puede recorrerse de nuevo.
// Un Kind distinto de Entrada/Saida se ignora (lista todos).
func (uc *UseCase) ListMovements(ctx context.Context, filter entity.MovementFilter) iter.Seq2[dto.MovementResponse, error] {
	if !entity.ValidMovementKind(filter.Kind) {
		filter.Kind = ""
	}
	return func(yield func(dto.MovementResponse, error) bool) {
		for rec, err := range uc.movements.Iterate(ctx, filter) {
			if err != nil {
				yield(dto.MovementResponse{}, err)
				return
			}
			if !yield(ToMovementResponse(rec), nil) {
				return
			}
		}
	}
}

// CollectMovements materializa ListMovements en un slice.
func (uc *UseCase) CollectMovements(ctx context.Context, filter entity.MovementFilter) ([]dto.MovementResponse, error) {
	out := []dto.MovementResponse{}
	for m, err := range uc.ListMovements(ctx, filter) {
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// ListBalances saldo de cada producto que coincide con el filtro.
func (uc *UseCase) ListBalances(ctx context.Context, filter entity.ProductFilter) ([]dto.ProductBalanceResponse, error) {
	rows, err := uc.movements.Balances(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductBalanceResponse, 0, len(rows))
	for _, r := range rows {
		sector := r.SectorName
		if sector == "" {
			sector = "Sin sector"
		}
		out = append(out, dto.ProductBalanceResponse{
			ProductID:  r.ProductID,
			Code:       r.Code,
			Name:       r.Name,
			Balance:    r.Balance,
			Price:      r.Price.StringFixed(2),
			CodeB:      r.CodeB,
			CodeC:      r.CodeC,
			SectorName: sector,
		})
	}
	return out, nil
}

// ToMovementResponse convierte el registro; producto o usuario ausentes quedan con marcador.
func ToMovementResponse(r entity.MovementRecord) dto.MovementResponse {
	productName := r.ProductName
	if productName == "" {
		productName = entity.MissingPlaceholder
	}
	userName := r.UserName
	if userName == "" {
		userName = entity.MissingPlaceholder
	}
	return dto.MovementResponse{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		Kind:        r.Kind,
		Quantity:    r.Quantity,
		Reason:      r.Reason,
		ProductID:   r.ProductID,
		ProductCode: r.ProductCode,
		ProductName: productName,
		UserName:    userName,
	}
}

func (uc *UseCase) logFailure(err error, op, productID string) {
	if domain.IsDomain(err) {
		uc.log.Debug().Err(err).Str("op", op).Str("product_id", productID).Msg("operación rechazada")
		return
	}
	uc.log.Error().Err(err).Str("op", op).Str("product_id", productID).Msg("fallo inesperado, transacción revertida")
}

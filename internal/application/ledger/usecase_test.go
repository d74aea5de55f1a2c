package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/apptest"
	"github.com/jhoicas/Estoque-api/internal/application/auth"
	"github.com/jhoicas/Estoque-api/internal/application/ledger"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

type fixture struct {
	store *apptest.Store
	uc    *ledger.UseCase
	user  *entity.User
	p     auth.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := apptest.NewStore()
	user := &entity.User{ID: uuid.NewString(), Name: "Ana", Login: "ana", Role: "Operador", Active: true}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return &fixture{
		store: store,
		uc:    ledger.NewUseCase(store, store.Products(), store.Movements(), logger.Nop()),
		user:  user,
		p:     auth.Principal{UserID: user.ID, Role: user.Role},
	}
}

func (f *fixture) product(t *testing.T, code, name string) *entity.Product {
	t.Helper()
	p := &entity.Product{ID: uuid.NewString(), Code: code, Name: name, Price: decimal.NewFromInt(3)}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func TestRecordEntryExit_SaldoDerivado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "A1", "Tornillo")

	bal, err := f.uc.GetBalance(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bal.Balance, "sin movimientos el saldo es 0")

	res, err := f.uc.RecordEntry(ctx, f.p, p.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.Balance)

	res, err = f.uc.RecordEntry(ctx, f.p, p.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), res.Balance)

	res, err = f.uc.RecordExit(ctx, f.p, p.ID, 7, "venta")
	require.NoError(t, err)
	assert.Equal(t, int64(8), res.Balance)

	_, err = f.uc.RecordExit(ctx, f.p, p.ID, 100, "venta")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Contains(t, err.Error(), "disponible 8")

	bal, err = f.uc.GetBalance(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), bal.Balance, "la salida rechazada no altera el saldo")
	assert.Equal(t, 3, f.store.MovementCount())
}

func TestRecordExit_TodoElSaldoDejaCero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "A2", "Tuerca")
	_, err := f.uc.RecordEntry(ctx, f.p, p.ID, 4)
	require.NoError(t, err)

	res, err := f.uc.RecordExit(ctx, f.p, p.ID, 4, "consumo")
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Balance)
}

func TestRecord_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "A3", "Clavo")

	cases := []struct {
		name string
		run  func() error
		kind error
	}{
		{"entrada cantidad cero", func() error { _, err := f.uc.RecordEntry(ctx, f.p, p.ID, 0); return err }, domain.ErrInvalidInput},
		{"entrada cantidad negativa", func() error { _, err := f.uc.RecordEntry(ctx, f.p, p.ID, -3); return err }, domain.ErrInvalidInput},
		{"salida sin motivo", func() error { _, err := f.uc.RecordExit(ctx, f.p, p.ID, 1, "   "); return err }, domain.ErrInvalidInput},
		{"salida cantidad cero", func() error { _, err := f.uc.RecordExit(ctx, f.p, p.ID, 0, "x"); return err }, domain.ErrInvalidInput},
		{"producto inexistente", func() error { _, err := f.uc.RecordEntry(ctx, f.p, uuid.NewString(), 1); return err }, domain.ErrNotFound},
		{"sin sesión", func() error { _, err := f.uc.RecordEntry(ctx, auth.Principal{}, p.ID, 1); return err }, domain.ErrUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.run(), tc.kind)
		})
	}
	assert.Equal(t, 0, f.store.MovementCount(), "ninguna operación rechazada agrega movimientos")
}

func TestRecordEntry_ProductoInexistenteTambienEsValidacion(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RecordEntry(context.Background(), f.p, uuid.NewString(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecord_FalloDeEscrituraRevierte(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "A4", "Perno")
	f.store.FailNextMovement = errors.New("disco lleno")

	_, err := f.uc.RecordEntry(ctx, f.p, p.ID, 3)
	require.Error(t, err)
	assert.False(t, domain.IsDomain(err))

	bal, err := f.uc.GetBalance(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bal.Balance)
}

func TestRecordExit_ConcurrenteNuncaNegativo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "A5", "Arandela")
	_, err := f.uc.RecordEntry(ctx, f.p, p.ID, 5)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.uc.RecordExit(ctx, f.p, p.ID, 1, "consumo"); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, accepted)
	bal, err := f.uc.GetBalance(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bal.Balance)
}

func TestGetBalance_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.GetBalance(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListMovements_FiltrosOrdenYReinicio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "B1", "Broca")
	other := f.product(t, "B2", "Lija")

	_, err := f.uc.RecordEntry(ctx, f.p, p.ID, 10)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = f.uc.RecordExit(ctx, f.p, p.ID, 2, "uso interno")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = f.uc.RecordEntry(ctx, f.p, other.ID, 1)
	require.NoError(t, err)

	all, err := f.uc.CollectMovements(ctx, entity.MovementFilter{NewestFirst: true})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Lija", all[0].ProductName, "más reciente primero")
	assert.Equal(t, "Ana", all[0].UserName)

	exits, err := f.uc.CollectMovements(ctx, entity.MovementFilter{Kind: entity.MovementExit})
	require.NoError(t, err)
	require.Len(t, exits, 1)
	assert.Equal(t, "uso interno", exits[0].Reason)

	unknown, err := f.uc.CollectMovements(ctx, entity.MovementFilter{Kind: "Otro"})
	require.NoError(t, err)
	assert.Len(t, unknown, 3, "un tipo desconocido lista todo")

	byProduct, err := f.uc.CollectMovements(ctx, entity.MovementFilter{ProductID: p.ID})
	require.NoError(t, err)
	assert.Len(t, byProduct, 2)

	// La secuencia puede recorrerse más de una vez
	seq := f.uc.ListMovements(ctx, entity.MovementFilter{})
	count := func() int {
		n := 0
		for _, err := range seq {
			require.NoError(t, err)
			n++
		}
		return n
	}
	assert.Equal(t, 3, count())
	assert.Equal(t, 3, count())

	// Corte anticipado
	n := 0
	for range seq {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestToMovementResponse_Marcadores(t *testing.T) {
	got := ledger.ToMovementResponse(entity.MovementRecord{StockMovement: entity.StockMovement{Kind: entity.MovementEntry, Quantity: 1}})
	assert.Equal(t, entity.MissingPlaceholder, got.ProductName)
	assert.Equal(t, entity.MissingPlaceholder, got.UserName)
}

func TestListBalances_SectorPorDefecto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "C1", "Cable")
	_, err := f.uc.RecordEntry(ctx, f.p, p.ID, 7)
	require.NoError(t, err)
	f.product(t, "C2", "Cinta")

	rows, err := f.uc.ListBalances(ctx, entity.ProductFilter{Term: "c"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Cable", rows[0].Name)
	assert.Equal(t, int64(7), rows[0].Balance)
	assert.Equal(t, "3.00", rows[0].Price)
	assert.Equal(t, "Sin sector", rows[0].SectorName)
	assert.Equal(t, int64(0), rows[1].Balance)
}

//go:build integration

package postgres_test

// Pruebas contra PostgreSQL real vía testcontainers.
// Ejecutar con: go test -tags integration ./internal/infrastructure/postgres/... -v

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/Estoque-api/internal/application/auth"
	"github.com/jhoicas/Estoque-api/internal/application/ledger"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Estoque-api/pkg/config"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcPostgres.WithDatabase("estoque_test"),
		tcPostgres.WithUsername("estoque"),
		tcPostgres.WithPassword("estoque"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	url, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 10}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	// Dos veces: el esquema es idempotente
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool) *entity.User {
	t.Helper()
	now := time.Now()
	u := &entity.User{
		ID: uuid.New().String(), Name: "Operador", Login: "op-" + uuid.NewString()[:8],
		PasswordHash: "x", Role: "Operador", Active: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, postgres.NewUserRepository(pool).Create(context.Background(), u))
	return u
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, code, name string) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID: uuid.New().String(), Code: code, Name: name, Price: decimal.RequireFromString("2.50"),
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, postgres.NewProductRepository(pool).Create(context.Background(), p))
	return p
}

func TestRepositories_Postgres(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	user := seedUser(t, pool)
	products := postgres.NewProductRepository(pool)
	movements := postgres.NewMovementRepository(pool)
	uc := ledger.NewUseCase(postgres.NewTxRunner(pool), products, movements, logger.Nop())
	principal := auth.Principal{UserID: user.ID, Role: user.Role}

	t.Run("código duplicado", func(t *testing.T) {
		seedProduct(t, pool, "DUP-1", "Original")
		now := time.Now()
		err := products.Create(ctx, &entity.Product{ID: uuid.NewString(), Code: "DUP-1", Name: "Otro", CreatedAt: now, UpdatedAt: now})
		assert.ErrorIs(t, err, domain.ErrDuplicate)
		got, err := products.GetByCode(ctx, "DUP-1")
		require.NoError(t, err)
		assert.Equal(t, "Original", got.Name)
	})

	t.Run("saldo derivado y salida rechazada", func(t *testing.T) {
		p := seedProduct(t, pool, "LED-1", "Tornillo")
		_, err := uc.RecordEntry(ctx, principal, p.ID, 10)
		require.NoError(t, err)
		_, err = uc.RecordEntry(ctx, principal, p.ID, 5)
		require.NoError(t, err)
		res, err := uc.RecordExit(ctx, principal, p.ID, 7, "venta")
		require.NoError(t, err)
		assert.Equal(t, int64(8), res.Balance)

		_, err = uc.RecordExit(ctx, principal, p.ID, 100, "venta")
		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
		bal, err := movements.BalanceOf(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(8), bal)

		// Con movimientos el producto no se puede borrar
		err = products.Delete(ctx, p.ID)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("salidas concurrentes no dejan saldo negativo", func(t *testing.T) {
		p := seedProduct(t, pool, "CON-1", "Arandela")
		_, err := uc.RecordEntry(ctx, principal, p.ID, 5)
		require.NoError(t, err)

		var wg sync.WaitGroup
		var mu sync.Mutex
		ok := 0
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := uc.RecordExit(ctx, principal, p.ID, 1, "consumo"); err == nil {
					mu.Lock()
					ok++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 5, ok)
		bal, err := movements.BalanceOf(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), bal)
	})

	t.Run("relaciones y búsqueda", func(t *testing.T) {
		suppliers, err := postgres.NewNamedEntityRepository(pool, entity.KindSupplier)
		require.NoError(t, err)
		now := time.Now()
		acme := &entity.NamedEntity{ID: uuid.NewString(), Name: "ACME", CreatedAt: now, UpdatedAt: now}
		beta := &entity.NamedEntity{ID: uuid.NewString(), Name: "Beta", CreatedAt: now, UpdatedAt: now}
		require.NoError(t, suppliers.Create(ctx, acme))
		require.NoError(t, suppliers.Create(ctx, beta))
		err = suppliers.Create(ctx, &entity.NamedEntity{ID: uuid.NewString(), Name: "ACME", CreatedAt: now, UpdatedAt: now})
		assert.ErrorIs(t, err, domain.ErrDuplicate)

		p := seedProduct(t, pool, "REL-1", "Bisagra dorada")
		require.NoError(t, products.ReplaceRelations(ctx, p.ID, entity.KindSupplier, []string{beta.ID, acme.ID, uuid.NewString()}))

		found, err := products.Search(ctx, entity.ProductFilter{Term: "DORADA"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		require.Len(t, found[0].Suppliers, 2)
		assert.Equal(t, "ACME", found[0].Suppliers[0].Name)

		inUse, err := suppliers.InUse(ctx, acme.ID)
		require.NoError(t, err)
		assert.True(t, inUse)
		assert.ErrorIs(t, suppliers.Delete(ctx, acme.ID), domain.ErrConflict)

		require.NoError(t, products.ReplaceRelations(ctx, p.ID, entity.KindSupplier, nil))
		require.NoError(t, suppliers.Delete(ctx, acme.ID))
	})

	t.Run("movimientos iterables dos veces", func(t *testing.T) {
		seq := uc.ListMovements(ctx, entity.MovementFilter{Kind: entity.MovementExit, NewestFirst: true})
		count := func() int {
			n := 0
			for _, err := range seq {
				require.NoError(t, err)
				n++
			}
			return n
		}
		first := count()
		assert.Positive(t, first)
		assert.Equal(t, first, count())
	})

	t.Run("valor del inventario", func(t *testing.T) {
		v, err := postgres.NewAnalyticsRepository(pool).StockValue(ctx)
		require.NoError(t, err)
		assert.True(t, v.GreaterThan(decimal.Zero))
	})
}

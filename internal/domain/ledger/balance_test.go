package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/ledger"
)

func mov(kind string, qty int64) entity.StockMovement {
	return entity.StockMovement{Kind: kind, Quantity: qty}
}

func TestBalance_SinMovimientosEsCero(t *testing.T) {
	assert.Equal(t, int64(0), ledger.Balance(nil))
}

func TestBalance_EntradasMenosSalidas(t *testing.T) {
	movs := []entity.StockMovement{
		mov(entity.MovementEntry, 10),
		mov(entity.MovementEntry, 5),
		mov(entity.MovementExit, 7),
	}
	assert.Equal(t, int64(8), ledger.Balance(movs))
}

func TestCanWithdraw(t *testing.T) {
	assert.True(t, ledger.CanWithdraw(8, 8), "retirar todo el saldo está permitido")
	assert.True(t, ledger.CanWithdraw(8, 1))
	assert.False(t, ledger.CanWithdraw(8, 9))
	assert.False(t, ledger.CanWithdraw(8, 0))
	assert.False(t, ledger.CanWithdraw(0, 1))
}

func TestApply(t *testing.T) {
	assert.Equal(t, int64(15), ledger.Apply(10, entity.MovementEntry, 5))
	assert.Equal(t, int64(3), ledger.Apply(10, entity.MovementExit, 7))
}

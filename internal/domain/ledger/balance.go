package ledger

import "github.com/jhoicas/Estoque-api/internal/domain/entity"

// Balance calcula el saldo de un historial de movimientos (servicio de dominio).
// Saldo = Σ Entrada − Σ Saida; 0 sin movimientos.
func Balance(movements []entity.StockMovement) int64 {
	var total int64
	for _, m := range movements {
		total += m.Signed()
	}
	return total
}

// CanWithdraw indica si una salida de qty deja el saldo en cero o más.
func CanWithdraw(balance, qty int64) bool {
	return qty > 0 && qty <= balance
}

// Apply devuelve el saldo resultante de aplicar un movimiento nuevo.
func Apply(balance int64, kind string, qty int64) int64 {
	return balance + entity.StockMovement{Kind: kind, Quantity: qty}.Signed()
}

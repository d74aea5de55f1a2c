package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento. Los valores son los que se persisten.
const (
	MovementEntry = "Entrada" // suma al saldo
	MovementExit  = "Saida"   // resta del saldo
)

// MissingPlaceholder texto que sustituye a un producto o usuario ya inexistente.
const MissingPlaceholder = "(eliminado)"

// StockMovement registro inmutable del libro de existencias.
type StockMovement struct {
	ID        string
	ProductID string
	UserID    string
	Kind      string // Entrada | Saida
	Quantity  int64  // siempre positivo; el signo lo da Kind
	Reason    string // obligatorio solo en Saida
	CreatedAt time.Time
}

// Signed devuelve la cantidad con signo según el tipo.
func (m StockMovement) Signed() int64 {
	if m.Kind == MovementExit {
		return -m.Quantity
	}
	return m.Quantity
}

// ValidMovementKind indica si kind es Entrada o Saida.
func ValidMovementKind(kind string) bool {
	return kind == MovementEntry || kind == MovementExit
}

// MovementRecord movimiento con datos de producto y usuario para listados.
type MovementRecord struct {
	StockMovement
	ProductCode string
	ProductName string
	UserName    string
}

// MovementFilter filtro del listado de movimientos.
type MovementFilter struct {
	Kind        string // vacío o desconocido = todos
	ProductID   string
	NewestFirst bool
	Limit       int // 0 = sin límite
}

// ProductBalance fila de saldo por producto.
type ProductBalance struct {
	ProductID  string
	Code       string
	Name       string
	CodeB      string
	CodeC      string
	Price      decimal.Decimal
	SectorName string
	Balance    int64
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Límites de longitud de los campos de Product (coinciden con el esquema).
const (
	ProductCodeMaxLen        = 20
	ProductNameMaxLen        = 100
	ProductDescriptionMaxLen = 200
)

// Product representa un producto del catálogo. El saldo nunca se guarda aquí:
// se deriva de los movimientos (ver ledger.Balance).
type Product struct {
	ID          string
	Code        string // único, sin espacios a los lados
	Name        string
	Description string
	Price       decimal.Decimal // 2 decimales, por defecto 0.00
	CodeB       string
	CodeC       string
	SectorID    string // vacío = sin sector
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductDetail producto con sus relaciones ya resueltas (lecturas).
type ProductDetail struct {
	Product
	SectorName string
	Suppliers  []NamedEntity
	Natures    []NamedEntity
}

// ProductFilter filtro de búsqueda del catálogo.
type ProductFilter struct {
	Term     string // subcadena sin distinguir mayúsculas en nombre y los tres códigos
	SectorID string
}

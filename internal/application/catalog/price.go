package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/domain"
)

// maxPrice límite de NUMERIC(10,2).
var maxPrice = decimal.RequireFromString("99999999.99")

// ParsePrice interpreta un precio con ',' o '.' como separador decimal.
// Vacío equivale a 0.00; el resultado se redondea a 2 decimales y nunca es negativo.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, domain.Validation("precio inválido: " + raw)
	}
	if d.IsNegative() {
		return decimal.Zero, domain.Validation("el precio no puede ser negativo")
	}
	d = d.Round(2)
	if d.GreaterThan(maxPrice) {
		return decimal.Zero, domain.Validation("precio fuera de rango: " + raw)
	}
	return d, nil
}

// FormatPrice salida canónica con 2 decimales.
func FormatPrice(d decimal.Decimal) string { return d.StringFixed(2) }

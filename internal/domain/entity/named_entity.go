package entity

import "time"

// NamedKind identifica las entidades del catálogo que solo tienen nombre único.
type NamedKind string

const (
	KindSector   NamedKind = "sector"
	KindSupplier NamedKind = "supplier"
	KindNature   NamedKind = "nature"
)

// NameMaxLen longitud máxima del nombre de sector, proveedor o naturaleza.
const NameMaxLen = 100

// Label nombre legible para mensajes.
func (k NamedKind) Label() string {
	switch k {
	case KindSector:
		return "sector"
	case KindSupplier:
		return "proveedor"
	case KindNature:
		return "naturaleza"
	}
	return string(k)
}

// Valid indica si k es uno de los tipos conocidos.
func (k NamedKind) Valid() bool {
	return k == KindSector || k == KindSupplier || k == KindNature
}

// NamedEntity sector, proveedor o naturaleza (etiqueta).
// Sector se relaciona 1:N con Product; proveedor y naturaleza N:M.
type NamedEntity struct {
	ID        string
	Kind      NamedKind
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

package dto

import "time"

// NamedEntityRequest entrada para crear o renombrar sector, proveedor o naturaleza.
type NamedEntityRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// NamedEntityResponse salida de sector, proveedor o naturaleza.
type NamedEntityResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package auth

import "github.com/jhoicas/Estoque-api/internal/domain/entity"

// Principal identidad autenticada de la petición en curso. Se construye en el
// middleware a partir del JWT y se pasa explícitamente a cada caso de uso.
type Principal struct {
	UserID string
	Role   string
}

// IsAdmin indica si el principal tiene permiso de administrador.
func (p Principal) IsAdmin() bool { return p.Role == entity.RoleAdmin }

// Authenticated indica si el principal proviene de un token válido.
func (p Principal) Authenticated() bool { return p.UserID != "" }

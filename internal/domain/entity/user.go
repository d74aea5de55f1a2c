package entity

import "time"

// RoleAdmin permiso con acceso a la administración de usuarios.
const RoleAdmin = "Administrador"

// User usuario del sistema. Nunca se borra: se desactiva (Active=false).
type User struct {
	ID           string
	Name         string
	Login        string // único
	PasswordHash string // bcrypt, nunca la contraseña plana
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el usuario tiene permiso de administrador.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

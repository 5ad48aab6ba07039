package entity

import "time"

// Roles de usuario para el gate de autorización.
const (
	RoleAdmin    = "admin"
	RoleVendedor = "vendedor"
)

// User representa un usuario de la aplicación.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string // admin | vendedor
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

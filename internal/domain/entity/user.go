package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin    = "admin"
	RoleTecnico  = "tecnico"
	RoleVendedor = "vendedor"
)

// User usuario del sistema, ligado a una sucursal.
type User struct {
	ID           string
	BranchID     string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

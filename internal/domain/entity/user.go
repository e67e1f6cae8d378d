package entity

import "time"

// Roles de usuario del almacén.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor" // aprueba composiciones
	RoleOperador   = "operador"   // arma/desarma UCPs
)

// User representa un operador del sistema.
type User struct {
	ID           string
	WarehouseID  string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // "active" | "disabled"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

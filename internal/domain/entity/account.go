package entity

import "time"

// Role categoría cerrada que determina qué operaciones puede invocar una cuenta.
type Role string

// Roles válidos para Account.
const (
	RoleAdmin    Role = "ADMIN"
	RoleFinance  Role = "FINANCE"
	RoleHR       Role = "HR"
	RoleEmployee Role = "EMPLOYEE"
)

// ParseRole valida que el string pertenezca al conjunto cerrado de roles.
// Devuelve false para cualquier valor fuera del conjunto (el rol nunca es texto libre).
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleFinance, RoleHR, RoleEmployee:
		return Role(s), true
	}
	return "", false
}

// Status estado de aprobación de una cuenta; controla si el login emite token.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// Account representa una identidad del sistema con credenciales, rol y estado de aprobación.
type Account struct {
	ID           int64
	Name         string
	Email        string // único, normalizado a minúsculas antes de persistir
	PasswordHash string // bcrypt hash, nunca el password plano después de persistir
	Role         Role   // inmutable después de la creación
	Status       Status // PENDING, ACCEPTED, REJECTED
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

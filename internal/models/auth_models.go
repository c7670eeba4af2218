package models

import "time"

// Role values stored in usuarios.rol.
const (
	RoleStandard = "usuario"
	RoleAdmin    = "admin"
)

// Account is a staff credential allowed to use the management API.
type Account struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password"` // never serialized
	Role         string    `json:"rol" db:"rol"`
	IsActive     bool      `json:"activo" db:"activo"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// AccountSummary is the public view of an account returned by register and login.
type AccountSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"rol"`
}

// Summary strips everything but the identity fields.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{ID: a.ID, Username: a.Username, Email: a.Email, Role: a.Role}
}

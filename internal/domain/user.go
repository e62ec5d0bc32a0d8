package domain

import "time"

// Role distinguishes regular account holders from administrators.
type Role string

const (
	RoleRegular Role = "Regular"
	RoleAdmin   Role = "Admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleRegular || r == RoleAdmin
}

// User is the domain model for wallet accounts.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	// RefreshToken is the single active refresh token for the account.
	// Overwritten at login, nulled at logout.
	RefreshToken *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

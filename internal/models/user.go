package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the user's role type as stored in the roles table
type Role string

const (
	RoleStandard Role = "standard"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleStandard
}

// User represents a user in the system
type User struct {
	ID           uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Not serialized
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// NormalizeEmail trims and lower-cases an email so that lookups and the
// unique index treat addresses differing only in case as the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

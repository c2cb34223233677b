package auth

import (
	"fmt"
	"slices"
	"time"
)

// Role is the coarse permission level of a user. Roles are compared by exact value.
type Role string

const (
	RoleBasic Role = "BASIC"
	RoleAdmin Role = "ADMIN"
)

// Roles lists every accepted role.
var Roles = []Role{RoleBasic, RoleAdmin}

// ParseRole accepts the exact, case-sensitive role names only.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q, want one of %v", ErrInvalidRole, s, Roles)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

func (r Role) String() string { return string(r) }

// User is a registered account. PasswordHash never leaves the process.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

package domain

import (
	"strings"
	"time"
)

// Role is the access tier of a user account.
type Role string

const (
	RoleGuest    Role = "guest"
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
	RoleAdmin    Role = "admin"
)

// Roles lists every valid role.
var Roles = []Role{RoleGuest, RoleCustomer, RoleAgent, RoleAdmin}

// IsValid reports whether r is one of the predefined roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleGuest, RoleCustomer, RoleAgent, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether r is the admin role. Admin vs non-admin is the
// only ordering between roles.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// ParseRole converts a string into a Role, reporting whether it is valid.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}

// User models an account stored in the directory.
type User struct {
	ID           int64      `json:"id"`
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Principal returns the identity exposed after authentication.
func (u *User) Principal() *Principal {
	return &Principal{ID: u.ID, Email: u.Email, Role: u.Role}
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

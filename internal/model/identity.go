package model

import "strings"

// Role is an authorization role keyed by user email.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the verified caller of a request.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the identity may run reconciliation and catalog management.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// NormalizeEmail lowercases and trims an address so it can be used as a stable key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package shared

import (
	"fmt"
	"strings"
)

// Role is the marketplace user type.
type Role string

const (
	RoleFarmer Role = "farmer"
	RoleBuyer  Role = "buyer"
	RoleAdmin  Role = "admin"
)

// ParseRole validates a stored or claimed user type.
func ParseRole(raw string) (Role, error) {
	switch r := Role(strings.TrimSpace(strings.ToLower(raw))); r {
	case RoleFarmer, RoleBuyer, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("shared: unknown user type %q", raw)
	}
}

// Principal describes the authenticated actor for the lifetime of one request.
type Principal struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserType  Role   `json:"userType"`
}

// IsAdmin reports whether the principal carries the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.UserType == RoleAdmin
}

// Owns reports whether ownerID identifies this principal.
func (p *Principal) Owns(ownerID string) bool {
	return p != nil && ownerID != "" && p.ID == ownerID
}

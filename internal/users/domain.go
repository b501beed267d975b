package users

import (
	"time"

	"github.com/yene-farm/yene-farm/internal/shared"
)

// Profile is the account as shown to its owner.
type Profile struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Phone     string      `json:"phone,omitempty"`
	UserType  shared.Role `json:"userType"`
	IsActive  bool        `json:"isActive"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// PublicProfile is the subset of an active account visible to anyone.
type PublicProfile struct {
	ID          string      `json:"id"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	UserType    shared.Role `json:"userType"`
	MemberSince time.Time   `json:"memberSince"`
}

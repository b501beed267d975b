package auth

import (
	"time"

	"github.com/yene-farm/yene-farm/internal/shared"
)

// User represents a stored marketplace account with its credentials.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	UserType     shared.Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal projects the record onto the per-request identity.
func (u *User) Principal() *shared.Principal {
	return &shared.Principal{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserType:  u.UserType,
	}
}

// NewUser carries the fields required to create an account.
type NewUser struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	UserType     shared.Role
}

// Session is the result of a successful signup or login.
type Session struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}

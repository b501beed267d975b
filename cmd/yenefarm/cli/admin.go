package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/yene-farm/yene-farm/internal/auth"
	"github.com/yene-farm/yene-farm/internal/shared"
)

// AdminCLI provisions administrator accounts, which public signup refuses.
type AdminCLI struct {
	repo   auth.Repository
	hasher *auth.PasswordHasher
}

// NewAdminCLI constructs the helper.
func NewAdminCLI(repo auth.Repository, hasher *auth.PasswordHasher) *AdminCLI {
	return &AdminCLI{repo: repo, hasher: hasher}
}

// AdminInput names the account to create.
type AdminInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// CreateAdmin stores a new active admin account.
func (c *AdminCLI) CreateAdmin(ctx context.Context, in AdminInput) (*auth.User, error) {
	if in.Email == "" {
		return nil, errors.New("admin cli: email is required")
	}
	if len(in.Password) < 12 {
		return nil, errors.New("admin cli: password must be at least 12 characters")
	}
	if in.FirstName == "" {
		in.FirstName = "Admin"
	}
	if in.LastName == "" {
		in.LastName = "User"
	}
	hash, err := c.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user, err := c.repo.Create(ctx, auth.NewUser{
		Email:        auth.NormalizeEmail(in.Email),
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		UserType:     shared.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			return nil, fmt.Errorf("admin cli: %s already registered", in.Email)
		}
		return nil, fmt.Errorf("admin cli: create: %w", err)
	}
	return user, nil
}

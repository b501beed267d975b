package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yene-farm/yene-farm/internal/platform/db"
	"github.com/yene-farm/yene-farm/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	db db.DBTX
}

// NewRepository constructs a repository.
func NewRepository(conn db.DBTX) *Repository {
	return &Repository{db: conn}
}

// GetProfile returns the account regardless of its active flag.
func (r *Repository) GetProfile(ctx context.Context, id string) (Profile, error) {
	var p Profile
	if _, err := uuid.Parse(id); err != nil {
		return p, shared.ErrNotFound
	}
	var userType string
	err := r.db.QueryRow(ctx, `
		SELECT id::text, email, first_name, last_name, COALESCE(phone, ''), user_type, is_active, created_at, updated_at
		FROM users WHERE id = $1`, id).
		Scan(&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Phone, &userType, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, notFound(err)
	}
	p.UserType = shared.Role(userType)
	return p, nil
}

// GetPublicProfile returns an active account's public fields.
func (r *Repository) GetPublicProfile(ctx context.Context, id string) (PublicProfile, error) {
	var p PublicProfile
	if _, err := uuid.Parse(id); err != nil {
		return p, shared.ErrNotFound
	}
	var userType string
	err := r.db.QueryRow(ctx, `
		SELECT id::text, first_name, last_name, user_type, created_at
		FROM users WHERE id = $1 AND is_active = true`, id).
		Scan(&p.ID, &p.FirstName, &p.LastName, &userType, &p.MemberSince)
	if err != nil {
		return p, notFound(err)
	}
	p.UserType = shared.Role(userType)
	return p, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	return fmt.Errorf("users: query: %w", err)
}

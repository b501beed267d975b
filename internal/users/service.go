package users

import (
	"context"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	GetProfile(ctx context.Context, id string) (Profile, error)
	GetPublicProfile(ctx context.Context, id string) (PublicProfile, error)
}

// AccountPort performs credential changes owned by the auth service.
type AccountPort interface {
	ChangePassword(ctx context.Context, userID, current, next string) error
	Deactivate(ctx context.Context, userID string) error
}

// Service handles user business logic.
type Service struct {
	repo     RepositoryPort
	accounts AccountPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, accounts AccountPort) *Service {
	return &Service{repo: repo, accounts: accounts}
}

// Profile returns the caller's own account.
func (s *Service) Profile(ctx context.Context, userID string) (Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// PublicProfile returns another member's public card.
func (s *Service) PublicProfile(ctx context.Context, id string) (PublicProfile, error) {
	return s.repo.GetPublicProfile(ctx, id)
}

// ChangePassword delegates to the credential owner.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	return s.accounts.ChangePassword(ctx, userID, current, next)
}

// Deactivate disables the caller's account. Outstanding tokens stop
// resolving on their next use.
func (s *Service) Deactivate(ctx context.Context, userID string) error {
	return s.accounts.Deactivate(ctx, userID)
}

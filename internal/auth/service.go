package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yene-farm/yene-farm/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	hasher   *PasswordHasher
	tokens   *TokenService
	resolver *Resolver
}

// NewService constructs a new Service.
func NewService(repo Repository, hasher *PasswordHasher, tokens *TokenService) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		resolver: NewResolver(tokens, repo),
	}
}

// Resolver exposes the identity resolver backed by this service's store.
func (s *Service) Resolver() *Resolver {
	return s.resolver
}

// SignupInput is the validated registration payload.
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	UserType  shared.Role
}

// Signup registers an account and issues its first token.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	if in.UserType == shared.RoleAdmin {
		return nil, fmt.Errorf("auth: signup: %w", shared.ErrForbidden)
	}
	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, shared.ErrDuplicate
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("auth: signup lookup: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.Create(ctx, NewUser{
		Email:        NormalizeEmail(in.Email),
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		UserType:     in.UserType,
	})
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			return nil, shared.ErrDuplicate
		}
		return nil, fmt.Errorf("auth: signup create: %w", err)
	}
	return s.issue(user)
}

// Login validates email/password credentials. Unknown email and wrong
// password are indistinguishable; the active flag is only disclosed to a
// caller who knows the password.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.hasher.Burn(password)
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: login lookup: %w", err)
	}
	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrAccountDeactivated
	}
	return s.issue(user)
}

// VerifyToken resolves a raw token exactly as RequireAuth would.
func (s *Service) VerifyToken(ctx context.Context, token string) (*shared.Principal, error) {
	return s.resolver.ResolveToken(ctx, token)
}

// Logout revokes the presented token when a denylist is configured.
// Tokens that no longer verify need no revocation.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenInvalid) || errors.Is(err, ErrTokenExpired) {
			return nil
		}
		return err
	}
	return s.tokens.Revoke(ctx, claims)
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	ok, err := s.hasher.Verify(current, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCurrentPasswordIncorrect
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, hash)
}

// Deactivate disables the account.
func (s *Service) Deactivate(ctx context.Context, userID string) error {
	return s.repo.Deactivate(ctx, userID)
}

func (s *Service) issue(user *User) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(Identity{
		UserID:   user.ID,
		Email:    user.Email,
		UserType: user.UserType,
	})
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

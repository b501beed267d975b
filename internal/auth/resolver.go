package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yene-farm/yene-farm/internal/shared"
)

const bearerPrefix = "Bearer "

// TokenVerifier validates a raw bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*Claims, error)
}

// UserFinder loads credential records by identifier.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*User, error)
}

// Resolver turns a presented bearer token into the request principal. Every
// resolution re-reads the account so deactivation takes effect immediately.
type Resolver struct {
	tokens TokenVerifier
	users  UserFinder
}

// NewResolver constructs a Resolver.
func NewResolver(tokens TokenVerifier, users UserFinder) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve extracts the token from an Authorization header value and
// resolves it. Credential problems are returned as *shared.Failure (401);
// anything else is an internal error.
func (r *Resolver) Resolve(ctx context.Context, header string) (*shared.Principal, error) {
	token, ok := BearerToken(header)
	if !ok {
		return nil, shared.Unauthorized(shared.ReasonMissingHeader)
	}
	return r.ResolveToken(ctx, token)
}

// ResolveToken resolves a raw token.
func (r *Resolver) ResolveToken(ctx context.Context, token string) (*shared.Principal, error) {
	if token == "" {
		return nil, shared.Unauthorized(shared.ReasonInvalidToken)
	}
	claims, err := r.tokens.Verify(ctx, token)
	switch {
	case errors.Is(err, ErrTokenExpired):
		return nil, shared.Unauthorized(shared.ReasonTokenExpired)
	case errors.Is(err, ErrTokenInvalid):
		return nil, shared.Unauthorized(shared.ReasonInvalidToken)
	case err != nil:
		return nil, fmt.Errorf("auth: verify token: %w", err)
	}

	user, err := r.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.Unauthorized(shared.ReasonUserNotFound)
		}
		return nil, fmt.Errorf("auth: load user %s: %w", claims.UserID, err)
	}
	if !user.IsActive {
		return nil, shared.Unauthorized(shared.ReasonAccountDeactivated)
	}
	return user.Principal(), nil
}

// BearerToken extracts the token from "Bearer <token>". It reports false
// when the header is absent or uses another scheme; an empty token after
// the prefix is returned as ("", true).
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(bearerPrefix):]), true
}

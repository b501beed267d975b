package orders

import (
	"context"
	"fmt"

	"github.com/yene-farm/yene-farm/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Place records an order for the principal. Orders on behalf of another
// account are refused, admins included.
func (s *Service) Place(ctx context.Context, p *shared.Principal, userID string, items []Item, total float64) (Order, error) {
	if p == nil || p.ID != userID {
		return Order{}, fmt.Errorf("orders: place for %s: %w", userID, shared.ErrForbidden)
	}
	return s.repo.Create(ctx, userID, items, total)
}

// ForUser lists the principal's own orders, newest first.
func (s *Service) ForUser(ctx context.Context, p *shared.Principal, userID string) ([]Order, error) {
	if p == nil || p.ID != userID {
		return nil, fmt.Errorf("orders: list for %s: %w", userID, shared.ErrForbidden)
	}
	return s.repo.ListByUser(ctx, userID)
}

package products

import (
	"context"
	"strings"
)

const defaultUnit = "kg"

// Service holds listing business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns available listings, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Product, error) {
	return s.repo.List(ctx, limit)
}

// Mine returns every listing of the seller, available or not.
func (s *Service) Mine(ctx context.Context, sellerID string, limit int) ([]Product, error) {
	return s.repo.ListBySeller(ctx, sellerID, limit)
}

// Get returns one listing.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a listing owned by sellerID.
func (s *Service) Create(ctx context.Context, sellerID string, in CreateInput) (Product, error) {
	in.Title = strings.TrimSpace(in.Title)
	if strings.TrimSpace(in.Unit) == "" {
		in.Unit = defaultUnit
	}
	return s.repo.Create(ctx, sellerID, in)
}

// Update applies a partial change. Ownership is enforced by the route.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Product, error) {
	if in.Empty() {
		return Product{}, ErrNoFields
	}
	return s.repo.Update(ctx, id, in)
}

// Delete removes a listing.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// SellerOf resolves the owner of a listing for the ownership policy.
func (s *Service) SellerOf(ctx context.Context, id string) (string, error) {
	return s.repo.SellerOf(ctx, id)
}

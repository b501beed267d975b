package products

import (
	"errors"
	"time"
)

var (
	// ErrNoFields rejects an update that changes nothing.
	ErrNoFields = errors.New("products: no fields to update")
	// ErrUnknownCategory is returned when category_id references no category.
	ErrUnknownCategory = errors.New("products: unknown category")
)

// Product is a farmer's listing.
type Product struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Price             float64   `json:"price"`
	CategoryID        string    `json:"categoryId"`
	CategoryName      string    `json:"categoryName,omitempty"`
	SellerID          string    `json:"sellerId"`
	SellerName        string    `json:"sellerName,omitempty"`
	QuantityAvailable int       `json:"quantityAvailable"`
	Unit              string    `json:"unit"`
	IsAvailable       bool      `json:"isAvailable"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// CreateInput holds the fields of a new listing.
type CreateInput struct {
	Title             string
	Description       string
	Price             float64
	CategoryID        string
	QuantityAvailable int
	Unit              string
}

// UpdateInput holds a partial change; nil fields are left untouched.
type UpdateInput struct {
	Title             *string
	Description       *string
	Price             *float64
	CategoryID        *string
	QuantityAvailable *int
	Unit              *string
	IsAvailable       *bool
}

// Empty reports whether the update carries no field.
func (u UpdateInput) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Price == nil && u.CategoryID == nil &&
		u.QuantityAvailable == nil && u.Unit == nil && u.IsAvailable == nil
}

package categories

import "time"

// Category groups product listings.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Input carries the editable fields of a category.
type Input struct {
	Name        string
	Description string
}

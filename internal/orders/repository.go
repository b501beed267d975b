package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yene-farm/yene-farm/internal/platform/db"
)

type Repository interface {
	Create(ctx context.Context, userID string, items []Item, total float64) (Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}

type repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

func (r *repository) Create(ctx context.Context, userID string, items []Item, total float64) (Order, error) {
	o := Order{UserID: userID, Items: items, Total: total}
	err := r.db.QueryRow(ctx, `
		INSERT INTO orders (user_id, items, total) VALUES ($1, $2, $3)
		RETURNING id::text, total::float8, created_at`, userID, items, total).
		Scan(&o.ID, &o.Total, &o.CreatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("orders: insert: %w", err)
	}
	return o, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	out := []Order{}
	if _, err := uuid.Parse(userID); err != nil {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT id::text, user_id::text, items, total::float8, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Items, &o.Total, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

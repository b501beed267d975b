package products

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yene-farm/yene-farm/internal/platform/db"
	"github.com/yene-farm/yene-farm/internal/shared"
)

// Repository defines listing persistence.
type Repository interface {
	List(ctx context.Context, limit int) ([]Product, error)
	ListBySeller(ctx context.Context, sellerID string, limit int) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Create(ctx context.Context, sellerID string, in CreateInput) (Product, error)
	Update(ctx context.Context, id string, in UpdateInput) (Product, error)
	Delete(ctx context.Context, id string) error
	SellerOf(ctx context.Context, id string) (string, error)
}

type repository struct {
	db db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

const selectProduct = `
	SELECT p.id::text, p.title, COALESCE(p.description, ''), p.price::float8, p.category_id::text,
	       COALESCE(c.name, ''), p.seller_id::text, COALESCE(u.first_name || ' ' || u.last_name, ''),
	       p.quantity_available, p.unit, p.is_available, p.created_at, p.updated_at
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN users u ON u.id = p.seller_id`

func (r *repository) List(ctx context.Context, limit int) ([]Product, error) {
	return r.query(ctx, selectProduct+` WHERE p.is_available = true ORDER BY p.created_at DESC LIMIT $1`, limit)
}

func (r *repository) ListBySeller(ctx context.Context, sellerID string, limit int) ([]Product, error) {
	if _, err := uuid.Parse(sellerID); err != nil {
		return []Product{}, nil
	}
	return r.query(ctx, selectProduct+` WHERE p.seller_id = $1 ORDER BY p.created_at DESC LIMIT $2`, sellerID, limit)
}

func (r *repository) Get(ctx context.Context, id string) (Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Product{}, shared.ErrNotFound
	}
	p, err := scanProduct(r.db.QueryRow(ctx, selectProduct+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, sellerID string, in CreateInput) (Product, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		INSERT INTO products (title, description, price, category_id, seller_id, quantity_available, unit)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)
		RETURNING id::text`,
		in.Title, in.Description, in.Price, in.CategoryID, sellerID, in.QuantityAvailable, in.Unit).Scan(&id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Product{}, ErrUnknownCategory
		}
		return Product{}, fmt.Errorf("products: insert: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *repository) Update(ctx context.Context, id string, in UpdateInput) (Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Product{}, shared.ErrNotFound
	}
	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+` = $`+strconv.Itoa(len(args)))
	}
	if in.Title != nil {
		add("title", *in.Title)
	}
	if in.Description != nil {
		add("description", *in.Description)
	}
	if in.Price != nil {
		add("price", *in.Price)
	}
	if in.CategoryID != nil {
		add("category_id", *in.CategoryID)
	}
	if in.QuantityAvailable != nil {
		add("quantity_available", *in.QuantityAvailable)
	}
	if in.Unit != nil {
		add("unit", *in.Unit)
	}
	if in.IsAvailable != nil {
		add("is_available", *in.IsAvailable)
	}
	if len(sets) == 0 {
		return Product{}, ErrNoFields
	}
	args = append(args, id)
	query := `UPDATE products SET ` + strings.Join(sets, ", ") + `, updated_at = now() WHERE id = $` + strconv.Itoa(len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Product{}, ErrUnknownCategory
		}
		return Product{}, fmt.Errorf("products: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Product{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return shared.ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) SellerOf(ctx context.Context, id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", shared.ErrNotFound
	}
	var sellerID string
	err := r.db.QueryRow(ctx, `SELECT seller_id::text FROM products WHERE id = $1`, id).Scan(&sellerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", shared.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("products: seller lookup: %w", err)
	}
	return sellerID, nil
}

func (r *repository) query(ctx context.Context, sql string, args ...any) ([]Product, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("products: list: %w", err)
	}
	defer rows.Close()
	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.CategoryID, &p.CategoryName,
		&p.SellerID, &p.SellerName, &p.QuantityAvailable, &p.Unit, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

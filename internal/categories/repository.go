package categories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yene-farm/yene-farm/internal/platform/db"
	"github.com/yene-farm/yene-farm/internal/shared"
)

// ErrInUse is returned when products still reference the category.
var ErrInUse = errors.New("categories: category in use")

type Repository interface {
	List(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, in Input) (Category, error)
	Update(ctx context.Context, id string, in Input) (Category, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

const categoryColumns = `id::text, name, COALESCE(description, ''), created_at, updated_at`

func (r *repository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("categories: list: %w", err)
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, in Input) (Category, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO categories (name, description) VALUES ($1, NULLIF($2, ''))
		RETURNING `+categoryColumns, in.Name, in.Description)
	c, err := scanCategory(row)
	if err != nil {
		return Category{}, fmt.Errorf("categories: insert: %w", err)
	}
	return c, nil
}

func (r *repository) Update(ctx context.Context, id string, in Input) (Category, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Category{}, shared.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `
		UPDATE categories SET name = $1, description = NULLIF($2, ''), updated_at = now()
		WHERE id = $3
		RETURNING `+categoryColumns, in.Name, in.Description, id)
	c, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, shared.ErrNotFound
	}
	if err != nil {
		return Category{}, fmt.Errorf("categories: update: %w", err)
	}
	return c, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return shared.ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("categories: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

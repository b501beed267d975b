package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the embedded marketplace DDL.
func Schema() string {
	return schemaSQL
}

// ApplySchema runs the embedded DDL inside a single transaction. The
// statements are idempotent so the command can be re-run safely.
func ApplySchema(ctx context.Context, pool TxBeginner) error {
	return WithTx(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, schemaSQL); err != nil {
			return fmt.Errorf("platform/db: apply schema: %w", err)
		}
		return nil
	})
}

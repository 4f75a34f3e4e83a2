// Conditional write and paged scan primitives shared by the table
// accessors. Every helper maps a lightweight-transaction shape onto plain
// SQL: the applied flag of a conditional write is its rows-affected count,
// and set mutations run read-modify-write inside one transaction, which
// SQLite serializes against concurrent writers.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// scanTimeout bounds every read and paged scan. On timeout the caller
// sees a failure and may retry the whole operation.
const scanTimeout = 3 * time.Second

// defaultPageSize applies when a caller passes a non-positive page size.
const defaultPageSize = 10

// unixMS returns the current time in milliseconds since the epoch, the
// resolution of created_at/updated_at and of the version token.
func unixMS() int64 {
	return time.Now().UnixMilli()
}

// execCond runs a conditional write against a single row and reports
// whether it applied. An unapplied write is not an error here; callers
// translate it to ErrConflict with their own context.
func (b *Backend) execCond(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := b.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// withTx runs fn inside a transaction, committing on nil and rolling back
// on error.
func (b *Backend) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

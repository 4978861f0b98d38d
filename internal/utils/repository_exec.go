package utils

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type ExecType int

const (
	ExecInsert ExecType = iota
	ExecUpdate
	ExecDelete
)

var ErrNoRowsAffected = errors.New("no rows affected")

// ExecWithCheck runs a statement and, for updates, fails with
// ErrNoRowsAffected when nothing matched. Deletes of an empty set are fine.
func ExecWithCheck(ctx context.Context, db sqlx.ExecerContext, query string, execType ExecType, args ...any) (int64, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	// if Insert operation, don't need to check rows affected
	if execType == ExecInsert {
		return 0, nil
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rowsAffected == 0 && execType == ExecUpdate {
		return 0, ErrNoRowsAffected
	}

	return rowsAffected, nil
}

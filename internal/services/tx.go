package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"insure-service/internal/repository"

	"github.com/jmoiron/sqlx"
)

const defaultTxTimeout = 5 * time.Second

// txRunner executes a unit of work in one database transaction. The work
// either commits as a whole or is rolled back.
type txRunner struct {
	db      repository.TxBeginner
	timeout time.Duration
}

func newTxRunner(db repository.TxBeginner, timeout time.Duration) txRunner {
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}
	return txRunner{db: db, timeout: timeout}
}

func (r txRunner) run(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		slog.Error("Failed to begin transaction", "error", err)
		return repository.ClassifyStoreError("begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.Error("Failed to roll back transaction", "error", rbErr)
			return errors.Join(err, repository.ClassifyStoreError("rollback", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		slog.Error("Failed to commit transaction", "error", err)
		return repository.ClassifyStoreError("commit", err)
	}
	return nil
}

func inTxResult[T any](ctx context.Context, r txRunner, fn func(ctx context.Context, tx *sqlx.Tx) (T, error)) (T, error) {
	var result T
	err := r.run(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var err error
		result, err = fn(ctx, tx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

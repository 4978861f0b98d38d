package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"insure-service/internal/models"
	"insure-service/internal/utils"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

// StoreError hides the driver error behind ErrStoreFailure while keeping it
// reachable for logging.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: store failure", e.Op)
}

func (e *StoreError) Unwrap() []error {
	return []error{models.ErrStoreFailure, e.Cause}
}

// ClassifyStoreError maps driver errors onto the engine's error taxonomy.
// A foreign key violation means a referenced row does not exist.
func ClassifyStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrInvalidRequest) || errors.Is(err, models.ErrStoreFailure) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, utils.ErrNoRowsAffected) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
		return fmt.Errorf("%s: referenced row does not exist: %w", op, models.ErrNotFound)
	}
	return &StoreError{Op: op, Cause: err}
}

// IsUniqueViolation reports whether err came from a unique constraint.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// TxBeginner is satisfied by *sqlx.DB.
type TxBeginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"insure-service/internal/metrics"
	"insure-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// EntityWriter is the table access an EntityResolver needs. Person and
// vehicle repositories implement it.
type EntityWriter[T any] interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, data *T) (int64, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, id int64, data *T) error
}

// EntityResolver turns a reference into a row id inside an open transaction.
//
//   - existing: the id is returned as is. Existence is left to the foreign
//     key of whatever row is written next.
//   - new: the attributes are inserted and the generated id returned.
//   - existing_with_updates: every mutable column of the row is overwritten
//     and the id returned. A missing row is reported as not found.
type EntityResolver[T any] struct {
	entity   string
	writer   EntityWriter[T]
	validate func(*T) error
	metrics  *metrics.Metrics
}

func NewEntityResolver[T any](entity string, writer EntityWriter[T], validate func(*T) error, m *metrics.Metrics) *EntityResolver[T] {
	return &EntityResolver[T]{
		entity:   entity,
		writer:   writer,
		validate: validate,
		metrics:  m,
	}
}

func NewPersonResolver(writer EntityWriter[models.PersonData], m *metrics.Metrics) *EntityResolver[models.PersonData] {
	return NewEntityResolver("person", writer, (*models.PersonData).Validate, m)
}

func NewVehicleResolver(writer EntityWriter[models.VehicleData], m *metrics.Metrics) *EntityResolver[models.VehicleData] {
	return NewEntityResolver[models.VehicleData]("vehicle", writer, nil, m)
}

func (r *EntityResolver[T]) Resolve(ctx context.Context, tx *sqlx.Tx, ref models.Ref[T]) (int64, error) {
	if err := ref.CheckShape(); err != nil {
		return 0, fmt.Errorf("%s reference: %w", r.entity, err)
	}

	var (
		id  int64
		err error
	)
	switch ref.Kind {
	case models.RefExisting:
		id = ref.ID
	case models.RefNew:
		if err = r.check(ref.Data); err != nil {
			return 0, err
		}
		id, err = r.writer.CreateTx(ctx, tx, ref.Data)
	case models.RefExistingWithUpdates:
		if err = r.check(ref.Data); err != nil {
			return 0, err
		}
		id = ref.ID
		err = r.writer.UpdateTx(ctx, tx, ref.ID, ref.Data)
	}
	if err != nil {
		return 0, fmt.Errorf("resolve %s (%s): %w", r.entity, ref.Kind, err)
	}

	slog.Debug("Resolved reference", "entity", r.entity, "kind", ref.Kind, "id", id)
	r.metrics.IncEntityResolved(r.entity, string(ref.Kind))
	return id, nil
}

func (r *EntityResolver[T]) check(data *T) error {
	if r.validate == nil {
		return nil
	}
	if err := r.validate(data); err != nil {
		return fmt.Errorf("%s attributes: %w", r.entity, err)
	}
	return nil
}

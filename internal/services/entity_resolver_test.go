package services

import (
	"context"
	"errors"
	"testing"

	"insure-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryWriter is an in-memory EntityWriter keyed by id.
type memoryWriter[T any] struct {
	rows    map[int64]T
	nextID  int64
	creates int
	updates int
	err     error
}

func newMemoryWriter[T any](nextID int64) *memoryWriter[T] {
	return &memoryWriter[T]{rows: map[int64]T{}, nextID: nextID}
}

func (w *memoryWriter[T]) CreateTx(_ context.Context, _ *sqlx.Tx, data *T) (int64, error) {
	w.creates++
	if w.err != nil {
		return 0, w.err
	}
	id := w.nextID
	w.nextID++
	w.rows[id] = *data
	return id, nil
}

func (w *memoryWriter[T]) UpdateTx(_ context.Context, _ *sqlx.Tx, id int64, data *T) error {
	w.updates++
	if w.err != nil {
		return w.err
	}
	if _, ok := w.rows[id]; !ok {
		return models.ErrNotFound
	}
	w.rows[id] = *data
	return nil
}

func TestEntityResolver_Existing(t *testing.T) {
	writer := newMemoryWriter[models.PersonData](1)
	resolver := NewPersonResolver(writer, nil)

	id, err := resolver.Resolve(context.Background(), nil, models.ExistingRef[models.PersonData](7))

	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Zero(t, writer.creates, "existing reference must not write")
	assert.Zero(t, writer.updates, "existing reference must not write")
}

func TestEntityResolver_New(t *testing.T) {
	writer := newMemoryWriter[models.PersonData](100)
	resolver := NewPersonResolver(writer, nil)

	first, err := resolver.Resolve(context.Background(), nil, models.NewRef(testPerson("Ana", "Popescu")))
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), nil, models.NewRef(testPerson("Ana", "Popescu")))
	require.NoError(t, err)

	// Identical attributes still produce two rows.
	assert.Equal(t, int64(100), first)
	assert.Equal(t, int64(101), second)
	assert.Len(t, writer.rows, 2)
}

func TestEntityResolver_ExistingWithUpdates(t *testing.T) {
	writer := newMemoryWriter[models.PersonData](1)
	writer.rows[9] = testPerson("Old", "Name")
	resolver := NewPersonResolver(writer, nil)

	id, err := resolver.Resolve(context.Background(), nil,
		models.ExistingWithUpdatesRef(9, testPerson("New", "Name")))

	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	assert.Equal(t, "New", writer.rows[9].FirstName)
	assert.Zero(t, writer.creates)
}

func TestEntityResolver_ExistingWithUpdatesMissingRow(t *testing.T) {
	writer := newMemoryWriter[models.VehicleData](1)
	resolver := NewVehicleResolver(writer, nil)

	_, err := resolver.Resolve(context.Background(), nil,
		models.ExistingWithUpdatesRef(404, testVehicle()))

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestEntityResolver_Rejects(t *testing.T) {
	tests := []struct {
		name string
		ref  models.VehicleRef
	}{
		{name: "unknown kind", ref: models.VehicleRef{Kind: "guess", ID: 1}},
		{name: "existing without id", ref: models.VehicleRef{Kind: models.RefExisting}},
		{name: "new without data", ref: models.VehicleRef{Kind: models.RefNew}},
		{name: "existing_with_updates without data", ref: models.VehicleRef{Kind: models.RefExistingWithUpdates, ID: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := newMemoryWriter[models.VehicleData](1)
			resolver := NewVehicleResolver(writer, nil)

			_, err := resolver.Resolve(context.Background(), nil, tt.ref)

			assert.ErrorIs(t, err, models.ErrInvalidRequest)
			assert.Zero(t, writer.creates)
		})
	}
}

func TestEntityResolver_SparseAttributes(t *testing.T) {
	t.Run("vehicle without plate or chassis", func(t *testing.T) {
		writer := newMemoryWriter[models.VehicleData](10)
		resolver := NewVehicleResolver(writer, nil)

		id, err := resolver.Resolve(context.Background(), nil, models.NewRef(models.VehicleData{Make: "Dacia"}))

		require.NoError(t, err)
		assert.Equal(t, int64(10), id)
	})

	t.Run("person with blank names", func(t *testing.T) {
		writer := newMemoryWriter[models.PersonData](10)
		resolver := NewPersonResolver(writer, nil)

		id, err := resolver.Resolve(context.Background(), nil, models.NewRef(testPerson("", "")))

		require.NoError(t, err)
		assert.Equal(t, int64(10), id)
	})

	t.Run("person with unknown sex", func(t *testing.T) {
		writer := newMemoryWriter[models.PersonData](10)
		resolver := NewPersonResolver(writer, nil)
		person := testPerson("Ana", "Popescu")
		person.Sex = "other"

		_, err := resolver.Resolve(context.Background(), nil, models.ExistingWithUpdatesRef(3, person))

		assert.ErrorIs(t, err, models.ErrInvalidRequest)
		assert.Zero(t, writer.updates)
	})
}

func TestEntityResolver_WriterFailure(t *testing.T) {
	writer := newMemoryWriter[models.VehicleData](1)
	writer.err = errors.New("connection reset")
	resolver := NewVehicleResolver(writer, nil)

	_, err := resolver.Resolve(context.Background(), nil, models.NewRef(testVehicle()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve vehicle (new)")
}

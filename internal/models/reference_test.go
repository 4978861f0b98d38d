package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonRef_UnmarshalJSON(t *testing.T) {
	t.Run("existing carries only an id", func(t *testing.T) {
		var ref PersonRef
		require.NoError(t, json.Unmarshal([]byte(`{"kind":"existing","id":7}`), &ref))

		assert.Equal(t, RefExisting, ref.Kind)
		assert.Equal(t, int64(7), ref.ID)
		assert.Nil(t, ref.Data)
		assert.NoError(t, ref.CheckShape())
	})

	t.Run("new carries flattened attributes", func(t *testing.T) {
		body := `{"kind":"new","first_name":"Ana","last_name":"Popescu","sex":"female","birth_date":"1990-04-02"}`
		var ref PersonRef
		require.NoError(t, json.Unmarshal([]byte(body), &ref))

		assert.Equal(t, RefNew, ref.Kind)
		require.NotNil(t, ref.Data)
		assert.Equal(t, "Ana", ref.Data.FirstName)
		assert.Equal(t, NewDate(1990, 4, 2), ref.Data.BirthDate)
		assert.NoError(t, ref.CheckShape())
	})

	t.Run("existing_with_updates carries id and attributes", func(t *testing.T) {
		body := `{"kind":"existing_with_updates","id":3,"first_name":"Ion","last_name":"Rusu","sex":"male","birth_date":"1985-12-31"}`
		var ref PersonRef
		require.NoError(t, json.Unmarshal([]byte(body), &ref))

		assert.Equal(t, RefExistingWithUpdates, ref.Kind)
		assert.Equal(t, int64(3), ref.ID)
		require.NotNil(t, ref.Data)
		assert.Equal(t, "Rusu", ref.Data.LastName)
	})

	t.Run("unknown kind is an invalid request", func(t *testing.T) {
		var ref PersonRef
		err := json.Unmarshal([]byte(`{"kind":"maybe","id":7}`), &ref)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("bad attributes are an invalid request", func(t *testing.T) {
		var ref PersonRef
		err := json.Unmarshal([]byte(`{"kind":"new","birth_date":"02.04.1990"}`), &ref)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestRef_CheckShape(t *testing.T) {
	tests := []struct {
		name    string
		ref     VehicleRef
		wantErr bool
	}{
		{"existing with id", ExistingRef[VehicleData](5), false},
		{"existing without id", VehicleRef{Kind: RefExisting}, true},
		{"new with data", NewRef(VehicleData{Plate: "B 123 ABC"}), false},
		{"new without data", VehicleRef{Kind: RefNew}, true},
		{"update with both", ExistingWithUpdatesRef(5, VehicleData{Plate: "X"}), false},
		{"update without id", VehicleRef{Kind: RefExistingWithUpdates, Data: &VehicleData{}}, true},
		{"empty kind", VehicleRef{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ref.CheckShape()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVehicleRef_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(ExistingWithUpdatesRef(9, VehicleData{Plate: "C 77 XYZ", Seats: 5}))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "existing_with_updates", fields["kind"])
	assert.Equal(t, float64(9), fields["id"])
	assert.Equal(t, "C 77 XYZ", fields["plate"])
	assert.Equal(t, float64(5), fields["seats"])
}

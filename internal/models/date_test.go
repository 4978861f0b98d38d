package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	raw, err := json.Marshal(NewDate(2024, time.February, 29))
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-29"`, string(raw))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-12-31"`), &d))
	assert.Equal(t, NewDate(2025, time.December, 31), d)

	assert.ErrorIs(t, json.Unmarshal([]byte(`"31/12/2025"`), &d), ErrInvalidRequest)
	assert.ErrorIs(t, json.Unmarshal([]byte(`20251231`), &d), ErrInvalidRequest)
}

func TestDate_Scan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan(time.Date(2026, 3, 4, 15, 30, 0, 0, time.FixedZone("x", 3600))))
	assert.Equal(t, "2026-03-04", d.String())

	require.NoError(t, d.Scan([]byte("2026-05-06")))
	assert.Equal(t, "2026-05-06", d.String())

	require.NoError(t, d.Scan("2026-07-08T00:00:00Z"))
	assert.Equal(t, "2026-07-08", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestDate_Value(t *testing.T) {
	v, err := NewDate(2026, 1, 2).Value()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), v)
}

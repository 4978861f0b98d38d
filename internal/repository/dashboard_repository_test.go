package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"insure-service/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardRepository(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDashboardRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("(SELECT COUNT(*) FROM person) AS people")).
		WillReturnRows(sqlmock.NewRows([]string{"people", "policies", "vehicles"}).AddRow(10, 4, 3))
	mock.ExpectQuery(`WITH upcoming AS \(\s+SELECT\s+id,\s+first_name \|\| ' ' \|\| last_name AS full_name,\s+phone,(?s:.*?)FROM person\s+\)\s+SELECT`).
		WithArgs(30).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "phone", "birth_date", "turning_age", "days_until"}).
			AddRow(7, "Ana Popescu", "+37360000000", time.Date(1990, 10, 20, 0, 0, 0, 0, time.UTC), 36, 0))
	mock.ExpectQuery(regexp.QuoteMeta("AND p.end_date <= current_date + $1::int")).
		WithArgs(30).
		WillReturnRows(sqlmock.NewRows([]string{"id", "policy_type", "series", "number", "holder_name", "end_date", "days_left"}))

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DashboardCounts{People: 10, Policies: 4, Vehicles: 3}, *counts)

	birthdays, err := repo.UpcomingBirthdays(ctx, 30)
	require.NoError(t, err)
	require.Len(t, birthdays, 1)
	assert.Equal(t, int32(36), birthdays[0].TurningAge)
	assert.Zero(t, birthdays[0].DaysUntil)
	assert.Equal(t, "+37360000000", birthdays[0].Phone)

	expiring, err := repo.ExpiringPolicies(ctx, 30)
	require.NoError(t, err)
	assert.NotNil(t, expiring)
	assert.Empty(t, expiring)

	assert.NoError(t, mock.ExpectationsWereMet())
}

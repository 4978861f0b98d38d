package repository

import (
	"context"
	"log/slog"
	"time"

	"insure-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type DashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) Counts(ctx context.Context) (*models.DashboardCounts, error) {
	var counts models.DashboardCounts
	query := `
		SELECT
			(SELECT COUNT(*) FROM person) AS people,
			(SELECT COUNT(*) FROM policy) AS policies,
			(SELECT COUNT(*) FROM vehicle) AS vehicles`

	if err := sqlx.GetContext(ctx, r.db, &counts, query); err != nil {
		slog.Error("Failed to count dashboard totals", "error", err)
		return nil, ClassifyStoreError("dashboard counts", err)
	}
	return &counts, nil
}

// UpcomingBirthdays lists every person, whatever their status, whose next
// birthday falls within the given number of days, today included. Next
// birthday is computed from the age as of yesterday so a birthday today counts
// as days_until 0, and the year boundary needs no special case.
func (r *DashboardRepository) UpcomingBirthdays(ctx context.Context, withinDays int) ([]models.UpcomingBirthday, error) {
	start := time.Now()
	birthdays := []models.UpcomingBirthday{}
	query := `
		WITH upcoming AS (
			SELECT
				id,
				first_name || ' ' || last_name AS full_name,
				phone,
				birth_date,
				(date_part('year', age(current_date - 1, birth_date)) + 1)::int AS turning_age
			FROM person
		)
		SELECT
			id, full_name, phone, birth_date, turning_age,
			((birth_date + make_interval(years => turning_age))::date - current_date) AS days_until
		FROM upcoming
		WHERE (birth_date + make_interval(years => turning_age))::date - current_date <= $1
		ORDER BY days_until, full_name`

	if err := sqlx.SelectContext(ctx, r.db, &birthdays, query, withinDays); err != nil {
		slog.Error("Failed to load upcoming birthdays", "error", err)
		return nil, ClassifyStoreError("upcoming birthdays", err)
	}

	slog.Debug("Loaded upcoming birthdays", "count", len(birthdays), "duration", time.Since(start))
	return birthdays, nil
}

// ExpiringPolicies lists active policies whose end date is within the given
// number of days.
func (r *DashboardRepository) ExpiringPolicies(ctx context.Context, withinDays int) ([]models.ExpiringPolicy, error) {
	policies := []models.ExpiringPolicy{}
	query := `
		SELECT
			p.id,
			p.type AS policy_type,
			p.series,
			p.number,
			h.first_name || ' ' || h.last_name AS holder_name,
			p.end_date,
			(p.end_date - current_date) AS days_left
		FROM policy p
		JOIN person h ON h.id = p.holder_id
		WHERE p.status = 'active'
			AND p.end_date >= current_date
			AND p.end_date <= current_date + $1::int
		ORDER BY p.end_date, p.id`

	if err := sqlx.SelectContext(ctx, r.db, &policies, query, withinDays); err != nil {
		slog.Error("Failed to load expiring policies", "error", err)
		return nil, ClassifyStoreError("expiring policies", err)
	}
	return policies, nil
}

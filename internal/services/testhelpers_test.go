package services

import (
	"context"
	"database/sql/driver"
	"fmt"
	"sync"
	"testing"
	"time"

	"insure-service/internal/event"
	"insure-service/internal/metrics"
	"insure-service/internal/models"
	"insure-service/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

// pgArray matches a lib/pq array argument by its text form, e.g. "{2,3}".
type pgArray string

func (a pgArray) Match(v driver.Value) bool {
	switch s := v.(type) {
	case string:
		return s == string(a)
	case []byte:
		return string(s) == string(a)
	default:
		return fmt.Sprint(v) == string(a)
	}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []event.PolicyEvent
	err    error
}

func (p *fakePublisher) PublishPolicyEvent(_ context.Context, ev event.PolicyEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func newTestPolicyService(db *sqlx.DB, publisher PolicyEventPublisher) (*PolicyService, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	svc := NewPolicyService(PolicyServiceDeps{
		DB:          db,
		Policies:    repository.NewPolicyRepository(db),
		People:      repository.NewPersonRepository(db),
		Vehicles:    repository.NewVehicleRepository(db),
		Details:     repository.NewPolicyDetailRepository(db),
		Memberships: repository.NewMembershipRepository(db),
		Publisher:   publisher,
		Metrics:     m,
		TxTimeout:   time.Second,
	})
	return svc, m
}

func testPerson(first, last string) models.PersonData {
	return models.PersonData{
		FirstName: first,
		LastName:  last,
		Sex:       models.SexMale,
		BirthDate: models.NewDate(1985, time.June, 15),
		TaxNumber: "1000000000001",
		Phone:     "+37369000000",
		Email:     "person@example.com",
		Status:    models.PersonActive,
	}
}

func testVehicle() models.VehicleData {
	return models.VehicleData{
		Chassis: "UU1KSDAF123456789",
		Make:    "Dacia",
		Model:   "Logan",
		Plate:   "ABC 123",
		Year:    2019,
		Seats:   5,
	}
}

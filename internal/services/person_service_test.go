package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"insure-service/internal/models"
	"insure-service/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPersonService(t *testing.T) (IPersonService, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	svc := NewPersonService(db, repository.NewPersonRepository(db), repository.NewPolicyRepository(db), time.Second)
	return svc, mock
}

func TestPersonService_SearchRequiresTerm(t *testing.T) {
	svc, mock := newTestPersonService(t)

	_, err := svc.SearchPeople(context.Background(), "   ")

	assert.ErrorIs(t, err, models.ErrInvalidRequest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonService_CreateValidates(t *testing.T) {
	svc, mock := newTestPersonService(t)

	_, err := svc.CreatePerson(context.Background(), &models.PersonData{FirstName: "Ana"})

	assert.ErrorIs(t, err, models.ErrInvalidRequest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonService_UpdateMissing(t *testing.T) {
	svc, mock := newTestPersonService(t)
	data := testPerson("Ana", "Popescu")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE person SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.UpdatePerson(context.Background(), 404, &data)

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonService_GetWithPolicies(t *testing.T) {
	svc, mock := newTestPersonService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM person WHERE id = $1")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(personCols).
			AddRow(7, "Ana", "Popescu", "female", dbStart, "2000000000002", "active"))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.holder_id = $1")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "policy_type", "holder_name", "series", "number", "start_date", "status"}).
			AddRow(42, "medassistance", "Ana Popescu", "MA", "9", dbStart, "active"))

	person, err := svc.GetPerson(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), person.ID)
	require.Len(t, person.Policies, 1)
	assert.Equal(t, models.PolicyTypeMedassistance, person.Policies[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

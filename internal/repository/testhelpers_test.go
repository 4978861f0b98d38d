package repository

import (
	"database/sql/driver"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func beginTx(t *testing.T, db *sqlx.DB, mock sqlmock.Sqlmock) *sqlx.Tx {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.Beginx()
	require.NoError(t, err)
	return tx
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

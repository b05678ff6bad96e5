package postgres

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"streamadmin/internal/pagination"
)

// newMock returns a stub database and an executor reading through it. The data and count
// queries of a page run concurrently, so expectations are matched in any order.
func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *pagination.Executor) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.MatchExpectationsInOrder(false)
	t.Cleanup(func() { db.Close() })
	return db, mock, pagination.NewExecutor(db)
}

func countResult(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

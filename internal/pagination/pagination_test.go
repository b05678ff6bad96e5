package pagination

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	baseQuery  = "SELECT id, name FROM items ORDER BY id"
	countQuery = "SELECT COUNT(*) AS count FROM items"
)

type item struct {
	ID   int
	Name string
}

func scanItem(rows *sql.Rows) (item, error) {
	var it item
	err := rows.Scan(&it.ID, &it.Name)
	return it, err
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	// data and count queries arrive in either order
	mock.MatchExpectationsInOrder(false)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func itemRows(from, n int) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name"})
	for i := 0; i < n; i++ {
		rows.AddRow(from+i, fmt.Sprintf("item-%d", from+i))
	}
	return rows
}

func countRows(n any) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestQuery_Windowing(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		window   string
		rows     int
		firstRow int
	}{
		{name: "first page", page: 1, window: " LIMIT 10 OFFSET 0", rows: 10, firstRow: 1},
		{name: "middle page", page: 2, window: " LIMIT 10 OFFSET 10", rows: 10, firstRow: 11},
		{name: "last partial page", page: 3, window: " LIMIT 10 OFFSET 20", rows: 5, firstRow: 21},
		{name: "page past the end", page: 4, window: " LIMIT 10 OFFSET 30", rows: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			mock.ExpectQuery(baseQuery + tt.window).WillReturnRows(itemRows(tt.firstRow, tt.rows))
			mock.ExpectQuery(countQuery).WillReturnRows(countRows(25))

			res, err := Query(context.Background(), NewExecutor(db), Spec{
				BaseQuery:  baseQuery,
				CountQuery: countQuery,
				Page:       tt.page,
				PageSize:   10,
			}, scanItem)

			require.NoError(t, err)
			assert.Equal(t, 25, res.Total)
			assert.Equal(t, 3, res.TotalPages)
			assert.Equal(t, tt.page, res.Page)
			assert.Len(t, res.Data, tt.rows)
			assert.NotNil(t, res.Data)
			if tt.rows > 0 {
				assert.Equal(t, tt.firstRow, res.Data[0].ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestQuery_LastPageSize(t *testing.T) {
	for _, total := range []int{1, 9, 10, 11, 25, 99} {
		for _, size := range []int{1, 3, 10} {
			t.Run(fmt.Sprintf("total=%d size=%d", total, size), func(t *testing.T) {
				pages := (total + size - 1) / size
				want := total - (pages-1)*size
				if want > size {
					want = size
				}

				db, mock := newMock(t)
				window := fmt.Sprintf(" LIMIT %d OFFSET %d", size, (pages-1)*size)
				mock.ExpectQuery(baseQuery + window).WillReturnRows(itemRows(1, want))
				mock.ExpectQuery(countQuery).WillReturnRows(countRows(total))

				res, err := Query(context.Background(), NewExecutor(db), Spec{
					BaseQuery:  baseQuery,
					CountQuery: countQuery,
					Page:       pages,
					PageSize:   size,
				}, scanItem)

				require.NoError(t, err)
				assert.Equal(t, pages, res.TotalPages)
				assert.Len(t, res.Data, want)
				assert.LessOrEqual(t, len(res.Data), size)
				assert.NoError(t, mock.ExpectationsWereMet())
			})
		}
	}
}

func TestQuery_ShowAll(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(baseQuery).WillReturnRows(itemRows(1, 137))
	mock.ExpectQuery(countQuery).WillReturnRows(countRows(137))

	res, err := Query(context.Background(), NewExecutor(db), Spec{
		BaseQuery:  baseQuery,
		CountQuery: countQuery,
		Page:       5,
		PageSize:   10,
		ShowAll:    true,
	}, scanItem)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, 137, res.Total)
	assert.Len(t, res.Data, res.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_ShowAllIgnoresPage(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(baseQuery).WillReturnRows(itemRows(1, 2))
	mock.ExpectQuery(countQuery).WillReturnRows(countRows(2))

	res, err := Query(context.Background(), NewExecutor(db), Spec{
		BaseQuery:  baseQuery,
		CountQuery: countQuery,
		Page:       0,
		PageSize:   10,
		ShowAll:    true,
	}, scanItem)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
}

func TestQuery_EmptyResult(t *testing.T) {
	t.Run("windowed", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(baseQuery + " LIMIT 10 OFFSET 0").WillReturnRows(itemRows(1, 0))
		mock.ExpectQuery(countQuery).WillReturnRows(countRows(0))

		res, err := Query(context.Background(), NewExecutor(db), Spec{
			BaseQuery:  baseQuery,
			CountQuery: countQuery,
			Page:       1,
			PageSize:   10,
		}, scanItem)

		require.NoError(t, err)
		assert.Equal(t, []item{}, res.Data)
		assert.Equal(t, 0, res.Total)
		// ceil(0/P) is kept as 0; display code uses LastPage.
		assert.Equal(t, 0, res.TotalPages)
		assert.Equal(t, 1, res.LastPage)
	})

	t.Run("show all", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(baseQuery).WillReturnRows(itemRows(1, 0))
		mock.ExpectQuery(countQuery).WillReturnRows(countRows(0))

		res, err := Query(context.Background(), NewExecutor(db), Spec{
			BaseQuery:  baseQuery,
			CountQuery: countQuery,
			PageSize:   10,
			ShowAll:    true,
		}, scanItem)

		require.NoError(t, err)
		assert.Empty(t, res.Data)
		assert.Equal(t, 1, res.TotalPages)
		assert.Equal(t, 1, res.LastPage)
	})
}

func TestQuery_Idempotent(t *testing.T) {
	db, mock := newMock(t)
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(baseQuery + " LIMIT 5 OFFSET 5").WillReturnRows(itemRows(6, 5))
		mock.ExpectQuery(countQuery).WillReturnRows(countRows(12))
	}

	exec := NewExecutor(db)
	spec := Spec{BaseQuery: baseQuery, CountQuery: countQuery, Page: 2, PageSize: 5}

	first, err := Query(context.Background(), exec, spec, scanItem)
	require.NoError(t, err)
	second, err := Query(context.Background(), exec, spec, scanItem)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_SharesParams(t *testing.T) {
	const (
		base  = "SELECT id, name FROM items WHERE name ILIKE $1 AND archived = $2 ORDER BY id"
		count = "SELECT COUNT(*) AS count FROM items WHERE name ILIKE $1 AND archived = $2"
	)
	db, mock := newMock(t)
	mock.ExpectQuery(base+" LIMIT 10 OFFSET 0").WithArgs("%drama%", false).WillReturnRows(itemRows(1, 1))
	mock.ExpectQuery(count).WithArgs("%drama%", false).WillReturnRows(countRows(1))

	res, err := Query(context.Background(), NewExecutor(db), Spec{
		BaseQuery:  base,
		CountQuery: count,
		Params:     []any{"%drama%", false},
		Page:       1,
		PageSize:   10,
	}, scanItem)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		wantErr error
	}{
		{name: "zero page size", spec: Spec{Page: 1, PageSize: 0}, wantErr: ErrInvalidPageSize},
		{name: "negative page size", spec: Spec{Page: 1, PageSize: -5}, wantErr: ErrInvalidPageSize},
		{name: "zero page size with show all", spec: Spec{ShowAll: true}, wantErr: ErrInvalidPageSize},
		{name: "zero page", spec: Spec{Page: 0, PageSize: 10}, wantErr: ErrInvalidPage},
		{name: "negative page", spec: Spec{Page: -1, PageSize: 10}, wantErr: ErrInvalidPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			tt.spec.BaseQuery = baseQuery
			tt.spec.CountQuery = countQuery

			res, err := Query(context.Background(), NewExecutor(db), tt.spec, scanItem)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res)
			// nothing reaches the store
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestQuery_StoreFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(mock sqlmock.Sqlmock)
	}{
		{
			name: "count query fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(baseQuery + " LIMIT 10 OFFSET 0").WillReturnRows(itemRows(1, 10))
				mock.ExpectQuery(countQuery).WillReturnError(errors.New("connection reset"))
			},
		},
		{
			name: "data query fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(baseQuery + " LIMIT 10 OFFSET 0").WillReturnError(errors.New(`syntax error at or near "ORDR"`))
				mock.ExpectQuery(countQuery).WillReturnRows(countRows(25))
			},
		},
		{
			name: "non-numeric count",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(baseQuery + " LIMIT 10 OFFSET 0").WillReturnRows(itemRows(1, 10))
				mock.ExpectQuery(countQuery).WillReturnRows(countRows("many"))
			},
		},
		{
			name: "null count",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(baseQuery + " LIMIT 10 OFFSET 0").WillReturnRows(itemRows(1, 10))
				mock.ExpectQuery(countQuery).WillReturnRows(countRows(nil))
			},
		},
		{
			name: "missing count column",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(baseQuery + " LIMIT 10 OFFSET 0").WillReturnRows(itemRows(1, 10))
				mock.ExpectQuery(countQuery).WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(25))
			},
		},
		{
			name: "count query returns no rows",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(baseQuery + " LIMIT 10 OFFSET 0").WillReturnRows(itemRows(1, 10))
				mock.ExpectQuery(countQuery).WillReturnRows(sqlmock.NewRows([]string{"count"}))
			},
		},
		{
			name: "row scan fails",
			setup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "name"}).AddRow("not-a-number", "x")
				mock.ExpectQuery(baseQuery + " LIMIT 10 OFFSET 0").WillReturnRows(rows)
				mock.ExpectQuery(countQuery).WillReturnRows(countRows(1))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			tt.setup(mock)

			res, err := Query(context.Background(), NewExecutor(db), Spec{
				BaseQuery:  baseQuery,
				CountQuery: countQuery,
				Page:       1,
				PageSize:   10,
			}, scanItem)

			assert.Nil(t, res)
			assert.Equal(t, ErrQueryFailed, err)
		})
	}
}

func TestQuery_LogsCause(t *testing.T) {
	var buf bytes.Buffer
	db, mock := newMock(t)
	mock.ExpectQuery(baseQuery).WillReturnRows(itemRows(1, 1))
	mock.ExpectQuery(countQuery).WillReturnError(errors.New("relation \"items\" does not exist"))

	exec := NewExecutor(db, WithLogger(zerolog.New(&buf)))
	_, err := Query(context.Background(), exec, Spec{
		BaseQuery:  baseQuery,
		CountQuery: countQuery,
		PageSize:   10,
		ShowAll:    true,
	}, scanItem)

	require.ErrorIs(t, err, ErrQueryFailed)
	// the caller only sees the opaque error; the cause goes to the log
	assert.NotContains(t, err.Error(), "items")
	assert.Contains(t, buf.String(), `"component":"pagination"`)
	assert.Contains(t, buf.String(), "paginated query failed")
	assert.Contains(t, buf.String(), `count query: relation \"items\" does not exist`)
}

func TestQuery_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	db, mock := newMock(t)
	mock.ExpectQuery(baseQuery + " LIMIT 10 OFFSET 0").WillReturnRows(itemRows(1, 3))
	mock.ExpectQuery(countQuery).WillReturnRows(countRows(3))
	mock.ExpectQuery(baseQuery + " LIMIT 10 OFFSET 0").WillReturnError(errors.New("boom"))
	mock.ExpectQuery(countQuery).WillReturnRows(countRows(3))

	exec := NewExecutor(db, WithMetrics(metrics))
	spec := Spec{BaseQuery: baseQuery, CountQuery: countQuery, Page: 1, PageSize: 10}

	_, err = Query(context.Background(), exec, spec, scanItem)
	require.NoError(t, err)
	_, err = Query(context.Background(), exec, spec, scanItem)
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.queries.WithLabelValues(outcomeOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.queries.WithLabelValues(outcomeError)))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.duration))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "registering twice on one registry must fail")
}

func TestWindowed(t *testing.T) {
	q, ok := windowed("SELECT 1 ORDER BY 1", 3, 20)
	assert.True(t, ok)
	assert.Equal(t, "SELECT 1 ORDER BY 1 LIMIT 20 OFFSET 40", q)

	q, ok = windowed("SELECT 1 ORDER BY 1;\n  ", 1, 5)
	assert.True(t, ok)
	assert.Equal(t, "SELECT 1 ORDER BY 1 LIMIT 5 OFFSET 0", q)

	_, ok = windowed("SELECT 1 ORDER BY 1", math.MaxInt/5, 10)
	assert.False(t, ok)

	q, ok = windowed("SELECT 1 ORDER BY 1", math.MaxInt/10+1, 10)
	assert.True(t, ok)
	assert.Equal(t, fmt.Sprintf("SELECT 1 ORDER BY 1 LIMIT 10 OFFSET %d", math.MaxInt/10*10), q)
}

func TestQuery_PageBeyondAddressableOffset(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(countQuery).WillReturnRows(countRows(25))

	res, err := Query(context.Background(), NewExecutor(db), Spec{
		BaseQuery:  baseQuery,
		CountQuery: countQuery,
		Page:       math.MaxInt / 5,
		PageSize:   10,
	}, scanItem)

	require.NoError(t, err)
	assert.Equal(t, []item{}, res.Data)
	assert.Equal(t, 25, res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, 3, res.LastPage)
	assert.Equal(t, math.MaxInt/5, res.Page)
	// only the count query ran
	assert.NoError(t, mock.ExpectationsWereMet())
}

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamadmin/internal/repository"
)

func TestNotificationPostgres(t *testing.T) {
	ctx := context.Background()
	end := time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)

	t.Run("expiring licenses", func(t *testing.T) {
		db, mock, _ := newMock(t)
		repo := NewNotificationPostgres(db)

		mock.ExpectQuery(`SELECT l.license_id, t.name, l.end_date, .+ WHERE l.is_active = true AND l.is_deleted = false AND .+ ORDER BY l.end_date ASC, l.license_id ASC LIMIT \$1$`).
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows([]string{"license_id", "name", "end_date", "days_remaining"}).
				AddRow(3, "Dune", end, 2).
				AddRow(9, "Roma", end, 2))

		list, err := repo.ExpiringLicenses(ctx, 5)

		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Roma", list[1].TitleName)
		assert.Equal(t, 2, list[0].DaysRemaining)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no recent titles is an empty slice", func(t *testing.T) {
		db, mock, _ := newMock(t)
		repo := NewNotificationPostgres(db)

		mock.ExpectQuery(`FROM title t WHERE t.is_deleted = false AND t.original_release_date > CURRENT_DATE - INTERVAL '7 days' .+ LIMIT \$1$`).
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows([]string{"title_id", "name", "original_release_date"}))

		list, err := repo.RecentTitles(ctx, 5)

		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("query failure", func(t *testing.T) {
		db, mock, _ := newMock(t)
		repo := NewNotificationPostgres(db)

		mock.ExpectQuery(`FROM title t`).WillReturnError(errors.New("timeout"))

		list, err := repo.RecentTitles(ctx, 5)

		assert.Nil(t, list)
		assert.EqualError(t, err, "timeout")
	})
}

func TestAnalyticsPostgres_Report(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	expectCharts := func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(`SELECT date, total_views FROM \(.+ORDER BY date DESC LIMIT 30 \) d ORDER BY date$`).
			WillReturnRows(sqlmock.NewRows([]string{"date", "total_views"}).
				AddRow(day, 1200).
				AddRow(day.AddDate(0, 0, 1), 1350))
		mock.ExpectQuery(`SELECT date, total_likes, total_list_adds FROM`).
			WillReturnRows(sqlmock.NewRows([]string{"date", "total_likes", "total_list_adds"}).AddRow(day, 80, 12))
		mock.ExpectQuery(`SELECT t.name, SUM\(v.views\) AS total_views .+ LIMIT 10$`).
			WillReturnRows(sqlmock.NewRows([]string{"name", "total_views"}).AddRow("Dune", 900))
		mock.ExpectQuery(`SELECT g.name, SUM\(v.views\)`).
			WillReturnRows(sqlmock.NewRows([]string{"name", "total_views"}).AddRow("Sci-Fi", 900).AddRow("Drama", 450))
	}

	t.Run("all charts", func(t *testing.T) {
		db, mock, _ := newMock(t)
		repo := NewAnalyticsPostgres(db)

		expectCharts(mock)
		mock.ExpectQuery(`SELECT t.type, SUM\(v.views\)`).
			WillReturnRows(sqlmock.NewRows([]string{"type", "total_views"}).AddRow("Movie", 2550))

		a, err := repo.Report(ctx)

		require.NoError(t, err)
		require.Len(t, a.Views, 2)
		assert.Equal(t, int64(1350), a.Views[1].Views)
		assert.Equal(t, int64(12), a.Interactions[0].ListAdds)
		assert.Equal(t, "Dune", a.TopTitles[0].Name)
		assert.Len(t, a.TopGenres, 2)
		assert.Equal(t, "Movie", a.TopTypes[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("one failing chart fails the report", func(t *testing.T) {
		db, mock, _ := newMock(t)
		repo := NewAnalyticsPostgres(db)

		expectCharts(mock)
		mock.ExpectQuery(`SELECT t.type`).WillReturnError(errors.New("statement timeout"))

		a, err := repo.Report(ctx)

		assert.Nil(t, a)
		assert.EqualError(t, err, "top_types: statement timeout")
	})
}

func TestAnalyticsPostgres_Record(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("views upsert", func(t *testing.T) {
		db, mock, _ := newMock(t)
		repo := NewAnalyticsPostgres(db)

		mock.ExpectExec(`INSERT INTO viewcount \(title_id, date, views\) VALUES \(\$1, \$2, \$3\) ON CONFLICT \(title_id, date\) DO UPDATE SET views = EXCLUDED.views`).
			WithArgs(int64(11), day, int64(640)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.RecordViews(ctx, 11, day, 640))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("interactions for unknown title", func(t *testing.T) {
		db, mock, _ := newMock(t)
		repo := NewAnalyticsPostgres(db)

		mock.ExpectExec(`INSERT INTO interactionstats`).
			WithArgs(int64(404), day, int64(3), int64(1)).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

		err := repo.RecordInteractions(ctx, 404, day, 3, 1)

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("negative views hit the check constraint", func(t *testing.T) {
		db, mock, _ := newMock(t)
		repo := NewAnalyticsPostgres(db)

		mock.ExpectExec(`INSERT INTO viewcount`).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.CheckViolation})

		assert.ErrorIs(t, repo.RecordViews(ctx, 11, day, -1), repository.ErrConflict)
	})
}

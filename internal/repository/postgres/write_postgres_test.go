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

func TestTitlePostgres_Create(t *testing.T) {
	ctx := context.Background()
	release := time.Date(2021, 11, 6, 0, 0, 0, 0, time.UTC)
	seasons, episodes := 2, 18
	in := repository.TitleInput{
		Name:                "Arcane",
		Type:                "Series",
		OriginID:            4,
		OriginalReleaseDate: &release,
		IsOriginal:          true,
		SeasonCount:         &seasons,
		EpisodeCount:        &episodes,
		GenreIDs:            []int64{1, 5},
	}

	t.Run("inserts title and genre links in one transaction", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewTitlePostgres(db, pager)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO title \(name, type, origin_id, original_release_date, is_original, season_count, episode_count, is_deleted\)`).
			WithArgs("Arcane", "Series", int64(4), release, true, 2, 18).
			WillReturnRows(sqlmock.NewRows([]string{"title_id"}).AddRow(21))
		mock.ExpectExec(`INSERT INTO title_genre \(title_id, genre_id\) VALUES \(\$1, \$2\)`).
			WithArgs(int64(21), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO title_genre`).
			WithArgs(int64(21), int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		id, err := repo.Create(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, int64(21), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("movie without release date sends nulls", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewTitlePostgres(db, pager)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO title`).
			WithArgs("Roma", "Movie", int64(2), nil, false, nil, nil).
			WillReturnRows(sqlmock.NewRows([]string{"title_id"}).AddRow(22))
		mock.ExpectCommit()

		id, err := repo.Create(ctx, repository.TitleInput{Name: "Roma", Type: "Movie", OriginID: 2})

		require.NoError(t, err)
		assert.Equal(t, int64(22), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown genre rolls back", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewTitlePostgres(db, pager)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO title`).
			WillReturnRows(sqlmock.NewRows([]string{"title_id"}).AddRow(21))
		mock.ExpectExec(`INSERT INTO title_genre`).
			WithArgs(int64(21), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO title_genre`).
			WithArgs(int64(21), int64(5)).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})
		mock.ExpectRollback()

		id, err := repo.Create(ctx, in)

		assert.Zero(t, id)
		assert.ErrorIs(t, err, repository.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTitlePostgres_Update(t *testing.T) {
	ctx := context.Background()
	in := repository.TitleInput{Name: "Roma", Type: "Movie", OriginID: 2, GenreIDs: []int64{3}}

	t.Run("replaces genre links", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewTitlePostgres(db, pager)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE title SET name = \$1, .+ WHERE title_id = \$8`).
			WithArgs("Roma", "Movie", int64(2), nil, false, nil, nil, int64(22)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM title_genre WHERE title_id = \$1`).
			WithArgs(int64(22)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`INSERT INTO title_genre`).
			WithArgs(int64(22), int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Update(ctx, 22, in))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing title", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewTitlePostgres(db, pager)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE title`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Update(ctx, 99, in)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewTitlePostgres(db, pager)

		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		err := repo.Update(ctx, 22, in)

		assert.EqualError(t, err, "connection refused")
	})
}

func TestLicensePostgres_Writes(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	in := repository.LicenseInput{TitleID: 11, ProviderID: 7, StartDate: start, EndDate: end, IsActive: true}

	t.Run("find by id", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewLicensePostgres(db, pager)

		mock.ExpectQuery(`SELECT l.license_id, .+ WHERE l.license_id = \$1$`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(licenseRowColumns).
				AddRow(3, start, end, true, false, 11, "Dune", 7, "Acme Media", 40))

		l, err := repo.FindByID(ctx, 3)

		require.NoError(t, err)
		assert.Equal(t, "Acme Media", l.ProviderName)
		assert.Equal(t, 40, l.DaysRemaining)
	})

	t.Run("find missing", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewLicensePostgres(db, pager)

		mock.ExpectQuery(`WHERE l.license_id = \$1$`).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(licenseRowColumns))

		l, err := repo.FindByID(ctx, 404)

		assert.Nil(t, l)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("create", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewLicensePostgres(db, pager)

		mock.ExpectQuery(`INSERT INTO license \(title_id, provider_id, start_date, end_date, is_active, is_deleted\)`).
			WithArgs(int64(11), int64(7), start, end, true).
			WillReturnRows(sqlmock.NewRows([]string{"license_id"}).AddRow(30))

		id, err := repo.Create(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, int64(30), id)
	})

	t.Run("create for unknown provider", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewLicensePostgres(db, pager)

		mock.ExpectQuery(`INSERT INTO license`).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

		_, err := repo.Create(ctx, in)

		assert.ErrorIs(t, err, repository.ErrConflict)
	})

	t.Run("update missing", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewLicensePostgres(db, pager)

		mock.ExpectExec(`UPDATE license SET title_id = \$1, .+ WHERE license_id = \$6`).
			WithArgs(int64(11), int64(7), start, end, false, int64(30)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		in := in
		in.IsActive = false
		assert.ErrorIs(t, repo.Update(ctx, 30, in), repository.ErrNotFound)
	})
}

func TestProviderPostgres_Writes(t *testing.T) {
	ctx := context.Background()
	cols := []string{"provider_id", "name", "email", "phone", "is_deleted", "license_count"}
	in := repository.ProviderInput{Name: "Acme Media", Email: "ops@acme.test", Phone: "555-0100"}

	t.Run("create", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewProviderPostgres(db, pager)

		mock.ExpectQuery(`INSERT INTO contentprovider \(name, email, phone, is_deleted\) VALUES \(\$1, \$2, \$3, false\) RETURNING provider_id`).
			WithArgs("Acme Media", "ops@acme.test", "555-0100").
			WillReturnRows(sqlmock.NewRows(cols).AddRow(8, "Acme Media", "ops@acme.test", "555-0100", false, 0))

		p, err := repo.Create(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, int64(8), p.ID)
		assert.Zero(t, p.LicenseCount)
	})

	t.Run("update keeps license count", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewProviderPostgres(db, pager)

		mock.ExpectQuery(`UPDATE contentprovider SET name = \$1, email = \$2, phone = \$3 WHERE provider_id = \$4 RETURNING`).
			WithArgs("Acme Media", "ops@acme.test", "555-0100", int64(8)).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(8, "Acme Media", "ops@acme.test", "555-0100", false, 12))

		p, err := repo.Update(ctx, 8, in)

		require.NoError(t, err)
		assert.Equal(t, 12, p.LicenseCount)
	})

	t.Run("update missing", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewProviderPostgres(db, pager)

		mock.ExpectQuery(`UPDATE contentprovider`).
			WillReturnRows(sqlmock.NewRows(cols))

		_, err := repo.Update(ctx, 99, in)

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestGenrePostgres_Writes(t *testing.T) {
	ctx := context.Background()

	t.Run("rename", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewGenrePostgres(db, pager)

		mock.ExpectQuery(`UPDATE genre SET name = \$1 WHERE genre_id = \$2 RETURNING genre_id, name`).
			WithArgs("Sci-Fi", int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"genre_id", "name", "title_count"}).AddRow(4, "Sci-Fi", 17))

		g, err := repo.Update(ctx, 4, "Sci-Fi")

		require.NoError(t, err)
		assert.Equal(t, 17, g.TitleCount)
	})

	t.Run("rename to taken name", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewGenrePostgres(db, pager)

		mock.ExpectQuery(`UPDATE genre`).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		_, err := repo.Update(ctx, 4, "Drama")

		assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	})

	t.Run("delete unlinks titles first", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewGenrePostgres(db, pager)
		mock.MatchExpectationsInOrder(true)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM title_genre WHERE genre_id = \$1`).
			WithArgs(int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 17))
		mock.ExpectExec(`DELETE FROM genre WHERE genre_id = \$1`).
			WithArgs(int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Delete(ctx, 4))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete missing rolls back", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewGenrePostgres(db, pager)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM title_genre`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM genre`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Delete(ctx, 404), repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOriginPostgres_Writes(t *testing.T) {
	ctx := context.Background()

	t.Run("update", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewOriginPostgres(db, pager)

		mock.ExpectQuery(`UPDATE origin SET country = \$1, language = \$2 WHERE origin_id = \$3 RETURNING`).
			WithArgs("Spain", "Catalan", int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"origin_id", "country", "language", "title_count"}).AddRow(5, "Spain", "Catalan", 2))

		o, err := repo.Update(ctx, 5, "Spain", "Catalan")

		require.NoError(t, err)
		assert.Equal(t, "Catalan", o.Language)
	})

	t.Run("delete unused", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewOriginPostgres(db, pager)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT origin_id FROM origin WHERE origin_id = \$1 FOR UPDATE`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"origin_id"}).AddRow(5))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM title WHERE origin_id = \$1`).
			WithArgs(int64(5)).
			WillReturnRows(countResult(0))
		mock.ExpectExec(`DELETE FROM origin WHERE origin_id = \$1`).
			WithArgs(int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Delete(ctx, 5))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete referenced", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewOriginPostgres(db, pager)

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"origin_id"}).AddRow(3))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM title`).
			WillReturnRows(countResult(42))
		mock.ExpectRollback()

		err := repo.Delete(ctx, 3)

		assert.ErrorIs(t, err, repository.ErrInUse)
		assert.ErrorContains(t, err, "origin 3 has 42 titles")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete missing", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewOriginPostgres(db, pager)

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"origin_id"}))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Delete(ctx, 404), repository.ErrNotFound)
	})
}

func TestAdminPostgres_Writes(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	cols := []string{"admin_id", "username", "email", "role", "created_date", "is_deleted"}

	t.Run("create stores hash", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewAdminPostgres(db, pager)

		mock.ExpectQuery(`INSERT INTO admin \(username, email, role, password_hash, created_date, is_deleted\)`).
			WithArgs("maria", "maria@example.test", "editor", "$2a$10$hash").
			WillReturnRows(sqlmock.NewRows(cols).AddRow(2, "maria", "maria@example.test", "editor", created, false))

		a, err := repo.Create(ctx, repository.AdminInput{
			Username: "maria", Email: "maria@example.test", Role: "editor", PasswordHash: "$2a$10$hash",
		})

		require.NoError(t, err)
		assert.Equal(t, created, a.CreatedDate)
	})

	t.Run("update with blank hash keeps password", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewAdminPostgres(db, pager)

		mock.ExpectQuery(`password_hash = COALESCE\(NULLIF\(\$4, ''\), password_hash\)\s+WHERE admin_id = \$5`).
			WithArgs("maria", "maria@example.test", "owner", "", int64(2)).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(2, "maria", "maria@example.test", "owner", created, false))

		a, err := repo.Update(ctx, 2, repository.AdminInput{Username: "maria", Email: "maria@example.test", Role: "owner"})

		require.NoError(t, err)
		assert.Equal(t, "owner", a.Role)
	})

	t.Run("create duplicate", func(t *testing.T) {
		db, mock, pager := newMock(t)
		repo := NewAdminPostgres(db, pager)

		mock.ExpectQuery(`INSERT INTO admin`).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		_, err := repo.Create(ctx, repository.AdminInput{Username: "maria"})

		assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	})
}

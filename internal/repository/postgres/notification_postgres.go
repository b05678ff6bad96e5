package postgres

import (
	"context"
	"database/sql"

	"streamadmin/internal/model"
	"streamadmin/internal/repository"
)

// NotificationPostgres reads the notification feed sources.
type NotificationPostgres struct {
	db *sql.DB
}

func NewNotificationPostgres(db *sql.DB) *NotificationPostgres {
	return &NotificationPostgres{db: db}
}

var _ repository.NotificationRepository = (*NotificationPostgres)(nil)

func (r *NotificationPostgres) ExpiringLicenses(ctx context.Context, limit int) ([]model.ExpiringLicense, error) {
	const q = `SELECT l.license_id, t.name, l.end_date, (l.end_date - CURRENT_DATE) AS days_remaining
FROM license l
JOIN title t ON l.title_id = t.title_id
WHERE l.is_active = true AND l.is_deleted = false AND ` + expiringWindow + `
ORDER BY l.end_date ASC, l.license_id ASC
LIMIT $1`
	return collect(ctx, r.db, q, []any{limit}, func(rows *sql.Rows) (model.ExpiringLicense, error) {
		var e model.ExpiringLicense
		err := rows.Scan(&e.LicenseID, &e.TitleName, &e.EndDate, &e.DaysRemaining)
		return e, err
	})
}

func (r *NotificationPostgres) RecentTitles(ctx context.Context, limit int) ([]model.RecentTitle, error) {
	const q = `SELECT t.title_id, t.name, t.original_release_date
FROM title t
WHERE t.is_deleted = false AND t.original_release_date > CURRENT_DATE - INTERVAL '7 days'
ORDER BY t.original_release_date DESC, t.title_id DESC
LIMIT $1`
	return collect(ctx, r.db, q, []any{limit}, func(rows *sql.Rows) (model.RecentTitle, error) {
		var t model.RecentTitle
		err := rows.Scan(&t.TitleID, &t.Name, &t.ReleaseDate)
		return t, err
	})
}

// collect runs an unpaginated read and scans every row. The result is never nil.
func collect[T any](ctx context.Context, db *sql.DB, q string, args []any, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

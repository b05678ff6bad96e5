package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"streamadmin/internal/model"
	"streamadmin/internal/repository"
)

const (
	// viewsByDay and interactionsByDay keep the 30 most recent recorded days in date order.
	viewsByDay = `SELECT date, total_views FROM (
  SELECT date, SUM(views) AS total_views FROM viewcount GROUP BY date ORDER BY date DESC LIMIT 30
) d ORDER BY date`
	interactionsByDay = `SELECT date, total_likes, total_list_adds FROM (
  SELECT date, SUM(likes) AS total_likes, SUM(list_adds) AS total_list_adds
  FROM interactionstats GROUP BY date ORDER BY date DESC LIMIT 30
) d ORDER BY date`
	topTitles = `SELECT t.name, SUM(v.views) AS total_views
FROM title t JOIN viewcount v ON t.title_id = v.title_id
GROUP BY t.title_id, t.name
ORDER BY total_views DESC, t.title_id
LIMIT 10`
	topGenres = `SELECT g.name, SUM(v.views) AS total_views
FROM genre g
JOIN title_genre tg ON g.genre_id = tg.genre_id
JOIN viewcount v ON tg.title_id = v.title_id
GROUP BY g.genre_id, g.name
ORDER BY total_views DESC, g.genre_id
LIMIT 10`
	topTypes = `SELECT t.type, SUM(v.views) AS total_views
FROM title t JOIN viewcount v ON t.title_id = v.title_id
GROUP BY t.type
ORDER BY total_views DESC, t.type`

	upsertViews = `INSERT INTO viewcount (title_id, date, views) VALUES ($1, $2, $3)
ON CONFLICT (title_id, date) DO UPDATE SET views = EXCLUDED.views`
	upsertInteractions = `INSERT INTO interactionstats (title_id, date, likes, list_adds) VALUES ($1, $2, $3, $4)
ON CONFLICT (title_id, date) DO UPDATE SET likes = EXCLUDED.likes, list_adds = EXCLUDED.list_adds`
)

// AnalyticsPostgres reads and records the engagement counters.
type AnalyticsPostgres struct {
	db *sql.DB
}

func NewAnalyticsPostgres(db *sql.DB) *AnalyticsPostgres {
	return &AnalyticsPostgres{db: db}
}

var _ repository.AnalyticsRepository = (*AnalyticsPostgres)(nil)

// Report runs the five chart queries concurrently; one failure fails the report.
func (r *AnalyticsPostgres) Report(ctx context.Context) (*model.Analytics, error) {
	var a model.Analytics
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		a.Views, err = collect(gctx, r.db, viewsByDay, nil, func(rows *sql.Rows) (model.DailyViews, error) {
			var d model.DailyViews
			err := rows.Scan(&d.Date, &d.Views)
			return d, err
		})
		return wrap("views", err)
	})
	g.Go(func() (err error) {
		a.Interactions, err = collect(gctx, r.db, interactionsByDay, nil, func(rows *sql.Rows) (model.DailyInteractions, error) {
			var d model.DailyInteractions
			err := rows.Scan(&d.Date, &d.Likes, &d.ListAdds)
			return d, err
		})
		return wrap("interactions", err)
	})
	g.Go(func() (err error) {
		a.TopTitles, err = collect(gctx, r.db, topTitles, nil, scanRanked)
		return wrap("top_titles", err)
	})
	g.Go(func() (err error) {
		a.TopGenres, err = collect(gctx, r.db, topGenres, nil, scanRanked)
		return wrap("top_genres", err)
	})
	g.Go(func() (err error) {
		a.TopTypes, err = collect(gctx, r.db, topTypes, nil, scanRanked)
		return wrap("top_types", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnalyticsPostgres) RecordViews(ctx context.Context, titleID int64, day time.Time, views int64) error {
	_, err := r.db.ExecContext(ctx, upsertViews, titleID, day, views)
	return recordErr(err)
}

func (r *AnalyticsPostgres) RecordInteractions(ctx context.Context, titleID int64, day time.Time, likes, listAdds int64) error {
	_, err := r.db.ExecContext(ctx, upsertInteractions, titleID, day, likes, listAdds)
	return recordErr(err)
}

// recordErr reports a missing title as repository.ErrNotFound.
func recordErr(err error) error {
	if repository.IsForeignKeyViolation(err) {
		return repository.ErrNotFound
	}
	return repository.MapPgError(err)
}

func wrap(chart string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", chart, err)
	}
	return nil
}

func scanRanked(rows *sql.Rows) (model.RankedViews, error) {
	var r model.RankedViews
	err := rows.Scan(&r.Name, &r.Views)
	return r, err
}

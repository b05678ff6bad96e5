package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"

	"streamadmin/internal/model"
	"streamadmin/internal/repository"
)

// DashboardPostgres reads the dashboard counters.
type DashboardPostgres struct {
	db *sql.DB
}

func NewDashboardPostgres(db *sql.DB) *DashboardPostgres {
	return &DashboardPostgres{db: db}
}

var _ repository.DashboardRepository = (*DashboardPostgres)(nil)

type counter struct {
	name  string
	query string
	dest  any
}

// Summary runs every counter concurrently; one failure fails the whole summary.
func (r *DashboardPostgres) Summary(ctx context.Context) (*model.DashboardSummary, error) {
	var s model.DashboardSummary
	counters := []counter{
		{"all_titles", `SELECT COUNT(*) FROM title`, &s.AllTitles},
		{"active_titles", `SELECT COUNT(*) FROM title WHERE is_deleted = false`, &s.ActiveTitles},
		{"deleted_titles", `SELECT COUNT(*) FROM title WHERE is_deleted = true`, &s.DeletedTitles},
		{"viewers", `SELECT COUNT(*) FROM viewer`, &s.Viewers},
		{"providers", `SELECT COUNT(*) FROM contentprovider WHERE is_deleted = false`, &s.Providers},
		{"genres", `SELECT COUNT(*) FROM genre`, &s.Genres},
		{"total_views", `SELECT COALESCE(SUM(views), 0) FROM viewcount`, &s.TotalViews},
		{"total_likes", `SELECT COALESCE(SUM(likes), 0) FROM interactionstats`, &s.TotalLikes},
		{"total_list_adds", `SELECT COALESCE(SUM(list_adds), 0) FROM interactionstats`, &s.TotalListAdds},
		{"new_viewers", `SELECT COUNT(*) FROM viewer WHERE created_date > NOW() - INTERVAL '30 days'`, &s.NewViewers},
		{"recent_titles", `SELECT COUNT(*) FROM title WHERE original_release_date > NOW() - INTERVAL '30 days'`, &s.RecentTitles},
		{"expiring_licenses", `SELECT COUNT(*) FROM license l WHERE l.is_deleted = false AND l.is_active = true AND ` + expiringWindow, &s.ExpiringLicenses},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range counters {
		g.Go(func() error {
			if err := r.db.QueryRowContext(gctx, c.query).Scan(c.dest); err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &s, nil
}

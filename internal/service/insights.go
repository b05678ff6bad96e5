package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"streamadmin/internal/model"
	"streamadmin/internal/repository"
)

// Notification kinds.
const (
	KindLicenseExpiring = "license_expiring"
	KindTitleAdded      = "title_added"
)

// notificationLimit caps each notification source.
const notificationLimit = 5

// InsightsService serves the notification feed and the engagement analytics.
type InsightsService interface {
	// Notifications lists expiring licenses first, then recently released titles.
	Notifications(ctx context.Context) ([]model.Notification, error)
	Analytics(ctx context.Context) (*model.Analytics, error)
	RecordViews(ctx context.Context, titleID int64, in ViewInput) error
	RecordInteractions(ctx context.Context, titleID int64, in InteractionInput) error
}

type insightsService struct {
	notes     repository.NotificationRepository
	analytics repository.AnalyticsRepository
	validate  *validator.Validate
	log       zerolog.Logger
	now       func() time.Time
}

func NewInsightsService(notes repository.NotificationRepository, analytics repository.AnalyticsRepository, log zerolog.Logger) InsightsService {
	return &insightsService{
		notes:     notes,
		analytics: analytics,
		validate:  validator.New(),
		log:       log.With().Str("component", "insights").Logger(),
		now:       time.Now,
	}
}

func (s *insightsService) Notifications(ctx context.Context) ([]model.Notification, error) {
	var (
		licenses []model.ExpiringLicense
		titles   []model.RecentTitle
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		licenses, err = s.notes.ExpiringLicenses(gctx, notificationLimit)
		return err
	})
	g.Go(func() (err error) {
		titles, err = s.notes.RecentTitles(gctx, notificationLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, failure(s.log, "notifications", err)
	}

	at := s.now()
	out := make([]model.Notification, 0, len(licenses)+len(titles))
	for _, l := range licenses {
		out = append(out, model.Notification{
			ID:      fmt.Sprintf("license-%d", l.LicenseID),
			Kind:    KindLicenseExpiring,
			Title:   "License Expiring Soon",
			Message: fmt.Sprintf("\"%s\" license expires in %d days", l.TitleName, l.DaysRemaining),
			Time:    at,
		})
	}
	for _, t := range titles {
		out = append(out, model.Notification{
			ID:      fmt.Sprintf("title-%d", t.TitleID),
			Kind:    KindTitleAdded,
			Title:   "New Title Added",
			Message: fmt.Sprintf("\"%s\" was added on %s", t.Name, t.ReleaseDate.Format(dateLayout)),
			Time:    at,
		})
	}
	return out, nil
}

func (s *insightsService) Analytics(ctx context.Context) (*model.Analytics, error) {
	a, err := s.analytics.Report(ctx)
	if err != nil {
		return nil, failure(s.log, "analytics", err)
	}
	return a, nil
}

func (s *insightsService) RecordViews(ctx context.Context, titleID int64, in ViewInput) error {
	day, err := s.day(titleID, in, in.Date)
	if err != nil {
		return err
	}
	if err := s.analytics.RecordViews(ctx, titleID, day, in.Views); err != nil {
		return failure(s.log, "record_views", err)
	}
	return nil
}

func (s *insightsService) RecordInteractions(ctx context.Context, titleID int64, in InteractionInput) error {
	day, err := s.day(titleID, in, in.Date)
	if err != nil {
		return err
	}
	if err := s.analytics.RecordInteractions(ctx, titleID, day, in.Likes, in.ListAdds); err != nil {
		return failure(s.log, "record_interactions", err)
	}
	return nil
}

// day validates a counter input and parses its date.
func (s *insightsService) day(titleID int64, in any, date string) (time.Time, error) {
	if titleID < 1 {
		return time.Time{}, invalid(errBadID)
	}
	if err := checkStruct(s.validate, in); err != nil {
		return time.Time{}, err
	}
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, invalid(err)
	}
	return d, nil
}

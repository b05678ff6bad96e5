// Package repository defines the catalog's data access contracts.
// Implementations live in subpackages (postgres).
package repository

import (
	"context"
	"time"

	"streamadmin/internal/model"
	"streamadmin/internal/pagination"
)

// Record status values for soft-deletable entities.
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// License availability filters.
const (
	AvailabilityAll      = "all"
	AvailabilityActive   = "active"
	AvailabilityInactive = "inactive"
	AvailabilityExpiring = "expiring"
)

// ListOptions are the parameters shared by every list page.
// Page, PageSize and ShowAll are passed to the pagination executor unchanged.
type ListOptions struct {
	Search   string
	Status   string
	Sort     string
	Order    string
	Page     int
	PageSize int
	ShowAll  bool
}

// Deleted reports whether the listing targets soft-deleted records.
func (o ListOptions) Deleted() bool {
	return o.Status == StatusDeleted
}

// TitleFilter narrows a title listing. Zero values mean no filter.
type TitleFilter struct {
	Type     string
	OriginID int64
	GenreID  int64
}

// LicenseFilter narrows a license listing by availability.
type LicenseFilter struct {
	Availability string
}

// TitleInput is the writable part of a title. GenreIDs replaces the title's genre set.
type TitleInput struct {
	Name                string
	Type                string
	OriginID            int64
	OriginalReleaseDate *time.Time
	IsOriginal          bool
	SeasonCount         *int
	EpisodeCount        *int
	GenreIDs            []int64
}

type LicenseInput struct {
	TitleID    int64
	ProviderID int64
	StartDate  time.Time
	EndDate    time.Time
	IsActive   bool
}

type ProviderInput struct {
	Name  string
	Email string
	Phone string
}

// AdminInput carries an already hashed password. An empty PasswordHash on update keeps
// the stored one.
type AdminInput struct {
	Username     string
	Email        string
	Role         string
	PasswordHash string
}

type TitleRepository interface {
	List(ctx context.Context, opts ListOptions, f TitleFilter) (*pagination.Page[model.Title], error)
	FindByID(ctx context.Context, id int64) (*model.Title, error)
	// Create and Update write the title row and its genre links in one transaction.
	Create(ctx context.Context, in TitleInput) (int64, error)
	Update(ctx context.Context, id int64, in TitleInput) error
	SetDeleted(ctx context.Context, id int64, deleted bool) error
}

type LicenseRepository interface {
	List(ctx context.Context, opts ListOptions, f LicenseFilter) (*pagination.Page[model.License], error)
	FindByID(ctx context.Context, id int64) (*model.License, error)
	Create(ctx context.Context, in LicenseInput) (int64, error)
	Update(ctx context.Context, id int64, in LicenseInput) error
	SetDeleted(ctx context.Context, id int64, deleted bool) error
	// CountExpiring returns the number of active licenses ending within 30 days.
	CountExpiring(ctx context.Context) (int, error)
}

type ProviderRepository interface {
	List(ctx context.Context, opts ListOptions) (*pagination.Page[model.Provider], error)
	Create(ctx context.Context, in ProviderInput) (*model.Provider, error)
	Update(ctx context.Context, id int64, in ProviderInput) (*model.Provider, error)
	SetDeleted(ctx context.Context, id int64, deleted bool) error
}

type GenreRepository interface {
	List(ctx context.Context, opts ListOptions) (*pagination.Page[model.Genre], error)
	Create(ctx context.Context, name string) (*model.Genre, error)
	Update(ctx context.Context, id int64, name string) (*model.Genre, error)
	// Delete unlinks the genre from every title, then removes it.
	Delete(ctx context.Context, id int64) error
}

type OriginRepository interface {
	List(ctx context.Context, opts ListOptions) (*pagination.Page[model.Origin], error)
	Create(ctx context.Context, country, language string) (*model.Origin, error)
	Update(ctx context.Context, id int64, country, language string) (*model.Origin, error)
	// Delete refuses with ErrInUse while titles still reference the origin.
	Delete(ctx context.Context, id int64) error
}

type AdminRepository interface {
	List(ctx context.Context, opts ListOptions) (*pagination.Page[model.Admin], error)
	Create(ctx context.Context, in AdminInput) (*model.Admin, error)
	Update(ctx context.Context, id int64, in AdminInput) (*model.Admin, error)
	SetDeleted(ctx context.Context, id int64, deleted bool) error
}

type ViewerRepository interface {
	List(ctx context.Context, opts ListOptions) (*pagination.Page[model.Viewer], error)
}

// DashboardRepository reads the headline counters.
type DashboardRepository interface {
	Summary(ctx context.Context) (*model.DashboardSummary, error)
}

// NotificationRepository reads the sources of the notification feed.
type NotificationRepository interface {
	// ExpiringLicenses returns live, active licenses ending within 30 days, soonest first.
	ExpiringLicenses(ctx context.Context, limit int) ([]model.ExpiringLicense, error)
	// RecentTitles returns live titles released in the last 7 days, newest first.
	RecentTitles(ctx context.Context, limit int) ([]model.RecentTitle, error)
}

// AnalyticsRepository reads and records per-day engagement counters.
type AnalyticsRepository interface {
	Report(ctx context.Context) (*model.Analytics, error)
	// RecordViews and RecordInteractions set the counters of one title for one day,
	// replacing earlier values for that day. An unknown title yields ErrNotFound.
	RecordViews(ctx context.Context, titleID int64, day time.Time, views int64) error
	RecordInteractions(ctx context.Context, titleID int64, day time.Time, likes, listAdds int64) error
}

// Package model holds the catalog's domain types. They carry JSON tags only; persistence
// details stay in the repository layer.
package model

import "time"

// Title is a movie or series in the catalog.
type Title struct {
	ID                  int64      `json:"title_id"`
	Name                string     `json:"name"`
	Type                string     `json:"type"`
	OriginalReleaseDate *time.Time `json:"original_release_date"`
	IsOriginal          bool       `json:"is_original"`
	SeasonCount         *int       `json:"season_count"`
	EpisodeCount        *int       `json:"episode_count"`
	IsDeleted           bool       `json:"is_deleted"`
	OriginID            int64      `json:"origin_id"`
	Country             string     `json:"country"`
	Language            string     `json:"language"`
	Genres              []string   `json:"genres"`
}

// License grants a provider the right to stream a title between two dates.
type License struct {
	ID            int64     `json:"license_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	IsActive      bool      `json:"is_active"`
	IsDeleted     bool      `json:"is_deleted"`
	TitleID       int64     `json:"title_id"`
	TitleName     string    `json:"title_name"`
	ProviderID    int64     `json:"provider_id"`
	ProviderName  string    `json:"provider_name"`
	DaysRemaining int       `json:"days_remaining"`
}

// Provider is a content provider that licenses titles.
type Provider struct {
	ID           int64  `json:"provider_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	IsDeleted    bool   `json:"is_deleted"`
	LicenseCount int    `json:"license_count"`
}

// Genre is a catalog genre with the number of titles tagged with it.
type Genre struct {
	ID         int64  `json:"genre_id"`
	Name       string `json:"name"`
	TitleCount int    `json:"title_count"`
}

// Origin is a country/language pair titles are produced in.
type Origin struct {
	ID         int64  `json:"origin_id"`
	Country    string `json:"country"`
	Language   string `json:"language"`
	TitleCount int    `json:"title_count"`
}

type Admin struct {
	ID          int64     `json:"admin_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	CreatedDate time.Time `json:"created_date"`
	IsDeleted   bool      `json:"is_deleted"`
}

type Viewer struct {
	ID          int64     `json:"viewer_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	CreatedDate time.Time `json:"created_date"`
}

// DashboardSummary is the set of headline counters shown on the dashboard.
type DashboardSummary struct {
	AllTitles        int   `json:"all_titles"`
	ActiveTitles     int   `json:"active_titles"`
	DeletedTitles    int   `json:"deleted_titles"`
	Viewers          int   `json:"viewers"`
	Providers        int   `json:"providers"`
	Genres           int   `json:"genres"`
	TotalViews       int64 `json:"total_views"`
	TotalLikes       int64 `json:"total_likes"`
	TotalListAdds    int64 `json:"total_list_adds"`
	NewViewers       int   `json:"new_viewers"`
	RecentTitles     int   `json:"recent_titles"`
	ExpiringLicenses int   `json:"expiring_licenses"`
}

// ExpiringLicense is a license about to end, as shown in the notification feed.
type ExpiringLicense struct {
	LicenseID     int64
	TitleName     string
	EndDate       time.Time
	DaysRemaining int
}

// RecentTitle is a newly released title, as shown in the notification feed.
type RecentTitle struct {
	TitleID     int64
	Name        string
	ReleaseDate time.Time
}

// Notification is one entry of the admin notification feed.
type Notification struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

type DailyViews struct {
	Date  time.Time `json:"date"`
	Views int64     `json:"total_views"`
}

type DailyInteractions struct {
	Date     time.Time `json:"date"`
	Likes    int64     `json:"total_likes"`
	ListAdds int64     `json:"total_list_adds"`
}

// RankedViews is a named bucket (title, genre or type) with its summed views.
type RankedViews struct {
	Name  string `json:"name"`
	Views int64  `json:"total_views"`
}

// Analytics holds the engagement charts: the last 30 recorded days and the most viewed
// titles, genres and types.
type Analytics struct {
	Views        []DailyViews        `json:"views"`
	Interactions []DailyInteractions `json:"interactions"`
	TopTitles    []RankedViews       `json:"top_titles"`
	TopGenres    []RankedViews       `json:"top_genres"`
	TopTypes     []RankedViews       `json:"top_types"`
}

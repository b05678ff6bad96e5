// Package service holds the catalog use cases behind the HTTP handlers.
package service

import (
	"context"

	"github.com/rs/zerolog"

	"streamadmin/internal/config"
	"streamadmin/internal/model"
	"streamadmin/internal/pagination"
	"streamadmin/internal/repository"
)

// Entity names a soft-deletable record type.
type Entity string

const (
	EntityTitles    Entity = "titles"
	EntityLicenses  Entity = "licenses"
	EntityProviders Entity = "providers"
	EntityAdmins    Entity = "admins"
)

// CatalogService lists and maintains catalog records.
type CatalogService interface {
	ListTitles(ctx context.Context, p TitleParams) (*pagination.Page[model.Title], error)
	GetTitle(ctx context.Context, id int64) (*model.Title, error)
	ListLicenses(ctx context.Context, p LicenseParams) (*pagination.Page[model.License], error)
	ListProviders(ctx context.Context, p ListParams) (*pagination.Page[model.Provider], error)
	ListGenres(ctx context.Context, p ListParams) (*pagination.Page[model.Genre], error)
	ListOrigins(ctx context.Context, p ListParams) (*pagination.Page[model.Origin], error)
	ListAdmins(ctx context.Context, p ListParams) (*pagination.Page[model.Admin], error)
	ListViewers(ctx context.Context, p ListParams) (*pagination.Page[model.Viewer], error)

	// SetDeleted moves a record to or from the deleted tab.
	SetDeleted(ctx context.Context, entity Entity, id int64, deleted bool) error

	CreateTitle(ctx context.Context, in TitleInput) (*model.Title, error)
	UpdateTitle(ctx context.Context, id int64, in TitleInput) (*model.Title, error)
	CreateLicense(ctx context.Context, in LicenseInput) (*model.License, error)
	UpdateLicense(ctx context.Context, id int64, in LicenseInput) (*model.License, error)
	CreateProvider(ctx context.Context, in ProviderInput) (*model.Provider, error)
	UpdateProvider(ctx context.Context, id int64, in ProviderInput) (*model.Provider, error)
	CreateAdmin(ctx context.Context, in AdminInput) (*model.Admin, error)
	UpdateAdmin(ctx context.Context, id int64, in AdminInput) (*model.Admin, error)

	CreateGenre(ctx context.Context, name string) (*model.Genre, error)
	UpdateGenre(ctx context.Context, id int64, name string) (*model.Genre, error)
	DeleteGenre(ctx context.Context, id int64) error
	CreateOrigin(ctx context.Context, country, language string) (*model.Origin, error)
	UpdateOrigin(ctx context.Context, id int64, country, language string) (*model.Origin, error)
	// DeleteOrigin fails with ErrInUse while titles reference the origin.
	DeleteOrigin(ctx context.Context, id int64) error

	Dashboard(ctx context.Context) (*model.DashboardSummary, error)
	CountExpiringLicenses(ctx context.Context) (int, error)
}

// Repositories groups the stores the catalog reads and writes.
type Repositories struct {
	Titles    repository.TitleRepository
	Licenses  repository.LicenseRepository
	Providers repository.ProviderRepository
	Genres    repository.GenreRepository
	Origins   repository.OriginRepository
	Admins    repository.AdminRepository
	Viewers   repository.ViewerRepository
	Dashboard repository.DashboardRepository
}

type catalogService struct {
	repos Repositories
	norm  normalizer
	log   zerolog.Logger
	hash  func(password string) (string, error)
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(repos Repositories, limits config.PaginationConfig, log zerolog.Logger) CatalogService {
	return &catalogService{
		repos: repos,
		norm:  newNormalizer(limits),
		log:   log.With().Str("component", "catalog").Logger(),
		hash:  hashPassword,
	}
}

func (s *catalogService) ListTitles(ctx context.Context, p TitleParams) (*pagination.Page[model.Title], error) {
	if err := s.norm.check(p); err != nil {
		return nil, err
	}
	opts, err := s.norm.options(p.ListParams)
	if err != nil {
		return nil, err
	}
	page, err := s.repos.Titles.List(ctx, opts, repository.TitleFilter{
		Type:     p.Type,
		OriginID: p.OriginID,
		GenreID:  p.GenreID,
	})
	return page, s.fail("list_titles", err)
}

func (s *catalogService) GetTitle(ctx context.Context, id int64) (*model.Title, error) {
	if id < 1 {
		return nil, invalid(errBadID)
	}
	t, err := s.repos.Titles.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail("get_title", err)
	}
	return t, nil
}

func (s *catalogService) ListLicenses(ctx context.Context, p LicenseParams) (*pagination.Page[model.License], error) {
	if err := s.norm.check(p); err != nil {
		return nil, err
	}
	opts, err := s.norm.options(p.ListParams)
	if err != nil {
		return nil, err
	}
	page, err := s.repos.Licenses.List(ctx, opts, repository.LicenseFilter{Availability: p.Filter})
	return page, s.fail("list_licenses", err)
}

func (s *catalogService) ListProviders(ctx context.Context, p ListParams) (*pagination.Page[model.Provider], error) {
	opts, err := s.listOptions(p)
	if err != nil {
		return nil, err
	}
	page, err := s.repos.Providers.List(ctx, opts)
	return page, s.fail("list_providers", err)
}

func (s *catalogService) ListGenres(ctx context.Context, p ListParams) (*pagination.Page[model.Genre], error) {
	opts, err := s.plainListOptions(p)
	if err != nil {
		return nil, err
	}
	page, err := s.repos.Genres.List(ctx, opts)
	return page, s.fail("list_genres", err)
}

func (s *catalogService) ListOrigins(ctx context.Context, p ListParams) (*pagination.Page[model.Origin], error) {
	opts, err := s.plainListOptions(p)
	if err != nil {
		return nil, err
	}
	page, err := s.repos.Origins.List(ctx, opts)
	return page, s.fail("list_origins", err)
}

func (s *catalogService) ListAdmins(ctx context.Context, p ListParams) (*pagination.Page[model.Admin], error) {
	opts, err := s.listOptions(p)
	if err != nil {
		return nil, err
	}
	page, err := s.repos.Admins.List(ctx, opts)
	return page, s.fail("list_admins", err)
}

func (s *catalogService) ListViewers(ctx context.Context, p ListParams) (*pagination.Page[model.Viewer], error) {
	opts, err := s.plainListOptions(p)
	if err != nil {
		return nil, err
	}
	page, err := s.repos.Viewers.List(ctx, opts)
	return page, s.fail("list_viewers", err)
}

func (s *catalogService) SetDeleted(ctx context.Context, entity Entity, id int64, deleted bool) error {
	if id < 1 {
		return invalid(errBadID)
	}

	var err error
	switch entity {
	case EntityTitles:
		err = s.repos.Titles.SetDeleted(ctx, id, deleted)
	case EntityLicenses:
		err = s.repos.Licenses.SetDeleted(ctx, id, deleted)
	case EntityProviders:
		err = s.repos.Providers.SetDeleted(ctx, id, deleted)
	case EntityAdmins:
		err = s.repos.Admins.SetDeleted(ctx, id, deleted)
	default:
		return ErrNotFound
	}
	if err != nil {
		return s.fail("set_deleted", err)
	}

	s.log.Info().
		Str("entity", string(entity)).
		Int64("id", id).
		Bool("deleted", deleted).
		Msg("record status changed")
	return nil
}

func (s *catalogService) CreateGenre(ctx context.Context, name string) (*model.Genre, error) {
	in := genreInput{Name: name}
	if err := s.norm.check(in); err != nil {
		return nil, err
	}
	g, err := s.repos.Genres.Create(ctx, in.Name)
	if err != nil {
		return nil, s.fail("create_genre", err)
	}
	return g, nil
}

func (s *catalogService) CreateOrigin(ctx context.Context, country, language string) (*model.Origin, error) {
	in := originInput{Country: country, Language: language}
	if err := s.norm.check(in); err != nil {
		return nil, err
	}
	o, err := s.repos.Origins.Create(ctx, in.Country, in.Language)
	if err != nil {
		return nil, s.fail("create_origin", err)
	}
	return o, nil
}

func (s *catalogService) Dashboard(ctx context.Context) (*model.DashboardSummary, error) {
	sum, err := s.repos.Dashboard.Summary(ctx)
	if err != nil {
		return nil, s.fail("dashboard", err)
	}
	return sum, nil
}

func (s *catalogService) CountExpiringLicenses(ctx context.Context) (int, error) {
	n, err := s.repos.Licenses.CountExpiring(ctx)
	if err != nil {
		return 0, s.fail("count_expiring_licenses", err)
	}
	return n, nil
}

func (s *catalogService) listOptions(p ListParams) (repository.ListOptions, error) {
	if err := s.norm.check(p); err != nil {
		return repository.ListOptions{}, err
	}
	return s.norm.options(p)
}

// plainListOptions is listOptions for records without a deleted tab; a status is rejected.
func (s *catalogService) plainListOptions(p ListParams) (repository.ListOptions, error) {
	if p.Status != "" {
		return repository.ListOptions{}, invalid(errNoStatus)
	}
	return s.listOptions(p)
}

func (s *catalogService) fail(op string, err error) error {
	return failure(s.log, op, err)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"streamadmin/internal/model"
	"streamadmin/internal/pagination"
	"streamadmin/internal/query"
	"streamadmin/internal/repository"
)

// expiringWindow is the predicate for licenses that end within the next 30 days.
const expiringWindow = "l.end_date BETWEEN CURRENT_DATE AND CURRENT_DATE + INTERVAL '30 days'"

const licenseSource = `license l
JOIN title t ON l.title_id = t.title_id
JOIN contentprovider cp ON l.provider_id = cp.provider_id`

var licenseColumns = []string{
	"l.license_id", "l.start_date", "l.end_date", "l.is_active", "l.is_deleted",
	"t.title_id", "t.name AS title_name",
	"cp.provider_id", "cp.name AS provider_name",
	"(l.end_date - CURRENT_DATE) AS days_remaining",
}

var licenseSorter = query.Sorter{
	Columns: map[string]string{
		"id":             "l.license_id",
		"start_date":     "l.start_date",
		"end_date":       "l.end_date",
		"days_remaining": "l.end_date",
		"title":          "t.name",
		"provider":       "cp.name",
		"active":         "l.is_active",
	},
	Default:  "id",
	Tiebreak: "l.license_id",
}

// LicensePostgres is a PostgreSQL implementation of repository.LicenseRepository.
type LicensePostgres struct {
	db    *sql.DB
	pager *pagination.Executor
}

func NewLicensePostgres(db *sql.DB, pager *pagination.Executor) *LicensePostgres {
	return &LicensePostgres{db: db, pager: pager}
}

var _ repository.LicenseRepository = (*LicensePostgres)(nil)

// List returns one page of licenses joined with their title and provider names.
func (r *LicensePostgres) List(ctx context.Context, opts repository.ListOptions, f repository.LicenseFilter) (*pagination.Page[model.License], error) {
	sort, err := licenseSorter.Resolve(opts.Sort, opts.Order)
	if err != nil {
		return nil, err
	}

	b := query.Select(licenseColumns...).
		From(licenseSource).
		Where("l.is_deleted = ?", opts.Deleted()).
		Search(opts.Search, "t.name", "cp.name")

	switch f.Availability {
	case "", repository.AvailabilityAll:
	case repository.AvailabilityActive:
		b.Where("l.is_active = ?", true)
	case repository.AvailabilityInactive:
		b.Where("l.is_active = ?", false)
	case repository.AvailabilityExpiring:
		b.Where("l.is_active = ?", true).Where(expiringWindow)
	default:
		return nil, fmt.Errorf("%w: availability %q", repository.ErrInvalidFilter, f.Availability)
	}

	stmt, err := b.OrderBy(sort).Build()
	if err != nil {
		return nil, err
	}
	return pagination.Query(ctx, r.pager, listSpec(stmt, opts), func(rows *sql.Rows) (model.License, error) {
		return scanLicense(rows)
	})
}

// FindByID returns one license regardless of its deleted flag.
func (r *LicensePostgres) FindByID(ctx context.Context, id int64) (*model.License, error) {
	stmt, err := query.Select(licenseColumns...).
		From(licenseSource).
		Where("l.license_id = ?", id).
		Build()
	if err != nil {
		return nil, err
	}
	l, err := scanLicense(r.db.QueryRowContext(ctx, stmt.Base, stmt.Args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Create inserts an active license and returns its id. Unknown title or provider ids
// yield repository.ErrConflict.
func (r *LicensePostgres) Create(ctx context.Context, in repository.LicenseInput) (int64, error) {
	const q = `INSERT INTO license (title_id, provider_id, start_date, end_date, is_active, is_deleted)
VALUES ($1, $2, $3, $4, $5, false)
RETURNING license_id`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, in.TitleID, in.ProviderID, in.StartDate, in.EndDate, in.IsActive).Scan(&id); err != nil {
		return 0, repository.MapPgError(err)
	}
	return id, nil
}

func (r *LicensePostgres) Update(ctx context.Context, id int64, in repository.LicenseInput) error {
	const q = `UPDATE license
SET title_id = $1, provider_id = $2, start_date = $3, end_date = $4, is_active = $5
WHERE license_id = $6`
	res, err := r.db.ExecContext(ctx, q, in.TitleID, in.ProviderID, in.StartDate, in.EndDate, in.IsActive, id)
	if err != nil {
		return repository.MapPgError(err)
	}
	return affectedOne(res)
}

// SetDeleted moves a license to or from the deleted tab.
func (r *LicensePostgres) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	return setDeleted(ctx, r.db, "license", "license_id", id, deleted)
}

// CountExpiring counts live, active licenses that end within 30 days.
func (r *LicensePostgres) CountExpiring(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM license l WHERE l.is_deleted = false AND l.is_active = true AND ` + expiringWindow
	var n int
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanLicense(s rowScanner) (model.License, error) {
	var l model.License
	err := s.Scan(
		&l.ID,
		&l.StartDate,
		&l.EndDate,
		&l.IsActive,
		&l.IsDeleted,
		&l.TitleID,
		&l.TitleName,
		&l.ProviderID,
		&l.ProviderName,
		&l.DaysRemaining,
	)
	return l, err
}

package postgres

import (
	"context"
	"database/sql"

	"streamadmin/internal/model"
	"streamadmin/internal/pagination"
	"streamadmin/internal/query"
	"streamadmin/internal/repository"
)

var providerSorter = query.Sorter{
	Columns: map[string]string{
		"id":            "cp.provider_id",
		"name":          "cp.name",
		"email":         "cp.email",
		"license_count": "license_count",
	},
	Default:  "id",
	Tiebreak: "cp.provider_id",
}

// ProviderPostgres is a PostgreSQL implementation of repository.ProviderRepository.
type ProviderPostgres struct {
	db    *sql.DB
	pager *pagination.Executor
}

func NewProviderPostgres(db *sql.DB, pager *pagination.Executor) *ProviderPostgres {
	return &ProviderPostgres{db: db, pager: pager}
}

var _ repository.ProviderRepository = (*ProviderPostgres)(nil)

// List returns one page of providers with the number of licenses each holds.
func (r *ProviderPostgres) List(ctx context.Context, opts repository.ListOptions) (*pagination.Page[model.Provider], error) {
	sort, err := providerSorter.Resolve(opts.Sort, opts.Order)
	if err != nil {
		return nil, err
	}

	stmt, err := query.Select(
		"cp.provider_id", "cp.name", "cp.email", "cp.phone", "cp.is_deleted",
		"COUNT(l.license_id) AS license_count",
	).
		From("contentprovider cp LEFT JOIN license l ON cp.provider_id = l.provider_id").
		Where("cp.is_deleted = ?", opts.Deleted()).
		Search(opts.Search, "cp.name", "cp.email", "cp.phone").
		GroupBy("cp.provider_id", "cp.name", "cp.email", "cp.phone", "cp.is_deleted").
		OrderBy(sort).
		CountExpr("COUNT(DISTINCT cp.provider_id)").
		Build()
	if err != nil {
		return nil, err
	}
	return pagination.Query(ctx, r.pager, listSpec(stmt, opts), func(rows *sql.Rows) (model.Provider, error) {
		var p model.Provider
		err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.IsDeleted, &p.LicenseCount)
		return p, err
	})
}

// SetDeleted moves a provider to or from the deleted tab.
func (r *ProviderPostgres) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	return setDeleted(ctx, r.db, "contentprovider", "provider_id", id, deleted)
}

const providerReturning = `RETURNING provider_id, name, email, phone, is_deleted,
  (SELECT COUNT(*) FROM license l WHERE l.provider_id = contentprovider.provider_id) AS license_count`

func (r *ProviderPostgres) Create(ctx context.Context, in repository.ProviderInput) (*model.Provider, error) {
	q := `INSERT INTO contentprovider (name, email, phone, is_deleted) VALUES ($1, $2, $3, false) ` + providerReturning
	return scanProvider(r.db.QueryRowContext(ctx, q, in.Name, in.Email, in.Phone))
}

func (r *ProviderPostgres) Update(ctx context.Context, id int64, in repository.ProviderInput) (*model.Provider, error) {
	q := `UPDATE contentprovider SET name = $1, email = $2, phone = $3 WHERE provider_id = $4 ` + providerReturning
	return scanProvider(r.db.QueryRowContext(ctx, q, in.Name, in.Email, in.Phone, id))
}

func scanProvider(row *sql.Row) (*model.Provider, error) {
	var p model.Provider
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.IsDeleted, &p.LicenseCount); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

package postgres

import (
	"context"
	"database/sql"

	"streamadmin/internal/model"
	"streamadmin/internal/pagination"
	"streamadmin/internal/query"
	"streamadmin/internal/repository"
)

var adminSorter = query.Sorter{
	Columns: map[string]string{
		"id":           "a.admin_id",
		"username":     "a.username",
		"email":        "a.email",
		"role":         "a.role",
		"created_date": "a.created_date",
	},
	Default:  "id",
	Tiebreak: "a.admin_id",
}

// AdminPostgres is a PostgreSQL implementation of repository.AdminRepository.
type AdminPostgres struct {
	db    *sql.DB
	pager *pagination.Executor
}

func NewAdminPostgres(db *sql.DB, pager *pagination.Executor) *AdminPostgres {
	return &AdminPostgres{db: db, pager: pager}
}

var _ repository.AdminRepository = (*AdminPostgres)(nil)

func (r *AdminPostgres) List(ctx context.Context, opts repository.ListOptions) (*pagination.Page[model.Admin], error) {
	sort, err := adminSorter.Resolve(opts.Sort, opts.Order)
	if err != nil {
		return nil, err
	}

	stmt, err := query.Select("a.admin_id", "a.username", "a.email", "a.role", "a.created_date", "a.is_deleted").
		From("admin a").
		Where("a.is_deleted = ?", opts.Deleted()).
		Search(opts.Search, "a.username", "a.email", "a.role").
		OrderBy(sort).
		Build()
	if err != nil {
		return nil, err
	}
	return pagination.Query(ctx, r.pager, listSpec(stmt, opts), func(rows *sql.Rows) (model.Admin, error) {
		var a model.Admin
		err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.Role, &a.CreatedDate, &a.IsDeleted)
		return a, err
	})
}

// SetDeleted moves an admin to or from the deleted tab.
func (r *AdminPostgres) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	return setDeleted(ctx, r.db, "admin", "admin_id", id, deleted)
}

const adminReturning = `RETURNING admin_id, username, email, role, created_date, is_deleted`

// Create inserts an admin. A taken username or email yields repository.ErrAlreadyExists.
func (r *AdminPostgres) Create(ctx context.Context, in repository.AdminInput) (*model.Admin, error) {
	q := `INSERT INTO admin (username, email, role, password_hash, created_date, is_deleted)
VALUES ($1, $2, $3, $4, NOW(), false) ` + adminReturning
	return scanAdmin(r.db.QueryRowContext(ctx, q, in.Username, in.Email, in.Role, in.PasswordHash))
}

func (r *AdminPostgres) Update(ctx context.Context, id int64, in repository.AdminInput) (*model.Admin, error) {
	q := `UPDATE admin
SET username = $1, email = $2, role = $3, password_hash = COALESCE(NULLIF($4, ''), password_hash)
WHERE admin_id = $5 ` + adminReturning
	return scanAdmin(r.db.QueryRowContext(ctx, q, in.Username, in.Email, in.Role, in.PasswordHash, id))
}

func scanAdmin(row *sql.Row) (*model.Admin, error) {
	var a model.Admin
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.Role, &a.CreatedDate, &a.IsDeleted); err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

package postgres

import (
	"context"
	"database/sql"

	"streamadmin/internal/model"
	"streamadmin/internal/pagination"
	"streamadmin/internal/query"
	"streamadmin/internal/repository"
)

var viewerSorter = query.Sorter{
	Columns: map[string]string{
		"id":           "viewer_id",
		"username":     "username",
		"email":        "email",
		"created_date": "created_date",
	},
	Default:  "id",
	Tiebreak: "viewer_id",
}

// ViewerPostgres is a PostgreSQL implementation of repository.ViewerRepository.
type ViewerPostgres struct {
	pager *pagination.Executor
}

func NewViewerPostgres(pager *pagination.Executor) *ViewerPostgres {
	return &ViewerPostgres{pager: pager}
}

var _ repository.ViewerRepository = (*ViewerPostgres)(nil)

func (r *ViewerPostgres) List(ctx context.Context, opts repository.ListOptions) (*pagination.Page[model.Viewer], error) {
	sort, err := viewerSorter.Resolve(opts.Sort, opts.Order)
	if err != nil {
		return nil, err
	}

	stmt, err := query.Select("viewer_id", "username", "email", "created_date").
		From("viewer").
		Search(opts.Search, "username", "email").
		OrderBy(sort).
		Build()
	if err != nil {
		return nil, err
	}
	return pagination.Query(ctx, r.pager, listSpec(stmt, opts), func(rows *sql.Rows) (model.Viewer, error) {
		var v model.Viewer
		err := rows.Scan(&v.ID, &v.Username, &v.Email, &v.CreatedDate)
		return v, err
	})
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"streamadmin/internal/pagination"
	"streamadmin/internal/query"
	"streamadmin/internal/repository"
)

// listSpec binds a built statement to the caller's paging options.
func listSpec(stmt query.Statement, opts repository.ListOptions) pagination.Spec {
	return pagination.Spec{
		BaseQuery:  stmt.Base,
		CountQuery: stmt.Count,
		Params:     stmt.Args,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		ShowAll:    opts.ShowAll,
	}
}

// setDeleted flips the soft-delete flag of one row. table and idCol are package constants,
// never request input.
func setDeleted(ctx context.Context, db *sql.DB, table, idCol string, id int64, deleted bool) error {
	q := fmt.Sprintf("UPDATE %s SET is_deleted = $1 WHERE %s = $2", table, idCol)
	res, err := db.ExecContext(ctx, q, deleted, id)
	if err != nil {
		return repository.MapPgError(err)
	}
	return affectedOne(res)
}

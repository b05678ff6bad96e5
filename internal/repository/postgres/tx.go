package postgres

import (
	"context"
	"database/sql"
	"errors"

	"streamadmin/internal/repository"
)

// inTx runs fn in a transaction and commits when it returns nil. Any error rolls back and
// is returned mapped through repository.MapPgError.
func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return repository.MapPgError(err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return repository.MapPgError(err)
	}
	if err := tx.Commit(); err != nil {
		return repository.MapPgError(err)
	}
	return nil
}

// affectedOne turns a zero-row write into repository.ErrNotFound.
func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// notFound maps sql.ErrNoRows from a RETURNING write to repository.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return repository.MapPgError(err)
}

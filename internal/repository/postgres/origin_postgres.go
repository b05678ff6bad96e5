package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"streamadmin/internal/model"
	"streamadmin/internal/pagination"
	"streamadmin/internal/query"
	"streamadmin/internal/repository"
)

var originSorter = query.Sorter{
	Columns: map[string]string{
		"id":          "o.origin_id",
		"country":     "o.country",
		"language":    "o.language",
		"title_count": "title_count",
	},
	Default:  "id",
	Tiebreak: "o.origin_id",
}

// OriginPostgres is a PostgreSQL implementation of repository.OriginRepository.
type OriginPostgres struct {
	db    *sql.DB
	pager *pagination.Executor
}

func NewOriginPostgres(db *sql.DB, pager *pagination.Executor) *OriginPostgres {
	return &OriginPostgres{db: db, pager: pager}
}

var _ repository.OriginRepository = (*OriginPostgres)(nil)

func (r *OriginPostgres) List(ctx context.Context, opts repository.ListOptions) (*pagination.Page[model.Origin], error) {
	sort, err := originSorter.Resolve(opts.Sort, opts.Order)
	if err != nil {
		return nil, err
	}

	stmt, err := query.Select("o.origin_id", "o.country", "o.language", "COUNT(t.title_id) AS title_count").
		From("origin o LEFT JOIN title t ON o.origin_id = t.origin_id").
		Search(opts.Search, "o.country", "o.language").
		GroupBy("o.origin_id", "o.country", "o.language").
		OrderBy(sort).
		CountExpr("COUNT(DISTINCT o.origin_id)").
		Build()
	if err != nil {
		return nil, err
	}
	return pagination.Query(ctx, r.pager, listSpec(stmt, opts), func(rows *sql.Rows) (model.Origin, error) {
		var o model.Origin
		err := rows.Scan(&o.ID, &o.Country, &o.Language, &o.TitleCount)
		return o, err
	})
}

// Create inserts a country/language pair. Duplicates yield repository.ErrAlreadyExists.
func (r *OriginPostgres) Create(ctx context.Context, country, language string) (*model.Origin, error) {
	const q = `INSERT INTO origin (country, language) VALUES ($1, $2) RETURNING origin_id, country, language`
	var o model.Origin
	if err := r.db.QueryRowContext(ctx, q, country, language).Scan(&o.ID, &o.Country, &o.Language); err != nil {
		return nil, repository.MapPgError(err)
	}
	return &o, nil
}

// Update rewrites a country/language pair. Duplicates yield repository.ErrAlreadyExists.
func (r *OriginPostgres) Update(ctx context.Context, id int64, country, language string) (*model.Origin, error) {
	const q = `UPDATE origin SET country = $1, language = $2 WHERE origin_id = $3
RETURNING origin_id, country, language, (SELECT COUNT(*) FROM title t WHERE t.origin_id = origin.origin_id) AS title_count`
	var o model.Origin
	if err := r.db.QueryRowContext(ctx, q, country, language, id).Scan(&o.ID, &o.Country, &o.Language, &o.TitleCount); err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// Delete locks the origin row so that no title can claim it between the usage check and
// the delete.
func (r *OriginPostgres) Delete(ctx context.Context, id int64) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		var locked int64
		err := tx.QueryRowContext(ctx, `SELECT origin_id FROM origin WHERE origin_id = $1 FOR UPDATE`, id).Scan(&locked)
		if err != nil {
			return notFound(err)
		}

		var titles int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM title WHERE origin_id = $1`, id).Scan(&titles); err != nil {
			return err
		}
		if titles > 0 {
			return fmt.Errorf("%w: origin %d has %d titles", repository.ErrInUse, id, titles)
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM origin WHERE origin_id = $1`, id)
		return err
	})
}

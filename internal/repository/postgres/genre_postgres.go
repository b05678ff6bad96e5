package postgres

import (
	"context"
	"database/sql"

	"streamadmin/internal/model"
	"streamadmin/internal/pagination"
	"streamadmin/internal/query"
	"streamadmin/internal/repository"
)

var genreSorter = query.Sorter{
	Columns: map[string]string{
		"id":          "g.genre_id",
		"name":        "g.name",
		"title_count": "title_count",
	},
	Default:  "id",
	Tiebreak: "g.genre_id",
}

// GenrePostgres is a PostgreSQL implementation of repository.GenreRepository.
type GenrePostgres struct {
	db    *sql.DB
	pager *pagination.Executor
}

func NewGenrePostgres(db *sql.DB, pager *pagination.Executor) *GenrePostgres {
	return &GenrePostgres{db: db, pager: pager}
}

var _ repository.GenreRepository = (*GenrePostgres)(nil)

func (r *GenrePostgres) List(ctx context.Context, opts repository.ListOptions) (*pagination.Page[model.Genre], error) {
	sort, err := genreSorter.Resolve(opts.Sort, opts.Order)
	if err != nil {
		return nil, err
	}

	stmt, err := query.Select("g.genre_id", "g.name", "COUNT(tg.title_id) AS title_count").
		From("genre g LEFT JOIN title_genre tg ON g.genre_id = tg.genre_id").
		Search(opts.Search, "g.name").
		GroupBy("g.genre_id", "g.name").
		OrderBy(sort).
		CountExpr("COUNT(DISTINCT g.genre_id)").
		Build()
	if err != nil {
		return nil, err
	}
	return pagination.Query(ctx, r.pager, listSpec(stmt, opts), func(rows *sql.Rows) (model.Genre, error) {
		var g model.Genre
		err := rows.Scan(&g.ID, &g.Name, &g.TitleCount)
		return g, err
	})
}

// Create inserts a genre. A duplicate name yields repository.ErrAlreadyExists.
func (r *GenrePostgres) Create(ctx context.Context, name string) (*model.Genre, error) {
	const q = `INSERT INTO genre (name) VALUES ($1) RETURNING genre_id, name`
	var g model.Genre
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&g.ID, &g.Name); err != nil {
		return nil, repository.MapPgError(err)
	}
	return &g, nil
}

// Update renames a genre. A name taken by another genre yields repository.ErrAlreadyExists.
func (r *GenrePostgres) Update(ctx context.Context, id int64, name string) (*model.Genre, error) {
	const q = `UPDATE genre SET name = $1 WHERE genre_id = $2
RETURNING genre_id, name, (SELECT COUNT(*) FROM title_genre tg WHERE tg.genre_id = genre.genre_id) AS title_count`
	var g model.Genre
	if err := r.db.QueryRowContext(ctx, q, name, id).Scan(&g.ID, &g.Name, &g.TitleCount); err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

func (r *GenrePostgres) Delete(ctx context.Context, id int64) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM title_genre WHERE genre_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM genre WHERE genre_id = $1`, id)
		if err != nil {
			return err
		}
		return affectedOne(res)
	})
}

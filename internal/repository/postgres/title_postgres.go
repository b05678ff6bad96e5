package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"streamadmin/internal/model"
	"streamadmin/internal/pagination"
	"streamadmin/internal/query"
	"streamadmin/internal/repository"
)

var titleColumns = []string{
	"t.title_id", "t.name", "t.type", "t.original_release_date", "t.is_original",
	"t.season_count", "t.episode_count", "t.is_deleted",
	"o.origin_id", "o.country", "o.language",
	"COALESCE(JSON_AGG(g.name ORDER BY g.name) FILTER (WHERE g.name IS NOT NULL), '[]') AS genres",
}

var titleGroupBy = []string{
	"t.title_id", "t.name", "t.type", "t.original_release_date", "t.is_original",
	"t.season_count", "t.episode_count", "t.is_deleted",
	"o.origin_id", "o.country", "o.language",
}

const titleSource = `title t
JOIN origin o ON t.origin_id = o.origin_id
LEFT JOIN title_genre tg ON t.title_id = tg.title_id
LEFT JOIN genre g ON tg.genre_id = g.genre_id`

var titleSorter = query.Sorter{
	Columns: map[string]string{
		"id":           "t.title_id",
		"name":         "t.name",
		"type":         "t.type",
		"release_date": "t.original_release_date",
		"seasons":      "t.season_count",
		"episodes":     "t.episode_count",
		"country":      "o.country",
		"language":     "o.language",
	},
	Default:  "id",
	Tiebreak: "t.title_id",
}

// TitlePostgres is a PostgreSQL implementation of repository.TitleRepository.
type TitlePostgres struct {
	db    *sql.DB
	pager *pagination.Executor
}

// NewTitlePostgres creates a new TitlePostgres repository.
func NewTitlePostgres(db *sql.DB, pager *pagination.Executor) *TitlePostgres {
	return &TitlePostgres{db: db, pager: pager}
}

var _ repository.TitleRepository = (*TitlePostgres)(nil)

// List returns one page of titles with their origin and aggregated genre names.
func (r *TitlePostgres) List(ctx context.Context, opts repository.ListOptions, f repository.TitleFilter) (*pagination.Page[model.Title], error) {
	sort, err := titleSorter.Resolve(opts.Sort, opts.Order)
	if err != nil {
		return nil, err
	}

	b := query.Select(titleColumns...).
		From(titleSource).
		Where("t.is_deleted = ?", opts.Deleted()).
		Search(opts.Search, "t.name", "o.country", "o.language")
	if f.Type != "" {
		b.Where("t.type = ?", f.Type)
	}
	if f.OriginID > 0 {
		b.Where("o.origin_id = ?", f.OriginID)
	}
	if f.GenreID > 0 {
		b.Where("EXISTS (SELECT 1 FROM title_genre tgf WHERE tgf.title_id = t.title_id AND tgf.genre_id = ?)", f.GenreID)
	}

	stmt, err := b.GroupBy(titleGroupBy...).
		OrderBy(sort).
		CountExpr("COUNT(DISTINCT t.title_id)").
		Build()
	if err != nil {
		return nil, err
	}
	return pagination.Query(ctx, r.pager, listSpec(stmt, opts), func(rows *sql.Rows) (model.Title, error) {
		return scanTitle(rows)
	})
}

// FindByID returns one title regardless of its deleted flag.
func (r *TitlePostgres) FindByID(ctx context.Context, id int64) (*model.Title, error) {
	stmt, err := query.Select(titleColumns...).
		From(titleSource).
		Where("t.title_id = ?", id).
		GroupBy(titleGroupBy...).
		Build()
	if err != nil {
		return nil, err
	}

	t, err := scanTitle(r.db.QueryRowContext(ctx, stmt.Base, stmt.Args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

const (
	insertTitle = `INSERT INTO title (name, type, origin_id, original_release_date, is_original, season_count, episode_count, is_deleted)
VALUES ($1, $2, $3, $4, $5, $6, $7, false)
RETURNING title_id`
	updateTitle = `UPDATE title
SET name = $1, type = $2, origin_id = $3, original_release_date = $4, is_original = $5, season_count = $6, episode_count = $7
WHERE title_id = $8`
	unlinkTitleGenres = `DELETE FROM title_genre WHERE title_id = $1`
	linkTitleGenre    = `INSERT INTO title_genre (title_id, genre_id) VALUES ($1, $2)`
)

// Create inserts a title with its genre links and returns the new id.
func (r *TitlePostgres) Create(ctx context.Context, in repository.TitleInput) (int64, error) {
	var id int64
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, insertTitle, titleArgs(in)...).Scan(&id); err != nil {
			return err
		}
		return linkGenres(ctx, tx, id, in.GenreIDs)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update rewrites a title and replaces its genre links.
func (r *TitlePostgres) Update(ctx context.Context, id int64, in repository.TitleInput) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, updateTitle, append(titleArgs(in), id)...)
		if err != nil {
			return err
		}
		if err := affectedOne(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, unlinkTitleGenres, id); err != nil {
			return err
		}
		return linkGenres(ctx, tx, id, in.GenreIDs)
	})
}

func titleArgs(in repository.TitleInput) []any {
	var release, seasons, episodes any
	if in.OriginalReleaseDate != nil {
		release = *in.OriginalReleaseDate
	}
	if in.SeasonCount != nil {
		seasons = *in.SeasonCount
	}
	if in.EpisodeCount != nil {
		episodes = *in.EpisodeCount
	}
	return []any{in.Name, in.Type, in.OriginID, release, in.IsOriginal, seasons, episodes}
}

func linkGenres(ctx context.Context, tx *sql.Tx, titleID int64, genreIDs []int64) error {
	for _, g := range genreIDs {
		if _, err := tx.ExecContext(ctx, linkTitleGenre, titleID, g); err != nil {
			return fmt.Errorf("link genre %d: %w", g, err)
		}
	}
	return nil
}

// SetDeleted moves a title to or from the deleted tab.
func (r *TitlePostgres) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	return setDeleted(ctx, r.db, "title", "title_id", id, deleted)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTitle(s rowScanner) (model.Title, error) {
	var (
		t                 model.Title
		release           sql.NullTime
		seasons, episodes sql.NullInt32
		genres            []byte
	)
	if err := s.Scan(
		&t.ID,
		&t.Name,
		&t.Type,
		&release,
		&t.IsOriginal,
		&seasons,
		&episodes,
		&t.IsDeleted,
		&t.OriginID,
		&t.Country,
		&t.Language,
		&genres,
	); err != nil {
		return model.Title{}, err
	}

	if release.Valid {
		d := release.Time
		t.OriginalReleaseDate = &d
	}
	if seasons.Valid {
		n := int(seasons.Int32)
		t.SeasonCount = &n
	}
	if episodes.Valid {
		n := int(episodes.Int32)
		t.EpisodeCount = &n
	}
	t.Genres = []string{}
	if len(genres) > 0 {
		if err := json.Unmarshal(genres, &t.Genres); err != nil {
			return model.Title{}, fmt.Errorf("decode genres: %w", err)
		}
	}
	return t, nil
}

package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_origin",
		SQL: `CREATE TABLE IF NOT EXISTS origin (
  origin_id SERIAL PRIMARY KEY,
  country   TEXT NOT NULL,
  language  TEXT NOT NULL,
  UNIQUE (country, language)
);`,
	},
	{
		Name: "create_table_genre",
		SQL: `CREATE TABLE IF NOT EXISTS genre (
  genre_id SERIAL PRIMARY KEY,
  name     TEXT NOT NULL UNIQUE
);`,
	},
	{
		Name: "create_table_contentprovider",
		SQL: `CREATE TABLE IF NOT EXISTS contentprovider (
  provider_id SERIAL  PRIMARY KEY,
  name        TEXT    NOT NULL,
  email       TEXT    NOT NULL,
  phone       TEXT    NOT NULL DEFAULT '',
  is_deleted  BOOLEAN NOT NULL DEFAULT false
);`,
	},
	{
		Name: "create_table_title",
		SQL: `CREATE TABLE IF NOT EXISTS title (
  title_id              SERIAL  PRIMARY KEY,
  name                  TEXT    NOT NULL,
  type                  TEXT    NOT NULL CHECK (type IN ('Movie', 'Series')),
  origin_id             INTEGER NOT NULL REFERENCES origin (origin_id),
  original_release_date DATE,
  is_original           BOOLEAN NOT NULL DEFAULT false,
  season_count          INTEGER CHECK (season_count >= 0),
  episode_count         INTEGER CHECK (episode_count >= 0),
  is_deleted            BOOLEAN NOT NULL DEFAULT false
);`,
	},
	{
		Name: "create_table_title_genre",
		SQL: `CREATE TABLE IF NOT EXISTS title_genre (
  title_id INTEGER NOT NULL REFERENCES title (title_id) ON DELETE CASCADE,
  genre_id INTEGER NOT NULL REFERENCES genre (genre_id) ON DELETE CASCADE,
  PRIMARY KEY (title_id, genre_id)
);`,
	},
	{
		Name: "create_table_license",
		SQL: `CREATE TABLE IF NOT EXISTS license (
  license_id  SERIAL  PRIMARY KEY,
  title_id    INTEGER NOT NULL REFERENCES title (title_id),
  provider_id INTEGER NOT NULL REFERENCES contentprovider (provider_id),
  start_date  DATE    NOT NULL,
  end_date    DATE    NOT NULL CHECK (end_date >= start_date),
  is_active   BOOLEAN NOT NULL DEFAULT true,
  is_deleted  BOOLEAN NOT NULL DEFAULT false
);`,
	},
	{
		Name: "create_table_admin",
		SQL: `CREATE TABLE IF NOT EXISTS admin (
  admin_id      SERIAL      PRIMARY KEY,
  username      TEXT        NOT NULL UNIQUE,
  email         TEXT        NOT NULL UNIQUE,
  role          TEXT        NOT NULL,
  password_hash TEXT        NOT NULL DEFAULT '',
  created_date  TIMESTAMPTZ NOT NULL DEFAULT now(),
  is_deleted    BOOLEAN     NOT NULL DEFAULT false
);`,
	},
	{
		Name: "create_table_viewer",
		SQL: `CREATE TABLE IF NOT EXISTS viewer (
  viewer_id    SERIAL      PRIMARY KEY,
  username     TEXT        NOT NULL UNIQUE,
  email        TEXT        NOT NULL UNIQUE,
  created_date TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_viewcount",
		SQL: `CREATE TABLE IF NOT EXISTS viewcount (
  title_id INTEGER NOT NULL REFERENCES title (title_id),
  date     DATE    NOT NULL,
  views    BIGINT  NOT NULL DEFAULT 0 CHECK (views >= 0),
  PRIMARY KEY (title_id, date)
);`,
	},
	{
		Name: "create_table_interactionstats",
		SQL: `CREATE TABLE IF NOT EXISTS interactionstats (
  title_id  INTEGER NOT NULL REFERENCES title (title_id),
  date      DATE    NOT NULL,
  likes     BIGINT  NOT NULL DEFAULT 0,
  list_adds BIGINT  NOT NULL DEFAULT 0,
  PRIMARY KEY (title_id, date)
);`,
	},
	{
		Name: "create_index_title_origin",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_title_origin_id ON title (origin_id);`,
	},
	{
		Name: "create_index_license_end_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_license_end_date ON license (end_date) WHERE is_active;`,
	},
	{
		Name: "create_index_title_genre_genre",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_title_genre_genre_id ON title_genre (genre_id);`,
	},
}

// sentinelQuery reports whether the schema has been created. license references title and
// contentprovider, so its presence implies the core tables exist.
const sentinelQuery = "SELECT to_regclass('public.license') IS NOT NULL"

// EnsureMigrated creates the catalog schema unless the sentinel table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger) error {
	start := time.Now()
	log = log.With().Str("component", "database").Logger()

	log.Info().Str("event", "db_migration_check").Msg("checking schema")

	var exists bool
	if err := db.QueryRowContext(ctx, sentinelQuery).Scan(&exists); err != nil {
		log.Error().
			Err(err).
			Str("event", "db_migration_failed").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().
				Err(err).
				Str("event", "db_migration_failed").
				Str("migration_step", step.Name).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Debug().
			Str("event", "db_migration_step").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("migration step applied")
	}

	log.Info().
		Str("event", "db_migration_success").
		Int("steps", len(steps)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("schema created")
	return nil
}

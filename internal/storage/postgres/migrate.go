package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the schema if it does not exist. The partial unique
// index on iterations backs the at-most-one-active invariant at the
// storage level.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS iterations (
			id          UUID PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT,
			start_date  TIMESTAMPTZ NOT NULL DEFAULT now(),
			end_date    TIMESTAMPTZ,
			is_active   BOOLEAN NOT NULL DEFAULT false
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS iterations_single_active
			ON iterations (is_active) WHERE is_active;`,
		`CREATE TABLE IF NOT EXISTS nodes (
			id               UUID PRIMARY KEY,
			parent_id        UUID REFERENCES nodes (id),
			iteration_id     UUID NOT NULL REFERENCES iterations (id),
			author_name      TEXT NOT NULL,
			content          TEXT NOT NULL,
			status           TEXT NOT NULL DEFAULT 'PENDING',
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
			published_at     TIMESTAMPTZ,
			last_response_at TIMESTAMPTZ,
			withered_at      TIMESTAMPTZ
		);`,
		`CREATE INDEX IF NOT EXISTS nodes_iteration_status ON nodes (iteration_id, status);`,
		`CREATE INDEX IF NOT EXISTS nodes_parent ON nodes (parent_id);`,
		`CREATE TABLE IF NOT EXISTS site_settings (
			id            TEXT PRIMARY KEY,
			hero_title    TEXT NOT NULL,
			hero_subtitle TEXT NOT NULL,
			how_it_works  TEXT NOT NULL,
			rules         TEXT NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

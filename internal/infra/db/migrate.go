package db

import (
	"context"
	"database/sql"
	"fmt"
)

var postgresUp = []string{
	`
CREATE TABLE IF NOT EXISTS summaries (
    id               UUID PRIMARY KEY,
    user_id          TEXT,
    source_type      VARCHAR(10) NOT NULL CHECK (source_type IN ('text', 'url', 'file')),
    source_url       TEXT,
    original_text    TEXT NOT NULL,
    original_length  INTEGER NOT NULL,
    title            TEXT,
    backend_results  JSONB NOT NULL,
    selected_backend TEXT,
    user_rating      SMALLINT CHECK (user_rating BETWEEN 1 AND 5),
    feedback_text    TEXT,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ
)`,
	// history listing: WHERE user_id = ? ORDER BY created_at DESC
	`CREATE INDEX IF NOT EXISTS idx_summaries_user_created ON summaries(user_id, created_at DESC)`,
	// retention purge
	`CREATE INDEX IF NOT EXISTS idx_summaries_created_at ON summaries(created_at)`,
}

var sqliteUp = []string{
	`
CREATE TABLE IF NOT EXISTS summaries (
    id               TEXT PRIMARY KEY,
    user_id          TEXT,
    source_type      TEXT NOT NULL CHECK (source_type IN ('text', 'url', 'file')),
    source_url       TEXT,
    original_text    TEXT NOT NULL,
    original_length  INTEGER NOT NULL,
    title            TEXT,
    backend_results  TEXT NOT NULL,
    selected_backend TEXT,
    user_rating      INTEGER CHECK (user_rating BETWEEN 1 AND 5),
    feedback_text    TEXT,
    created_at       TIMESTAMP NOT NULL,
    updated_at       TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_summaries_user_created ON summaries(user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_summaries_created_at ON summaries(created_at)`,
}

var down = []string{
	`DROP INDEX IF EXISTS idx_summaries_created_at`,
	`DROP INDEX IF EXISTS idx_summaries_user_created`,
	`DROP TABLE IF EXISTS summaries`,
}

// MigrateUp creates the schema. It is idempotent.
func MigrateUp(ctx context.Context, db *sql.DB, dialect Dialect) error {
	stmts := postgresUp
	if dialect == DialectSQLite {
		stmts = sqliteUp
	}
	return exec(ctx, db, stmts)
}

// MigrateDown removes the schema, deleting all history.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	return exec(ctx, db, down)
}

func exec(ctx context.Context, db *sql.DB, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

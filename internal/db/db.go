// Package db provides SQLite database access for docwright.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/docwright-ai/docwright/internal/logging"
)

// DB wraps the SQLite handle shared by the repositories.
type DB struct {
	*sql.DB
	logger zerolog.Logger
}

// Open opens the database at path, creating parent directories as needed.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	return open("file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
}

// OpenInMemory opens an isolated in-memory database, used by tests.
func OpenInMemory() (*DB, error) {
	return open(":memory:")
}

func open(dsn string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	// One connection keeps an in-memory database coherent and sidesteps
	// SQLITE_BUSY on file databases.
	sqlDB.SetMaxOpenConns(1)

	return &DB{
		DB:     sqlDB,
		logger: logging.Component("db"),
	}, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS generation_runs (
		id TEXT PRIMARY KEY,
		template TEXT NOT NULL,
		source_path TEXT,
		output_path TEXT,
		status TEXT NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		files_analyzed INTEGER NOT NULL DEFAULT 0,
		enhanced INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_generation_runs_created_at ON generation_runs(created_at);`,

	`CREATE TABLE IF NOT EXISTS usage_records (
		id TEXT PRIMARY KEY,
		run_id TEXT REFERENCES generation_runs(id) ON DELETE SET NULL,
		model TEXT NOT NULL,
		operation TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		total_tokens INTEGER NOT NULL DEFAULT 0,
		cost_cents INTEGER NOT NULL DEFAULT 0,
		request_count INTEGER NOT NULL DEFAULT 1,
		recorded_at TEXT NOT NULL,
		metadata_json TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_usage_records_recorded_at ON usage_records(recorded_at);
	CREATE INDEX IF NOT EXISTS idx_usage_records_model ON usage_records(model);`,
}

// MigrateUp applies any missing schema migrations and returns how many ran.
func (db *DB) MigrateUp(ctx context.Context) (int, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	applied := 0
	for i := current; i < len(migrations); i++ {
		version := i + 1
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return applied, fmt.Errorf("begin migration %d: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("apply migration %d: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))`, version); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("record migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("commit migration %d: %w", version, err)
		}

		applied++
		db.logger.Debug().Int("version", version).Msg("applied migration")
	}

	return applied, nil
}

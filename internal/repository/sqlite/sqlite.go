package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

// timeLayout is a fixed-width UTC timestamp format. Fixed width keeps
// lexicographic ordering in SQL identical to chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Repository represents a data repository that interacts with the database
// and provides logging capabilities. It holds a reference to the database
// and a logger instance for logging operations.
type Repository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewRepository opens (or creates) the sqlite database at storagePath,
// verifies the connection and applies the schema. Foreign keys are
// enabled so page deletion cascades captures and changes.
func NewRepository(ctx context.Context, log *slog.Logger, storagePath string) (*Repository, error) {
	dtb, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", storagePath))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Check if the connection is actually established.
	if err = dtb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("unable to establish connection to database: %w", err)
	}

	// Perform the initial schema migration.
	if err = initSchema(ctx, dtb); err != nil {
		return nil, fmt.Errorf("DB schema initialization error: %w", err)
	}

	return &Repository{db: dtb, log: log}, nil
}

// NewForTest wraps an already-open database handle, bypassing schema
// initialization. Used by unit tests driving go-sqlmock.
func NewForTest(db *sql.DB) *Repository {
	return &Repository{db: db, log: slog.Default()}
}

// initSchema creates the necessary tables if they don't already exist.
func initSchema(ctx context.Context, dtb *sql.DB) error {
	const migrationQuery = `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS competitors (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		website_url TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pages (
		id TEXT PRIMARY KEY,
		competitor_id TEXT NOT NULL REFERENCES competitors(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		page_type TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS captures (
		id TEXT PRIMARY KEY,
		page_id TEXT NOT NULL REFERENCES pages(id) ON DELETE CASCADE,
		captured_at TEXT NOT NULL,
		raw_html TEXT,
		normalized_text TEXT,
		pricing_json TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_captures_page_time ON captures(page_id, captured_at);

	CREATE TABLE IF NOT EXISTS changes (
		id TEXT PRIMARY KEY,
		page_id TEXT NOT NULL REFERENCES pages(id) ON DELETE CASCADE,
		old_capture_id TEXT REFERENCES captures(id) ON DELETE CASCADE,
		new_capture_id TEXT NOT NULL REFERENCES captures(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		field TEXT NOT NULL,
		old_value TEXT NOT NULL,
		new_value TEXT NOT NULL,
		summary TEXT NOT NULL,
		detected_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_changes_page_time ON changes(page_id, detected_at);

	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		summary TEXT,
		highlights_json TEXT NOT NULL DEFAULT '[]',
		artifact_ref TEXT
	);
	`
	_, err := dtb.ExecContext(ctx, migrationQuery)
	if err != nil {
		return fmt.Errorf("failed to execute migration query: %w", err)
	}

	return nil
}

// Close closes the connection to the database.
func (r *Repository) Close() error {
	if err := r.db.Close(); err != nil {
		r.log.Error("failed to close the database", "op", "repository.sqlite.Close", "error", err)
		return fmt.Errorf("failed to close the database: %w", err)
	}

	return nil
}

// DB is a getter for database handler.
func (r *Repository) DB() *sql.DB {
	return r.db
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// Package journal records tool invocations in a local sqlite database.
//
// The journal is bookkeeping, not product data: the server runs fine
// without it. Opening is attempted once at startup; on failure the caller
// logs a warning and passes a nil store around, and every consumer treats
// nil as "journal disabled".
package journal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// openDB is swapped in tests to inject open failures.
var openDB = sql.Open

// Invocation is one recorded tool call.
type Invocation struct {
	ID         int64  `json:"id"`
	SessionID  string `json:"session_id"`
	Tool       string `json:"tool"`
	IsError    bool   `json:"is_error"`
	DurationMS int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

// Stats aggregates the journal for the usage resource.
type Stats struct {
	Invocations int64            `json:"invocations"`
	Errors      int64            `json:"errors"`
	Sessions    int64            `json:"sessions"`
	ByTool      map[string]int64 `json:"by_tool"`
}

// Store wraps the sqlite database holding the journal.
type Store struct {
	db *sql.DB
}

// Open creates the journal database at path, applying pragmas and the
// schema migration. The parent directory is created if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "creating journal directory")
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening journal database")
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "applying %s", pragma)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS invocations (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id  TEXT NOT NULL,
		tool        TEXT NOT NULL,
		is_error    INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_invocations_tool ON invocations(tool);
	CREATE INDEX IF NOT EXISTS idx_invocations_session ON invocations(session_id);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "running journal migration")
	}
	return nil
}

// Record inserts one invocation. CreatedAt defaults to now.
func (s *Store) Record(ctx context.Context, inv Invocation) error {
	if inv.CreatedAt == "" {
		inv.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invocations (session_id, tool, is_error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		inv.SessionID, inv.Tool, inv.IsError, inv.DurationMS, inv.CreatedAt,
	)
	return errors.Wrap(err, "recording invocation")
}

// Stats aggregates the whole journal.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByTool: make(map[string]int64)}

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(is_error), 0),
		        COUNT(DISTINCT session_id)
		 FROM invocations`)
	if err := row.Scan(&stats.Invocations, &stats.Errors, &stats.Sessions); err != nil {
		return nil, errors.Wrap(err, "aggregating journal totals")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT tool, COUNT(*) FROM invocations GROUP BY tool`)
	if err != nil {
		return nil, errors.Wrap(err, "aggregating journal by tool")
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var tool string
		var count int64
		if err := rows.Scan(&tool, &count); err != nil {
			return nil, errors.Wrap(err, "scanning tool count")
		}
		stats.ByTool[tool] = count
	}
	return stats, errors.Wrap(rows.Err(), "iterating tool counts")
}

// Recent returns the newest invocations, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Invocation, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, tool, is_error, duration_ms, created_at
		 FROM invocations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying recent invocations")
	}
	defer func() { _ = rows.Close() }()

	var out []Invocation
	for rows.Next() {
		var inv Invocation
		if err := rows.Scan(&inv.ID, &inv.SessionID, &inv.Tool, &inv.IsError, &inv.DurationMS, &inv.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning invocation")
		}
		out = append(out, inv)
	}
	return out, errors.Wrap(rows.Err(), "iterating invocations")
}

// Close releases the database handle.
func (s *Store) Close() error {
	return errors.Wrap(s.db.Close(), "closing journal database")
}

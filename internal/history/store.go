// Package history persists pipeline run outcomes to SQLite so the CLI and
// daemon can answer "what happened on the last N runs" without scraping logs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one recorded pipeline run.
type Run struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	DurationMS  int64     `json:"duration_ms"`
	Outcome     string    `json:"outcome"` // success|up_to_date|failed|canceled
	FailedStage string    `json:"failed_stage,omitempty"`
	Error       string    `json:"error,omitempty"`
	CommitHash  string    `json:"commit_hash,omitempty"`
}

// Store persists runs. Use ":memory:" for an in-memory database, or a file
// path for persistent storage.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates (or opens) a run-history store at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		failed_stage TEXT,
		error TEXT,
		commit_hash TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_outcome ON runs(outcome);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts one run row.
func (s *Store) Record(ctx context.Context, r Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, duration_ms, outcome, failed_stage, error, commit_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UnixMilli(), r.DurationMS, r.Outcome, r.FailedStage, r.Error, r.CommitHash)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns the most recent n runs, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, outcome, failed_stage, error, commit_hash
		 FROM runs ORDER BY started_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt int64
		var failedStage, errText, commitHash sql.NullString
		if err := rows.Scan(&r.ID, &startedAt, &r.DurationMS, &r.Outcome, &failedStage, &errText, &commitHash); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(startedAt)
		r.FailedStage = failedStage.String
		r.Error = errText.String
		r.CommitHash = commitHash.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Package history keeps a SQLite ledger of pipeline runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	operation    TEXT NOT NULL,
	input        TEXT NOT NULL,
	base_name    TEXT NOT NULL,
	state        TEXT NOT NULL,
	failed_stage TEXT NOT NULL DEFAULT '',
	error        TEXT NOT NULL DEFAULT '',
	caption_path TEXT NOT NULL DEFAULT '',
	segment_path TEXT NOT NULL DEFAULT '',
	summary_path TEXT NOT NULL DEFAULT '',
	summary_kind TEXT NOT NULL DEFAULT '',
	started_at   INTEGER NOT NULL,
	finished_at  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at);
`

// Store persists runs in SQLite. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// single writer; concurrent runs queue on the pool
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Start inserts r, assigning an id and start time when missing.
func (s *Store) Start(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, operation, input, base_name, state, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, r.Operation, r.Input, r.BaseName, r.State, r.StartedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Finish stores the final state and artifacts of r.
func (s *Store) Finish(ctx context.Context, r *Run) error {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET state = ?, failed_stage = ?, error = ?, base_name = ?,
		    caption_path = ?, segment_path = ?, summary_path = ?, summary_kind = ?,
		    finished_at = ?
		WHERE id = ?
	`, r.State, r.FailedStage, r.Error, r.BaseName,
		r.CaptionPath, r.SegmentPath, r.SummaryPath, r.SummaryKind,
		r.FinishedAt.UnixMilli(), r.ID)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update run: no run with id %s", r.ID)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, operation, input, base_name, state, failed_stage, error,
		       caption_path, segment_path, summary_path, summary_kind, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		if err := rows.Scan(&r.ID, &r.Operation, &r.Input, &r.BaseName, &r.State, &r.FailedStage, &r.Error,
			&r.CaptionPath, &r.SegmentPath, &r.SummaryPath, &r.SummaryKind, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(started)
		if finished > 0 {
			r.FinishedAt = time.UnixMilli(finished)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

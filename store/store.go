// Package store persists validation run history in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	lv "github.com/jmontp/LocoHub-sub002"
)

const timeFormat = time.RFC3339Nano

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	dataset     TEXT    NOT NULL,
	started_at  TEXT    NOT NULL,
	duration_ms INTEGER NOT NULL,
	valid       INTEGER NOT NULL,
	strides     INTEGER NOT NULL,
	errors      INTEGER NOT NULL,
	warnings    INTEGER NOT NULL,
	infos       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_dataset ON runs(dataset, started_at DESC);
`

// Run is one recorded validation run.
type Run struct {
	ID        int64         `json:"id"`
	Dataset   string        `json:"dataset"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
	Valid     bool          `json:"valid"`
	Strides   int           `json:"strides"`
	Errors    int           `json:"errors"`
	Warnings  int           `json:"warnings"`
	Infos     int           `json:"infos"`
}

// Store provides SQLite-backed run history.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (or creates) the history database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history database path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordRun persists one validation run and returns its id.
func (s *Store) RecordRun(ctx context.Context, run Run) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if run.Dataset == "" {
		return 0, fmt.Errorf("run has no dataset")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO runs (dataset, started_at, duration_ms, valid, strides, errors, warnings, infos)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Dataset,
		run.StartedAt.UTC().Format(timeFormat),
		run.Duration.Milliseconds(),
		boolToInt(run.Valid),
		run.Strides,
		run.Errors,
		run.Warnings,
		run.Infos,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	return id, nil
}

// RecordResult persists a validation result as a run.
func (s *Store) RecordResult(ctx context.Context, result *lv.Result, startedAt time.Time, duration time.Duration) (int64, error) {
	return s.RecordRun(ctx, Run{
		Dataset:   result.Dataset,
		StartedAt: startedAt,
		Duration:  duration,
		Valid:     result.Valid,
		Strides:   result.StridesChecked,
		Errors:    result.ErrorCount(),
		Warnings:  result.WarningCount(),
		Infos:     result.InfoCount(),
	})
}

// Runs returns the most recent runs, newest first.
// A limit of 0 or less returns all runs.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	return s.queryRuns(ctx,
		`SELECT id, dataset, started_at, duration_ms, valid, strides, errors, warnings, infos
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`,
		normalizeLimit(limit))
}

// RunsForDataset returns the most recent runs for one dataset, newest first.
func (s *Store) RunsForDataset(ctx context.Context, dataset string, limit int) ([]Run, error) {
	return s.queryRuns(ctx,
		`SELECT id, dataset, started_at, duration_ms, valid, strides, errors, warnings, infos
		 FROM runs WHERE dataset = ? ORDER BY started_at DESC, id DESC LIMIT ?`,
		dataset, normalizeLimit(limit))
}

// LastRun returns the newest run for a dataset, or sql.ErrNoRows.
func (s *Store) LastRun(ctx context.Context, dataset string) (Run, error) {
	runs, err := s.RunsForDataset(ctx, dataset, 1)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, sql.ErrNoRows
	}
	return runs[0], nil
}

// PruneBefore deletes runs started before cutoff and reports how many.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM runs WHERE started_at < ?`,
		cutoff.UTC().Format(timeFormat))
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) queryRuns(ctx context.Context, query string, args ...any) ([]Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("history store is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			startedAt  string
			durationMS int64
			valid      int
		)
		if err := rows.Scan(&run.ID, &run.Dataset, &startedAt, &durationMS,
			&valid, &run.Strides, &run.Errors, &run.Warnings, &run.Infos); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		run.StartedAt, err = time.Parse(timeFormat, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", startedAt, err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		run.Valid = valid != 0

		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return -1 // SQLite treats a negative LIMIT as unlimited
	}
	return limit
}

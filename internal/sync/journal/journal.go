package journal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one recorded invocation of the sync pipeline.
type Run struct {
	ID          string    `json:"id"`
	Dataset     string    `json:"dataset"`
	Destination string    `json:"destination"`
	DryRun      bool      `json:"dryRun"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
	Fetched     int       `json:"fetched"`
	Updated     int       `json:"updated"`
	Deleted     int       `json:"deleted"`
	Skipped     int       `json:"skipped"`
	Bytes       int64     `json:"bytes"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
}

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

type DB struct {
	db *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	instance := &DB{db: db}
	if err := instance.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return instance, nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) Migrate(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, schemaSQL)
	return err
}

func (d *DB) RecordRun(ctx context.Context, run Run) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, dataset, destination, dry_run, started_at, finished_at,
			fetched, updated, deleted, skipped, bytes, status, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Dataset, run.Destination, boolToInt(run.DryRun),
		run.StartedAt.Unix(), run.FinishedAt.Unix(),
		run.Fetched, run.Updated, run.Deleted, run.Skipped, run.Bytes,
		run.Status, run.Error)
	return err
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less means all of them.
func (d *DB) ListRuns(ctx context.Context, limit int) (runs []Run, err error) {
	query := `
		SELECT id, dataset, destination, dry_run, started_at, finished_at,
		       fetched, updated, deleted, skipped, bytes, status, error
		FROM runs ORDER BY started_at DESC, id DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

func scanRun(scanner interface {
	Scan(dest ...interface{}) error
}) (Run, error) {
	var run Run
	var dryRun int
	var started, finished int64
	err := scanner.Scan(&run.ID, &run.Dataset, &run.Destination, &dryRun, &started, &finished,
		&run.Fetched, &run.Updated, &run.Deleted, &run.Skipped, &run.Bytes, &run.Status, &run.Error)
	if err != nil {
		return Run{}, err
	}
	run.DryRun = dryRun != 0
	run.StartedAt = time.Unix(started, 0).UTC()
	run.FinishedAt = time.Unix(finished, 0).UTC()
	return run, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	dataset TEXT NOT NULL,
	destination TEXT NOT NULL,
	dry_run INTEGER NOT NULL DEFAULT 0,
	started_at INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	fetched INTEGER NOT NULL DEFAULT 0,
	updated INTEGER NOT NULL DEFAULT 0,
	deleted INTEGER NOT NULL DEFAULT 0,
	skipped INTEGER NOT NULL DEFAULT 0,
	bytes INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	error TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`

// Package ledger records sync runs in a local SQLite database.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned when no recorded run matches an ID.
var ErrRunNotFound = errors.New("run not found")

// ErrAmbiguousRun is returned when an ID prefix matches more than one run.
var ErrAmbiguousRun = errors.New("run ID prefix is ambiguous")

// DefaultLimit is the number of runs Recent returns when limit <= 0.
const DefaultLimit = 20

// Run is one recorded sync.
type Run struct {
	ID            string     `json:"id"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    time.Time  `json:"finished_at"`
	RegistryCount int        `json:"registry_count"`
	IndexCount    int        `json:"index_count"`
	MergedCount   int        `json:"merged_count"`
	Created       int        `json:"created"`
	Updated       int        `json:"updated"`
	Unchanged     int        `json:"unchanged"`
	Removed       int        `json:"removed"`
	DryRun        bool       `json:"dry_run"`
	IndexSkipped  bool       `json:"index_skipped"`
	Files         []FileLine `json:"files,omitempty"`
}

// FileLine is one file touched by a run.
type FileLine struct {
	Filename string `json:"filename"`
	Action   string `json:"action"`
}

// selectRunFields is the column list scanned by scanRuns.
const selectRunFields = `id, started_at, finished_at,
	registry_count, index_count, merged_count,
	created, updated, unchanged, removed,
	dry_run, index_skipped`

// DB wraps the ledger database connection.
type DB struct {
	db *sql.DB
}

// Open opens or creates the ledger at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			registry_count INTEGER NOT NULL,
			index_count INTEGER NOT NULL,
			merged_count INTEGER NOT NULL,
			created INTEGER NOT NULL,
			updated INTEGER NOT NULL,
			unchanged INTEGER NOT NULL,
			removed INTEGER NOT NULL,
			dry_run INTEGER NOT NULL,
			index_skipped INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

		-- Only files that were created, updated or removed
		CREATE TABLE IF NOT EXISTS run_files (
			run_id TEXT NOT NULL REFERENCES runs(id),
			filename TEXT NOT NULL,
			action TEXT NOT NULL,
			PRIMARY KEY (run_id, filename)
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Record stores run and its files in one transaction. An empty run.ID is
// replaced with a new UUID, which is returned.
func (d *DB) Record(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, started_at, finished_at,
			registry_count, index_count, merged_count,
			created, updated, unchanged, removed,
			dry_run, index_skipped
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(),
		run.RegistryCount, run.IndexCount, run.MergedCount,
		run.Created, run.Updated, run.Unchanged, run.Removed,
		boolInt(run.DryRun), boolInt(run.IndexSkipped),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	if len(run.Files) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_files (run_id, filename, action) VALUES (?, ?, ?)`)
		if err != nil {
			return "", fmt.Errorf("preparing file insert: %w", err)
		}
		defer stmt.Close()

		for _, f := range run.Files {
			if _, err := stmt.ExecContext(ctx, run.ID, f.Filename, f.Action); err != nil {
				return "", fmt.Errorf("inserting file %s: %w", f.Filename, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run %s: %w", run.ID, err)
	}
	return run.ID, nil
}

// Recent returns up to limit runs, newest first, without their files.
func (d *DB) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT `+selectRunFields+`
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// Run returns the run whose ID starts with prefix, with its files. A full
// ID or any unambiguous prefix (as printed by history) is accepted.
func (d *DB) Run(ctx context.Context, prefix string) (*Run, error) {
	if prefix == "" {
		return nil, ErrRunNotFound
	}
	pattern := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix) + "%"

	rows, err := d.db.QueryContext(ctx, `
		SELECT `+selectRunFields+`
		FROM runs
		WHERE id LIKE ? ESCAPE '\'
		ORDER BY id = ? DESC
		LIMIT 2`, pattern, prefix)
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", prefix, err)
	}
	runs, err := scanRuns(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	switch {
	case len(runs) == 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	case len(runs) > 1 && runs[0].ID != prefix:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, prefix)
	}

	run := runs[0]
	if run.Files, err = d.Files(ctx, run.ID); err != nil {
		return nil, err
	}
	return &run, nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var (
			r                 Run
			started, finished int64
			dryRun, skipped   int
		)
		if err := rows.Scan(&r.ID, &started, &finished,
			&r.RegistryCount, &r.IndexCount, &r.MergedCount,
			&r.Created, &r.Updated, &r.Unchanged, &r.Removed,
			&dryRun, &skipped); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt = time.UnixMilli(started)
		r.FinishedAt = time.UnixMilli(finished)
		r.DryRun = dryRun != 0
		r.IndexSkipped = skipped != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Files returns the files recorded for a run, ordered by filename.
func (d *DB) Files(ctx context.Context, runID string) ([]FileLine, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT filename, action FROM run_files WHERE run_id = ? ORDER BY filename`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying files for %s: %w", runID, err)
	}
	defer rows.Close()

	var files []FileLine
	for rows.Next() {
		var f FileLine
		if err := rows.Scan(&f.Filename, &f.Action); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

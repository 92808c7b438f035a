package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// ImportRun is one row of the import ledger.
type ImportRun struct {
	ID            string
	Source        string
	SourceHash    string
	TokensMerged  int
	ShardsWritten int
	StartedAt     time.Time
	FinishedAt    time.Time
}

// RunTracker records completed import runs and answers whether a source
// export (identified by its content hash) has already been merged. It
// exists so repeated imports of the same export can be skipped without
// relying on the merge's idempotence alone.
type RunTracker interface {
	// IsSourceImported reports whether a run with the given source hash
	// has completed before.
	IsSourceImported(ctx context.Context, hash string) (bool, error)

	// RecordRun appends a completed run to the ledger. A missing run ID is
	// filled in with a fresh UUID.
	RecordRun(ctx context.Context, run *ImportRun) error

	// RunCount returns the number of recorded runs.
	RunCount(ctx context.Context) (int64, error)

	// LastRun returns the most recently finished run, or nil when the
	// ledger is empty.
	LastRun(ctx context.Context) (*ImportRun, error)

	// ClearRuns removes every ledger row. Shard files are unaffected.
	ClearRuns(ctx context.Context) error

	Close() error
}

// SQLiteRunTracker implements RunTracker on a local sqlite database.
type SQLiteRunTracker struct {
	db *sql.DB
}

// Compile-time interface check
var _ RunTracker = (*SQLiteRunTracker)(nil)

// NewSQLiteRunTracker opens (or creates) the ledger database at dbPath.
// ":memory:" is accepted for tests.
func NewSQLiteRunTracker(dbPath string) (*SQLiteRunTracker, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open tracker database: %w", err)
	}

	tracker := &SQLiteRunTracker{db: db}
	if err := tracker.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize tracker schema: %w", err)
	}
	return tracker, nil
}

func (t *SQLiteRunTracker) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS import_runs (
		id TEXT PRIMARY KEY,
		source TEXT,
		source_hash TEXT NOT NULL,
		tokens_merged INTEGER NOT NULL DEFAULT 0,
		shards_written INTEGER NOT NULL DEFAULT 0,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_import_runs_hash ON import_runs(source_hash);
	CREATE INDEX IF NOT EXISTS idx_import_runs_finished ON import_runs(finished_at);
	`
	_, err := t.db.Exec(schema)
	return err
}

// IsSourceImported reports whether a run with the given source hash exists.
func (t *SQLiteRunTracker) IsSourceImported(ctx context.Context, hash string) (bool, error) {
	var count int
	err := t.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM import_runs WHERE source_hash = ?", hash).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check source hash: %w", err)
	}
	return count > 0, nil
}

// RecordRun appends a completed run to the ledger.
func (t *SQLiteRunTracker) RecordRun(ctx context.Context, run *ImportRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	_, err := t.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO import_runs
		 (id, source, source_hash, tokens_merged, shards_written, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.SourceHash, run.TokensMerged, run.ShardsWritten,
		run.StartedAt.UTC(), run.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record import run: %w", err)
	}
	return nil
}

// RunCount returns the number of recorded runs.
func (t *SQLiteRunTracker) RunCount(ctx context.Context) (int64, error) {
	var count int64
	err := t.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM import_runs").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count import runs: %w", err)
	}
	return count, nil
}

// LastRun returns the most recently finished run, or nil for an empty ledger.
func (t *SQLiteRunTracker) LastRun(ctx context.Context) (*ImportRun, error) {
	row := t.db.QueryRowContext(ctx,
		`SELECT id, source, source_hash, tokens_merged, shards_written, started_at, finished_at
		 FROM import_runs ORDER BY finished_at DESC, id DESC LIMIT 1`)

	var run ImportRun
	err := row.Scan(&run.ID, &run.Source, &run.SourceHash, &run.TokensMerged,
		&run.ShardsWritten, &run.StartedAt, &run.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load last import run: %w", err)
	}
	return &run, nil
}

// ClearRuns removes all ledger rows without touching shard files.
func (t *SQLiteRunTracker) ClearRuns(ctx context.Context) error {
	_, err := t.db.ExecContext(ctx, "DELETE FROM import_runs")
	if err != nil {
		return fmt.Errorf("failed to clear import runs: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (t *SQLiteRunTracker) Close() error {
	return t.db.Close()
}

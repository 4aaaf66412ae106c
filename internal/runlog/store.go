package runlog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the database after a mismatch.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Run is one reconciliation pass.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	DryRun       bool
	ShowsSeen    int
	StubsCreated int
	StubsRemoved int
	OverlayShows int
	Error        string
}

// Finished reports whether the run recorded a finish time.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// Decision is one per-show classification taken during a run.
type Decision struct {
	Instance  string
	Title     string
	TVDBID    int64
	Decision  string
	Detail    string
	CreatedAt time.Time
}

// Summary carries per-run counters into FinishRun.
type Summary struct {
	ShowsSeen    int
	StubsCreated int
	StubsRemoved int
	OverlayShows int
}

// Store persists run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the run database under stateDir.
func Open(stateDir string) (*Store, error) {
	dbPath := filepath.Join(stateDir, "runs.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// StartRun inserts a new run record and returns its id.
func (s *Store) StartRun(ctx context.Context, dryRun bool) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, started_at, dry_run) VALUES (?, ?, ?)",
		id, time.Now().UTC().Format(time.RFC3339Nano), boolToInt(dryRun))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RecordDecision appends one per-show classification to a run.
func (s *Store) RecordDecision(ctx context.Context, runID string, d Decision) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decisions (run_id, instance, show_title, tvdb_id, decision, detail, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, d.Instance, d.Title, d.TVDBID, d.Decision, nullableString(d.Detail),
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// FinishRun stamps a run with its counters and terminal error, if any.
func (s *Store) FinishRun(ctx context.Context, runID string, summary Summary, runErr error) error {
	var errText any
	if runErr != nil {
		errText = runErr.Error()
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, shows_seen = ?, stubs_created = ?,
             stubs_removed = ?, overlay_shows = ?, error = ?
         WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		summary.ShowsSeen, summary.StubsCreated, summary.StubsRemoved,
		summary.OverlayShows, errText, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, dry_run, shows_seen, stubs_created,
             stubs_removed, overlay_shows, error
         FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			startedAt  string
			finishedAt sql.NullString
			dryRun     int
			errText    sql.NullString
		)
		if err := rows.Scan(&run.ID, &startedAt, &finishedAt, &dryRun,
			&run.ShowsSeen, &run.StubsCreated, &run.StubsRemoved,
			&run.OverlayShows, &errText); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		if finishedAt.Valid {
			run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedAt.String)
		}
		run.DryRun = dryRun != 0
		run.Error = errText.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Decisions returns every classification recorded for a run, oldest first.
func (s *Store) Decisions(ctx context.Context, runID string) ([]Decision, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT instance, show_title, tvdb_id, decision, detail, created_at
         FROM decisions WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var decisions []Decision
	for rows.Next() {
		var (
			d         Decision
			detail    sql.NullString
			createdAt string
		)
		if err := rows.Scan(&d.Instance, &d.Title, &d.TVDBID, &d.Decision,
			&detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		d.Detail = detail.String
		d.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

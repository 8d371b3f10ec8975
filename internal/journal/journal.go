// Package journal keeps a SQLite-backed history of restore, purge and snapshot operations.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Kind is the type of operation recorded.
type Kind string

const (
	KindRestore  Kind = "restore"
	KindCleanup  Kind = "cleanup"
	KindPurge    Kind = "purge"
	KindSnapshot Kind = "snapshot"
)

// Outcome is how an operation ended.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// FileName is the journal database file inside the state directory.
const FileName = "history.db"

// timeLayout is how timestamps are stored; it sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var (
	// ErrInvalidEntry indicates an entry missing its kind or outcome.
	ErrInvalidEntry = errors.New("invalid journal entry")
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS operations (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	target      TEXT NOT NULL DEFAULT '',
	outcome     TEXT NOT NULL,
	detail      TEXT NOT NULL DEFAULT '',
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_operations_started_at ON operations(started_at);
`

// Entry is one recorded operation.
type Entry struct {
	ID         string
	Kind       Kind
	Target     string
	Outcome    Outcome
	Detail     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the operation took.
func (e Entry) Duration() time.Duration {
	return e.FinishedAt.Sub(e.StartedAt)
}

// Recorder accepts operation records.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Nop is a Recorder that drops everything.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Entry) error { return nil }

// Journal is the SQLite-backed Recorder.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

var _ Recorder = (*Journal)(nil)

// DefaultPath returns the journal location under stateDir.
func DefaultPath(stateDir string) string {
	return filepath.Join(stateDir, FileName)
}

// Open opens or creates the journal at dbPath.
func Open(dbPath string) (*Journal, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("journal: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("journal: create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("journal: open db: %w", err)
	}
	j := &Journal{db: db, now: time.Now}
	if err := j.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) init() error {
	if _, err := j.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("journal: set busy timeout: %w", err)
	}
	if _, err := j.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("journal: create schema: %w", err)
	}
	return nil
}

// Close closes the underlying SQLite connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record stores e. Missing IDs are generated and missing times default to now.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.Kind == "" || e.Outcome == "" {
		return fmt.Errorf("%w: kind and outcome are required", ErrInvalidEntry)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := j.now()
	if e.FinishedAt.IsZero() {
		e.FinishedAt = now
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = e.FinishedAt
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO operations (id, kind, target, outcome, detail, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.Target, string(e.Outcome), e.Detail,
		formatTime(e.StartedAt), formatTime(e.FinishedAt))
	if err != nil {
		return fmt.Errorf("journal: insert operation: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit returns all.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, kind, target, outcome, detail, started_at, finished_at
		FROM operations ORDER BY started_at DESC, finished_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: query operations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                 Entry
			kind, outcome     string
			started, finished string
		)
		if err := rows.Scan(&e.ID, &kind, &e.Target, &outcome, &e.Detail, &started, &finished); err != nil {
			return nil, fmt.Errorf("journal: scan operation: %w", err)
		}
		e.Kind = Kind(kind)
		e.Outcome = Outcome(outcome)
		e.StartedAt = parseTime(started)
		e.FinishedAt = parseTime(finished)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: iterate operations: %w", err)
	}
	return entries, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

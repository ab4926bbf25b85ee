// Package audit persists per-document dispositions and run summaries.
// The log stream is the primary debugging surface; this store is the
// durable record behind it.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"ndnc-verifier/constants"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	workflow   TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL,
	ended_at   TIMESTAMP,
	processed  INTEGER NOT NULL DEFAULT 0,
	failed     INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS dispositions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	file       TEXT NOT NULL,
	phone      TEXT,
	state      TEXT NOT NULL,
	bucket     TEXT NOT NULL,
	detail     TEXT,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dispositions_run ON dispositions(run_id);
`

// Disposition is one document's final outcome within a run.
type Disposition struct {
	RunID  string
	File   string
	Phone  string
	State  constants.DocState
	Bucket constants.Bucket
	Detail string
}

// RunRow summarizes one batch run.
type RunRow struct {
	ID        string
	Workflow  constants.WorkflowKind
	StartedAt time.Time
	EndedAt   time.Time
	Processed int
	Failed    int
}

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the audit database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	s := NewStore(db, logger)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init audit schema: %w", err)
	}
	return s, nil
}

// NewStore wraps an existing handle (tests inject a mock here).
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

func (s *Store) Close() error { return s.db.Close() }

// BeginRun records a run's start.
func (s *Store) BeginRun(ctx context.Context, id string, kind constants.WorkflowKind) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, workflow, started_at) VALUES (?, ?, ?)`,
		id, string(kind), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// FinishRun records a run's end and totals.
func (s *Store) FinishRun(ctx context.Context, id string, processed, failed int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET ended_at = ?, processed = ?, failed = ? WHERE id = ?`,
		time.Now().UTC(), processed, failed, id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecordDisposition appends one document outcome.
func (s *Store) RecordDisposition(ctx context.Context, d Disposition) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dispositions (run_id, file, phone, state, bucket, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.RunID, d.File, d.Phone, string(d.State), string(d.Bucket), d.Detail, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record disposition: %w", err)
	}
	return nil
}

// Dispositions returns a run's document outcomes in insertion order.
func (s *Store) Dispositions(ctx context.Context, runID string) ([]Disposition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, file, phone, state, bucket, detail
		 FROM dispositions WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query dispositions: %w", err)
	}
	defer rows.Close()

	var out []Disposition
	for rows.Next() {
		var d Disposition
		var state, bucket string
		if err := rows.Scan(&d.RunID, &d.File, &d.Phone, &state, &bucket, &d.Detail); err != nil {
			return nil, fmt.Errorf("scan disposition: %w", err)
		}
		d.State = constants.DocState(state)
		d.Bucket = constants.Bucket(bucket)
		out = append(out, d)
	}
	return out, rows.Err()
}

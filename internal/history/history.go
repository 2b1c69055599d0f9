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

// Run is one recorded sync run
type Run struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
	State      string     `json:"state"`
	User       string     `json:"user,omitempty"`
	DryRun     bool       `json:"dry_run"`
	Fetched    int        `json:"fetched"`
	New        int        `json:"new"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
	Pushed     bool       `json:"pushed"`
	Artifacts  []Artifact `json:"artifacts,omitempty"`
}

// Artifact is a solution file produced by a run
type Artifact struct {
	ProblemID string `json:"problem_id"`
	Title     string `json:"title"`
	Path      string `json:"path"`
	Committed bool   `json:"committed"`
}

// Store is a sqlite ledger of past runs
type Store struct {
	db *sql.DB
}

// Open creates the ledger at path, including parent directories
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		started_at  DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		state       TEXT NOT NULL,
		user        TEXT NOT NULL DEFAULT '',
		dry_run     INTEGER NOT NULL DEFAULT 0,
		fetched     INTEGER NOT NULL DEFAULT 0,
		new_count   INTEGER NOT NULL DEFAULT 0,
		skipped     INTEGER NOT NULL DEFAULT 0,
		failed      INTEGER NOT NULL DEFAULT 0,
		pushed      INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS artifacts (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id     TEXT NOT NULL REFERENCES runs(id),
		problem_id TEXT NOT NULL,
		title      TEXT NOT NULL,
		path       TEXT NOT NULL,
		committed  INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_artifacts_run ON artifacts(run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores a run and its artifacts, assigning an id when empty
func (s *Store) Record(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, state, user, dry_run, fetched, new_count, skipped, failed, pushed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.State, run.User,
		run.DryRun, run.Fetched, run.New, run.Skipped, run.Failed, run.Pushed,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, a := range run.Artifacts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO artifacts (run_id, problem_id, title, path, committed) VALUES (?, ?, ?, ?, ?)`,
			run.ID, a.ProblemID, a.Title, a.Path, a.Committed,
		)
		if err != nil {
			return "", fmt.Errorf("insert artifact: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return run.ID, nil
}

// Recent returns up to limit runs, newest first, with their artifacts
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, state, user, dry_run, fetched, new_count, skipped, failed, pushed
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.State, &r.User,
			&r.DryRun, &r.Fetched, &r.New, &r.Skipped, &r.Failed, &r.Pushed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		artifacts, err := s.artifacts(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Artifacts = artifacts
	}
	return runs, nil
}

func (s *Store) artifacts(ctx context.Context, runID string) ([]Artifact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT problem_id, title, path, committed FROM artifacts WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.ProblemID, &a.Title, &a.Path, &a.Committed); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

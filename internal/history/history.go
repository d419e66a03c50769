// Package history persists secure-pipeline runs into a local sqlite
// database so past results can be listed and inspected. Recording is
// best effort: a broken or unwritable database must never block a
// pipeline run.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID         string        `json:"id"`
	Image      string        `json:"image"`
	Status     string        `json:"status"` // "success" or "failed"
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`
	Stages     []StageRecord `json:"stages,omitempty"`
}

// StageRecord is one stage outcome within a run.
type StageRecord struct {
	Name     string `json:"name"`
	Success  bool   `json:"success"`
	Output   string `json:"output,omitempty"`
	Position int    `json:"position"`
}

// Store handles database operations.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the run database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return store, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			image TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			finished_at DATETIME NOT NULL,
			duration_ms INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS stages (
			run_id TEXT NOT NULL,
			name TEXT NOT NULL,
			success INTEGER NOT NULL,
			output TEXT,
			position INTEGER NOT NULL,
			FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_stages_run_id ON stages(run_id)`,
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// SaveRun persists a run and its stage records atomically.
func (s *Store) SaveRun(run Run) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, image, status, started_at, finished_at, duration_ms) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Image, run.Status, run.StartedAt, run.FinishedAt, run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, stage := range run.Stages {
		_, err = tx.Exec(
			`INSERT INTO stages (run_id, name, success, output, position) VALUES (?, ?, ?, ?, ?)`,
			run.ID, stage.Name, stage.Success, stage.Output, stage.Position,
		)
		if err != nil {
			return fmt.Errorf("insert stage %s: %w", stage.Name, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first, without stages.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, image, status, started_at, finished_at, duration_ms
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var durationMs int64
		if err := rows.Scan(&run.ID, &run.Image, &run.Status, &run.StartedAt, &run.FinishedAt, &durationMs); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns one run with its stage records, or sql.ErrNoRows.
func (s *Store) GetRun(id string) (*Run, error) {
	var run Run
	var durationMs int64
	err := s.db.QueryRow(
		`SELECT id, image, status, started_at, finished_at, duration_ms FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Image, &run.Status, &run.StartedAt, &run.FinishedAt, &durationMs)
	if err != nil {
		return nil, err
	}
	run.Duration = time.Duration(durationMs) * time.Millisecond

	rows, err := s.db.Query(
		`SELECT name, success, output, position FROM stages WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load stages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stage StageRecord
		var output sql.NullString
		if err := rows.Scan(&stage.Name, &stage.Success, &output, &stage.Position); err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		stage.Output = output.String
		run.Stages = append(run.Stages, stage)
	}
	return &run, rows.Err()
}

// StageOutput renders an arbitrary stage payload as text for storage.
func StageOutput(output any) string {
	switch v := output.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

// Package store keeps an SQLite index of generated charts and batch runs.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Chart is one generated chart as recorded in the index.
type Chart struct {
	Notation     string    `json:"notation"`
	Palette      string    `json:"palette"`
	Root         string    `json:"root"`
	Quality      string    `json:"quality"`
	Bass         string    `json:"bass,omitempty"`
	Frets        []int     `json:"frets"`
	DiagramPath  string    `json:"diagram_path"`
	NotationPath string    `json:"notation_path,omitempty"`
	RunID        string    `json:"run_id"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// Run is one batch execution.
type Run struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Total     int       `json:"total"`
	Failed    int       `json:"failed"`
	Skipped   int       `json:"skipped"`
}

// Store wraps the chart index database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS charts (
	notation TEXT NOT NULL,
	palette TEXT NOT NULL,
	root TEXT NOT NULL,
	quality TEXT NOT NULL,
	bass TEXT NOT NULL DEFAULT '',
	frets TEXT NOT NULL,
	diagram_path TEXT NOT NULL,
	notation_path TEXT NOT NULL DEFAULT '',
	run_id TEXT NOT NULL,
	generated_at INTEGER NOT NULL,
	PRIMARY KEY (notation, palette)
);
CREATE INDEX IF NOT EXISTS idx_charts_generated_at ON charts(generated_at);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	total INTEGER NOT NULL,
	failed INTEGER NOT NULL,
	skipped INTEGER NOT NULL
);
`

// Open opens (or creates) the index at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Batch workers write concurrently; serialize them on one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutChart inserts or replaces the record for (notation, palette).
func (s *Store) PutChart(ctx context.Context, c Chart) error {
	frets, err := json.Marshal(c.Frets)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO charts
			(notation, palette, root, quality, bass, frets, diagram_path, notation_path, run_id, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Notation, c.Palette, c.Root, c.Quality, c.Bass, string(frets),
		c.DiagramPath, c.NotationPath, c.RunID, c.GeneratedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to record chart %s: %w", c.Notation, err)
	}
	return nil
}

// GetChart returns the record for (notation, palette). ok is false when none exists.
func (s *Store) GetChart(ctx context.Context, notation, palette string) (Chart, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT notation, palette, root, quality, bass, frets, diagram_path, notation_path, run_id, generated_at
		FROM charts WHERE notation = ? AND palette = ?`, notation, palette)

	c, err := scanChart(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Chart{}, false, nil
	}
	if err != nil {
		return Chart{}, false, err
	}
	return c, true, nil
}

// ListCharts returns every chart, newest first.
func (s *Store) ListCharts(ctx context.Context) ([]Chart, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT notation, palette, root, quality, bass, frets, diagram_path, notation_path, run_id, generated_at
		FROM charts ORDER BY generated_at DESC, notation, palette`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charts []Chart
	for rows.Next() {
		c, err := scanChart(rows)
		if err != nil {
			return nil, err
		}
		charts = append(charts, c)
	}
	return charts, rows.Err()
}

// PutRun records a finished batch run.
func (s *Store) PutRun(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (id, started_at, total, failed, skipped)
		VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.Unix(), r.Total, r.Failed, r.Skipped)
	return err
}

// LastRun returns the most recent run.
func (s *Store) LastRun(ctx context.Context) (Run, bool, error) {
	var r Run
	var started int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, total, failed, skipped FROM runs
		ORDER BY started_at DESC, rowid DESC LIMIT 1`).
		Scan(&r.ID, &started, &r.Total, &r.Failed, &r.Skipped)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}
	r.StartedAt = time.Unix(started, 0)
	return r, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChart(row scanner) (Chart, error) {
	var c Chart
	var frets string
	var generated int64
	if err := row.Scan(&c.Notation, &c.Palette, &c.Root, &c.Quality, &c.Bass, &frets,
		&c.DiagramPath, &c.NotationPath, &c.RunID, &generated); err != nil {
		return Chart{}, err
	}
	if err := json.Unmarshal([]byte(frets), &c.Frets); err != nil {
		return Chart{}, fmt.Errorf("bad frets for %s: %w", c.Notation, err)
	}
	c.GeneratedAt = time.Unix(generated, 0)
	return c, nil
}

// Package store is the persistence collaborator: a SQLite-backed archive of
// the area catalog and completed analysis results. The pipeline itself never
// touches it; the service layer persists an aggregate only after a run fully
// succeeds.
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

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/informeapp/informe/internal/analysis"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS areas (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS analyses (
	id             TEXT PRIMARY KEY,
	document_title TEXT NOT NULL,
	source_name    TEXT NOT NULL DEFAULT '',
	analyzed_at    TIMESTAMP NOT NULL,
	result_json    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_analyzed_at ON analyses(analyzed_at);
`

// Store is the SQLite-backed persistence layer.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (creating if needed) the database at dbPath and applies the
// schema. The parent directory is created if missing.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	// WAL mode for better concurrency between server handlers.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DefaultAreas is the catalog seeded on first run.
func DefaultAreas() []analysis.Area {
	return []analysis.Area{
		{ID: 1, Name: "Finanzas"},
		{ID: 2, Name: "Operaciones"},
		{ID: 3, Name: "Recursos Humanos"},
		{ID: 4, Name: "Marketing"},
		{ID: 5, Name: "Tecnología"},
	}
}

// SeedAreas inserts the given catalog if the areas table is empty.
func (s *Store) SeedAreas(ctx context.Context, areas []analysis.Area) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM areas").Scan(&count); err != nil {
		return fmt.Errorf("counting areas: %w", err)
	}
	if count > 0 {
		return nil
	}
	return s.ReplaceAreas(ctx, areas)
}

// ListAreas returns the area catalog ordered by id.
func (s *Store) ListAreas(ctx context.Context) ([]analysis.Area, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM areas ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing areas: %w", err)
	}
	defer rows.Close()

	var areas []analysis.Area
	for rows.Next() {
		var a analysis.Area
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("scanning area: %w", err)
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

// ReplaceAreas swaps the whole catalog in one transaction.
func (s *Store) ReplaceAreas(ctx context.Context, areas []analysis.Area) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM areas"); err != nil {
		return fmt.Errorf("clearing areas: %w", err)
	}
	for _, a := range areas {
		if _, err := tx.ExecContext(ctx, "INSERT INTO areas (id, name) VALUES (?, ?)", a.ID, a.Name); err != nil {
			return fmt.Errorf("inserting area %d: %w", a.ID, err)
		}
	}
	return tx.Commit()
}

// AnalysisSummary is a listing row for stored analyses.
type AnalysisSummary struct {
	ID            string    `json:"id"`
	DocumentTitle string    `json:"document_title"`
	SourceName    string    `json:"source_name,omitempty"`
	AnalyzedAt    time.Time `json:"analyzed_at"`
}

// SaveAnalysis persists one completed run. The full result is stored as
// JSON; a run is saved whole or not at all.
func (s *Store) SaveAnalysis(ctx context.Context, result *analysis.Result, sourceName string) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO analyses (id, document_title, source_name, analyzed_at, result_json) VALUES (?, ?, ?, ?, ?)",
		result.ID, result.DocumentTitle, sourceName, result.AnalyzedAt, string(data))
	if err != nil {
		return fmt.Errorf("inserting analysis: %w", err)
	}
	return nil
}

// GetAnalysis loads one stored result by id.
func (s *Store) GetAnalysis(ctx context.Context, id string) (*analysis.Result, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT result_json FROM analyses WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading analysis: %w", err)
	}

	var result analysis.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("unmarshaling result: %w", err)
	}
	return &result, nil
}

// ListAnalyses returns summaries of stored analyses, newest first.
func (s *Store) ListAnalyses(ctx context.Context) ([]AnalysisSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, document_title, source_name, analyzed_at FROM analyses ORDER BY analyzed_at DESC")
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	defer rows.Close()

	var summaries []AnalysisSummary
	for rows.Next() {
		var s AnalysisSummary
		if err := rows.Scan(&s.ID, &s.DocumentTitle, &s.SourceName, &s.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// DeleteAnalysis removes one stored result.
func (s *Store) DeleteAnalysis(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM analyses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting analysis: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

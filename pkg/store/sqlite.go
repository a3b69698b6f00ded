//go:build !wasm

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/praetorian-inc/almanac/pkg/types"
	_ "modernc.org/sqlite"
)

// sqliteDriver is the database/sql driver name registered by modernc.org/sqlite.
const sqliteDriver = "sqlite"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open(sqliteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps writes serialized and makes ":memory:"
	// databases visible to every query.
	db.SetMaxOpenConns(1)

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// AddInput records an input.
func (s *SQLiteStore) AddInput(id types.InputID, size int64) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO inputs (id, size) VALUES (?, ?)", id.Hex(), size)
	if err != nil {
		return fmt.Errorf("inserting input: %w", err)
	}
	return nil
}

// InputExists checks if an input has been recorded.
func (s *SQLiteStore) InputExists(id types.InputID) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM inputs WHERE id = ?", id.Hex()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking input existence: %w", err)
	}
	return count > 0, nil
}

// AddRun stores a run (deduplicated on input and part).
func (s *SQLiteStore) AddRun(r *types.Run) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runArgs(r)...)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// GetRun retrieves the run for an input and part.
func (s *SQLiteStore) GetRun(id types.InputID, part types.Part) (*types.Run, error) {
	row := s.db.QueryRow(`
		SELECT `+runColumns+`
		FROM runs
		WHERE input_id = ? AND part = ?
	`, id.Hex(), int(part))

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s part %s: %w", id.Short(), part, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	return r, nil
}

// GetRuns retrieves all runs ordered by creation time.
func (s *SQLiteStore) GetRuns() ([]*types.Run, error) {
	rows, err := s.db.Query(`
		SELECT ` + runColumns + `
		FROM runs
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*types.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}

// RunExists checks if a run exists for an input and part.
func (s *SQLiteStore) RunExists(id types.InputID, part types.Part) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM runs WHERE input_id = ? AND part = ?", id.Hex(), int(part)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking run existence: %w", err)
	}
	return count > 0, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

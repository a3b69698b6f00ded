//go:build !wasm

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praetorian-inc/almanac/pkg/types"
)

// postgresTimeout bounds every statement issued by PostgresStore.
const postgresTimeout = 30 * time.Second

// PostgresStore implements Store using PostgreSQL through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to dsn and creates the schema.
func NewPostgres(dsn string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.createSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) createSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS inputs (
			id TEXT PRIMARY KEY NOT NULL,
			size BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY NOT NULL,
			input_id TEXT NOT NULL,
			source TEXT NOT NULL,
			part INTEGER NOT NULL,
			answer NUMERIC(39, 0) NOT NULL,
			stages INTEGER NOT NULL,
			intervals INTEGER NOT NULL,
			measure NUMERIC(39, 0) NOT NULL,
			duration_ns BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE(input_id, part)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	var count int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		_, err := s.pool.Exec(ctx, "INSERT INTO schema_version (version) VALUES ($1)", SchemaVersion)
		return err
	}
	return nil
}

// pgSelectRuns casts the NUMERIC columns back to text so scanRun sees the
// same column types as with SQLite.
const pgSelectRuns = `SELECT id, input_id, source, part, answer::text, stages, intervals, measure::text, duration_ns, created_at FROM runs`

// AddInput records an input.
func (s *PostgresStore) AddInput(id types.InputID, size int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), postgresTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, "INSERT INTO inputs (id, size) VALUES ($1, $2) ON CONFLICT DO NOTHING", id.Hex(), size)
	if err != nil {
		return fmt.Errorf("inserting input: %w", err)
	}
	return nil
}

// InputExists checks if an input has been recorded.
func (s *PostgresStore) InputExists(id types.InputID) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresTimeout)
	defer cancel()

	var exists bool
	err := s.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM inputs WHERE id = $1)", id.Hex()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking input existence: %w", err)
	}
	return exists, nil
}

// AddRun stores a run (deduplicated on input and part).
func (s *PostgresStore) AddRun(r *types.Run) error {
	ctx, cancel := context.WithTimeout(context.Background(), postgresTimeout)
	defer cancel()

	args := runArgs(r)
	args[len(args)-1] = r.CreatedAt.UTC()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO runs (`+runColumns+`)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8::numeric, $9, $10)
		ON CONFLICT (input_id, part) DO NOTHING
	`, args...)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// GetRun retrieves the run for an input and part.
func (s *PostgresStore) GetRun(id types.InputID, part types.Part) (*types.Run, error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresTimeout)
	defer cancel()

	row := s.pool.QueryRow(ctx, pgSelectRuns+" WHERE input_id = $1 AND part = $2", id.Hex(), int(part))
	r, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("run %s part %s: %w", id.Short(), part, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	return r, nil
}

// GetRuns retrieves all runs ordered by creation time.
func (s *PostgresStore) GetRuns() ([]*types.Run, error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, pgSelectRuns+" ORDER BY created_at, id")
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
func (s *PostgresStore) RunExists(id types.InputID, part types.Part) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresTimeout)
	defer cancel()

	var exists bool
	err := s.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM runs WHERE input_id = $1 AND part = $2)", id.Hex(), int(part)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking run existence: %w", err)
	}
	return exists, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

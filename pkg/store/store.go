package store

import (
	"errors"
	"strings"

	"github.com/praetorian-inc/almanac/pkg/types"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("not found")

// Store provides persistence for solve runs.
// This interface abstracts the underlying storage implementation,
// allowing for different backends (SQLite, PostgreSQL, memory).
type Store interface {
	// AddInput records an almanac input by content hash and size.
	AddInput(id types.InputID, size int64) error

	// InputExists checks if an input has already been recorded.
	InputExists(id types.InputID) (bool, error)

	// AddRun stores a run. Runs are deduplicated by (InputID, Part);
	// adding a second run for the same pair is a no-op.
	AddRun(r *types.Run) error

	// GetRun retrieves the run for an input and part, or ErrNotFound.
	GetRun(id types.InputID, part types.Part) (*types.Run, error)

	// GetRuns retrieves all runs ordered by creation time.
	GetRuns() ([]*types.Run, error)

	// RunExists checks if a run exists for an input and part.
	RunExists(id types.InputID, part types.Part) (bool, error)

	// Close closes the database connection.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path selects the backend:
	//   ":memory:"                      in-memory store
	//   "postgres://..." / "postgresql://..."  PostgreSQL
	//   anything else                   SQLite database file
	Path string
}

// MemoryPath selects the in-memory store.
const MemoryPath = ":memory:"

// IsPostgresDSN reports whether path is a PostgreSQL connection URL.
func IsPostgresDSN(path string) bool {
	return strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://")
}

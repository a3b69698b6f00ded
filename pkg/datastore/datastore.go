// Package datastore manages the on-disk run history: a directory holding
// the run database and, optionally, a copy of every solved input.
package datastore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/praetorian-inc/almanac/pkg/store"
)

// DBName is the run database file inside a datastore directory.
const DBName = "datastore.db"

// Datastore manages a directory-based datastore.
type Datastore struct {
	Path   string      // Directory path (e.g., "almanac.ds")
	Store  store.Store // Run database
	Inputs *InputStore // Input copies (nil unless StoreInputs is set)
}

// Options configures datastore behavior.
type Options struct {
	StoreInputs bool // Keep a copy of every solved input (--store-inputs flag)
}

// Open opens or creates a datastore directory.
//
// ":memory:" and PostgreSQL URLs are passed straight to store.New and
// create no directory; input copies are not kept for them.
func Open(path string, opts Options) (*Datastore, error) {
	if path == "" {
		return nil, fmt.Errorf("datastore path is required")
	}

	if path == store.MemoryPath || store.IsPostgresDSN(path) {
		s, err := store.New(store.Config{Path: path})
		if err != nil {
			return nil, fmt.Errorf("creating store: %w", err)
		}
		return &Datastore{Path: path, Store: s}, nil
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating datastore directory: %w", err)
	}

	if opts.StoreInputs {
		if err := os.MkdirAll(filepath.Join(path, "inputs"), 0755); err != nil {
			return nil, fmt.Errorf("creating inputs directory: %w", err)
		}
	}

	gitignorePath := filepath.Join(path, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("*\n"), 0644); err != nil {
		return nil, fmt.Errorf("writing .gitignore: %w", err)
	}

	s, err := store.New(store.Config{Path: filepath.Join(path, DBName)})
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	ds := &Datastore{
		Path:  path,
		Store: s,
	}
	if opts.StoreInputs {
		ds.Inputs = &InputStore{Root: filepath.Join(path, "inputs")}
	}

	return ds, nil
}

// Close closes the datastore and releases resources.
func (d *Datastore) Close() error {
	if d.Store != nil {
		return d.Store.Close()
	}
	return nil
}

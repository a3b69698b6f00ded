package datastore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/praetorian-inc/almanac/pkg/types"
)

// InputStore keeps content-addressed copies of almanac inputs under Root,
// laid out like git loose objects: inputs/ab/cdef1234...
type InputStore struct {
	Root string
}

// Store writes content and returns its input ID.
func (s *InputStore) Store(content []byte) (types.InputID, error) {
	id := types.ComputeInputID(content)
	if err := s.Put(id, content); err != nil {
		return types.InputID{}, err
	}
	return id, nil
}

// Put writes content under id. Writing an existing input is a no-op.
func (s *InputStore) Put(id types.InputID, content []byte) error {
	path := s.inputPath(id)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating input directory: %w", err)
	}

	// Write atomically using temp file + rename
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing input: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing input: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming input: %w", err)
	}
	return nil
}

// Get retrieves content by input ID.
func (s *InputStore) Get(id types.InputID) ([]byte, error) {
	content, err := os.ReadFile(s.inputPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("input not found: %s", id.Hex())
		}
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return content, nil
}

// Exists checks if an input is stored.
func (s *InputStore) Exists(id types.InputID) bool {
	_, err := os.Stat(s.inputPath(id))
	return err == nil
}

// inputPath returns the file path for an input ID, using a 2-char prefix
// directory.
func (s *InputStore) inputPath(id types.InputID) string {
	hexID := id.Hex()
	return filepath.Join(s.Root, hexID[:2], hexID[2:])
}

package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/praetorian-inc/almanac/pkg/types"
)

// runKey identifies a run for deduplication.
type runKey struct {
	input types.InputID
	part  types.Part
}

// MemoryStore implements Store using in-memory data structures.
type MemoryStore struct {
	mu     sync.RWMutex
	inputs map[types.InputID]int64 // size by input
	runs   map[runKey]*types.Run
	order  []runKey // insertion order
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		inputs: make(map[types.InputID]int64),
		runs:   make(map[runKey]*types.Run),
	}
}

// AddInput records an input.
func (m *MemoryStore) AddInput(id types.InputID, size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.inputs[id]; exists {
		return nil
	}
	m.inputs[id] = size
	return nil
}

// InputExists checks if an input has been recorded.
func (m *MemoryStore) InputExists(id types.InputID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.inputs[id]
	return exists, nil
}

// AddRun stores a copy of r (deduplicated on input and part).
func (m *MemoryStore) AddRun(r *types.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := runKey{input: r.InputID, part: r.Part}
	if _, exists := m.runs[key]; exists {
		return nil
	}

	stored := *r
	m.runs[key] = &stored
	m.order = append(m.order, key)
	return nil
}

// GetRun retrieves the run for an input and part.
func (m *MemoryStore) GetRun(id types.InputID, part types.Part) (*types.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.runs[runKey{input: id, part: part}]
	if !ok {
		return nil, fmt.Errorf("run %s part %s: %w", id.Short(), part, ErrNotFound)
	}
	out := *r
	return &out, nil
}

// GetRuns retrieves all runs ordered by creation time, then insertion.
func (m *MemoryStore) GetRuns() ([]*types.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*types.Run, 0, len(m.order))
	for _, key := range m.order {
		r := *m.runs[key]
		result = append(result, &r)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// RunExists checks if a run exists for an input and part.
func (m *MemoryStore) RunExists(id types.InputID, part types.Part) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.runs[runKey{input: id, part: part}]
	return exists, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}

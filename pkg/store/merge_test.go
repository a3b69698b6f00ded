//go:build !wasm

package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/praetorian-inc/almanac/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_EmptySources(t *testing.T) {
	_, err := Merge(MergeConfig{
		SourcePaths: []string{},
		DestPath:    filepath.Join(t.TempDir(), "dest.db"),
	})
	assert.ErrorContains(t, err, "no source databases")
}

func TestMerge_NoDestination(t *testing.T) {
	_, err := Merge(MergeConfig{
		SourcePaths: []string{"source.db"},
		DestPath:    "",
	})
	assert.ErrorContains(t, err, "destination path is required")
}

func writeSource(t *testing.T, path string, runs ...*types.Run) {
	t.Helper()
	s, err := NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	for _, r := range runs {
		require.NoError(t, s.AddInput(r.InputID, 10))
		require.NoError(t, s.AddRun(r))
	}
}

func TestMerge_Deduplicates(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	now := time.Now()
	shared := newRun("shared", types.PartTwo, 46, now)
	onlyA := newRun("a", types.PartOne, 35, now)
	onlyB := newRun("b", types.PartTwo, 5, now.Add(time.Second))

	pathA := filepath.Join(dir, "a.db")
	pathB := filepath.Join(dir, "b.db")
	dest := filepath.Join(dir, "merged.db")
	writeSource(t, pathA, shared, onlyA)
	writeSource(t, pathB, shared, onlyB)

	// Act
	stats, err := Merge(MergeConfig{SourcePaths: []string{pathA, pathB}, DestPath: dest})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, stats.SourcesProcessed)
	assert.Equal(t, 3, stats.RunsMerged)
	assert.Equal(t, 3, stats.InputsMerged)

	merged, err := NewSQLite(dest)
	require.NoError(t, err)
	defer merged.Close()

	runs, err := merged.GetRuns()
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	got, err := merged.GetRun(onlyB.InputID, types.PartTwo)
	require.NoError(t, err)
	assert.Equal(t, "5", got.Answer.String())
}

func TestMerge_Idempotent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.db")
	dest := filepath.Join(dir, "dest.db")
	writeSource(t, src, newRun("x", types.PartOne, 1, time.Now()))

	first, err := Merge(MergeConfig{SourcePaths: []string{src}, DestPath: dest})
	require.NoError(t, err)
	assert.Equal(t, 1, first.RunsMerged)

	second, err := Merge(MergeConfig{SourcePaths: []string{src}, DestPath: dest})
	require.NoError(t, err)
	assert.Equal(t, 0, second.RunsMerged)
	assert.Equal(t, 0, second.InputsMerged)
}

func TestMerge_MissingSource(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "dest.db")

	_, err := Merge(MergeConfig{
		SourcePaths: []string{filepath.Join(dir, "missing.db")},
		DestPath:    dest,
	})

	assert.ErrorContains(t, err, "source database not found")
	assert.NoFileExists(t, dest)
}

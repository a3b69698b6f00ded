package enum

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/almanac/pkg/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// collect enumerates cfg and returns the found paths relative to cfg.Root.
func collect(t *testing.T, cfg Config) []string {
	t.Helper()

	var (
		mu    sync.Mutex
		found []string
	)
	err := NewFilesystemEnumerator(cfg).Enumerate(context.Background(), func(content []byte, id types.InputID, path string) error {
		assert.Equal(t, types.ComputeInputID(content), id)
		rel, err := filepath.Rel(cfg.Root, path)
		require.NoError(t, err)
		mu.Lock()
		found = append(found, filepath.ToSlash(rel))
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	sort.Strings(found)
	return found
}

func TestFilesystemEnumerator(t *testing.T) {
	// Arrange
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "day05.txt"), "seeds: 1 2")
	writeFile(t, filepath.Join(tmpDir, "input"), "seeds: 3 4")
	writeFile(t, filepath.Join(tmpDir, "sub", "example.yaml"), "seeds: [1]")
	writeFile(t, filepath.Join(tmpDir, "sub", "other.yml"), "seeds: [2]")
	writeFile(t, filepath.Join(tmpDir, "main.go"), "package main")
	writeFile(t, filepath.Join(tmpDir, "notes.md"), "# notes")

	// Act
	found := collect(t, Config{Root: tmpDir})

	// Assert
	assert.Equal(t, []string{"day05.txt", "input", "sub/example.yaml", "sub/other.yml"}, found)
}

func TestFilesystemEnumerator_HiddenFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "visible.txt"), "visible")
	writeFile(t, filepath.Join(tmpDir, ".hidden.txt"), "hidden")
	writeFile(t, filepath.Join(tmpDir, ".cache", "input.txt"), "hidden dir")

	assert.Equal(t, []string{"visible.txt"}, collect(t, Config{Root: tmpDir}))
	assert.Equal(t,
		[]string{".cache/input.txt", ".hidden.txt", "visible.txt"},
		collect(t, Config{Root: tmpDir, IncludeHidden: true}))
}

func TestFilesystemEnumerator_MaxFileSize(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "small.txt"), "small")
	writeFile(t, filepath.Join(tmpDir, "large.txt"), "this is a much larger file")

	assert.Equal(t, []string{"small.txt"}, collect(t, Config{Root: tmpDir, MaxFileSize: 10}))
}

func TestFilesystemEnumerator_BinaryFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "text.txt"), "seeds: 1")
	writeFile(t, filepath.Join(tmpDir, "binary.txt"), "seeds\x00\x01\x02")

	assert.Equal(t, []string{"text.txt"}, collect(t, Config{Root: tmpDir}))
}

func TestFilesystemEnumerator_Gitignore(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".gitignore"), "scratch/\n*.bak.txt\n")
	writeFile(t, filepath.Join(tmpDir, "keep.txt"), "keep")
	writeFile(t, filepath.Join(tmpDir, "old.bak.txt"), "old")
	writeFile(t, filepath.Join(tmpDir, "scratch", "tmp.txt"), "tmp")

	assert.Equal(t, []string{"keep.txt"}, collect(t, Config{Root: tmpDir}))
}

func TestFilesystemEnumerator_SingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "almanac.input")
	writeFile(t, path, "seeds: 1 2")

	var got []string
	err := NewFilesystemEnumerator(Config{Root: path}).Enumerate(context.Background(), func(_ []byte, _ types.InputID, p string) error {
		got = append(got, p)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{path}, got)
}

func TestFilesystemEnumerator_Missing(t *testing.T) {
	err := NewFilesystemEnumerator(Config{Root: filepath.Join(t.TempDir(), "nope")}).Enumerate(context.Background(), func([]byte, types.InputID, string) error {
		return nil
	})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFilesystemEnumerator_CallbackError(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		writeFile(t, filepath.Join(tmpDir, name), name)
	}
	boom := assert.AnError

	err := NewFilesystemEnumerator(Config{Root: tmpDir, Readers: 2}).Enumerate(context.Background(), func([]byte, types.InputID, string) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
}

func TestFilesystemEnumerator_ContextCancellation(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.txt"), "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewFilesystemEnumerator(Config{Root: tmpDir}).Enumerate(ctx, func([]byte, types.InputID, string) error {
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{".", false},
		{"..", false},
		{".git", true},
		{".hidden.txt", true},
		{"visible.txt", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isHidden(tt.name), tt.name)
	}
}

func TestIsInputName(t *testing.T) {
	assert.True(t, isInputName("input.txt"))
	assert.True(t, isInputName("INPUT.TXT"))
	assert.True(t, isInputName("almanac.yaml"))
	assert.True(t, isInputName("input"))
	assert.False(t, isInputName("main.go"))
}

package datastore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/praetorian-inc/almanac/pkg/int128"
	"github.com/praetorian-inc/almanac/pkg/store"
	"github.com/praetorian-inc/almanac/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesLayout(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "almanac.ds")

	// Act
	ds, err := Open(path, Options{StoreInputs: true})
	require.NoError(t, err)
	defer ds.Close()

	// Assert
	assert.DirExists(t, filepath.Join(path, "inputs"))
	assert.FileExists(t, filepath.Join(path, DBName))
	gitignore, err := os.ReadFile(filepath.Join(path, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "*\n", string(gitignore))
	require.NotNil(t, ds.Inputs)
	assert.IsType(t, &store.SQLiteStore{}, ds.Store)
}

func TestOpen_WithoutInputs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "almanac.ds")

	ds, err := Open(path, Options{})
	require.NoError(t, err)
	defer ds.Close()

	assert.Nil(t, ds.Inputs)
	assert.NoDirExists(t, filepath.Join(path, "inputs"))
}

func TestOpen_Memory(t *testing.T) {
	ds, err := Open(":memory:", Options{StoreInputs: true})
	require.NoError(t, err)
	defer ds.Close()

	assert.IsType(t, &store.MemoryStore{}, ds.Store)
	assert.Nil(t, ds.Inputs)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("", Options{})
	assert.ErrorContains(t, err, "datastore path is required")
}

func TestOpen_Reopen(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "almanac.ds")
	ds, err := Open(path, Options{})
	require.NoError(t, err)

	run := types.NewRun(types.ComputeInputID([]byte("x")), "x.txt", types.PartOne)
	run.Answer = int128.FromInt64(35)
	run.CreatedAt = time.Now()
	require.NoError(t, ds.Store.AddRun(run))
	require.NoError(t, ds.Close())

	// Act
	again, err := Open(path, Options{})
	require.NoError(t, err)
	defer again.Close()

	// Assert
	runs, err := again.Store.GetRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

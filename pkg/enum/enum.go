// Package enum discovers almanac input files to solve.
package enum

import (
	"context"

	"github.com/praetorian-inc/almanac/pkg/types"
)

// Callback receives one input: its content, its ID and the path it was
// read from. Enumerators may invoke it from several goroutines at once.
type Callback func(content []byte, inputID types.InputID, path string) error

// Enumerator discovers almanac inputs from a source.
type Enumerator interface {
	// Enumerate yields inputs from the source.
	Enumerate(ctx context.Context, callback Callback) error
}

// Config for enumeration.
type Config struct {
	// Root is the starting path for enumeration: a directory or a single file.
	Root string

	// IncludeHidden includes hidden files/directories (starting with .).
	IncludeHidden bool

	// MaxFileSize is the maximum file size to process (0 = no limit).
	MaxFileSize int64

	// FollowSymlinks follows symbolic links.
	FollowSymlinks bool

	// Readers bounds the number of files read in parallel (0 = NumCPU).
	Readers int
}

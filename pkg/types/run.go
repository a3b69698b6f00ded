package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/praetorian-inc/almanac/pkg/int128"
)

// Run records one solved part of one almanac input.
// Runs are deduplicated by (InputID, Part).
type Run struct {
	ID        string        `json:"id"`
	InputID   InputID       `json:"input_id"`
	Source    string        `json:"source"`
	Part      Part          `json:"part"`
	Answer    int128.Int    `json:"answer"`
	Stages    int           `json:"stages"`
	Intervals int           `json:"intervals"`
	Measure   int128.Int    `json:"measure"`
	Duration  time.Duration `json:"duration_ns"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewRun returns a Run with a fresh random ID and the current time.
func NewRun(inputID InputID, source string, part Part) *Run {
	return &Run{
		ID:        uuid.NewString(),
		InputID:   inputID,
		Source:    source,
		Part:      part,
		CreatedAt: time.Now().UTC(),
	}
}

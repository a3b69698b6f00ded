package solver

import (
	"github.com/praetorian-inc/almanac/pkg/int128"
	"github.com/praetorian-inc/almanac/pkg/interval"
	"github.com/praetorian-inc/almanac/pkg/remap"
	"github.com/praetorian-inc/almanac/pkg/types"
)

// Item is one almanac input in a batch.
type Item struct {
	Source  string `json:"source"`  // e.g. a file path or "stdin"
	Content string `json:"content"` // the almanac text or YAML
}

// PartAnswer is the answer for one part of one input.
type PartAnswer struct {
	Part      types.Part `json:"part"`
	Answer    int128.Int `json:"answer"`
	Intervals int        `json:"intervals"` // final set size (part 2) or seed count (part 1)
	Measure   int128.Int `json:"measure"`
	RunID     string     `json:"run_id,omitempty"`
	Cached    bool       `json:"cached,omitempty"` // answer came from the store
}

// Result holds the answers for a single input.
type Result struct {
	Source  string        `json:"source"`
	InputID types.InputID `json:"input_id"`
	Stages  int           `json:"stages"`
	Answers []PartAnswer  `json:"answers"`
}

// Answer returns the answer for part, if it was solved.
func (r *Result) Answer(part types.Part) (int128.Int, bool) {
	for _, a := range r.Answers {
		if a.Part == part {
			return a.Answer, true
		}
	}
	return int128.Int{}, false
}

// ItemResult is the outcome of one batch item. Exactly one of Result and
// Error is set.
type ItemResult struct {
	Source string  `json:"source"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// BatchResult holds batch solve results.
type BatchResult struct {
	Results []ItemResult `json:"results"`
	Failed  int          `json:"failed"`
}

// Trace is the per-stage evolution of the part 2 seed ranges.
type Trace struct {
	Source string              `json:"source"`
	Seeds  []interval.Interval `json:"seeds"`
	Stages []remap.StageResult `json:"stages"`
	Lowest int128.Int          `json:"lowest"`
}

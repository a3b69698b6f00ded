package serve

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/praetorian-inc/almanac/pkg/int128"
	"github.com/praetorian-inc/almanac/pkg/interval"
	"github.com/praetorian-inc/almanac/pkg/solver"
	"github.com/praetorian-inc/almanac/pkg/types"
)

// Request types.
const (
	TypeReady      = "ready"
	TypeSolve      = "solve"
	TypeSolveBatch = "solve_batch"
	TypeRemap      = "remap"
	TypeClose      = "close"
	TypeDecode     = "decode"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "solve" | "solve_batch" | "remap" | "close"
	Payload json.RawMessage `json:"payload"`
}

// PartSpec selects the parts to solve. It accepts 1, 2, "1", "2" or
// "both"; an absent value means part 2.
type PartSpec string

// UnmarshalJSON accepts a number or a string.
func (p *PartSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PartSpec(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("part must be 1, 2 or \"both\": %w", err)
	}
	*p = PartSpec(strconv.Itoa(n))
	return nil
}

// Parts returns the selected parts.
func (p PartSpec) Parts() ([]types.Part, error) {
	return types.ParseParts(string(p))
}

// SolvePayload is the payload for "solve" requests
type SolvePayload struct {
	Content string   `json:"content"`
	Source  string   `json:"source"`
	Part    PartSpec `json:"part"`
}

// SolveBatchPayload is the payload for "solve_batch" requests
type SolveBatchPayload struct {
	Items []solver.Item `json:"items"`
	Part  PartSpec      `json:"part"`
}

// MappingPayload is one mapping in a "remap" request, in input-triple form.
type MappingPayload struct {
	Dest   int128.Int `json:"dest"`
	Source int128.Int `json:"source"`
	Length int128.Int `json:"length"`
}

// StagePayload is one stage in a "remap" request.
type StagePayload struct {
	Name     string           `json:"name"`
	Mappings []MappingPayload `json:"mappings"`
}

// RemapPayload is the payload for "remap" requests: an interval set pushed
// directly through the given stages.
type RemapPayload struct {
	Intervals []interval.Interval `json:"intervals"`
	Stages    []StagePayload      `json:"stages"`
}

// RemapData is the data field for "remap" responses. Lowest is absent
// when the final set has no non-empty interval.
type RemapData struct {
	Intervals []interval.Interval `json:"intervals"`
	Measure   int128.Int          `json:"measure"`
	Lowest    *int128.Int         `json:"lowest,omitempty"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | request type | "decode"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string `json:"version"`
}

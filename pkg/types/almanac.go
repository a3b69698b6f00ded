package types

import (
	"fmt"

	"github.com/praetorian-inc/almanac/pkg/int128"
	"github.com/praetorian-inc/almanac/pkg/interval"
	"github.com/praetorian-inc/almanac/pkg/remap"
)

// Almanac is a parsed puzzle input: the seed header and the mapping stages.
type Almanac struct {
	Seeds  []int128.Int  `json:"seeds"`
	Stages []remap.Table `json:"stages"`
}

// Pipeline returns the stages as a remap.Pipeline.
func (a *Almanac) Pipeline() remap.Pipeline {
	return remap.Pipeline{Stages: a.Stages}
}

// SeedPoints returns every seed number as a point.
func (a *Almanac) SeedPoints() []int128.Int {
	points := make([]int128.Int, len(a.Seeds))
	copy(points, a.Seeds)
	return points
}

// SeedRanges pairs the seed numbers as (start, length).
func (a *Almanac) SeedRanges() ([]interval.Interval, error) {
	if len(a.Seeds)%2 != 0 {
		return nil, fmt.Errorf("seed ranges need an even count of numbers, got %d", len(a.Seeds))
	}

	ranges := make([]interval.Interval, 0, len(a.Seeds)/2)
	for i := 0; i < len(a.Seeds); i += 2 {
		iv, err := interval.FromLength(a.Seeds[i], a.Seeds[i+1])
		if err != nil {
			return nil, fmt.Errorf("seed range %d: %w", i/2+1, err)
		}
		ranges = append(ranges, iv)
	}
	return ranges, nil
}

// MappingCount returns the total number of mappings across all stages.
func (a *Almanac) MappingCount() int {
	n := 0
	for _, s := range a.Stages {
		n += len(s.Mappings)
	}
	return n
}

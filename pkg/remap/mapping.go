// Package remap applies ordered tables of length-preserving interval
// mappings to sets of intervals and to single points.
package remap

import (
	"fmt"

	"github.com/praetorian-inc/almanac/pkg/int128"
	"github.com/praetorian-inc/almanac/pkg/interval"
)

// Mapping shifts every point of Source onto the point at the same offset
// in Dest. Source and Dest always have the same length.
type Mapping struct {
	Source interval.Interval `json:"source"`
	Dest   interval.Interval `json:"dest"`
}

// NewMapping builds a mapping from the almanac triple (dest, source, length).
func NewMapping(dest, source, length int128.Int) (Mapping, error) {
	src, err := interval.FromLength(source, length)
	if err != nil {
		return Mapping{}, fmt.Errorf("source: %w", err)
	}
	dst, err := interval.FromLength(dest, length)
	if err != nil {
		return Mapping{}, fmt.Errorf("dest: %w", err)
	}
	return Mapping{Source: src, Dest: dst}, nil
}

// Offset returns Dest.Start - Source.Start.
func (m Mapping) Offset() int128.Int {
	return m.Dest.Start.Sub(m.Source.Start)
}

func (m Mapping) String() string {
	return fmt.Sprintf("%s -> %s", m.Source, m.Dest)
}

// Table is one pipeline stage: an ordered list of mappings. Sources may
// overlap; for any point the first mapping in table order wins.
type Table struct {
	Name     string    `json:"name"`
	Mappings []Mapping `json:"mappings"`
}

// Lookup maps a single point through the table, returning x unchanged when
// no source contains it.
func (t Table) Lookup(x int128.Int) int128.Int {
	for _, m := range t.Mappings {
		if m.Source.Contains(x) {
			return x.Add(m.Offset())
		}
	}
	return x
}

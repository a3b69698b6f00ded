// Package interval provides half-open numeric intervals over signed 128-bit
// integers and the comparator that splits one interval against another.
package interval

import (
	"errors"
	"fmt"

	"github.com/praetorian-inc/almanac/pkg/int128"
)

// ErrInvalid is returned when an interval would end before it starts.
var ErrInvalid = errors.New("interval end precedes start")

// Interval is the half-open range [Start, End). It is empty when
// Start == End. Intervals are values; operations return new intervals.
type Interval struct {
	Start int128.Int `json:"start"`
	End   int128.Int `json:"end"`
}

// New returns [start, end).
func New(start, end int128.Int) (Interval, error) {
	if end.Less(start) {
		return Interval{}, fmt.Errorf("[%s, %s): %w", start, end, ErrInvalid)
	}
	return Interval{Start: start, End: end}, nil
}

// FromLength returns [start, start+length). It fails with
// int128.ErrOverflow when start+length does not fit in 128 bits.
func FromLength(start, length int128.Int) (Interval, error) {
	if length.Sign() < 0 {
		return Interval{}, fmt.Errorf("length %s: %w", length, ErrInvalid)
	}
	end, ok := start.AddChecked(length)
	if !ok {
		return Interval{}, fmt.Errorf("%s + %s: %w", start, length, int128.ErrOverflow)
	}
	return Interval{Start: start, End: end}, nil
}

// Of is a convenience constructor for small literal intervals. It panics
// if end < start.
func Of(start, end int64) Interval {
	iv, err := New(int128.FromInt64(start), int128.FromInt64(end))
	if err != nil {
		panic(err)
	}
	return iv
}

// Len returns End - Start.
func (i Interval) Len() int128.Int {
	return i.End.Sub(i.Start)
}

// Empty reports whether the interval contains no points.
func (i Interval) Empty() bool {
	return i.Start == i.End
}

// Contains reports whether x lies in [Start, End).
func (i Interval) Contains(x int128.Int) bool {
	return !x.Less(i.Start) && x.Less(i.End)
}

// Overlaps reports whether i and o share at least one point. Intervals
// that only touch at a boundary do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Less(o.End) && o.Start.Less(i.End)
}

// Intersect returns the overlap of i and o. The result is empty if they
// do not overlap.
func (i Interval) Intersect(o Interval) Interval {
	start := int128.MaxOf(i.Start, o.Start)
	end := int128.MinOf(i.End, o.End)
	if end.Less(start) {
		return Interval{Start: start, End: start}
	}
	return Interval{Start: start, End: end}
}

// Shift translates the interval by d. Arithmetic wraps modulo 2^128, so
// shifting by a wrapped offset still lands on the intended target.
func (i Interval) Shift(d int128.Int) Interval {
	return Interval{Start: i.Start.Add(d), End: i.End.Add(d)}
}

// String returns "[start, end)".
func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start, i.End)
}

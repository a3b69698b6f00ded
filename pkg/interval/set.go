package interval

import (
	"errors"
	"slices"

	"github.com/praetorian-inc/almanac/pkg/int128"
)

// ErrEmptySet is returned by MinStart when a set holds no non-empty interval.
var ErrEmptySet = errors.New("interval set has no non-empty interval")

// Measure returns the sum of the lengths of the intervals in set. The sum
// saturates at int128.Max.
func Measure(set []Interval) int128.Int {
	var total int128.Int
	for _, iv := range set {
		n, ok := iv.End.SubChecked(iv.Start)
		if !ok {
			return int128.Max
		}
		if total, ok = total.AddChecked(n); !ok {
			return int128.Max
		}
	}
	return total
}

// MinStart returns the smallest start among the non-empty intervals.
func MinStart(set []Interval) (int128.Int, error) {
	var (
		lowest int128.Int
		found  bool
	)
	for _, iv := range set {
		if iv.Empty() {
			continue
		}
		if !found || iv.Start.Less(lowest) {
			lowest = iv.Start
			found = true
		}
	}
	if !found {
		return int128.Int{}, ErrEmptySet
	}
	return lowest, nil
}

// Sort orders set in place by start, then end.
func Sort(set []Interval) {
	slices.SortFunc(set, compare)
}

// Normalize returns a sorted copy of set with empty intervals removed and
// overlapping or touching intervals merged. Two sets cover the same points
// exactly when their normalized forms are equal.
func Normalize(set []Interval) []Interval {
	sorted := make([]Interval, 0, len(set))
	for _, iv := range set {
		if !iv.Empty() {
			sorted = append(sorted, iv)
		}
	}
	Sort(sorted)

	out := make([]Interval, 0, len(sorted))
	for _, iv := range sorted {
		if n := len(out); n > 0 && !out[n-1].End.Less(iv.Start) {
			out[n-1].End = int128.MaxOf(out[n-1].End, iv.End)
			continue
		}
		out = append(out, iv)
	}
	return out
}

func compare(a, b Interval) int {
	if c := a.Start.Cmp(b.Start); c != 0 {
		return c
	}
	return a.End.Cmp(b.End)
}

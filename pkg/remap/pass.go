package remap

import (
	"context"

	"github.com/praetorian-inc/almanac/pkg/interval"
	"golang.org/x/sync/errgroup"
)

// pending is an interval waiting to be classified, together with the index
// of the first mapping it has not been compared against yet.
type pending struct {
	iv   interval.Interval
	next int
}

// Pass maps every interval in set through table and returns the resulting
// set. The input is not modified.
//
// Each interval is compared against the mappings in table order. The part
// inside the first overlapping source is translated into destination
// coordinates; the parts outside it are queued again and compared against
// the mappings after that one only, since every earlier mapping was already
// disjoint from the whole interval. Anything no mapping claims passes
// through unchanged. The output has the same measure as the input, and an
// empty table returns the input intervals in their original order.
func Pass(set []interval.Interval, table Table) []interval.Interval {
	out := make([]interval.Interval, 0, len(set))
	queue := make([]pending, 0, len(set))
	for _, iv := range set {
		queue = append(queue, pending{iv: iv})
	}

	for head := 0; head < len(queue); head++ {
		p := queue[head]
		mapped := false

		for k := p.next; k < len(table.Mappings); k++ {
			m := table.Mappings[k]
			matched, ok, leftovers := interval.Split(p.iv, m.Source)
			if !ok {
				continue
			}

			out = append(out, matched.Shift(m.Offset()))
			for _, rest := range leftovers {
				queue = append(queue, pending{iv: rest, next: k + 1})
			}
			mapped = true
			break
		}

		if !mapped {
			out = append(out, p.iv)
		}
	}

	return out
}

// PassParallel maps set like Pass, splitting it into contiguous chunks that
// are mapped concurrently. Results are concatenated in chunk order; the
// output holds the same intervals as Pass(set, table), though leftovers may
// appear in a different order.
func PassParallel(ctx context.Context, set []interval.Interval, table Table, workers int) ([]interval.Interval, error) {
	if workers < 2 || len(set) < 2 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Pass(set, table), nil
	}
	if workers > len(set) {
		workers = len(set)
	}

	chunkSize := (len(set) + workers - 1) / workers
	results := make([][]interval.Interval, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunkSize
		if lo >= len(set) {
			break
		}
		hi := min(lo+chunkSize, len(set))

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[w] = Pass(set[lo:hi], table)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]interval.Interval, 0, len(set))
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

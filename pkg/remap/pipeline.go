package remap

import (
	"context"
	"errors"
	"fmt"

	"github.com/praetorian-inc/almanac/pkg/int128"
	"github.com/praetorian-inc/almanac/pkg/interval"
)

// ErrNoPoints is returned by LowestPoint when given no points.
var ErrNoPoints = errors.New("no points to locate")

// Pipeline is an ordered sequence of stages. The output of each stage is
// the input of the next.
type Pipeline struct {
	Stages []Table `json:"stages"`
}

// StageResult records the interval set produced by one stage.
type StageResult struct {
	Name      string              `json:"name"`
	Intervals []interval.Interval `json:"intervals"`
	Measure   int128.Int          `json:"measure"`
}

// Run applies every stage to set in order.
func (p Pipeline) Run(set []interval.Interval) []interval.Interval {
	for _, stage := range p.Stages {
		set = Pass(set, stage)
	}
	return set
}

// RunParallel is Run using PassParallel for every stage.
func (p Pipeline) RunParallel(ctx context.Context, set []interval.Interval, workers int) ([]interval.Interval, error) {
	for _, stage := range p.Stages {
		var err error
		set, err = PassParallel(ctx, set, stage, workers)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Name, err)
		}
	}
	return set, nil
}

// RunTrace is Run, additionally returning the set after each stage.
func (p Pipeline) RunTrace(set []interval.Interval) []StageResult {
	results := make([]StageResult, 0, len(p.Stages))
	for _, stage := range p.Stages {
		set = Pass(set, stage)
		results = append(results, StageResult{
			Name:      stage.Name,
			Intervals: set,
			Measure:   interval.Measure(set),
		})
	}
	return results
}

// Locate maps a single point through every stage.
func (p Pipeline) Locate(x int128.Int) int128.Int {
	for _, stage := range p.Stages {
		x = stage.Lookup(x)
	}
	return x
}

// LowestPoint locates every point and returns the smallest result.
func (p Pipeline) LowestPoint(points []int128.Int) (int128.Int, error) {
	if len(points) == 0 {
		return int128.Int{}, ErrNoPoints
	}
	lowest := p.Locate(points[0])
	for _, x := range points[1:] {
		lowest = int128.MinOf(lowest, p.Locate(x))
	}
	return lowest, nil
}

// Lowest returns the smallest start in the final set.
func Lowest(set []interval.Interval) (int128.Int, error) {
	return interval.MinStart(set)
}

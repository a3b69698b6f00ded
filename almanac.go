// Package almanac solves the seed almanac puzzle: seed values or seed
// ranges are pushed through an ordered chain of piecewise-linear mapping
// stages, and the lowest resulting value is reported.
//
// # Basic Usage
//
// Solve an input with the default options:
//
//	s := almanac.NewSolver()
//
//	lowest, err := s.SolveString(input)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(lowest)
//
// # Working With Intervals
//
// The interval remapper can be used directly, without the text format:
//
//	table := almanac.Table{Mappings: []almanac.Mapping{m}}
//	out := almanac.Remap([]almanac.Interval{almanac.NewInterval(10, 20)}, table)
package almanac

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/praetorian-inc/almanac/pkg/int128"
	"github.com/praetorian-inc/almanac/pkg/interval"
	"github.com/praetorian-inc/almanac/pkg/loader"
	"github.com/praetorian-inc/almanac/pkg/remap"
	"github.com/praetorian-inc/almanac/pkg/solver"
	"github.com/praetorian-inc/almanac/pkg/store"
	"github.com/praetorian-inc/almanac/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/praetorian-inc/almanac" without subpackages.
type (
	// Int is the signed 128-bit integer used for all coordinates.
	Int = int128.Int

	// Interval is a half-open range [Start, End).
	Interval = interval.Interval

	// Mapping shifts values in its source range onto its destination range.
	Mapping = remap.Mapping

	// Table is one ordered stage of mappings.
	Table = remap.Table

	// Pipeline is an ordered chain of stages.
	Pipeline = remap.Pipeline

	// Almanac is a parsed puzzle input.
	Almanac = types.Almanac

	// Part selects point (1) or range (2) interpretation of the seeds.
	Part = types.Part

	// Result holds the answers for one input.
	Result = solver.Result
)

// Re-export part constants.
const (
	PartOne = types.PartOne
	PartTwo = types.PartTwo
)

// Solver solves almanac inputs.
type Solver struct {
	core   *solver.Core
	config *solverConfig
}

// solverConfig holds solver configuration.
type solverConfig struct {
	workers int
	store   store.Store
	logger  *zap.Logger
}

// Option configures a Solver.
type Option func(*solverConfig)

// WithWorkers sets the parallelism of the range pass.
// Default is 1 (sequential).
func WithWorkers(workers int) Option {
	return func(c *solverConfig) {
		c.workers = workers
	}
}

// WithStore records every run in s and answers repeated inputs from it.
// The caller owns s and closes it.
func WithStore(s store.Store) Option {
	return func(c *solverConfig) {
		c.store = s
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(c *solverConfig) {
		c.logger = l
	}
}

// NewSolver creates a Solver with the given options.
//
// By default, the solver:
//   - Runs the range pass sequentially
//   - Does not record runs
//   - Does not log
func NewSolver(opts ...Option) *Solver {
	config := &solverConfig{workers: 1}
	for _, opt := range opts {
		opt(config)
	}

	return &Solver{
		core: solver.NewCore(solver.Options{
			Logger:  config.logger,
			Store:   config.store,
			Workers: config.workers,
		}),
		config: config,
	}
}

// SolveString solves part 2 of an input and returns the lowest location.
func (s *Solver) SolveString(content string) (Int, error) {
	return s.SolvePart(context.Background(), []byte(content), PartTwo)
}

// SolvePart solves one part of an input.
func (s *Solver) SolvePart(ctx context.Context, content []byte, part Part) (Int, error) {
	result, err := s.core.Solve(ctx, content, "", part)
	if err != nil {
		return Int{}, err
	}
	answer, _ := result.Answer(part)
	return answer, nil
}

// Solve solves the given parts of an input (part 2 when none are given).
func (s *Solver) Solve(ctx context.Context, content []byte, parts ...Part) (*Result, error) {
	return s.core.Solve(ctx, content, "", parts...)
}

// SolveFile reads and solves a file.
func (s *Solver) SolveFile(ctx context.Context, path string, parts ...Part) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return s.core.Solve(ctx, content, path, parts...)
}

// Workers returns the configured range pass parallelism.
func (s *Solver) Workers() int {
	return s.config.workers
}

// Parse parses an almanac in the text or YAML format.
func Parse(content []byte) (*Almanac, error) {
	return loader.NewLoader().Parse(content)
}

// NewInterval returns [start, end). It panics if end < start.
func NewInterval(start, end int64) Interval {
	return interval.Of(start, end)
}

// NewMapping builds a mapping from the input triple "dest source length".
func NewMapping(dest, source, length int64) (Mapping, error) {
	return remap.NewMapping(int128.FromInt64(dest), int128.FromInt64(source), int128.FromInt64(length))
}

// Remap pushes an interval set through one table.
func Remap(set []Interval, table Table) []Interval {
	return remap.Pass(set, table)
}

// Lowest returns the smallest start of the non-empty intervals in set.
func Lowest(set []Interval) (Int, error) {
	return remap.Lowest(set)
}

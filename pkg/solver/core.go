// Package solver loads almanac inputs, solves them and records the runs.
// It is the single entry point shared by the CLI, the NDJSON server and
// the library facade.
package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/praetorian-inc/almanac/pkg/int128"
	"github.com/praetorian-inc/almanac/pkg/interval"
	"github.com/praetorian-inc/almanac/pkg/loader"
	"github.com/praetorian-inc/almanac/pkg/remap"
	"github.com/praetorian-inc/almanac/pkg/store"
	"github.com/praetorian-inc/almanac/pkg/types"
)

// InputSink receives the raw content of every solved input.
type InputSink interface {
	Put(id types.InputID, content []byte) error
}

// Options configures a Core.
type Options struct {
	// Logger receives debug and progress logs. Defaults to a no-op logger.
	Logger *zap.Logger
	// Store records runs and answers repeated inputs from history.
	// Nil disables persistence.
	Store store.Store
	// Inputs, when set, keeps a copy of every solved input.
	Inputs InputSink
	// Workers bounds the parallelism of the part 2 pass and of batches.
	// Values below 2 run sequentially.
	Workers int
}

// Core wraps the loader and store for solve operations.
type Core struct {
	loader  *loader.Loader
	store   store.Store
	inputs  InputSink
	logger  *zap.Logger
	workers int
}

// NewCore creates a Core.
func NewCore(opts Options) *Core {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Core{
		loader:  loader.NewLoader(),
		store:   opts.Store,
		inputs:  opts.Inputs,
		logger:  logger,
		workers: workers,
	}
}

// Solve parses content and solves the requested parts (part 2 when none
// are given). The whole input is rejected on a parse error.
func (c *Core) Solve(ctx context.Context, content []byte, source string, parts ...types.Part) (*Result, error) {
	if len(parts) == 0 {
		parts = []types.Part{types.PartTwo}
	}
	for _, p := range parts {
		if !p.Valid() {
			return nil, fmt.Errorf("invalid part %d", int(p))
		}
	}

	a, err := c.loader.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}

	id := types.ComputeInputID(content)
	if err := c.recordInput(id, content); err != nil {
		return nil, err
	}

	c.logger.Debug("loaded almanac",
		zap.String("source", source),
		zap.String("input_id", id.Short()),
		zap.Int("seeds", len(a.Seeds)),
		zap.Int("stages", len(a.Stages)),
		zap.Int("mappings", a.MappingCount()),
	)

	result := &Result{
		Source:  source,
		InputID: id,
		Stages:  len(a.Stages),
	}
	for _, part := range parts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		answer, err := c.solvePart(ctx, a, id, source, part)
		if err != nil {
			return nil, fmt.Errorf("solving %s part %s: %w", source, part, err)
		}
		result.Answers = append(result.Answers, *answer)
	}
	return result, nil
}

func (c *Core) recordInput(id types.InputID, content []byte) error {
	if c.store != nil {
		if err := c.store.AddInput(id, int64(len(content))); err != nil {
			return fmt.Errorf("recording input: %w", err)
		}
	}
	if c.inputs != nil {
		if err := c.inputs.Put(id, content); err != nil {
			return fmt.Errorf("storing input: %w", err)
		}
	}
	return nil
}

func (c *Core) solvePart(ctx context.Context, a *types.Almanac, id types.InputID, source string, part types.Part) (*PartAnswer, error) {
	if c.store != nil {
		run, err := c.store.GetRun(id, part)
		switch {
		case err == nil:
			c.logger.Debug("answer from history",
				zap.String("source", source),
				zap.Stringer("part", part),
				zap.String("run_id", run.ID),
			)
			return &PartAnswer{
				Part:      part,
				Answer:    run.Answer,
				Intervals: run.Intervals,
				Measure:   run.Measure,
				RunID:     run.ID,
				Cached:    true,
			}, nil
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("reading history: %w", err)
		}
	}

	start := time.Now()
	answer := &PartAnswer{Part: part}

	p := a.Pipeline()
	switch part {
	case types.PartOne:
		lowest, err := p.LowestPoint(a.SeedPoints())
		if err != nil {
			return nil, err
		}
		answer.Answer = lowest
		answer.Intervals = len(a.Seeds)
		answer.Measure = int128.FromInt64(int64(len(a.Seeds)))

	case types.PartTwo:
		ranges, err := a.SeedRanges()
		if err != nil {
			return nil, err
		}
		final, err := c.run(ctx, p, ranges)
		if err != nil {
			return nil, err
		}
		lowest, err := remap.Lowest(final)
		if err != nil {
			return nil, err
		}
		answer.Answer = lowest
		answer.Intervals = len(final)
		answer.Measure = interval.Measure(final)
	}
	elapsed := time.Since(start)

	c.logger.Debug("solved",
		zap.String("source", source),
		zap.Stringer("part", part),
		zap.Stringer("answer", answer.Answer),
		zap.Int("intervals", answer.Intervals),
		zap.Duration("elapsed", elapsed),
	)

	if c.store != nil {
		run := types.NewRun(id, source, part)
		run.Answer = answer.Answer
		run.Stages = len(a.Stages)
		run.Intervals = answer.Intervals
		run.Measure = answer.Measure
		run.Duration = elapsed
		if err := c.store.AddRun(run); err != nil {
			return nil, fmt.Errorf("recording run: %w", err)
		}
		answer.RunID = run.ID
	}
	return answer, nil
}

func (c *Core) run(ctx context.Context, p remap.Pipeline, set []interval.Interval) ([]interval.Interval, error) {
	if c.workers > 1 {
		return p.RunParallel(ctx, set, c.workers)
	}
	return p.Run(set), nil
}

// Remap parses content and returns the part 2 seed ranges after every
// stage.
func (c *Core) Remap(ctx context.Context, content []byte, source string) (*Trace, error) {
	a, err := c.loader.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seeds, err := a.SeedRanges()
	if err != nil {
		return nil, fmt.Errorf("solving %s: %w", source, err)
	}

	stages := a.Pipeline().RunTrace(seeds)
	final := seeds
	if len(stages) > 0 {
		final = stages[len(stages)-1].Intervals
	}
	lowest, err := remap.Lowest(final)
	if err != nil {
		return nil, fmt.Errorf("solving %s: %w", source, err)
	}

	return &Trace{
		Source: source,
		Seeds:  seeds,
		Stages: stages,
		Lowest: lowest,
	}, nil
}

// SolveBatch solves several inputs. A failing item is reported in its
// ItemResult and does not fail the batch; only cancellation does.
// Results are in item order.
func (c *Core) SolveBatch(ctx context.Context, items []Item, parts ...types.Part) (*BatchResult, error) {
	results := make([]ItemResult, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i].Source = item.Source
			res, err := c.Solve(gctx, []byte(item.Content), item.Source, parts...)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				results[i].Error = err.Error()
				return nil
			}
			results[i].Result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &BatchResult{Results: results}
	for _, r := range results {
		if r.Error != "" {
			batch.Failed++
		}
	}
	c.logger.Debug("batch solved", zap.Int("items", len(items)), zap.Int("failed", batch.Failed))
	return batch, nil
}

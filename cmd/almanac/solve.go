package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/almanac/pkg/datastore"
	"github.com/praetorian-inc/almanac/pkg/enum"
	"github.com/praetorian-inc/almanac/pkg/loader"
	"github.com/praetorian-inc/almanac/pkg/solver"
	"github.com/praetorian-inc/almanac/pkg/types"
)

var (
	solvePart          string
	solveFormat        string
	solveDatastore     string
	solveWorkers       int
	solveStoreInputs   bool
	solveExample       bool
	solveIncludeHidden bool
	solveMaxFileSize   int64
)

var solveCmd = &cobra.Command{
	Use:   "solve <input|dir|->",
	Short: "Find the lowest location for an almanac",
	Long: `Solve an almanac file, every almanac under a directory, or stdin ("-").

With --part 2 (the default) and --format human on a single input, stdout
carries only the lowest location.

Every run is recorded in the --datastore directory, which defaults to
almanac.ds in the current working directory and is created on first use.
Pass --datastore :memory: to solve without writing anything to disk.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&solvePart, "part", "2", "Part to solve: 1, 2 or both")
	solveCmd.Flags().StringVar(&solveFormat, "format", "human", "Output format: human, json")
	solveCmd.Flags().StringVar(&solveDatastore, "datastore", "almanac.ds", "Datastore directory, :memory: or postgres:// URL")
	solveCmd.Flags().IntVar(&solveWorkers, "workers", defaultWorkers(), "Parallel workers for range passes and directories")
	solveCmd.Flags().BoolVar(&solveStoreInputs, "store-inputs", false, "Keep a copy of every solved input in the datastore")
	solveCmd.Flags().BoolVar(&solveExample, "example", false, "Solve the built-in example instead of an input")
	solveCmd.Flags().BoolVar(&solveIncludeHidden, "include-hidden", false, "Include hidden files and directories")
	solveCmd.Flags().Int64Var(&solveMaxFileSize, "max-file-size", 10*1024*1024, "Maximum input file size (bytes)")
}

func runSolve(cmd *cobra.Command, args []string) error {
	parts, err := types.ParseParts(solvePart)
	if err != nil {
		return err
	}
	if solveFormat != "human" && solveFormat != "json" {
		return fmt.Errorf("unknown output format: %s", solveFormat)
	}

	ctx := commandContext(cmd)

	items, batch, err := collectInputs(ctx, cmd, args)
	if err != nil {
		return err
	}

	ds, err := datastore.Open(solveDatastore, datastore.Options{StoreInputs: solveStoreInputs})
	if err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer ds.Close()

	opts := solver.Options{
		Logger:  logger,
		Store:   ds.Store,
		Workers: solveWorkers,
	}
	if ds.Inputs != nil {
		opts.Inputs = ds.Inputs
	}
	core := solver.NewCore(opts)

	if !batch {
		result, err := core.Solve(ctx, []byte(items[0].Content), items[0].Source, parts...)
		if err != nil {
			return err
		}
		return outputResult(cmd.OutOrStdout(), result, parts)
	}

	results, err := core.SolveBatch(ctx, items, parts...)
	if err != nil {
		return fmt.Errorf("solving: %w", err)
	}
	if err := outputBatch(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	for _, r := range results.Results {
		if r.Error != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", r.Source, r.Error)
		}
	}
	if results.Failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", results.Failed, len(results.Results))
	}
	return nil
}

// collectInputs resolves the command arguments into solver items. batch is
// true when the target was a directory.
func collectInputs(ctx context.Context, cmd *cobra.Command, args []string) (items []solver.Item, batch bool, err error) {
	if solveExample {
		if len(args) > 0 {
			return nil, false, fmt.Errorf("--example takes no input argument")
		}
		content, err := loader.NewLoader().ExampleContent(loader.DefaultExample)
		if err != nil {
			return nil, false, fmt.Errorf("loading example: %w", err)
		}
		return []solver.Item{{Source: "example", Content: string(content)}}, false, nil
	}
	if len(args) == 0 {
		return nil, false, fmt.Errorf("requires an input path, \"-\" for stdin, or --example")
	}

	target := args[0]
	if target == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, false, fmt.Errorf("reading stdin: %w", err)
		}
		return []solver.Item{{Source: "stdin", Content: string(content)}}, false, nil
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, false, fmt.Errorf("target does not exist: %s", target)
	}
	if !info.IsDir() {
		content, err := os.ReadFile(target)
		if err != nil {
			return nil, false, fmt.Errorf("reading input: %w", err)
		}
		return []solver.Item{{Source: target, Content: string(content)}}, false, nil
	}

	var mu sync.Mutex
	enumerator := enum.NewFilesystemEnumerator(enum.Config{
		Root:          target,
		IncludeHidden: solveIncludeHidden,
		MaxFileSize:   solveMaxFileSize,
		Readers:       solveWorkers,
	})
	err = enumerator.Enumerate(ctx, func(content []byte, _ types.InputID, path string) error {
		mu.Lock()
		defer mu.Unlock()
		items = append(items, solver.Item{Source: path, Content: string(content)})
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("enumerating %s: %w", target, err)
	}
	if len(items) == 0 {
		return nil, false, fmt.Errorf("no almanac inputs found in %s", target)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Source < items[j].Source })
	return items, true, nil
}

func outputResult(w io.Writer, result *solver.Result, parts []types.Part) error {
	if solveFormat == "json" {
		return writeJSON(w, result)
	}
	if len(parts) == 1 && parts[0] == types.PartTwo {
		answer, _ := result.Answer(types.PartTwo)
		_, err := fmt.Fprintln(w, answer)
		return err
	}
	for _, a := range result.Answers {
		if _, err := fmt.Fprintf(w, "part %s: %s\n", a.Part, a.Answer); err != nil {
			return err
		}
	}
	return nil
}

func outputBatch(w io.Writer, batch *solver.BatchResult) error {
	if solveFormat == "json" {
		return writeJSON(w, batch)
	}
	for _, r := range batch.Results {
		if r.Result == nil {
			continue
		}
		for _, a := range r.Result.Answers {
			if _, err := fmt.Fprintf(w, "%s part %s: %s\n", r.Source, a.Part, a.Answer); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

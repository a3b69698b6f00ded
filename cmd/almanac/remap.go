package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/almanac/pkg/int128"
	"github.com/praetorian-inc/almanac/pkg/interval"
	"github.com/praetorian-inc/almanac/pkg/loader"
	"github.com/praetorian-inc/almanac/pkg/solver"
)

var (
	remapFormat  string
	remapColor   string
	remapExample bool
)

var remapCmd = &cobra.Command{
	Use:   "remap <input>",
	Short: "Show the seed ranges after every stage",
	Long:  "Trace the part 2 seed ranges of an almanac through each mapping stage",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRemap,
}

func init() {
	remapCmd.Flags().StringVar(&remapFormat, "format", "human", "Output format: human, json")
	remapCmd.Flags().StringVar(&remapColor, "color", "auto", "Color output: auto, always, never")
	remapCmd.Flags().BoolVar(&remapExample, "example", false, "Trace the built-in example")
}

func runRemap(cmd *cobra.Command, args []string) error {
	var content []byte
	var source string
	switch {
	case remapExample:
		data, err := loader.NewLoader().ExampleContent(loader.DefaultExample)
		if err != nil {
			return fmt.Errorf("loading example: %w", err)
		}
		content, source = data, "example"
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		content, source = data, args[0]
	default:
		return fmt.Errorf("requires an input path or --example")
	}

	core := solver.NewCore(solver.Options{Logger: logger})
	trace, err := core.Remap(commandContext(cmd), content, source)
	if err != nil {
		return err
	}

	switch remapFormat {
	case "json":
		return writeJSON(cmd.OutOrStdout(), trace)
	case "human":
		enabled, err := colorEnabled(remapColor)
		if err != nil {
			return err
		}
		return outputTraceHuman(cmd.OutOrStdout(), trace, newStyles(enabled))
	default:
		return fmt.Errorf("unknown output format: %s", remapFormat)
	}
}

func outputTraceHuman(out io.Writer, trace *solver.Trace, s *styles) error {
	writeStage(out, s, "seeds", trace.Seeds, interval.Measure(trace.Seeds))
	for _, st := range trace.Stages {
		writeStage(out, s, st.Name, st.Intervals, st.Measure)
	}
	_, err := fmt.Fprintf(out, "%s %s\n", s.heading.Sprint("Lowest:"), s.answer.Sprint(trace.Lowest))
	return err
}

func writeStage(out io.Writer, s *styles, name string, set []interval.Interval, measure int128.Int) {
	fmt.Fprintf(out, "%s %s\n",
		s.heading.Sprint(name),
		s.metadata.Sprintf("(%d intervals, measure %s)", len(set), measure))

	ivs := make([]string, len(set))
	for i, iv := range set {
		ivs[i] = s.interval.Sprint(iv)
	}
	fmt.Fprintf(out, "    %s\n", strings.Join(ivs, " "))
}

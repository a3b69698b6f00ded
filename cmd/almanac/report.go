package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/almanac/pkg/datastore"
	"github.com/praetorian-inc/almanac/pkg/store"
	"github.com/praetorian-inc/almanac/pkg/types"
)

var (
	reportDatastore string
	reportFormat    string
	reportColor     string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List stored runs",
	Long:  "Read solved runs from a datastore and output a report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDatastore, "datastore", "almanac.ds", "Path to datastore directory, database file or postgres:// URL")
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json")
	reportCmd.Flags().StringVar(&reportColor, "color", "auto", "Color output: auto, always, never")
}

func runReport(cmd *cobra.Command, args []string) error {
	storePath, err := resolveStorePath(reportDatastore)
	if err != nil {
		return err
	}

	s, err := store.New(store.Config{Path: storePath})
	if err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer s.Close()

	runs, err := s.GetRuns()
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	switch reportFormat {
	case "json":
		if runs == nil {
			runs = []*types.Run{}
		}
		return writeJSON(cmd.OutOrStdout(), runs)
	case "human":
		enabled, err := colorEnabled(reportColor)
		if err != nil {
			return err
		}
		return outputReportHuman(cmd.OutOrStdout(), runs, storePath, newStyles(enabled))
	default:
		return fmt.Errorf("unknown output format: %s", reportFormat)
	}
}

// resolveStorePath maps a --datastore value to a store.Config path. A
// datastore directory resolves to the database inside it.
func resolveStorePath(path string) (string, error) {
	if path == store.MemoryPath {
		return "", fmt.Errorf("cannot report from in-memory store")
	}
	if store.IsPostgresDSN(path) {
		return path, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("datastore not found: %s", path)
	}
	if info.IsDir() {
		return filepath.Join(path, datastore.DBName), nil
	}
	return path, nil
}

func outputReportHuman(out io.Writer, runs []*types.Run, storePath string, s *styles) error {
	fmt.Fprintf(out, "%s %s\n", s.heading.Sprint("Datastore:"), s.metadata.Sprint(storePath))
	fmt.Fprintf(out, "%s %d\n\n", s.heading.Sprint("Total runs:"), len(runs))

	for i, r := range runs {
		fmt.Fprintf(out, "%s (%s %s)\n",
			s.heading.Sprintf("Run %d/%d", i+1, len(runs)),
			s.heading.Sprint("id"),
			s.id.Sprint(r.ID))
		fmt.Fprintf(out, "    %s %s\n", s.heading.Sprint("Source:"), s.metadata.Sprint(r.Source))
		fmt.Fprintf(out, "    %s %s\n", s.heading.Sprint("Input:"), s.metadata.Sprint(r.InputID.Short()))
		fmt.Fprintf(out, "    %s %s\n",
			s.heading.Sprintf("Part %s:", r.Part),
			s.answer.Sprint(r.Answer))
		fmt.Fprintf(out, "    %s %d stages, %d intervals, measure %s, %s\n\n",
			s.heading.Sprint("Stats:"),
			r.Stages, r.Intervals, r.Measure, r.Duration)
	}
	return nil
}

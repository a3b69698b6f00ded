package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/almanac/pkg/datastore"
	"github.com/praetorian-inc/almanac/pkg/store"
	"github.com/praetorian-inc/almanac/pkg/types"
)

// newReportCmd creates a fresh report command for testing
func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "report",
		RunE: runReport,
	}
	cmd.Flags().StringVar(&reportDatastore, "datastore", "almanac.ds", "")
	cmd.Flags().StringVar(&reportFormat, "format", "human", "")
	cmd.Flags().StringVar(&reportColor, "color", "never", "")
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd
}

// solvedDatastore returns a datastore directory holding both runs of the
// built-in example.
func solvedDatastore(t *testing.T) string {
	t.Helper()
	dsPath := filepath.Join(t.TempDir(), "runs.ds")
	_, _, err := executeSolve(t, "", "--example", "--part", "both", "--datastore", dsPath)
	require.NoError(t, err)
	return dsPath
}

func TestReportCommand_HumanFormat(t *testing.T) {
	// Setup: Create a datastore with runs
	dsPath := solvedDatastore(t)

	// Execute: Run report command
	var stdout bytes.Buffer
	cmd := newReportCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--datastore", dsPath})
	require.NoError(t, cmd.Execute())

	// Verify: Check output contains summary
	output := stdout.String()
	assert.Contains(t, output, "Datastore: "+filepath.Join(dsPath, datastore.DBName))
	assert.Contains(t, output, "Total runs: 2")
	assert.Contains(t, output, "Run 1/2")
	assert.Contains(t, output, "Source: example")
	assert.Contains(t, output, "Part 1: 35")
	assert.Contains(t, output, "Part 2: 46")
	assert.Contains(t, output, "7 stages")
}

func TestReportCommand_JSONFormat(t *testing.T) {
	dsPath := solvedDatastore(t)

	var stdout bytes.Buffer
	cmd := newReportCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--datastore", filepath.Join(dsPath, datastore.DBName), "--format", "json"})
	require.NoError(t, cmd.Execute())

	var runs []*types.Run
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &runs))
	require.Len(t, runs, 2)
	answers := map[types.Part]string{}
	for _, r := range runs {
		answers[r.Part] = r.Answer.String()
	}
	assert.Equal(t, map[types.Part]string{types.PartOne: "35", types.PartTwo: "46"}, answers)
}

func TestReportCommand_EmptyJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	s, err := store.NewSQLite(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	var stdout bytes.Buffer
	cmd := newReportCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--datastore", dbPath, "--format", "json"})
	require.NoError(t, cmd.Execute())

	assert.JSONEq(t, "[]", stdout.String())
}

func TestReportCommand_Errors(t *testing.T) {
	dsPath := solvedDatastore(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "memory", args: []string{"--datastore", store.MemoryPath}, wantErr: "in-memory"},
		{name: "missing", args: []string{"--datastore", filepath.Join(t.TempDir(), "nope.ds")}, wantErr: "datastore not found"},
		{name: "bad format", args: []string{"--datastore", dsPath, "--format", "sarif"}, wantErr: "unknown output format"},
		{name: "bad color", args: []string{"--datastore", dsPath, "--color", "rainbow"}, wantErr: "invalid color mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newReportCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetArgs(tt.args)
			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

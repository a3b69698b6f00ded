package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/almanac/pkg/solver"
)

// newRemapCmd creates a fresh remap command for testing
func newRemapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "remap",
		Args: cobra.MaximumNArgs(1),
		RunE: runRemap,
	}
	cmd.Flags().StringVar(&remapFormat, "format", "human", "")
	cmd.Flags().StringVar(&remapColor, "color", "never", "")
	cmd.Flags().BoolVar(&remapExample, "example", false, "")
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd
}

func TestRemap_HumanFormat(t *testing.T) {
	var stdout bytes.Buffer
	cmd := newRemapCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--example"})

	require.NoError(t, cmd.Execute())

	output := stdout.String()
	assert.Contains(t, output, "seeds (2 intervals, measure 27)")
	assert.Contains(t, output, "[79, 93) [55, 68)")
	assert.Contains(t, output, "seed-to-soil")
	assert.Contains(t, output, "humidity-to-location")
	assert.Contains(t, output, "Lowest: 46")
	assert.NotContains(t, output, "\x1b[")
}

func TestRemap_ColorAlways(t *testing.T) {
	var stdout bytes.Buffer
	cmd := newRemapCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--example", "--color", "always"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, stdout.String(), "\x1b[")
}

func TestRemap_JSONFormat(t *testing.T) {
	var stdout bytes.Buffer
	cmd := newRemapCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--example", "--format", "json"})

	require.NoError(t, cmd.Execute())

	var trace solver.Trace
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &trace))
	assert.Equal(t, "example", trace.Source)
	assert.Len(t, trace.Stages, 7)
	assert.Equal(t, "46", trace.Lowest.String())
	for _, st := range trace.Stages {
		assert.Equal(t, "27", st.Measure.String(), st.Name)
	}
}

func TestRemap_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no input", args: nil, wantErr: "requires an input path"},
		{name: "missing file", args: []string{filepath.Join(t.TempDir(), "missing.txt")}, wantErr: "reading input"},
		{name: "bad color", args: []string{"--example", "--color", "sometimes"}, wantErr: "invalid color mode"},
		{name: "bad format", args: []string{"--example", "--format", "xml"}, wantErr: "unknown output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRemapCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetArgs(tt.args)
			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

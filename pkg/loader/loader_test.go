package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/praetorian-inc/almanac/pkg/int128"
	"github.com/praetorian-inc/almanac/pkg/remap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseText_Example(t *testing.T) {
	a, err := NewLoader().LoadExample(DefaultExample)
	require.NoError(t, err)

	require.Len(t, a.Seeds, 4)
	assert.Equal(t, "79", a.Seeds[0].String())
	assert.Equal(t, "13", a.Seeds[3].String())

	require.Len(t, a.Stages, 7)
	assert.Equal(t, "seed-to-soil", a.Stages[0].Name)
	assert.Equal(t, "humidity-to-location", a.Stages[6].Name)
	assert.Equal(t, 18, a.MappingCount())

	// 50 98 2 maps [98, 100) to [50, 52)
	first := a.Stages[0].Mappings[0]
	assert.Equal(t, "98", first.Source.Start.String())
	assert.Equal(t, "100", first.Source.End.String())
	assert.Equal(t, "50", first.Dest.Start.String())
}

func TestParseYAML_MatchesText(t *testing.T) {
	l := NewLoader()

	fromText, err := l.LoadExample("example.txt")
	require.NoError(t, err)
	fromYAML, err := l.LoadExample("example.yaml")
	require.NoError(t, err)

	assert.Equal(t, fromText, fromYAML)
}

func TestParseText_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "empty",
			input:    "\n\n",
			wantLine: 0,
			wantMsg:  "missing seeds header",
		},
		{
			name:     "wrong header label",
			input:    "soil: 1 2\n",
			wantLine: 1,
			wantMsg:  "expected seeds header",
		},
		{
			name:     "header without numbers",
			input:    "seeds:\n",
			wantLine: 1,
			wantMsg:  "no numbers",
		},
		{
			name:     "bad seed",
			input:    "seeds: 1 x\n",
			wantLine: 1,
			wantMsg:  `invalid number "x"`,
		},
		{
			name:     "mapping without label",
			input:    "seeds: 1\n\n1 2 3\n",
			wantLine: 3,
			wantMsg:  "mapping outside a stage",
		},
		{
			name:     "label line inside a block without colon",
			input:    "seeds: 1\n\na map:\n1 2 3\nb map\n",
			wantLine: 5,
			wantMsg:  "expected 3 numbers",
		},
		{
			name:     "two numbers",
			input:    "seeds: 1\n\na map:\n1 2 3\n4 5\n",
			wantLine: 5,
			wantMsg:  "expected 3 numbers",
		},
		{
			name:     "negative length",
			input:    "seeds: 1\n\na map:\n1 2 -3\n",
			wantLine: 4,
			wantMsg:  "invalid mapping",
		},
		{
			name:     "number too large",
			input:    "seeds: 1\n\na map:\n1 2 170141183460469231731687303715884105727\n",
			wantLine: 4,
			wantMsg:  "out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseText([]byte(tt.input))
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "expected *ParseError, got %T", err)
			assert.Equal(t, tt.wantLine, pe.Line)
			assert.Contains(t, pe.Msg, tt.wantMsg)
		})
	}
}

func TestParseText_Lenient(t *testing.T) {
	// Arrange: CRLF line endings, no "seeds:" prefix, extra blank lines,
	// a label without the " map" suffix and an empty stage.
	input := "1 2\r\n\r\n\r\nfirst:\r\n10 0 5\r\n\r\nempty map:\r\n"

	// Act
	a, err := ParseText([]byte(input))

	// Assert
	require.NoError(t, err)
	assert.Len(t, a.Seeds, 2)
	require.Len(t, a.Stages, 2)
	assert.Equal(t, "first", a.Stages[0].Name)
	assert.Len(t, a.Stages[0].Mappings, 1)
	assert.Equal(t, "empty", a.Stages[1].Name)
	assert.Empty(t, a.Stages[1].Mappings)
}

func TestParseText_LabelWithoutColon(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNames []string
		wantMaps  []int
	}{
		{
			name:      "map suffix",
			input:     "seeds: 79 14\n\nseed-to-soil map\n50 98 2\n52 50 48\n",
			wantNames: []string{"seed-to-soil"},
			wantMaps:  []int{2},
		},
		{
			name:      "bare word",
			input:     "seeds: 1\n\nfirst\n10 0 5\n\nsecond:\n0 10 5\n",
			wantNames: []string{"first", "second"},
			wantMaps:  []int{1, 1},
		},
		{
			name:      "directly after header",
			input:     "seeds: 1\nonly map\n10 0 5\n",
			wantNames: []string{"only"},
			wantMaps:  []int{1},
		},
		{
			name:      "colon label inside a block",
			input:     "seeds: 1\n\na map\n1 2 3\nb map:\n4 5 6\n",
			wantNames: []string{"a", "b"},
			wantMaps:  []int{1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseText([]byte(tt.input))

			require.NoError(t, err)
			require.Len(t, a.Stages, len(tt.wantNames))
			for i, stage := range a.Stages {
				assert.Equal(t, tt.wantNames[i], stage.Name)
				assert.Len(t, stage.Mappings, tt.wantMaps[i])
			}
		})
	}
}

func TestParseText_NegativeAndLargeValues(t *testing.T) {
	input := "seeds: -5 10 36893488147419103232 1\n\nshift map:\n-100 -10 20\n"

	a, err := ParseText([]byte(input))

	require.NoError(t, err)
	assert.Equal(t, "36893488147419103232", a.Seeds[2].String())
	p := a.Pipeline()
	assert.Equal(t, int128.FromInt64(-95), p.Locate(int128.FromInt64(-5)))
}

func TestParseYAML(t *testing.T) {
	input := `
seeds: [1, "36893488147419103232"]
stages:
  - mappings:
      - {dest: 100, source: 0, length: 10}
  - name: second
`
	a, err := ParseYAML([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, "36893488147419103232", a.Seeds[1].String())
	require.Len(t, a.Stages, 2)
	assert.Equal(t, "stage-1", a.Stages[0].Name)
	assert.Equal(t, "second", a.Stages[1].Name)

	want, err := remap.NewMapping(int128.FromInt64(100), int128.FromInt64(0), int128.FromInt64(10))
	require.NoError(t, err)
	assert.Equal(t, []remap.Mapping{want}, a.Stages[0].Mappings)
}

func TestParseYAML_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{
			name:  "no seeds",
			input: "stages: []\n",
		},
		{
			name:     "missing field",
			input:    "seeds: [1]\nstages:\n  - name: a\n    mappings:\n      - {dest: 1, source: 2}\n",
			wantLine: 5,
		},
		{
			name:     "not a number",
			input:    "seeds: [1, abc]\n",
			wantLine: 1,
		},
		{
			name:     "negative length",
			input:    "seeds: [1]\nstages:\n  - mappings:\n      - {dest: 1, source: 2, length: -1}\n",
			wantLine: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.input))
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "expected *ParseError, got %T: %v", err, err)
			assert.Equal(t, tt.wantLine, pe.Line)
		})
	}

	_, err := ParseYAML([]byte("seeds: [[["))
	assert.Error(t, err)
}

func TestIsYAML(t *testing.T) {
	assert.True(t, IsYAML([]byte("seeds: [1, 2]\n")))
	assert.True(t, IsYAML([]byte("# comment\nseeds:\n  - 1\n")))
	assert.True(t, IsYAML([]byte("stages:\n  - name: a\n")))
	assert.False(t, IsYAML([]byte("seeds: 1 2\n\na map:\n1 2 3\n")))
}

func TestLoader_Parse_Sniffs(t *testing.T) {
	l := NewLoader()

	txt, err := l.Parse([]byte("seeds: 7\n"))
	require.NoError(t, err)
	yml, err := l.Parse([]byte("seeds: [7]\n"))
	require.NoError(t, err)

	assert.Equal(t, txt, yml)
}

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader()

	txtPath := filepath.Join(dir, "input")
	require.NoError(t, os.WriteFile(txtPath, []byte("seeds: 3 4\n"), 0o644))
	yamlPath := filepath.Join(dir, "input.YML")
	require.NoError(t, os.WriteFile(yamlPath, []byte("seeds: [3, 4]\n"), 0o644))
	badPath := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(badPath, []byte("seeds: 1\n\n1 2 3\n"), 0o644))

	a, err := l.LoadFile(txtPath)
	require.NoError(t, err)
	b, err := l.LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = l.LoadFile(badPath)
	assert.ErrorContains(t, err, "bad.txt")
	assert.ErrorContains(t, err, "line 3")

	_, err = l.LoadFile(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_Examples(t *testing.T) {
	names, err := NewLoader().Examples()

	require.NoError(t, err)
	assert.Equal(t, []string{"example.txt", "example.yaml"}, names)
}

func TestLoader_CustomFS(t *testing.T) {
	fsys := fstest.MapFS{
		"examples/tiny.txt": {Data: []byte("seeds: 1 1\n\nx map:\n5 1 1\n")},
	}
	l := NewLoaderWithFS(fsys)

	names, err := l.Examples()
	require.NoError(t, err)
	assert.Equal(t, []string{"tiny.txt"}, names)

	a, err := l.LoadExample("tiny.txt")
	require.NoError(t, err)
	assert.Equal(t, int128.FromInt64(5), a.Pipeline().Locate(int128.FromInt64(1)))

	_, err = l.LoadExample("nope.txt")
	assert.Error(t, err)
}

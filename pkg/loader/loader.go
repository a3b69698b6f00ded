// Package loader parses almanac inputs from the puzzle text format and
// from an equivalent YAML format.
package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/praetorian-inc/almanac/pkg/types"
)

// ParseError reports malformed input. Line is 1-based; 0 means the error
// is not tied to a line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func parseErrorf(line int, format string, args ...interface{}) *ParseError {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Loader loads almanacs from files, raw bytes and the embedded examples.
type Loader struct {
	fs fs.FS // example almanacs
}

// NewLoader creates a loader with the built-in example almanacs.
func NewLoader() *Loader {
	return &Loader{
		fs: builtinExamplesFS,
	}
}

// NewLoaderWithFS creates a loader whose examples come from fsys. Examples
// are read from the "examples" directory of fsys.
func NewLoaderWithFS(fsys fs.FS) *Loader {
	return &Loader{
		fs: fsys,
	}
}

var yamlHeader = regexp.MustCompile(`(?m)^(stages:\s*$|seeds:\s*(\[|$))`)

// IsYAML reports whether data looks like the YAML almanac format rather
// than the puzzle text format.
func IsYAML(data []byte) bool {
	return yamlHeader.Match(data)
}

// Parse parses data in whichever format it is written in.
func (l *Loader) Parse(data []byte) (*types.Almanac, error) {
	if IsYAML(data) {
		return ParseYAML(data)
	}
	return ParseText(data)
}

// LoadFile loads an almanac from path. Files ending in .yaml or .yml are
// parsed as YAML, everything else as puzzle text.
func (l *Loader) LoadFile(path string) (*types.Almanac, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var a *types.Almanac
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		a, err = ParseYAML(data)
	default:
		a, err = ParseText(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return a, nil
}

// Examples lists the names of the built-in example almanacs.
func (l *Loader) Examples() ([]string, error) {
	entries, err := fs.ReadDir(l.fs, "examples")
	if err != nil {
		return nil, fmt.Errorf("reading examples: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ExampleContent returns the raw bytes of a built-in example.
func (l *Loader) ExampleContent(name string) ([]byte, error) {
	data, err := fs.ReadFile(l.fs, path.Join("examples", name))
	if err != nil {
		return nil, fmt.Errorf("failed to read example %s: %w", name, err)
	}
	return data, nil
}

// LoadExample parses a built-in example.
func (l *Loader) LoadExample(name string) (*types.Almanac, error) {
	data, err := l.ExampleContent(name)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return ParseYAML(data)
	}
	return ParseText(data)
}

package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// styles holds color formatters shared by report and remap output.
type styles struct {
	heading  *color.Color
	id       *color.Color
	answer   *color.Color
	interval *color.Color
	metadata *color.Color
}

// newStyles creates color formatters. The enabled setting overrides the
// global color.NoColor detection.
func newStyles(enabled bool) *styles {
	s := &styles{
		heading:  color.New(color.Bold),
		id:       color.New(color.FgHiGreen),
		answer:   color.New(color.Bold, color.FgYellow),
		interval: color.New(color.FgCyan),
		metadata: color.New(color.FgHiBlue),
	}

	for _, c := range []*color.Color{s.heading, s.id, s.answer, s.interval, s.metadata} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return s
}

// colorEnabled resolves a --color value: auto enables color only when
// stdout is a terminal and NO_COLOR is unset.
func colorEnabled(mode string) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		return term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("invalid color mode %q (expected auto, always or never)", mode)
	}
}

func defaultWorkers() int {
	return runtime.NumCPU()
}

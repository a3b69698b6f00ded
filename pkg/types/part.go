package types

import (
	"fmt"
	"strings"
)

// Part selects how the seed header of an almanac is interpreted.
type Part int

const (
	// PartOne treats every seed number as a single point.
	PartOne Part = 1
	// PartTwo treats seed numbers as (start, length) range pairs.
	PartTwo Part = 2
)

// String returns "1" or "2".
func (p Part) String() string {
	return fmt.Sprintf("%d", int(p))
}

// Valid reports whether p is PartOne or PartTwo.
func (p Part) Valid() bool {
	return p == PartOne || p == PartTwo
}

// ParseParts parses a --part flag value: "1", "2" or "both".
func ParseParts(s string) ([]Part, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "one":
		return []Part{PartOne}, nil
	case "2", "two", "":
		return []Part{PartTwo}, nil
	case "both", "all":
		return []Part{PartOne, PartTwo}, nil
	default:
		return nil, fmt.Errorf("invalid part %q (expected 1, 2 or both)", s)
	}
}

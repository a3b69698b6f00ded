package loader

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/praetorian-inc/almanac/pkg/int128"
	"github.com/praetorian-inc/almanac/pkg/remap"
	"github.com/praetorian-inc/almanac/pkg/types"
)

// ParseText parses the puzzle text format:
//
//	seeds: 79 14 55 13
//
//	seed-to-soil map:
//	50 98 2
//	52 50 48
//
// Stages are separated by blank lines. Each stage starts with a label line
// followed by "dest source length" triples. The first line of a block is
// the label unless it starts with a number; the trailing ':' is optional
// there. Inside a block, a line ending in ':' starts a new stage.
func ParseText(data []byte) (*types.Almanac, error) {
	a := &types.Almanac{}

	var (
		lineNo     int
		haveHeader bool
		inBlock    bool // a label has been read and no blank line seen since
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			inBlock = false
			continue
		}

		if !haveHeader {
			seeds, err := parseHeader(line, lineNo)
			if err != nil {
				return nil, err
			}
			a.Seeds = seeds
			haveHeader = true
			continue
		}

		if strings.HasSuffix(line, ":") || (!inBlock && !startsWithNumber(line)) {
			a.Stages = append(a.Stages, remap.Table{Name: stageName(line)})
			inBlock = true
			continue
		}

		if !inBlock {
			return nil, parseErrorf(lineNo, "mapping outside a stage: expected a stage label")
		}

		m, err := parseMapping(line, lineNo)
		if err != nil {
			return nil, err
		}
		last := &a.Stages[len(a.Stages)-1]
		last.Mappings = append(last.Mappings, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, parseErrorf(lineNo+1, "reading input: %v", err)
	}

	if !haveHeader {
		return nil, parseErrorf(0, "empty input: missing seeds header")
	}
	return a, nil
}

// parseHeader reads the seed line. The "seeds:" prefix is optional.
func parseHeader(line string, lineNo int) ([]int128.Int, error) {
	body := line
	if label, rest, ok := strings.Cut(line, ":"); ok {
		if strings.TrimSpace(label) != "seeds" {
			return nil, parseErrorf(lineNo, "expected seeds header, got %q", label)
		}
		body = rest
	}

	fields := strings.Fields(body)
	if len(fields) == 0 {
		return nil, parseErrorf(lineNo, "seeds header has no numbers")
	}

	seeds := make([]int128.Int, 0, len(fields))
	for _, f := range fields {
		v, err := parseNumber(f, lineNo)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, v)
	}
	return seeds, nil
}

func parseMapping(line string, lineNo int) (remap.Mapping, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return remap.Mapping{}, parseErrorf(lineNo, "expected 3 numbers (dest source length), got %d", len(fields))
	}

	var nums [3]int128.Int
	for i, f := range fields {
		v, err := parseNumber(f, lineNo)
		if err != nil {
			return remap.Mapping{}, err
		}
		nums[i] = v
	}

	m, err := remap.NewMapping(nums[0], nums[1], nums[2])
	if err != nil {
		return remap.Mapping{}, parseErrorf(lineNo, "invalid mapping: %v", err)
	}
	return m, nil
}

// parseNumber parses a decimal integer and rejects values whose sums with
// other input values could leave the 128-bit range.
func parseNumber(s string, lineNo int) (int128.Int, error) {
	v, err := int128.Parse(s)
	if err != nil {
		return int128.Int{}, parseErrorf(lineNo, "invalid number %q", s)
	}
	if !v.Safe() {
		return int128.Int{}, parseErrorf(lineNo, "number %s out of range", s)
	}
	return v, nil
}

func startsWithNumber(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	_, err := int128.Parse(fields[0])
	return err == nil
}

func stageName(label string) string {
	name := strings.TrimSpace(strings.TrimSuffix(label, ":"))
	return strings.TrimSpace(strings.TrimSuffix(name, " map"))
}

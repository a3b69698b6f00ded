package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/praetorian-inc/almanac/pkg/int128"
	"github.com/praetorian-inc/almanac/pkg/remap"
	"github.com/praetorian-inc/almanac/pkg/types"
)

// yamlAlmanac is the YAML form of an almanac.
type yamlAlmanac struct {
	Seeds  []yamlInt   `yaml:"seeds"`
	Stages []yamlStage `yaml:"stages"`
}

type yamlStage struct {
	Name     string        `yaml:"name"`
	Mappings []yamlMapping `yaml:"mappings"`
}

type yamlMapping struct {
	Dest   *yamlInt `yaml:"dest"`
	Source *yamlInt `yaml:"source"`
	Length *yamlInt `yaml:"length"`
	line   int
}

// yamlInt holds a 128-bit integer written bare or quoted.
type yamlInt struct {
	v int128.Int
}

func (y *yamlInt) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return parseErrorf(node.Line, "expected an integer")
	}
	v, err := parseNumber(node.Value, node.Line)
	if err != nil {
		return err
	}
	y.v = v
	return nil
}

func (m *yamlMapping) UnmarshalYAML(node *yaml.Node) error {
	type plain yamlMapping
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*m = yamlMapping(p)
	m.line = node.Line
	return nil
}

// ParseYAML parses the YAML almanac format:
//
//	seeds: [79, 14, 55, 13]
//	stages:
//	  - name: seed-to-soil
//	    mappings:
//	      - {dest: 50, source: 98, length: 2}
func ParseYAML(data []byte) (*types.Almanac, error) {
	var raw yamlAlmanac
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if len(raw.Seeds) == 0 {
		return nil, parseErrorf(0, "missing seeds")
	}

	a := &types.Almanac{
		Seeds: make([]int128.Int, len(raw.Seeds)),
	}
	for i, s := range raw.Seeds {
		a.Seeds[i] = s.v
	}

	for i, st := range raw.Stages {
		table := remap.Table{Name: st.Name}
		if table.Name == "" {
			table.Name = fmt.Sprintf("stage-%d", i+1)
		}
		for _, ym := range st.Mappings {
			if ym.Dest == nil || ym.Source == nil || ym.Length == nil {
				return nil, parseErrorf(ym.line, "mapping needs dest, source and length")
			}
			m, err := remap.NewMapping(ym.Dest.v, ym.Source.v, ym.Length.v)
			if err != nil {
				return nil, parseErrorf(ym.line, "invalid mapping: %v", err)
			}
			table.Mappings = append(table.Mappings, m)
		}
		a.Stages = append(a.Stages, table)
	}
	return a, nil
}

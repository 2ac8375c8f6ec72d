package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/obokit/relreg/pkg/types"
)

// SeedFile is the YAML document format for operator-defined relationship
// types. Entries are registered at startup after the built-in seed set, so
// they follow the same first-registrant-wins rules.
//
// Example:
//
//	relationships:
//	  - name: regulates
//	    complement: regulated_by
//	    transitivity: "true"
//	    direction: topdown
//	    aliases: [controls]
type SeedFile struct {
	Relationships []types.Relationship `yaml:"relationships"`
}

// LoadSeedFile reads and validates a YAML seed file.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read seed file: %w", err)
	}

	var sf SeedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("config: failed to parse seed file %s: %w", path, err)
	}

	for i, def := range sf.Relationships {
		if def.Name == "" {
			return nil, fmt.Errorf("config: seed file %s: entry %d has no name", path, i)
		}
		switch def.Direction {
		case types.DirectionNone, types.DirectionTopdown, types.DirectionBottomup, types.DirectionHorizontal:
		default:
			return nil, fmt.Errorf("config: seed file %s: entry %q has invalid direction %q",
				path, def.Name, def.Direction)
		}
	}

	return &sf, nil
}

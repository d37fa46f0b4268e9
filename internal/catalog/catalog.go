// Package catalog holds the static exercise lookup data and equipment-based
// substitution rules. The data is embedded in the binary and parsed once; a
// loaded Catalog is immutable and safe for concurrent use.
package catalog

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embeddedData embed.FS

// Catalog is the load-once exercise and substitution lookup.
type Catalog struct {
	exercises     map[string]ExerciseDefinition
	substitutions map[MovementPattern][]SubstitutionOption
}

type catalogFile struct {
	Exercises []ExerciseDefinition `yaml:"exercises"`
}

type substitutionsFile struct {
	Substitutions map[MovementPattern][]SubstitutionOption `yaml:"substitutions"`
}

// Load parses the embedded catalog data. It is the single startup failure
// path for static data: a Catalog that loads successfully answers every
// lookup without further error.
func Load() (*Catalog, error) {
	var exercises catalogFile
	if err := unmarshalEmbedded("data/exercises.yaml", &exercises); err != nil {
		return nil, err
	}

	var substitutions substitutionsFile
	if err := unmarshalEmbedded("data/substitutions.yaml", &substitutions); err != nil {
		return nil, err
	}

	c := &Catalog{
		exercises:     make(map[string]ExerciseDefinition, len(exercises.Exercises)),
		substitutions: substitutions.Substitutions,
	}
	for _, ex := range exercises.Exercises {
		if _, ok := c.exercises[ex.ID]; ok {
			return nil, fmt.Errorf("duplicate exercise id %q", ex.ID)
		}
		c.exercises[ex.ID] = ex
	}

	// Substitution targets must resolve so that a substitution can never
	// produce a dangling exercise reference at runtime.
	for pattern, options := range c.substitutions {
		for _, option := range options {
			if _, ok := c.exercises[option.ExerciseID]; !ok {
				return nil, fmt.Errorf("substitution for pattern %q references unknown exercise %q",
					pattern, option.ExerciseID)
			}
		}
	}

	return c, nil
}

func unmarshalEmbedded(path string, v any) error {
	data, err := embeddedData.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read embedded file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Lookup returns the exercise definition for an id. The boolean is false on a
// catalog miss, which callers treat as non-fatal pass-through.
func (c *Catalog) Lookup(id string) (ExerciseDefinition, bool) {
	ex, ok := c.exercises[id]
	return ex, ok
}

// Alternatives returns the ranked substitution options for a movement pattern.
func (c *Catalog) Alternatives(pattern MovementPattern) []SubstitutionOption {
	return c.substitutions[pattern]
}

// FirstAvailableAlternative walks the ranked options for a pattern and
// returns the first whose required equipment is fully available.
func (c *Catalog) FirstAvailableAlternative(
	pattern MovementPattern, available EquipmentSet,
) (ExerciseDefinition, bool) {
	for _, option := range c.substitutions[pattern] {
		if !available.Covers(option.EquipmentRequired) {
			continue
		}
		if ex, ok := c.exercises[option.ExerciseID]; ok {
			return ex, true
		}
	}
	return ExerciseDefinition{}, false
}

// Len returns the number of exercises in the catalog.
func (c *Catalog) Len() int {
	return len(c.exercises)
}

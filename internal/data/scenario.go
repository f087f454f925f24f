package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is the YAML form of a battle setup: one map, the units to
// spawn, and their standing march orders.
type Scenario struct {
	Map     *MapSpec    `yaml:"map"`
	Units   []UnitSpawn `yaml:"units"`
	Marches []MarchSpec `yaml:"marches,omitempty"`
}

type MapSpec struct {
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
}

// UnitSpawn places one unit. Type is "swordsman", "hunter", or the name of
// a unit template.
type UnitSpawn struct {
	ID       uint32 `yaml:"id"`
	Type     string `yaml:"type"`
	X        uint32 `yaml:"x"`
	Y        uint32 `yaml:"y"`
	HP       uint32 `yaml:"hp,omitempty"`
	Strength uint32 `yaml:"strength,omitempty"`
	Agility  uint32 `yaml:"agility,omitempty"`
	Range    uint32 `yaml:"range,omitempty"`
}

type MarchSpec struct {
	ID uint32 `yaml:"id"`
	X  uint32 `yaml:"x"`
	Y  uint32 `yaml:"y"`
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(raw)
}

// ParseScenario decodes a YAML scenario document.
func ParseScenario(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	for i, u := range s.Units {
		if u.Type == "" {
			return nil, fmt.Errorf("parse scenario: unit #%d (id %d) has no type", i+1, u.ID)
		}
	}
	return &s, nil
}

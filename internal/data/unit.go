package data

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Health kinds a template may request.
const (
	HealthBasic  = "basic"
	HealthFlying = "flying"
)

// AI kinds a template may request. Scripted AIs use ScriptAIPrefix plus
// the Lua function name.
const (
	AISwordsman    = "swordsman"
	AIHunter       = "hunter"
	ScriptAIPrefix = "script:"
)

// UnitTemplate describes a unit archetype by the strategies it carries.
// Zero values leave a slot empty: no HP means immortal, no movement means
// the unit never moves, no AI means it only acts on march orders.
type UnitTemplate struct {
	Name     string        `yaml:"name"`
	HP       uint32        `yaml:"hp"`
	Health   string        `yaml:"health"` // "basic" (default) or "flying"
	Movement *MovementSpec `yaml:"movement,omitempty"`
	Melee    uint32        `yaml:"melee"` // melee damage; 0 = no melee attack
	Ranged   *RangedSpec   `yaml:"ranged,omitempty"`
	AI       string        `yaml:"ai"`
}

type MovementSpec struct {
	Step   uint32 `yaml:"step"`
	Flying bool   `yaml:"flying"`
}

type RangedSpec struct {
	Damage         uint32 `yaml:"damage"`
	MinRange       uint32 `yaml:"min_range"`
	MaxRange       uint32 `yaml:"max_range"`
	ClearAdjacency bool   `yaml:"clear_adjacency"`
}

// ScriptFunc returns the Lua function name for a scripted AI.
func (t *UnitTemplate) ScriptFunc() (string, bool) {
	if !strings.HasPrefix(t.AI, ScriptAIPrefix) {
		return "", false
	}
	return strings.TrimPrefix(t.AI, ScriptAIPrefix), true
}

func (t *UnitTemplate) validate() error {
	if t.Name == "" {
		return fmt.Errorf("template without name")
	}
	switch t.Health {
	case "", HealthBasic, HealthFlying:
	default:
		return fmt.Errorf("template %s: unknown health %q", t.Name, t.Health)
	}
	switch {
	case t.AI == "", t.AI == AISwordsman, t.AI == AIHunter:
	case strings.HasPrefix(t.AI, ScriptAIPrefix) && len(t.AI) > len(ScriptAIPrefix):
	default:
		return fmt.Errorf("template %s: unknown ai %q", t.Name, t.AI)
	}
	return nil
}

type unitListFile struct {
	Units []UnitTemplate `yaml:"units"`
}

// UnitTable holds unit templates indexed by lower-cased name.
type UnitTable struct {
	templates map[string]*UnitTemplate
}

// LoadUnitTable loads unit templates from a YAML file.
func LoadUnitTable(path string) (*UnitTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read unit_list: %w", err)
	}
	return ParseUnitTable(raw)
}

// ParseUnitTable decodes a unit template document.
func ParseUnitTable(raw []byte) (*UnitTable, error) {
	var f unitListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse unit_list: %w", err)
	}
	t := &UnitTable{templates: make(map[string]*UnitTemplate, len(f.Units))}
	for i := range f.Units {
		u := &f.Units[i]
		if err := u.validate(); err != nil {
			return nil, fmt.Errorf("parse unit_list: %w", err)
		}
		key := strings.ToLower(u.Name)
		if _, dup := t.templates[key]; dup {
			return nil, fmt.Errorf("parse unit_list: duplicate template %s", u.Name)
		}
		t.templates[key] = u
	}
	return t, nil
}

// Get returns a template by name (case-insensitive), or nil if not found.
func (t *UnitTable) Get(name string) *UnitTemplate {
	if t == nil {
		return nil
	}
	return t.templates[strings.ToLower(name)]
}

// Count returns the number of loaded templates.
func (t *UnitTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.templates)
}

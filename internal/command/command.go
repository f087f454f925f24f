package command

import (
	"errors"
	"fmt"

	"github.com/swbattle/server/internal/sim"
	"github.com/swbattle/server/internal/world"
)

// ErrSetup marks a command the simulation refused during setup. Any such
// failure aborts the whole run.
var ErrSetup = errors.New("setup command rejected")

// Command is one typed scenario record.
type Command interface {
	Name() string
}

type CreateMap struct {
	Width  uint32
	Height uint32
}

type SpawnSwordsman struct {
	UnitID   world.UnitID
	X, Y     uint32
	HP       uint32
	Strength uint32
}

type SpawnHunter struct {
	UnitID   world.UnitID
	X, Y     uint32
	HP       uint32
	Agility  uint32
	Strength uint32
	Range    uint32
}

// SpawnTemplate places a unit built from a named unit template.
type SpawnTemplate struct {
	UnitID   world.UnitID
	X, Y     uint32
	Template string
}

type March struct {
	UnitID  world.UnitID
	TargetX uint32
	TargetY uint32
}

func (CreateMap) Name() string      { return "CREATE_MAP" }
func (SpawnSwordsman) Name() string { return "SPAWN_SWORDSMAN" }
func (SpawnHunter) Name() string    { return "SPAWN_HUNTER" }
func (SpawnTemplate) Name() string  { return "SPAWN" }
func (March) Name() string          { return "MARCH" }

// Result summarizes what Apply did to the simulation.
type Result struct {
	MapCreated bool
	Spawned    int
	Marches    int
}

// Apply feeds cmds to s in order, one setup call per command. The first
// rejected command stops the run with an error wrapping ErrSetup.
func Apply(s *sim.Simulation, cmds []Command) (Result, error) {
	var res Result
	for i, c := range cmds {
		if err := apply(s, c, &res); err != nil {
			return res, fmt.Errorf("command #%d %s: %w", i+1, c.Name(), err)
		}
	}
	return res, nil
}

func apply(s *sim.Simulation, c Command, res *Result) error {
	switch c := c.(type) {
	case CreateMap:
		if !s.CreateMap(c.Width, c.Height) {
			return fmt.Errorf("failed to create map %dx%d: %w", c.Width, c.Height, ErrSetup)
		}
		res.MapCreated = true
	case SpawnSwordsman:
		if !s.SpawnSwordsman(c.UnitID, c.X, c.Y, c.HP, c.Strength) {
			return fmt.Errorf("failed to spawn swordsman %d at (%d,%d): %w", c.UnitID, c.X, c.Y, ErrSetup)
		}
		res.Spawned++
	case SpawnHunter:
		if !s.SpawnHunter(c.UnitID, c.X, c.Y, c.HP, c.Agility, c.Strength, c.Range) {
			return fmt.Errorf("failed to spawn hunter %d at (%d,%d): %w", c.UnitID, c.X, c.Y, ErrSetup)
		}
		res.Spawned++
	case SpawnTemplate:
		if !s.SpawnTemplate(c.UnitID, c.X, c.Y, c.Template) {
			return fmt.Errorf("failed to spawn %s %d at (%d,%d): %w", c.Template, c.UnitID, c.X, c.Y, ErrSetup)
		}
		res.Spawned++
	case March:
		if !s.SetMarchTarget(sim.MarchCommand{UnitID: c.UnitID, X: c.TargetX, Y: c.TargetY}) {
			return fmt.Errorf("failed to set march target for unit %d to (%d,%d), position may be out of bounds: %w",
				c.UnitID, c.TargetX, c.TargetY, ErrSetup)
		}
		res.Marches++
	default:
		return fmt.Errorf("unsupported command %T: %w", c, ErrSetup)
	}
	return nil
}

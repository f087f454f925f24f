package command

import (
	"fmt"

	"github.com/swbattle/server/internal/data"
)

// ToScenario is the inverse of FromScenario. A second CREATE_MAP is an
// error since a scenario document holds a single map.
func ToScenario(cmds []Command) (*data.Scenario, error) {
	sc := &data.Scenario{}
	for i, c := range cmds {
		switch c := c.(type) {
		case CreateMap:
			if sc.Map != nil {
				return nil, fmt.Errorf("command #%d: scenario already has a map", i+1)
			}
			sc.Map = &data.MapSpec{Width: c.Width, Height: c.Height}
		case SpawnSwordsman:
			sc.Units = append(sc.Units, data.UnitSpawn{
				ID: uint32(c.UnitID), Type: "swordsman", X: c.X, Y: c.Y, HP: c.HP, Strength: c.Strength,
			})
		case SpawnHunter:
			sc.Units = append(sc.Units, data.UnitSpawn{
				ID: uint32(c.UnitID), Type: "hunter", X: c.X, Y: c.Y, HP: c.HP,
				Agility: c.Agility, Strength: c.Strength, Range: c.Range,
			})
		case SpawnTemplate:
			sc.Units = append(sc.Units, data.UnitSpawn{ID: uint32(c.UnitID), Type: c.Template, X: c.X, Y: c.Y})
		case March:
			sc.Marches = append(sc.Marches, data.MarchSpec{ID: uint32(c.UnitID), X: c.TargetX, Y: c.TargetY})
		default:
			return nil, fmt.Errorf("command #%d: unsupported %T", i+1, c)
		}
	}
	return sc, nil
}

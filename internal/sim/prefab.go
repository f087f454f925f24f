package sim

import (
	"fmt"

	"github.com/swbattle/server/internal/data"
	"github.com/swbattle/server/internal/scripting"
	"github.com/swbattle/server/internal/strategy"
	"github.com/swbattle/server/internal/world"
)

// Hunter ranged attacks cannot fire at adjacent targets.
const hunterMinRange = 2

type SwordsmanConfig struct {
	HP       uint32
	Strength uint32
}

type HunterConfig struct {
	HP       uint32
	Agility  uint32
	Strength uint32
	Range    uint32
}

func makeSwordsman(id world.UnitID, pos world.Position, cfg SwordsmanConfig) *world.Entity {
	e := world.NewEntity(id, pos, "Swordsman")
	e.SetHealth(strategy.NewBasicHealth(cfg.HP))
	e.SetMovement(strategy.NewTerrainMovement(1))
	e.AddAttack(strategy.NewMeleeAttack(cfg.Strength))
	e.SetAI(strategy.NewSwordsmanAI())
	return e
}

func makeHunter(id world.UnitID, pos world.Position, cfg HunterConfig) *world.Entity {
	e := world.NewEntity(id, pos, "Hunter")
	e.SetHealth(strategy.NewBasicHealth(cfg.HP))
	e.SetMovement(strategy.NewTerrainMovement(1))
	e.AddAttack(strategy.NewMeleeAttack(cfg.Strength))
	e.AddAttack(strategy.NewRangedAttack(strategy.RangeConfig{
		Damage:                cfg.Agility,
		MinRange:              hunterMinRange,
		MaxRange:              cfg.Range,
		RequireClearAdjacency: true,
	}))
	e.SetAI(strategy.NewHunterAI())
	return e
}

// makeFromTemplate fills only the slots the template asks for.
func makeFromTemplate(id world.UnitID, pos world.Position, t *data.UnitTemplate, scripts *scripting.Engine) (*world.Entity, error) {
	e := world.NewEntity(id, pos, t.Name)

	if t.HP > 0 {
		if t.Health == data.HealthFlying {
			e.SetHealth(strategy.NewFlyingHealth(t.HP))
		} else {
			e.SetHealth(strategy.NewBasicHealth(t.HP))
		}
	}

	if t.Movement != nil && t.Movement.Step > 0 {
		if t.Movement.Flying {
			e.SetMovement(strategy.NewFlyingMovement(t.Movement.Step))
		} else {
			e.SetMovement(strategy.NewTerrainMovement(t.Movement.Step))
		}
	}

	if t.Melee > 0 {
		e.AddAttack(strategy.NewMeleeAttack(t.Melee))
	}
	if r := t.Ranged; r != nil {
		e.AddAttack(strategy.NewRangedAttack(strategy.RangeConfig{
			Damage:                r.Damage,
			MinRange:              r.MinRange,
			MaxRange:              r.MaxRange,
			RequireClearAdjacency: r.ClearAdjacency,
		}))
	}

	switch t.AI {
	case "":
	case data.AISwordsman:
		e.SetAI(strategy.NewSwordsmanAI())
	case data.AIHunter:
		e.SetAI(strategy.NewHunterAI())
	default:
		fn, ok := t.ScriptFunc()
		if !ok {
			return nil, fmt.Errorf("unknown ai %q", t.AI)
		}
		if scripts == nil {
			return nil, fmt.Errorf("ai %q needs scripting enabled", t.AI)
		}
		if !scripts.HasFunction(fn) {
			return nil, fmt.Errorf("lua function %s not defined", fn)
		}
		e.SetAI(strategy.NewScriptedAI(scripts, fn))
	}
	return e, nil
}

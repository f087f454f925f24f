package strategy

import (
	"github.com/swbattle/server/internal/scripting"
	"github.com/swbattle/server/internal/world"
)

// ScriptedAI hands the decision to a Lua function: Go gathers the
// candidates, Lua orders the options, Go executes the commands in order
// until one takes effect.
type ScriptedAI struct {
	engine *scripting.Engine
	fn     string
}

func NewScriptedAI(engine *scripting.Engine, fn string) *ScriptedAI {
	return &ScriptedAI{engine: engine, fn: fn}
}

func (a *ScriptedAI) Update(self *world.Entity, w *world.World, turn uint32) bool {
	enemies := gatherEnemies(self, w)

	ctx := scripting.UnitAIContext{
		UnitID:    int(self.ID()),
		TypeName:  self.TypeName(),
		Turn:      int(turn),
		X:         int(self.Position().X),
		Y:         int(self.Position().Y),
		CanMove:   self.CanMove(),
		HasMelee:  self.HasAttack(world.Melee),
		HasRanged: self.HasAttack(world.Ranged),
		MapWidth:  int(w.Map().Width()),
		MapHeight: int(w.Map().Height()),
		Enemies:   make([]scripting.EnemyInfo, 0, len(enemies)),
	}
	if h := self.Health(); h != nil {
		ctx.HP = int(h.HitPoints())
	}
	for _, e := range enemies {
		info := scripting.EnemyInfo{
			ID:       int(e.ID()),
			X:        int(e.Position().X),
			Y:        int(e.Position().Y),
			Dist:     int(self.Position().DistanceTo(e.Position())),
			TypeName: e.TypeName(),
		}
		if h := e.Health(); h != nil {
			info.HP = int(h.HitPoints())
		}
		ctx.Enemies = append(ctx.Enemies, info)
	}

	for _, cmd := range a.engine.RunUnitAI(a.fn, ctx) {
		if execute(self, w, turn, cmd, enemies) {
			return true
		}
		if cmd.Type == "idle" {
			return false
		}
	}
	return false
}

func execute(self *world.Entity, w *world.World, turn uint32, cmd scripting.AICommand, enemies []*world.Entity) bool {
	switch cmd.Type {
	case "melee", "ranged", "attack":
		target := findEnemy(enemies, cmd.Target)
		if target == nil {
			return false
		}
		switch cmd.Type {
		case "melee":
			return w.ExecutePreferredAttack(self, target, turn, world.Melee)
		case "ranged":
			return w.ExecutePreferredAttack(self, target, turn, world.Ranged)
		default:
			return w.ExecuteAttack(self, target, turn)
		}
	case "move_toward":
		if cmd.HasPos {
			if cmd.X < 0 || cmd.Y < 0 {
				return false
			}
			return w.MoveEntityTowards(self, world.Position{X: uint32(cmd.X), Y: uint32(cmd.Y)}, turn)
		}
		if cmd.Target == 0 {
			return approachNearest(self, w, enemies, turn)
		}
		if target := findEnemy(enemies, cmd.Target); target != nil {
			return w.MoveEntityTowards(self, target.Position(), turn)
		}
	}
	return false
}

func findEnemy(enemies []*world.Entity, id int) *world.Entity {
	for _, e := range enemies {
		if int(e.ID()) == id {
			return e
		}
	}
	return nil
}

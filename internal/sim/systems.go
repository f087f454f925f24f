package sim

import (
	"github.com/swbattle/server/internal/core/event"
	coresys "github.com/swbattle/server/internal/core/system"
)

// turnSystem gives every living unit its action for the turn, in spawn
// order. A standing march order takes priority over the unit's AI.
type turnSystem struct {
	sim *Simulation
}

func (t *turnSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (t *turnSystem) Update(turn uint32) bool {
	s := t.sim
	w := s.world
	acted := false

	for _, id := range w.Order() {
		e := w.Entity(id)
		if e == nil || !e.IsAlive() {
			continue
		}

		marched := false
		if target, ok := s.marches[id]; ok {
			marched = w.MoveEntityTowards(e, target, turn)
			if marched {
				acted = true
			}
			if e.Position() == target {
				w.Emit(turn, event.MarchEnded{UnitID: uint32(id), X: target.X, Y: target.Y})
				delete(s.marches, id)
				acted = true
			}
		}

		if marched {
			continue
		}
		if ai := e.AI(); ai != nil && e.IsAlive() {
			if ai.Update(e, w, turn) {
				acted = true
			}
		}
	}
	return acted
}

// cleanupSystem drops march orders of dead or missing units, then flushes
// the world's deferred removals. It never counts as an action.
type cleanupSystem struct {
	sim *Simulation
}

func (c *cleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (c *cleanupSystem) Update(_ uint32) bool {
	s := c.sim
	for id := range s.marches {
		if e := s.world.Entity(id); e == nil || !e.IsAlive() {
			delete(s.marches, id)
		}
	}
	s.world.FlushPendingRemovals()
	return false
}

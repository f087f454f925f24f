package strategy

import "github.com/swbattle/server/internal/world"

// gatherEnemies returns every other living entity, shuffled with the
// world's random source. There are no factions: everyone else is a target.
// Candidates are collected in turn order first so a seeded source gives a
// reproducible shuffle.
func gatherEnemies(self *world.Entity, w *world.World) []*world.Entity {
	all := w.Entities()
	enemies := make([]*world.Entity, 0, len(all))
	for _, e := range all {
		if e.ID() == self.ID() || !e.IsAlive() {
			continue
		}
		enemies = append(enemies, e)
	}
	w.Rand().Shuffle(len(enemies), func(i, j int) {
		enemies[i], enemies[j] = enemies[j], enemies[i]
	})
	return enemies
}

// nearestEnemy returns the closest candidate by Chebyshev distance; ties go
// to the earliest in the slice.
func nearestEnemy(self *world.Entity, enemies []*world.Entity) *world.Entity {
	var nearest *world.Entity
	best := ^uint32(0)
	for _, e := range enemies {
		if d := self.Position().DistanceTo(e.Position()); d < best {
			best = d
			nearest = e
		}
	}
	return nearest
}

// approachNearest moves self one step toward the closest candidate.
func approachNearest(self *world.Entity, w *world.World, enemies []*world.Entity, turn uint32) bool {
	nearest := nearestEnemy(self, enemies)
	if nearest == nil {
		return false
	}
	return w.MoveEntityTowards(self, nearest.Position(), turn)
}

package strategy

import "github.com/swbattle/server/internal/world"

// SwordsmanAI attacks any adjacent enemy, else closes in on the nearest.
type SwordsmanAI struct{}

func NewSwordsmanAI() *SwordsmanAI { return &SwordsmanAI{} }

func (SwordsmanAI) Update(self *world.Entity, w *world.World, turn uint32) bool {
	enemies := gatherEnemies(self, w)
	for _, e := range enemies {
		if w.ExecutePreferredAttack(self, e, turn, world.Melee) {
			return true
		}
	}
	return approachNearest(self, w, enemies, turn)
}

// HunterAI prefers shooting, then melee, then closing in.
type HunterAI struct{}

func NewHunterAI() *HunterAI { return &HunterAI{} }

func (HunterAI) Update(self *world.Entity, w *world.World, turn uint32) bool {
	enemies := gatherEnemies(self, w)
	for _, e := range enemies {
		if w.ExecutePreferredAttack(self, e, turn, world.Ranged) {
			return true
		}
	}
	for _, e := range enemies {
		if w.ExecutePreferredAttack(self, e, turn, world.Melee) {
			return true
		}
	}
	return approachNearest(self, w, enemies, turn)
}

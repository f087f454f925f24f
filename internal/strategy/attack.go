package strategy

import "github.com/swbattle/server/internal/world"

// MeleeAttack hits an adjacent living target.
type MeleeAttack struct {
	damage uint32
}

func NewMeleeAttack(damage uint32) *MeleeAttack {
	return &MeleeAttack{damage: damage}
}

func (a *MeleeAttack) Type() world.AttackType { return world.Melee }
func (a *MeleeAttack) Damage() uint32         { return a.damage }

func (a *MeleeAttack) Attack(self, target *world.Entity, w *world.World, turn uint32) bool {
	if !target.IsAlive() {
		return false
	}
	if h := target.Health(); h != nil && !h.CanBeAttackedBy(world.Melee) {
		return false
	}
	if self.Position().DistanceTo(target.Position()) != 1 {
		return false
	}
	w.ApplyDamage(self, target, world.DamageConfig{Damage: int(a.damage), Turn: turn})
	return true
}

// RangeConfig describes a ranged attack. MaxRange is raised to MinRange
// if configured below it.
type RangeConfig struct {
	Damage                uint32
	MinRange              uint32
	MaxRange              uint32
	RequireClearAdjacency bool
}

// RangedAttack hits a target whose distance falls inside [min, max], as
// adjusted by the target's health strategy.
type RangedAttack struct {
	damage                uint32
	minRange              uint32
	maxRange              uint32
	requireClearAdjacency bool
}

func NewRangedAttack(cfg RangeConfig) *RangedAttack {
	return &RangedAttack{
		damage:                cfg.Damage,
		minRange:              cfg.MinRange,
		maxRange:              max(cfg.MinRange, cfg.MaxRange),
		requireClearAdjacency: cfg.RequireClearAdjacency,
	}
}

func (a *RangedAttack) Type() world.AttackType { return world.Ranged }
func (a *RangedAttack) Damage() uint32         { return a.damage }
func (a *RangedAttack) MinRange() uint32       { return a.minRange }
func (a *RangedAttack) MaxRange() uint32       { return a.maxRange }

func (a *RangedAttack) Attack(self, target *world.Entity, w *world.World, turn uint32) bool {
	if !target.IsAlive() {
		return false
	}
	if a.requireClearAdjacency && !hasClearAdjacency(self, w) {
		return false
	}
	h := target.Health()
	if h != nil && !h.CanBeAttackedBy(world.Ranged) {
		return false
	}

	minRange, maxRange := a.minRange, a.maxRange
	if h != nil {
		minRange = h.ModifiedRange(a.minRange, world.Ranged)
		maxRange = h.ModifiedRange(a.maxRange, world.Ranged)
	}
	dist := self.Position().DistanceTo(target.Position())
	if dist < minRange || dist > maxRange {
		return false
	}
	w.ApplyDamage(self, target, world.DamageConfig{Damage: int(a.damage), Turn: turn})
	return true
}

// hasClearAdjacency reports whether none of the valid cells around self
// hold another living unit.
func hasClearAdjacency(self *world.Entity, w *world.World) bool {
	m := w.Map()
	pos := self.Position()
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := int64(pos.X)+dx, int64(pos.Y)+dy
			if nx < 0 || ny < 0 {
				continue
			}
			n := world.Position{X: uint32(nx), Y: uint32(ny)}
			if !m.IsValidPosition(n) {
				continue
			}
			id, ok := m.UnitAt(n)
			if !ok || id == self.ID() {
				continue
			}
			if e := w.Entity(id); e != nil && e.IsAlive() {
				return false
			}
		}
	}
	return true
}

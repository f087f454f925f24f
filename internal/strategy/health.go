package strategy

import "github.com/swbattle/server/internal/world"

// BasicHealth clamps at zero on damage, heals without a cap, and lets every
// attack through unmodified.
type BasicHealth struct {
	hp int
}

func NewBasicHealth(hp uint32) *BasicHealth {
	return &BasicHealth{hp: int(hp)}
}

func (h *BasicHealth) IsAlive() bool { return h.hp > 0 }

func (h *BasicHealth) HitPoints() uint32 {
	if h.hp <= 0 {
		return 0
	}
	return uint32(h.hp)
}

func (h *BasicHealth) ApplyDamage(amount int) {
	if amount <= 0 {
		return
	}
	h.hp = max(0, h.hp-amount)
}

// Heal adds hit points. A dead entity only comes back if the heal lifts
// its hit points above zero.
func (h *BasicHealth) Heal(amount uint32) {
	if amount == 0 {
		return
	}
	h.hp += int(amount)
}

func (h *BasicHealth) CanBeAttackedBy(world.AttackType) bool { return true }

func (h *BasicHealth) ModifiedRange(r uint32, _ world.AttackType) uint32 { return r }

// FlyingHealth is carried by airborne units: melee cannot reach them, and
// altitude adds one cell to both bounds of a ranged attacker's window.
type FlyingHealth struct {
	BasicHealth
}

func NewFlyingHealth(hp uint32) *FlyingHealth {
	return &FlyingHealth{BasicHealth: BasicHealth{hp: int(hp)}}
}

func (h *FlyingHealth) CanBeAttackedBy(t world.AttackType) bool {
	return t != world.Melee
}

func (h *FlyingHealth) ModifiedRange(r uint32, t world.AttackType) uint32 {
	if t == world.Ranged {
		return r + 1
	}
	return r
}

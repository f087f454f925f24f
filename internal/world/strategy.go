package world

// The four behavior slots of an Entity. Strategies hold no back-references:
// the owning entity and the world are passed into every call.

// Health owns hit points and decides which attacks can reach the entity.
type Health interface {
	IsAlive() bool
	HitPoints() uint32
	ApplyDamage(amount int)
	Heal(amount uint32)
	CanBeAttackedBy(t AttackType) bool
	// ModifiedRange lets the target adjust an attacker's range bound.
	ModifiedRange(r uint32, t AttackType) uint32
}

// Movement moves an entity one decision's worth toward a target.
type Movement interface {
	Move(self *Entity, w *World, target Position, turn uint32) bool
	BlocksGround() bool
	StepSize() uint32
}

// Attack is one attack an entity can perform.
type Attack interface {
	Type() AttackType
	Damage() uint32
	Attack(self, target *Entity, w *World, turn uint32) bool
}

// AI decides what an entity does on its turn. Update reports whether an
// action was taken.
type AI interface {
	Update(self *Entity, w *World, turn uint32) bool
}

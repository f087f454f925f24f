package world

// UnitID identifies a unit for its whole lifetime. IDs come from the
// scenario, not from an allocator, so they are never reused within a run.
type UnitID uint32

// AttackType distinguishes close-range from long-range attacks.
type AttackType uint8

const (
	Melee AttackType = iota
	Ranged
)

func (t AttackType) String() string {
	switch t {
	case Melee:
		return "melee"
	case Ranged:
		return "ranged"
	default:
		return "unknown"
	}
}

// DamageConfig carries a single damage application.
type DamageConfig struct {
	Damage int
	Turn   uint32
}

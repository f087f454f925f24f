package world

// Entity is a unit on the map: identity, position, and up to four behavior
// slots. It carries no game logic of its own; the World owns it.
type Entity struct {
	id       UnitID
	pos      Position
	typeName string

	health   Health
	movement Movement
	attacks  []Attack
	ai       AI
}

// NewEntity creates an entity with empty behavior slots.
func NewEntity(id UnitID, pos Position, typeName string) *Entity {
	return &Entity{id: id, pos: pos, typeName: typeName}
}

func (e *Entity) ID() UnitID         { return e.id }
func (e *Entity) Position() Position { return e.pos }
func (e *Entity) TypeName() string   { return e.typeName }

func (e *Entity) SetHealth(h Health)     { e.health = h }
func (e *Entity) SetMovement(m Movement) { e.movement = m }
func (e *Entity) SetAI(ai AI)            { e.ai = ai }

// AddAttack appends an attack; attacks are tried in the order added.
func (e *Entity) AddAttack(a Attack) { e.attacks = append(e.attacks, a) }

// Health returns the health strategy, or nil if the entity is immortal.
func (e *Entity) Health() Health     { return e.health }
func (e *Entity) Movement() Movement { return e.movement }
func (e *Entity) Attacks() []Attack  { return e.attacks }
func (e *Entity) AI() AI             { return e.ai }

// IsAlive delegates to Health. Without one the entity never dies.
func (e *Entity) IsAlive() bool {
	if e.health == nil {
		return true
	}
	return e.health.IsAlive()
}

// BlocksGround delegates to Movement. Entities without movement still
// occupy their cell.
func (e *Entity) BlocksGround() bool {
	if e.movement == nil {
		return true
	}
	return e.movement.BlocksGround()
}

// CanMove reports whether a movement strategy is attached, regardless of
// current health.
func (e *Entity) CanMove() bool {
	return e.movement != nil
}

// HasAttack reports whether any attack of type t is attached.
func (e *Entity) HasAttack(t AttackType) bool {
	for _, a := range e.attacks {
		if a.Type() == t {
			return true
		}
	}
	return false
}

func (e *Entity) setPosition(p Position) { e.pos = p }

package world

// Map is the spatial layer: grid bounds, one position per unit, and a set
// of ground-blocked cells. Blocking is never inferred here; callers decide
// whether a cell is blocked. Accessed only from the simulation goroutine.
type Map struct {
	width  uint32
	height uint32

	units     map[UnitID]Position
	occupants map[Position]UnitID // reverse index of units
	blocked   map[Position]struct{}
}

// NewMap creates an empty width x height map.
func NewMap(width, height uint32) *Map {
	return &Map{
		width:     width,
		height:    height,
		units:     make(map[UnitID]Position, 64),
		occupants: make(map[Position]UnitID, 64),
		blocked:   make(map[Position]struct{}, 64),
	}
}

func (m *Map) Width() uint32  { return m.width }
func (m *Map) Height() uint32 { return m.height }

// UnitCount returns the number of placed units.
func (m *Map) UnitCount() int { return len(m.units) }

// IsValidPosition reports whether pos is inside the map bounds.
func (m *Map) IsValidPosition(pos Position) bool {
	return pos.Within(m.width, m.height)
}

// PlaceUnit puts a unit on the map. It fails without mutating anything if
// pos is out of bounds, already occupied, or (for a ground-blocking unit)
// already blocked.
func (m *Map) PlaceUnit(id UnitID, pos Position, blocksGround bool) bool {
	if !m.IsValidPosition(pos) {
		return false
	}
	if _, taken := m.occupants[pos]; taken {
		return false
	}
	if blocksGround && m.BlocksAt(pos) {
		return false
	}
	if old, ok := m.units[id]; ok {
		delete(m.occupants, old)
	}
	m.units[id] = pos
	m.occupants[pos] = id
	if blocksGround {
		m.blocked[pos] = struct{}{}
	}
	return true
}

// RemoveUnit takes a unit off the map and unblocks its cell.
func (m *Map) RemoveUnit(id UnitID) {
	pos, ok := m.units[id]
	if !ok {
		return
	}
	delete(m.blocked, pos)
	delete(m.occupants, pos)
	delete(m.units, id)
}

// MoveUnit relocates a unit. It fails if the unit is unknown, the
// destination is out of bounds, or another unit occupies the destination.
// The old cell is always unblocked; re-blocking the destination is the
// caller's job.
func (m *Map) MoveUnit(id UnitID, newPos Position) bool {
	oldPos, ok := m.units[id]
	if !ok {
		return false
	}
	if !m.IsValidPosition(newPos) {
		return false
	}
	if other, taken := m.occupants[newPos]; taken && other != id {
		return false
	}
	delete(m.blocked, oldPos)
	delete(m.occupants, oldPos)
	m.units[id] = newPos
	m.occupants[newPos] = id
	return true
}

// BlocksAt reports whether pos is ground-blocked.
func (m *Map) BlocksAt(pos Position) bool {
	_, ok := m.blocked[pos]
	return ok
}

// IsPositionOccupiedBy reports whether unit id stands on pos.
func (m *Map) IsPositionOccupiedBy(pos Position, id UnitID) bool {
	p, ok := m.units[id]
	return ok && p == pos
}

// UnitAt returns the unit standing on pos, if any.
func (m *Map) UnitAt(pos Position) (UnitID, bool) {
	id, ok := m.occupants[pos]
	return id, ok
}

// PositionOf returns the stored position of a unit.
func (m *Map) PositionOf(id UnitID) (Position, bool) {
	p, ok := m.units[id]
	return p, ok
}

// SetPositionBlocked sets or clears the ground-blocked flag of a cell.
func (m *Map) SetPositionBlocked(pos Position, blocked bool) {
	if blocked {
		m.blocked[pos] = struct{}{}
	} else {
		delete(m.blocked, pos)
	}
}

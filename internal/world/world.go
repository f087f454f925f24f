package world

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/swbattle/server/internal/core/event"
	"go.uber.org/zap"
)

var (
	ErrNilEntity = errors.New("entity must not be nil")
	ErrDuplicate = errors.New("unit id already exists")
	ErrPlacement = errors.New("failed to place entity on map")
)

// World owns the map, every entity, the fixed turn order, and the deferred
// removal queue. Single-goroutine access only (simulation loop).
type World struct {
	m        *Map
	entities map[UnitID]*Entity
	order    []UnitID // spawn order

	// Deaths are recorded immediately but entities are only erased by
	// FlushPendingRemovals at turn end, so per-turn iteration stays stable.
	pending    map[UnitID]struct{}
	pendingSeq []UnitID

	sink event.Sink
	rng  *rand.Rand
	log  *zap.Logger
}

// Config wires a World's collaborators. Nil fields get no-op defaults.
type Config struct {
	Sink event.Sink
	Rand *rand.Rand
	Log  *zap.Logger
}

// New creates a world over an empty width x height map.
func New(width, height uint32, cfg Config) *World {
	w := &World{
		m:        NewMap(width, height),
		entities: make(map[UnitID]*Entity, 64),
		order:    make([]UnitID, 0, 64),
		pending:  make(map[UnitID]struct{}),
		sink:     cfg.Sink,
		rng:      cfg.Rand,
		log:      cfg.Log,
	}
	if w.rng == nil {
		w.rng = rand.New(rand.NewSource(1))
	}
	if w.sink == nil {
		w.sink = event.Discard
	}
	if w.log == nil {
		w.log = zap.NewNop()
	}
	w.Emit(1, event.MapCreated{Width: width, Height: height})
	return w
}

func (w *World) Map() *Map        { return w.m }
func (w *World) Rand() *rand.Rand { return w.rng }

// Entity returns the entity with the given id, or nil. Dead entities stay
// reachable until the end-of-turn flush.
func (w *World) Entity(id UnitID) *Entity {
	return w.entities[id]
}

// Order returns a copy of the turn order.
func (w *World) Order() []UnitID {
	out := make([]UnitID, len(w.order))
	copy(out, w.order)
	return out
}

// Entities returns all entities in turn order.
func (w *World) Entities() []*Entity {
	out := make([]*Entity, 0, len(w.order))
	for _, id := range w.order {
		if e := w.entities[id]; e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entities, dead-but-unflushed included.
func (w *World) Len() int { return len(w.entities) }

// LivingCount returns the number of entities that are alive.
func (w *World) LivingCount() int {
	n := 0
	for _, e := range w.entities {
		if e.IsAlive() {
			n++
		}
	}
	return n
}

// Emit publishes an event stamped with turn.
func (w *World) Emit(turn uint32, ev event.Event) {
	w.sink.Publish(event.Record{Turn: turn, Event: ev})
}

// AddEntity places e on the map and appends it to the turn order. Spawning
// is a setup operation: an invalid or occupied start cell is an error, not
// a silent drop.
func (w *World) AddEntity(e *Entity) (*Entity, error) {
	if e == nil {
		return nil, ErrNilEntity
	}
	if _, exists := w.entities[e.id]; exists {
		return nil, fmt.Errorf("add unit %d: %w", e.id, ErrDuplicate)
	}
	if !w.m.PlaceUnit(e.id, e.pos, e.BlocksGround()) {
		return nil, fmt.Errorf("add unit %d at %s: %w", e.id, e.pos, ErrPlacement)
	}
	w.entities[e.id] = e
	w.order = append(w.order, e.id)
	w.Emit(1, event.UnitSpawned{UnitID: uint32(e.id), UnitType: e.typeName, X: e.pos.X, Y: e.pos.Y})
	return e, nil
}

// TryMove moves e to dest as one atomic step: map move, destination
// re-block for ground-blocking entities, stored position, event.
func (w *World) TryMove(e *Entity, dest Position, turn uint32, ignoreBlocking bool) bool {
	if !e.IsAlive() {
		return false
	}
	if e.pos == dest {
		return false
	}
	if !w.m.IsValidPosition(dest) {
		return false
	}
	if !ignoreBlocking && w.m.BlocksAt(dest) && !w.m.IsPositionOccupiedBy(dest, e.id) {
		return false
	}
	if !w.m.MoveUnit(e.id, dest) {
		return false
	}
	if e.BlocksGround() {
		w.m.SetPositionBlocked(dest, true)
	}
	e.setPosition(dest)
	w.Emit(turn, event.UnitMoved{UnitID: uint32(e.id), X: dest.X, Y: dest.Y})
	return true
}

// ApplyDamage damages target on behalf of attacker. A lethal hit emits the
// death event and queues the target for removal; it is not erased here.
func (w *World) ApplyDamage(attacker, target *Entity, cfg DamageConfig) {
	if cfg.Damage <= 0 {
		return
	}
	h := target.Health()
	if h == nil || !h.IsAlive() {
		return
	}
	h.ApplyDamage(cfg.Damage)
	w.Emit(cfg.Turn, event.UnitAttacked{
		AttackerUnitID: uint32(attacker.id),
		TargetUnitID:   uint32(target.id),
		Damage:         uint32(cfg.Damage),
		TargetHP:       h.HitPoints(),
	})
	if !h.IsAlive() {
		w.Emit(cfg.Turn, event.UnitDied{UnitID: uint32(target.id)})
		w.scheduleRemoval(target.id)
	}
}

// MoveEntityTowards delegates to the entity's movement strategy.
func (w *World) MoveEntityTowards(e *Entity, target Position, turn uint32) bool {
	mv := e.Movement()
	if mv == nil {
		return false
	}
	return mv.Move(e, w, target, turn)
}

// ExecuteAttack tries every attack of attacker in attachment order and
// stops at the first that lands.
func (w *World) ExecuteAttack(attacker, target *Entity, turn uint32) bool {
	for _, a := range attacker.attacks {
		if a.Attack(attacker, target, w, turn) {
			return true
		}
	}
	return false
}

// ExecutePreferredAttack tries attacks of the preferred type first, then
// falls back to every attack regardless of type.
func (w *World) ExecutePreferredAttack(attacker, target *Entity, turn uint32, preferred AttackType) bool {
	for _, a := range attacker.attacks {
		if a.Type() != preferred {
			continue
		}
		if a.Attack(attacker, target, w, turn) {
			return true
		}
	}
	return w.ExecuteAttack(attacker, target, turn)
}

// PendingRemovals returns the ids queued for removal, in death order.
func (w *World) PendingRemovals() []UnitID {
	out := make([]UnitID, len(w.pendingSeq))
	copy(out, w.pendingSeq)
	return out
}

func (w *World) scheduleRemoval(id UnitID) {
	if _, ok := w.pending[id]; ok {
		return
	}
	w.pending[id] = struct{}{}
	w.pendingSeq = append(w.pendingSeq, id)
}

// FlushPendingRemovals erases every queued entity from the map, the entity
// set, and the turn order. Called exactly once per turn, after all actions.
func (w *World) FlushPendingRemovals() {
	if len(w.pendingSeq) == 0 {
		return
	}
	for _, id := range w.pendingSeq {
		w.removeEntity(id)
		w.log.Debug("unit removed", zap.Uint32("unit", uint32(id)))
	}
	w.pendingSeq = w.pendingSeq[:0]
	clear(w.pending)
}

func (w *World) removeEntity(id UnitID) {
	w.m.RemoveUnit(id)
	delete(w.entities, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

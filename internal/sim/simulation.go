package sim

import (
	"errors"
	"math"
	"math/rand"

	"github.com/swbattle/server/internal/core/event"
	coresys "github.com/swbattle/server/internal/core/system"
	"github.com/swbattle/server/internal/data"
	"github.com/swbattle/server/internal/scripting"
	"github.com/swbattle/server/internal/world"
	"go.uber.org/zap"
)

// Unlimited runs until the battle resolves or stalls.
const Unlimited = math.MaxUint32

var (
	ErrNoMap = errors.New("map has not been created")
	ErrEnded = errors.New("simulation already ended")
)

// State is the lifecycle stage of a Simulation.
type State int

const (
	StateSetup   State = iota // no map yet; spawns and marches are rejected
	StateRunning              // map exists; turns may execute
	StateEnded                // terminal
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateRunning:
		return "running"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarchCommand orders a unit to walk toward a cell every turn until it
// gets there.
type MarchCommand struct {
	UnitID world.UnitID
	X, Y   uint32
}

// Simulation owns one World, the turn counter, and the standing march
// orders. Single-goroutine access only.
type Simulation struct {
	world   *world.World
	turn    uint32
	state   State
	marches map[world.UnitID]world.Position

	sink          event.Sink
	rng           *rand.Rand
	log           *zap.Logger
	scripts       *scripting.Engine
	templates     *data.UnitTable
	stalemateStop bool

	runner *coresys.Runner
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithSink routes every event to s.
func WithSink(s event.Sink) Option { return func(sim *Simulation) { sim.sink = s } }

// WithRand sets the random source used for AI tie-breaking.
func WithRand(r *rand.Rand) Option { return func(sim *Simulation) { sim.rng = r } }

// WithSeed is WithRand over a fresh source seeded with seed.
func WithSeed(seed int64) Option {
	return func(sim *Simulation) { sim.rng = rand.New(rand.NewSource(seed)) }
}

func WithLogger(log *zap.Logger) Option { return func(sim *Simulation) { sim.log = log } }

// WithScripting enables template units with scripted AI.
func WithScripting(e *scripting.Engine) Option { return func(sim *Simulation) { sim.scripts = e } }

// WithTemplates makes unit templates available to SpawnTemplate.
func WithTemplates(t *data.UnitTable) Option { return func(sim *Simulation) { sim.templates = t } }

// WithStalemateStop controls whether a turn without any action ends the
// run. Enabled by default.
func WithStalemateStop(on bool) Option { return func(sim *Simulation) { sim.stalemateStop = on } }

// New creates a Simulation in the setup state.
func New(opts ...Option) *Simulation {
	s := &Simulation{
		turn:          1,
		marches:       make(map[world.UnitID]world.Position),
		stalemateStop: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sink == nil {
		s.sink = event.Discard
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(1))
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}

	s.runner = coresys.NewRunner()
	s.runner.Register(&turnSystem{sim: s})
	s.runner.Register(&cleanupSystem{sim: s})
	return s
}

// World returns the current world, or nil before CreateMap.
func (s *Simulation) World() *world.World { return s.world }
func (s *Simulation) Turn() uint32        { return s.turn }
func (s *Simulation) State() State        { return s.state }
func (s *Simulation) HasMap() bool        { return s.world != nil }

// CreateMap starts a fresh world, discarding any previous one. Zero-sized
// maps are rejected.
func (s *Simulation) CreateMap(width, height uint32) bool {
	if width == 0 || height == 0 {
		s.log.Error("create map: zero dimension", zap.Uint32("width", width), zap.Uint32("height", height))
		return false
	}
	s.world = world.New(width, height, world.Config{Sink: s.sink, Rand: s.rng, Log: s.log})
	clear(s.marches)
	s.turn = 1
	s.state = StateRunning
	return true
}

// SpawnSwordsman adds a melee unit. It fails before a map exists, on a
// duplicate id, or on an invalid or occupied cell.
func (s *Simulation) SpawnSwordsman(id world.UnitID, x, y, hp, strength uint32) bool {
	return s.spawn(makeSwordsman(id, world.Position{X: x, Y: y}, SwordsmanConfig{HP: hp, Strength: strength}))
}

// SpawnHunter adds a ranged unit with a melee fallback.
func (s *Simulation) SpawnHunter(id world.UnitID, x, y, hp, agility, strength, rng uint32) bool {
	return s.spawn(makeHunter(id, world.Position{X: x, Y: y}, HunterConfig{
		HP:       hp,
		Agility:  agility,
		Strength: strength,
		Range:    rng,
	}))
}

// SpawnTemplate adds a unit built from a named template.
func (s *Simulation) SpawnTemplate(id world.UnitID, x, y uint32, name string) bool {
	tmpl := s.templates.Get(name)
	if tmpl == nil {
		s.log.Error("spawn: unknown template", zap.String("template", name))
		return false
	}
	e, err := makeFromTemplate(id, world.Position{X: x, Y: y}, tmpl, s.scripts)
	if err != nil {
		s.log.Error("spawn: build template", zap.String("template", name), zap.Error(err))
		return false
	}
	return s.spawn(e)
}

func (s *Simulation) spawn(e *world.Entity) bool {
	if s.world == nil {
		return false
	}
	if s.world.Entity(e.ID()) != nil {
		return false
	}
	if _, err := s.world.AddEntity(e); err != nil {
		s.log.Error("spawn failed", zap.Uint32("unit", uint32(e.ID())), zap.Error(err))
		return false
	}
	return true
}

// ExecuteMarch records a march order and stamps its event with the
// current turn.
func (s *Simulation) ExecuteMarch(cmd MarchCommand) bool {
	return s.march(cmd, s.turn)
}

// SetMarchTarget records a march order issued during setup; its event is
// stamped with turn 1.
func (s *Simulation) SetMarchTarget(cmd MarchCommand) bool {
	return s.march(cmd, 1)
}

func (s *Simulation) march(cmd MarchCommand, turn uint32) bool {
	if s.world == nil {
		return false
	}
	e := s.world.Entity(cmd.UnitID)
	if e == nil {
		return false
	}
	target := world.Position{X: cmd.X, Y: cmd.Y}
	if !s.world.Map().IsValidPosition(target) {
		return false
	}
	s.marches[cmd.UnitID] = target

	from := e.Position()
	s.world.Emit(turn, event.MarchStarted{
		UnitID:  uint32(cmd.UnitID),
		X:       from.X,
		Y:       from.Y,
		TargetX: target.X,
		TargetY: target.Y,
	})
	return true
}

// MarchTarget returns a unit's active march target.
func (s *Simulation) MarchTarget(id world.UnitID) (world.Position, bool) {
	p, ok := s.marches[id]
	return p, ok
}

// Run executes turns until at most one unit is alive, a turn passes with
// no action, or maxTurns is reached.
func (s *Simulation) Run(maxTurns uint32) error {
	switch s.state {
	case StateSetup:
		return ErrNoMap
	case StateEnded:
		return ErrEnded
	}

	s.world.Emit(s.turn, event.SimulationStarted{
		UnitCount: uint32(s.ActiveUnitCount()),
		Turn:      s.turn,
	})
	start := s.turn

	for ; s.turn <= maxTurns; s.turn++ {
		if s.shouldEnd() {
			break
		}
		acted := s.runner.Tick(s.turn)
		s.log.Debug("turn complete", zap.Uint32("turn", s.turn), zap.Bool("acted", acted))
		if !acted && s.stalemateStop {
			break
		}
		if s.turn == math.MaxUint32 {
			break
		}
	}

	survivors := s.ActiveUnitCount()
	s.world.Emit(s.turn, event.SimulationEnded{
		FinalTurn:  s.turn,
		Survivors:  uint32(survivors),
		TotalTurns: s.turn - start,
	})
	s.state = StateEnded
	s.log.Debug("simulation ended", zap.Uint32("turn", s.turn), zap.Int("survivors", survivors))
	return nil
}

// ActiveUnitCount returns the number of living units.
func (s *Simulation) ActiveUnitCount() int {
	if s.world == nil {
		return 0
	}
	return s.world.LivingCount()
}

// IsUnitActive reports whether the unit exists and is alive.
func (s *Simulation) IsUnitActive(id world.UnitID) bool {
	if s.world == nil {
		return false
	}
	e := s.world.Entity(id)
	return e != nil && e.IsAlive()
}

// UnitPosition returns a unit's position while it is in the world.
func (s *Simulation) UnitPosition(id world.UnitID) (world.Position, bool) {
	if s.world == nil {
		return world.Position{}, false
	}
	e := s.world.Entity(id)
	if e == nil {
		return world.Position{}, false
	}
	return e.Position(), true
}

func (s *Simulation) shouldEnd() bool {
	return s.ActiveUnitCount() <= 1
}

package event

// Event is a flat, named record emitted by the simulation.
type Event interface {
	Name() string
	Fields() []Field
}

// Field is one key/value pair of an event, in declaration order.
type Field struct {
	Key   string
	Value any
}

// Record is an event stamped with the turn it was emitted in.
type Record struct {
	Turn  uint32
	Event Event
}

type MapCreated struct {
	Width  uint32
	Height uint32
}

func (MapCreated) Name() string { return "MAP_CREATED" }
func (e MapCreated) Fields() []Field {
	return []Field{{"width", e.Width}, {"height", e.Height}}
}

type UnitSpawned struct {
	UnitID   uint32
	UnitType string
	X, Y     uint32
}

func (UnitSpawned) Name() string { return "UNIT_SPAWNED" }
func (e UnitSpawned) Fields() []Field {
	return []Field{{"unitId", e.UnitID}, {"unitType", e.UnitType}, {"x", e.X}, {"y", e.Y}}
}

type MarchStarted struct {
	UnitID  uint32
	X, Y    uint32
	TargetX uint32
	TargetY uint32
}

func (MarchStarted) Name() string { return "MARCH_STARTED" }
func (e MarchStarted) Fields() []Field {
	return []Field{{"unitId", e.UnitID}, {"x", e.X}, {"y", e.Y}, {"targetX", e.TargetX}, {"targetY", e.TargetY}}
}

type UnitMoved struct {
	UnitID uint32
	X, Y   uint32
}

func (UnitMoved) Name() string { return "UNIT_MOVED" }
func (e UnitMoved) Fields() []Field {
	return []Field{{"unitId", e.UnitID}, {"x", e.X}, {"y", e.Y}}
}

type UnitAttacked struct {
	AttackerUnitID uint32
	TargetUnitID   uint32
	Damage         uint32
	TargetHP       uint32
}

func (UnitAttacked) Name() string { return "UNIT_ATTACKED" }
func (e UnitAttacked) Fields() []Field {
	return []Field{
		{"attackerUnitId", e.AttackerUnitID},
		{"targetUnitId", e.TargetUnitID},
		{"damage", e.Damage},
		{"targetHp", e.TargetHP},
	}
}

type UnitDied struct {
	UnitID uint32
}

func (UnitDied) Name() string      { return "UNIT_DIED" }
func (e UnitDied) Fields() []Field { return []Field{{"unitId", e.UnitID}} }

type MarchEnded struct {
	UnitID uint32
	X, Y   uint32
}

func (MarchEnded) Name() string { return "MARCH_ENDED" }
func (e MarchEnded) Fields() []Field {
	return []Field{{"unitId", e.UnitID}, {"x", e.X}, {"y", e.Y}}
}

type SimulationStarted struct {
	UnitCount uint32
	Turn      uint32
}

func (SimulationStarted) Name() string { return "SIMULATION_STARTED" }
func (e SimulationStarted) Fields() []Field {
	return []Field{{"unitCount", e.UnitCount}, {"turn", e.Turn}}
}

type SimulationEnded struct {
	FinalTurn  uint32
	Survivors  uint32
	TotalTurns uint32
}

func (SimulationEnded) Name() string { return "SIMULATION_ENDED" }
func (e SimulationEnded) Fields() []Field {
	return []Field{{"finalTurn", e.FinalTurn}, {"survivors", e.Survivors}, {"totalTurns", e.TotalTurns}}
}

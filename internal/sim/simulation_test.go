package sim

import (
	"errors"
	"strings"
	"testing"

	"github.com/swbattle/server/internal/core/event"
	"github.com/swbattle/server/internal/data"
	"github.com/swbattle/server/internal/eventlog"
	"github.com/swbattle/server/internal/scripting"
	"github.com/swbattle/server/internal/world"
	"go.uber.org/zap/zaptest"
)

func newSim(t *testing.T, opts ...Option) (*Simulation, *event.Recorder) {
	t.Helper()
	rec := &event.Recorder{}
	opts = append([]Option{WithSink(rec), WithSeed(42), WithLogger(zaptest.NewLogger(t))}, opts...)
	return New(opts...), rec
}

func lines(rec *event.Recorder) []string {
	out := make([]string, len(rec.Records))
	for i, r := range rec.Records {
		out[i] = eventlog.Format(r)
	}
	return out
}

func expectLines(t *testing.T, rec *event.Recorder, want []string) {
	t.Helper()
	got := lines(rec)
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d:\n%s", len(got), len(want), strings.Join(got, "\n"))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %q, want %q\nfull log:\n%s", i, got[i], want[i], strings.Join(got, "\n"))
		}
	}
}

func TestSwordsmanDuel(t *testing.T) {
	s, rec := newSim(t)
	if !s.CreateMap(2, 1) {
		t.Fatal("create map")
	}
	if !s.SpawnSwordsman(1, 0, 0, 10, 5) || !s.SpawnSwordsman(2, 1, 0, 10, 5) {
		t.Fatal("spawn")
	}
	if err := s.Run(Unlimited); err != nil {
		t.Fatalf("run: %v", err)
	}

	expectLines(t, rec, []string{
		"1 MAP_CREATED width=2 height=1",
		"1 UNIT_SPAWNED unitId=1 unitType=Swordsman x=0 y=0",
		"1 UNIT_SPAWNED unitId=2 unitType=Swordsman x=1 y=0",
		"1 SIMULATION_STARTED unitCount=2 turn=1",
		"1 UNIT_ATTACKED attackerUnitId=1 targetUnitId=2 damage=5 targetHp=5",
		"1 UNIT_ATTACKED attackerUnitId=2 targetUnitId=1 damage=5 targetHp=5",
		"2 UNIT_ATTACKED attackerUnitId=1 targetUnitId=2 damage=5 targetHp=0",
		"2 UNIT_DIED unitId=2",
		"3 SIMULATION_ENDED finalTurn=3 survivors=1 totalTurns=2",
	})

	if s.State() != StateEnded {
		t.Fatalf("state = %s", s.State())
	}
	if s.IsUnitActive(2) || !s.IsUnitActive(1) {
		t.Fatal("wrong survivor")
	}
	if s.World().Entity(2) != nil {
		t.Fatal("dead unit not flushed")
	}
	if s.ActiveUnitCount() != 1 {
		t.Fatalf("active = %d", s.ActiveUnitCount())
	}
}

func TestHunterUsesMeleeWhenAdjacent(t *testing.T) {
	s, rec := newSim(t)
	s.CreateMap(4, 1)
	s.SpawnHunter(1, 0, 0, 10, 6, 2, 3)
	s.SpawnSwordsman(2, 1, 0, 10, 1)
	rec.Reset()

	if err := s.Run(1); err != nil {
		t.Fatalf("run: %v", err)
	}
	expectLines(t, rec, []string{
		"1 SIMULATION_STARTED unitCount=2 turn=1",
		"1 UNIT_ATTACKED attackerUnitId=1 targetUnitId=2 damage=2 targetHp=8",
		"1 UNIT_ATTACKED attackerUnitId=2 targetUnitId=1 damage=1 targetHp=9",
		"2 SIMULATION_ENDED finalTurn=2 survivors=2 totalTurns=1",
	})
}

func TestMarchStartsAndEnds(t *testing.T) {
	s, rec := newSim(t)
	s.CreateMap(10, 1)
	s.SpawnSwordsman(1, 0, 0, 10, 5)
	s.SpawnSwordsman(2, 9, 0, 10, 5)
	rec.Reset()

	if !s.SetMarchTarget(MarchCommand{UnitID: 1, X: 3, Y: 0}) {
		t.Fatal("march rejected")
	}
	if p, ok := s.MarchTarget(1); !ok || p != (world.Position{X: 3, Y: 0}) {
		t.Fatalf("march target = %v, %v", p, ok)
	}
	if err := s.Run(4); err != nil {
		t.Fatalf("run: %v", err)
	}

	expectLines(t, rec, []string{
		"1 MARCH_STARTED unitId=1 x=0 y=0 targetX=3 targetY=0",
		"1 SIMULATION_STARTED unitCount=2 turn=1",
		"1 UNIT_MOVED unitId=1 x=1 y=0",
		"1 UNIT_MOVED unitId=2 x=8 y=0",
		"2 UNIT_MOVED unitId=1 x=2 y=0",
		"2 UNIT_MOVED unitId=2 x=7 y=0",
		"3 UNIT_MOVED unitId=1 x=3 y=0",
		"3 MARCH_ENDED unitId=1 x=3 y=0",
		"3 UNIT_MOVED unitId=2 x=6 y=0",
		"4 UNIT_MOVED unitId=1 x=4 y=0",
		"4 UNIT_MOVED unitId=2 x=5 y=0",
		"5 SIMULATION_ENDED finalTurn=5 survivors=2 totalTurns=4",
	})
	if _, ok := s.MarchTarget(1); ok {
		t.Fatal("march order kept after arrival")
	}
}

func TestMarchOutOfBoundsRejected(t *testing.T) {
	s, rec := newSim(t)
	s.CreateMap(5, 1)
	s.SpawnSwordsman(1, 0, 0, 10, 5)
	before := len(rec.Records)

	if s.SetMarchTarget(MarchCommand{UnitID: 1, X: 5, Y: 0}) {
		t.Fatal("out-of-bounds march accepted")
	}
	if s.ExecuteMarch(MarchCommand{UnitID: 9, X: 1, Y: 0}) {
		t.Fatal("march for unknown unit accepted")
	}
	if len(rec.Records) != before {
		t.Fatalf("rejected march emitted %v", rec.Names()[before:])
	}
}

func TestSetupRejections(t *testing.T) {
	s, rec := newSim(t)

	if s.SpawnSwordsman(1, 0, 0, 10, 5) {
		t.Fatal("spawn before map")
	}
	if s.SetMarchTarget(MarchCommand{UnitID: 1}) {
		t.Fatal("march before map")
	}
	if err := s.Run(Unlimited); !errors.Is(err, ErrNoMap) {
		t.Fatalf("run before map: %v", err)
	}
	if s.CreateMap(0, 3) {
		t.Fatal("zero-width map accepted")
	}
	if len(rec.Records) != 0 {
		t.Fatalf("rejections emitted %v", rec.Names())
	}

	s.CreateMap(3, 3)
	if !s.SpawnSwordsman(1, 0, 0, 10, 5) {
		t.Fatal("spawn")
	}
	if s.SpawnHunter(1, 2, 2, 10, 1, 1, 3) {
		t.Fatal("duplicate id accepted")
	}
	if s.SpawnSwordsman(2, 0, 0, 10, 5) {
		t.Fatal("occupied cell accepted")
	}
	if s.SpawnSwordsman(3, 3, 0, 10, 5) {
		t.Fatal("out-of-bounds spawn accepted")
	}
	if s.ActiveUnitCount() != 1 {
		t.Fatalf("active = %d", s.ActiveUnitCount())
	}
}

func TestRunTwice(t *testing.T) {
	s, _ := newSim(t)
	s.CreateMap(2, 1)
	s.SpawnSwordsman(1, 0, 0, 10, 5)
	if err := s.Run(Unlimited); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := s.Run(Unlimited); !errors.Is(err, ErrEnded) {
		t.Fatalf("second run: %v", err)
	}
}

func TestSingleUnitEndsImmediately(t *testing.T) {
	s, rec := newSim(t)
	s.CreateMap(2, 1)
	s.SpawnSwordsman(1, 0, 0, 10, 5)
	rec.Reset()

	if err := s.Run(Unlimited); err != nil {
		t.Fatalf("run: %v", err)
	}
	expectLines(t, rec, []string{
		"1 SIMULATION_STARTED unitCount=1 turn=1",
		"1 SIMULATION_ENDED finalTurn=1 survivors=1 totalTurns=0",
	})
}

const statueTemplates = `
units:
  - name: statue
    hp: 5
  - name: scout
    hp: 3
    movement: { step: 1 }
    ai: script:scout_ai
`

func TestStalemateStop(t *testing.T) {
	table, err := data.ParseUnitTable([]byte(statueTemplates))
	if err != nil {
		t.Fatalf("templates: %v", err)
	}

	s, rec := newSim(t, WithTemplates(table))
	s.CreateMap(3, 1)
	if !s.SpawnTemplate(1, 0, 0, "statue") || !s.SpawnTemplate(2, 2, 0, "Statue") {
		t.Fatal("spawn template")
	}
	rec.Reset()
	if err := s.Run(Unlimited); err != nil {
		t.Fatalf("run: %v", err)
	}
	expectLines(t, rec, []string{
		"1 SIMULATION_STARTED unitCount=2 turn=1",
		"1 SIMULATION_ENDED finalTurn=1 survivors=2 totalTurns=0",
	})

	s, rec = newSim(t, WithTemplates(table), WithStalemateStop(false))
	s.CreateMap(3, 1)
	s.SpawnTemplate(1, 0, 0, "statue")
	s.SpawnTemplate(2, 2, 0, "statue")
	rec.Reset()
	if err := s.Run(3); err != nil {
		t.Fatalf("run: %v", err)
	}
	expectLines(t, rec, []string{
		"1 SIMULATION_STARTED unitCount=2 turn=1",
		"4 SIMULATION_ENDED finalTurn=4 survivors=2 totalTurns=3",
	})
}

func TestTemplateScriptNeedsEngine(t *testing.T) {
	table, err := data.ParseUnitTable([]byte(statueTemplates))
	if err != nil {
		t.Fatalf("templates: %v", err)
	}

	s, _ := newSim(t, WithTemplates(table))
	s.CreateMap(3, 1)
	if s.SpawnTemplate(1, 0, 0, "scout") {
		t.Fatal("scripted template spawned without an engine")
	}
	if s.SpawnTemplate(1, 0, 0, "dragon") {
		t.Fatal("unknown template spawned")
	}

	engine, err := scripting.NewEngineFromSource(`
function scout_ai(ctx)
    return { { type = "move_toward", target = 0 } }
end`, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	defer engine.Close()

	s, rec := newSim(t, WithTemplates(table), WithScripting(engine))
	s.CreateMap(4, 1)
	if !s.SpawnTemplate(1, 0, 0, "scout") || !s.SpawnTemplate(2, 3, 0, "statue") {
		t.Fatal("spawn")
	}
	rec.Reset()
	if err := s.Run(2); err != nil {
		t.Fatalf("run: %v", err)
	}
	expectLines(t, rec, []string{
		"1 SIMULATION_STARTED unitCount=2 turn=1",
		"1 UNIT_MOVED unitId=1 x=1 y=0",
		"2 UNIT_MOVED unitId=1 x=2 y=0",
		"3 SIMULATION_ENDED finalTurn=3 survivors=2 totalTurns=2",
	})
}

func TestSameSeedSameBattle(t *testing.T) {
	run := func() []string {
		s, rec := newSim(t)
		s.CreateMap(8, 8)
		s.SpawnSwordsman(1, 0, 0, 12, 3)
		s.SpawnSwordsman(2, 7, 7, 12, 3)
		s.SpawnHunter(3, 0, 7, 10, 4, 1, 5)
		s.SpawnHunter(4, 7, 0, 10, 4, 1, 5)
		s.SetMarchTarget(MarchCommand{UnitID: 1, X: 4, Y: 4})
		if err := s.Run(200); err != nil {
			t.Fatalf("run: %v", err)
		}
		return lines(rec)
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("event counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("event %d differs: %q vs %q", i, a[i], b[i])
		}
	}
	if !strings.Contains(a[len(a)-1], "SIMULATION_ENDED") {
		t.Fatalf("last event = %q", a[len(a)-1])
	}
}

func TestCreateMapResets(t *testing.T) {
	s, _ := newSim(t)
	s.CreateMap(3, 3)
	s.SpawnSwordsman(1, 0, 0, 10, 5)
	s.SetMarchTarget(MarchCommand{UnitID: 1, X: 2, Y: 2})

	s.CreateMap(4, 4)
	if s.ActiveUnitCount() != 0 {
		t.Fatal("units survived a new map")
	}
	if _, ok := s.MarchTarget(1); ok {
		t.Fatal("march survived a new map")
	}
	if s.World().Map().Width() != 4 {
		t.Fatal("map not replaced")
	}
}

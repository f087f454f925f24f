package strategy

import (
	"testing"

	"github.com/swbattle/server/internal/world"
)

func swordsman(id world.UnitID, x, y, hp, str uint32) *world.Entity {
	e := walker(id, x, y, hp, 1)
	e.AddAttack(NewMeleeAttack(str))
	e.SetAI(NewSwordsmanAI())
	return e
}

func hunter(id world.UnitID, x, y, hp, agi, str, rng uint32) *world.Entity {
	e := walker(id, x, y, hp, 1)
	e.AddAttack(NewMeleeAttack(str))
	e.AddAttack(NewRangedAttack(RangeConfig{Damage: agi, MinRange: 2, MaxRange: rng, RequireClearAdjacency: true}))
	e.SetAI(NewHunterAI())
	return e
}

func TestSwordsmanAttacksAdjacent(t *testing.T) {
	w, rec := newWorld(t, 2, 1)
	a := addUnit(t, w, swordsman(1, 0, 0, 10, 5))
	b := addUnit(t, w, swordsman(2, 1, 0, 10, 5))
	rec.Reset()

	if !a.AI().Update(a, w, 1) {
		t.Fatal("swordsman did not act")
	}
	if b.Health().HitPoints() != 5 {
		t.Fatalf("target hp = %d, want 5", b.Health().HitPoints())
	}
	if names := rec.Names(); len(names) != 1 || names[0] != "UNIT_ATTACKED" {
		t.Fatalf("events = %v", names)
	}
}

func TestSwordsmanApproachesNearest(t *testing.T) {
	w, _ := newWorld(t, 10, 1)
	a := addUnit(t, w, swordsman(1, 0, 0, 10, 5))
	addUnit(t, w, swordsman(2, 9, 0, 10, 5))
	addUnit(t, w, swordsman(3, 4, 0, 10, 5))

	if !a.AI().Update(a, w, 1) {
		t.Fatal("swordsman did not act")
	}
	if a.Position() != (world.Position{X: 1, Y: 0}) {
		t.Fatalf("position = %v, want (1,0)", a.Position())
	}
}

func TestHunterFallsBackToMelee(t *testing.T) {
	w, rec := newWorld(t, 4, 1)
	h := addUnit(t, w, hunter(1, 0, 0, 10, 6, 2, 3))
	target := addUnit(t, w, swordsman(2, 1, 0, 10, 5))
	rec.Reset()

	// Distance 1 is below the ranged minimum.
	if NewRangedAttack(RangeConfig{Damage: 6, MinRange: 2, MaxRange: 3}).Attack(h, target, w, 1) {
		t.Fatal("ranged attack should fail at distance 1")
	}
	if !h.AI().Update(h, w, 1) {
		t.Fatal("hunter did not act")
	}
	if target.Health().HitPoints() != 8 {
		t.Fatalf("target hp = %d, want 8 (melee damage)", target.Health().HitPoints())
	}
}

func TestHunterShootsInRange(t *testing.T) {
	w, _ := newWorld(t, 6, 1)
	h := addUnit(t, w, hunter(1, 0, 0, 10, 6, 2, 3))
	target := addUnit(t, w, swordsman(2, 3, 0, 10, 5))

	if !h.AI().Update(h, w, 1) {
		t.Fatal("hunter did not act")
	}
	if target.Health().HitPoints() != 4 {
		t.Fatalf("target hp = %d, want 4 (ranged damage)", target.Health().HitPoints())
	}
	if h.Position() != (world.Position{X: 0, Y: 0}) {
		t.Fatal("hunter moved instead of shooting")
	}
}

func TestAIWithoutEnemiesIsIdle(t *testing.T) {
	w, _ := newWorld(t, 3, 3)
	a := addUnit(t, w, swordsman(1, 1, 1, 10, 5))
	if a.AI().Update(a, w, 1) {
		t.Fatal("lone swordsman acted")
	}
}

func TestGatherEnemiesIsSeeded(t *testing.T) {
	build := func() []world.UnitID {
		w, _ := newWorld(t, 10, 10)
		self := addUnit(t, w, swordsman(1, 0, 0, 10, 5))
		for i := uint32(2); i <= 8; i++ {
			addUnit(t, w, swordsman(world.UnitID(i), i, i, 10, 5))
		}
		var ids []world.UnitID
		for _, e := range gatherEnemies(self, w) {
			ids = append(ids, e.ID())
		}
		return ids
	}
	a, b := build(), build()
	if len(a) != 7 {
		t.Fatalf("got %d enemies, want 7", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed, different order: %v vs %v", a, b)
		}
		if a[i] == 1 {
			t.Fatal("self listed as enemy")
		}
	}
}

package system

import "testing"

type recordingSystem struct {
	name  string
	phase Phase
	acts  bool
	log   *[]string
}

func (s *recordingSystem) Phase() Phase { return s.phase }

func (s *recordingSystem) Update(turn uint32) bool {
	*s.log = append(*s.log, s.name)
	return s.acts
}

func TestRunnerPhaseOrder(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recordingSystem{name: "cleanup", phase: PhaseCleanup, log: &log})
	r.Register(&recordingSystem{name: "update-a", phase: PhaseUpdate, log: &log})
	r.Register(&recordingSystem{name: "update-b", phase: PhaseUpdate, log: &log})

	r.Tick(1)

	want := []string{"update-a", "update-b", "cleanup"}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("order = %v, want %v", log, want)
		}
	}
}

func TestRunnerReportsAction(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recordingSystem{name: "idle", phase: PhaseUpdate, log: &log})
	r.Register(&recordingSystem{name: "cleanup", phase: PhaseCleanup, log: &log})
	if r.Tick(1) {
		t.Fatal("no system acted")
	}

	r.Register(&recordingSystem{name: "busy", phase: PhaseUpdate, acts: true, log: &log})
	if !r.Tick(2) {
		t.Fatal("an acting system should make the tick count")
	}
}

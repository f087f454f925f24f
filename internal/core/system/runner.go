package system

import "sort"

// Runner executes systems in phase order each turn. Systems sharing a phase
// run in registration order.
type Runner struct {
	systems []System
	sorted  bool
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 4),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs one turn through every system and reports whether any of them
// acted.
func (r *Runner) Tick(turn uint32) bool {
	r.ensureSorted()
	acted := false
	for _, s := range r.systems {
		if s.Update(turn) {
			acted = true
		}
	}
	return acted
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}

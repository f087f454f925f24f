package system

// Phase defines execution ordering within a single turn.
type Phase int

const (
	PhaseUpdate  Phase = iota // 0: march orders + AI, in turn order
	PhaseCleanup              // 1: prune march orders, flush deferred removals
)

// System is one stage of a turn. Update reports whether it performed any
// action; cleanup stages return false.
type System interface {
	Phase() Phase
	Update(turn uint32) bool
}

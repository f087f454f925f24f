package strategy

import "github.com/swbattle/server/internal/world"

// TerrainMovement walks on the ground: it blocks its cell and respects
// other units' blocking.
type TerrainMovement struct {
	step uint32
}

func NewTerrainMovement(step uint32) *TerrainMovement {
	return &TerrainMovement{step: step}
}

func (m *TerrainMovement) BlocksGround() bool { return true }
func (m *TerrainMovement) StepSize() uint32   { return m.step }

func (m *TerrainMovement) Move(self *world.Entity, w *world.World, target world.Position, turn uint32) bool {
	return moveToward(self, w, target, turn, m.step, false)
}

// FlyingMovement leaves the ground free and ignores blocked cells. It still
// cannot share a cell with another unit.
type FlyingMovement struct {
	step uint32
}

func NewFlyingMovement(step uint32) *FlyingMovement {
	return &FlyingMovement{step: step}
}

func (m *FlyingMovement) BlocksGround() bool { return false }
func (m *FlyingMovement) StepSize() uint32   { return m.step }

func (m *FlyingMovement) Move(self *world.Entity, w *world.World, target world.Position, turn uint32) bool {
	return moveToward(self, w, target, turn, m.step, true)
}

func moveToward(self *world.Entity, w *world.World, target world.Position, turn, step uint32, ignoreBlocking bool) bool {
	cur := self.Position()
	if cur == target || step == 0 {
		return false
	}
	if cur.DistanceTo(target) > step {
		return w.TryMove(self, stepTowards(cur, target, step), turn, ignoreBlocking)
	}
	return w.TryMove(self, target, turn, ignoreBlocking)
}

// stepTowards advances up to step unit-steps along sign(dx), sign(dy),
// never more than one cell per axis per iteration, clamped at zero.
func stepTowards(from, target world.Position, step uint32) world.Position {
	if from == target {
		return from
	}
	dx := sign(int64(target.X) - int64(from.X))
	dy := sign(int64(target.Y) - int64(from.Y))

	nx, ny := int64(from.X), int64(from.Y)
	for i := uint32(0); i < step; i++ {
		if nx == int64(target.X) && ny == int64(target.Y) {
			break
		}
		nx += dx
		ny += dy
	}
	return world.Position{X: uint32(max(nx, 0)), Y: uint32(max(ny, 0))}
}

func sign(v int64) int64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

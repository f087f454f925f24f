package world

import "fmt"

// Position is a cell on the grid. Coordinates are stored unsigned; all
// distance arithmetic is done without wrapping.
type Position struct {
	X uint32
	Y uint32
}

// DistanceTo returns the Chebyshev (8-directional) distance.
func (p Position) DistanceTo(o Position) uint32 {
	return max(absDiff(p.X, o.X), absDiff(p.Y, o.Y))
}

// Less orders positions by X, then Y.
func (p Position) Less(o Position) bool {
	return p.X < o.X || (p.X == o.X && p.Y < o.Y)
}

// Within reports whether p lies inside a width x height grid.
func (p Position) Within(width, height uint32) bool {
	return p.X < width && p.Y < height
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

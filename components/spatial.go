package components

import "github.com/pthm-cable/seine/grid"

// Position is an entity's grid cell.
type Position struct {
	X, Y int
}

// Cell returns the position as a grid cell.
func (p Position) Cell() grid.Cell {
	return grid.Cell{X: p.X, Y: p.Y}
}

// PositionOf converts a grid cell to a position.
func PositionOf(c grid.Cell) Position {
	return Position{X: c.X, Y: c.Y}
}

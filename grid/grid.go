// Package grid provides integer cell coordinates on a bounded, non-wrapping ocean grid.
package grid

import "fmt"

// Cell is a grid coordinate.
type Cell struct {
	X, Y int
}

// String formats the cell as "(x,y)".
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Chebyshev returns the king-move distance between two cells.
func (c Cell) Chebyshev(o Cell) int {
	dx := c.X - o.X
	if dx < 0 {
		dx = -dx
	}
	dy := c.Y - o.Y
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}

// Grid describes the extent of the ocean map.
type Grid struct {
	W, H int
}

// New creates a grid of the given size.
func New(w, h int) Grid {
	return Grid{W: w, H: h}
}

// Contains reports whether the cell lies inside the grid.
func (g Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.W && c.Y >= 0 && c.Y < g.H
}

// Index returns the flat row-major index for a cell. The cell must be inside the grid.
func (g Grid) Index(c Cell) int {
	return c.Y*g.W + c.X
}

// CellAt is the inverse of Index.
func (g Grid) CellAt(idx int) Cell {
	return Cell{X: idx % g.W, Y: idx / g.W}
}

// Size returns the number of cells.
func (g Grid) Size() int {
	return g.W * g.H
}

// Neighborhood returns every in-bounds cell within Chebyshev distance radius of c,
// including c itself, in row-major order.
func (g Grid) Neighborhood(c Cell, radius int) []Cell {
	if radius < 0 {
		return nil
	}
	cells := make([]Cell, 0, (2*radius+1)*(2*radius+1))
	for y := c.Y - radius; y <= c.Y+radius; y++ {
		for x := c.X - radius; x <= c.X+radius; x++ {
			n := Cell{X: x, Y: y}
			if g.Contains(n) {
				cells = append(cells, n)
			}
		}
	}
	return cells
}

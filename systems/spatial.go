// Package systems provides ECS systems for the fishery simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/seine/components"
	"github.com/pthm-cable/seine/grid"
	"github.com/pthm-cable/seine/opportunity"
)

// FadIndex provides per-cell floating object lookups. Views are built from the
// live components on every query, so harvests are visible immediately.
type FadIndex struct {
	grid   grid.Grid
	cells  [][]ecs.Entity // Flat row-major grid of entity lists
	fadMap *ecs.Map1[components.Fad]
	byID   map[int64]ecs.Entity
	active map[int32]int // Active objects per owner
}

// NewFadIndex creates an empty index covering the grid.
func NewFadIndex(w *ecs.World, g grid.Grid) *FadIndex {
	cells := make([][]ecs.Entity, g.Size())
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 2)
	}
	return &FadIndex{
		grid:   g,
		cells:  cells,
		fadMap: ecs.NewMap1[components.Fad](w),
		byID:   make(map[int64]ecs.Entity),
		active: make(map[int32]int),
	}
}

// Clear removes all entries.
func (ix *FadIndex) Clear() {
	for i := range ix.cells {
		ix.cells[i] = ix.cells[i][:0]
	}
	clear(ix.byID)
	clear(ix.active)
}

// Insert adds a floating object at a cell. Cells outside the grid are ignored.
func (ix *FadIndex) Insert(e ecs.Entity, c grid.Cell, fad *components.Fad) {
	if !ix.grid.Contains(c) {
		return
	}
	idx := ix.grid.Index(c)
	ix.cells[idx] = append(ix.cells[idx], e)
	ix.byID[fad.ID] = e
	if fad.Active {
		ix.active[fad.Owner]++
	}
}

// Entity returns the entity of a floating object by id.
func (ix *FadIndex) Entity(id int64) (ecs.Entity, bool) {
	e, ok := ix.byID[id]
	return e, ok
}

// Fad returns the live component of a floating object by id.
func (ix *FadIndex) Fad(id int64) (*components.Fad, bool) {
	e, ok := ix.byID[id]
	if !ok {
		return nil, false
	}
	return ix.fadMap.Get(e), true
}

// ActiveFads returns how many active objects the owner has in the water.
func (ix *FadIndex) ActiveFads(owner int32) int {
	return ix.active[owner]
}

func (ix *FadIndex) view(e ecs.Entity, c grid.Cell) opportunity.FadView {
	f := ix.fadMap.Get(e)
	return opportunity.FadView{
		ID:      f.ID,
		Owner:   f.Owner,
		Cell:    c,
		Active:  f.Active,
		Biomass: f.Biomass.Clone(),
	}
}

// FadsAt returns every floating object at the cell in insertion order.
func (ix *FadIndex) FadsAt(c grid.Cell) []opportunity.FadView {
	if !ix.grid.Contains(c) {
		return nil
	}
	entities := ix.cells[ix.grid.Index(c)]
	if len(entities) == 0 {
		return nil
	}
	out := make([]opportunity.FadView, 0, len(entities))
	for _, e := range entities {
		out = append(out, ix.view(e, c))
	}
	return out
}

// FadsNear returns every floating object within Chebyshev distance radius.
func (ix *FadIndex) FadsNear(c grid.Cell, radius int) []opportunity.FadView {
	var out []opportunity.FadView
	for _, n := range ix.grid.Neighborhood(c, radius) {
		for _, e := range ix.cells[ix.grid.Index(n)] {
			out = append(out, ix.view(e, n))
		}
	}
	return out
}

package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/seine/action"
	"github.com/pthm-cable/seine/components"
	"github.com/pthm-cable/seine/grid"
	"github.com/pthm-cable/seine/inspector"
	"github.com/pthm-cable/seine/opportunity"
)

type selectionKind int

const (
	selectNone selectionKind = iota
	selectVessel
	selectFad
)

// selection identifies the inspected entity by its simulation id, so it
// survives entity moves and removal.
type selection struct {
	kind   selectionKind
	vessel int32
	fad    int64
	cell   grid.Cell
}

// pick chooses what a click on a cell selects. Vessels win over floating
// objects; clicking the same cell again cycles through what is there.
func pick(cell grid.Cell, vessels []int32, fads []opportunity.FadView, current selection) selection {
	type candidate struct {
		kind   selectionKind
		vessel int32
		fad    int64
	}
	var all []candidate
	for _, id := range vessels {
		all = append(all, candidate{kind: selectVessel, vessel: id})
	}
	for _, f := range fads {
		all = append(all, candidate{kind: selectFad, fad: f.ID})
	}
	if len(all) == 0 {
		return selection{}
	}

	next := 0
	if current.cell == cell {
		for i, c := range all {
			if c.kind == current.kind && c.vessel == current.vessel && c.fad == current.fad {
				next = (i + 1) % len(all)
				break
			}
		}
	}
	c := all[next]
	return selection{kind: c.kind, vessel: c.vessel, fad: c.fad, cell: cell}
}

// handleSelection processes click selection and deselection.
func (g *Game) handleSelection() {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		g.selected = selection{}
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	mouse := rl.GetMousePosition()
	if g.selected.kind != selectNone {
		if g.inspector.CloseClicked(mouse.X, mouse.Y) {
			g.selected = selection{}
			return
		}
		if g.inspector.Contains(mouse.X, mouse.Y) {
			return
		}
	}
	if g.controls.Contains(mouse.X, mouse.Y, g.overlays) {
		return
	}

	x, y, ok := g.camera.CellAt(mouse.X, mouse.Y)
	if !ok {
		return
	}
	cell := grid.Cell{X: x, Y: y}
	g.selected = pick(cell, g.sim.VesselsAt(cell), g.sim.Fads().Index().FadsAt(cell), g.selected)
}

// selectedCell returns where the selection currently is.
func (g *Game) selectedCell() (grid.Cell, bool) {
	switch g.selected.kind {
	case selectVessel:
		if strat, ok := g.sim.Strategies().Get(g.selected.vessel); ok {
			return strat.Vessel().Cell(), true
		}
	case selectFad:
		var found grid.Cell
		var ok bool
		g.sim.Fads().Each(func(c grid.Cell, f *components.Fad) {
			if f.ID == g.selected.fad {
				found, ok = c, true
			}
		})
		return found, ok
	}
	return grid.Cell{}, false
}

// drawInspector renders the panel for the selection. A removed floating
// object clears the selection.
func (g *Game) drawInspector() {
	switch g.selected.kind {
	case selectVessel:
		v, h, ok := g.sim.Vessel(g.selected.vessel)
		if !ok {
			g.selected = selection{}
			return
		}
		strat, _ := g.sim.Strategies().Get(g.selected.vessel)
		var lines []string
		lines = append(lines, fmt.Sprintf("Cell: %s", strat.Vessel().Cell()))
		for _, r := range g.sim.LastDecisions() {
			if r.Vessel != g.selected.vessel {
				continue
			}
			line := fmt.Sprintf("%s @ (%d,%d) %.1fh", r.Kind, r.X, r.Y, r.Duration)
			if r.Caught > 0 {
				line += fmt.Sprintf(" +%.1ft", r.Caught)
			}
			lines = append(lines, line)
		}
		var streak []string
		for _, k := range action.SetKinds {
			if n := strat.State().Occurrences(k); n > 0 {
				streak = append(streak, fmt.Sprintf("%s x%d", k, n))
			}
		}
		if len(streak) > 0 {
			lines = append(lines, fmt.Sprintf("Streak: %v", streak))
		}

		g.inspector.Draw(fmt.Sprintf("VESSEL %d", v.ID), []inspector.Section{
			{Title: "Vessel", Components: []any{v}},
			{Title: "Hold", Components: []any{h}},
			{Title: "Yesterday", Lines: lines},
		})

	case selectFad:
		fad, ok := g.sim.Fads().Index().Fad(g.selected.fad)
		if !ok {
			g.selected = selection{}
			return
		}
		g.inspector.Draw(fmt.Sprintf("FAD %d", fad.ID), []inspector.Section{
			{Title: "Floating Object", Components: []any{fad}},
		})
	}
}

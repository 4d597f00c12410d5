package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/seine/action"
	"github.com/pthm-cable/seine/components"
	"github.com/pthm-cable/seine/grid"
	"github.com/pthm-cable/seine/ui"
)

// Map colors
var (
	colorDeepSea     = rl.Color{R: 10, G: 30, B: 60, A: 255}
	colorLand        = rl.Color{R: 70, G: 85, B: 55, A: 255}
	colorPort        = rl.Color{R: 230, G: 230, B: 230, A: 255}
	colorClosed      = rl.Color{R: 200, G: 60, B: 60, A: 70}
	colorCurrent     = rl.Color{R: 140, G: 200, B: 255, A: 110}
	colorSchool      = rl.Color{R: 255, G: 255, B: 255, A: 160}
	colorFadActive   = rl.Color{R: 255, G: 200, B: 40, A: 255}
	colorFadInactive = rl.Color{R: 120, G: 110, B: 90, A: 200}
	colorVessel      = rl.Color{R: 240, G: 90, B: 70, A: 255}
	colorVesselFull  = rl.Color{R: 250, G: 160, B: 60, A: 255}
)

// attractionTint maps a kind to the hue its attraction layer is drawn in.
var attractionTint = [action.NumKinds]rl.Color{
	action.FadSet:              {R: 40, G: 140, B: 120, A: 255},
	action.OpportunisticFadSet: {R: 90, G: 120, B: 160, A: 255},
	action.NonAssociatedSet:    {R: 30, G: 110, B: 170, A: 255},
	action.DolphinSet:          {R: 110, G: 80, B: 170, A: 255},
}

// Draw renders one frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.drawOcean()
	if g.overlays.IsEnabled(ui.OverlayClosedAreas) {
		g.drawClosedAreas()
	}
	if g.overlays.IsEnabled(ui.OverlayCurrents) {
		g.drawCurrents()
	}
	if g.overlays.IsEnabled(ui.OverlaySchools) {
		g.drawSchools()
	}
	g.drawFads()
	g.drawVessels()
	g.drawSelectionIndicator()

	g.drawUI()
	rl.EndDrawing()
}

// cellRect returns the screen rectangle of a cell.
func (g *Game) cellRect(c grid.Cell) rl.Rectangle {
	sx, sy := g.camera.WorldToScreen(float32(c.X), float32(c.Y))
	z := g.camera.Zoom
	return rl.Rectangle{X: sx, Y: sy, Width: z + 0.5, Height: z + 0.5}
}

// cellCenter returns the screen position of a cell's center.
func (g *Game) cellCenter(c grid.Cell) (float32, float32) {
	return g.camera.WorldToScreen(float32(c.X)+0.5, float32(c.Y)+0.5)
}

// drawOcean shades sea cells by the enabled attraction layer.
func (g *Game) drawOcean() {
	m := g.sim.Ocean()
	kind, shade := g.overlays.AttractionKind()
	var peak float64
	var tint rl.Color
	if shade {
		peak = g.sim.Attraction().Field(kind).Max()
		tint = attractionTint[kind]
	}

	x0, y0, x1, y1 := g.camera.VisibleCells()
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c := grid.Cell{X: x, Y: y}
			color := colorDeepSea
			switch {
			case m.IsLand(c):
				color = colorLand
			case shade && peak > 0:
				t := float32(g.sim.Attraction().Value(kind, c) / peak)
				color = rl.ColorLerp(colorDeepSea, tint, t)
			}
			rl.DrawRectangleRec(g.cellRect(c), color)
		}
	}

	port := g.cellRect(g.sim.Port())
	rl.DrawRectangleLinesEx(port, max(1, g.camera.Zoom/6), colorPort)
}

// drawClosedAreas tints cells where fishing is closed.
func (g *Game) drawClosedAreas() {
	x0, y0, x1, y1 := g.camera.VisibleCells()
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c := grid.Cell{X: x, Y: y}
			if g.sim.Rules().InClosedArea(c) {
				rl.DrawRectangleRec(g.cellRect(c), colorClosed)
			}
		}
	}
}

// drawCurrents draws current vectors on a sparse lattice sized to the zoom.
func (g *Game) drawCurrents() {
	stride := max(1, int(24/g.camera.Zoom))
	day := g.sim.Day()
	x0, y0, x1, y1 := g.camera.VisibleCells()
	for y := y0 - y0%stride; y <= y1; y += stride {
		for x := x0 - x0%stride; x <= x1; x += stride {
			c := grid.Cell{X: x, Y: y}
			if g.sim.Ocean().IsLand(c) {
				continue
			}
			u, v := g.sim.Currents().Vector(c, day)
			sx, sy := g.cellCenter(c)
			scale := float32(stride) * g.camera.Zoom * 0.8
			ex := sx + float32(u)*scale
			ey := sy + float32(v)*scale
			rl.DrawLineEx(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: ex, Y: ey}, 1, colorCurrent)
			rl.DrawCircleV(rl.Vector2{X: ex, Y: ey}, 1.5, colorCurrent)
		}
	}
}

// drawSchools marks cells holding an active school detection.
func (g *Game) drawSchools() {
	day := g.sim.Day()
	radius := max(1.5, g.camera.Zoom/5)
	for _, cache := range g.sim.Caches() {
		for _, c := range cache.ActiveAt(day) {
			if !g.camera.IsVisible(float32(c.X), float32(c.Y), 1) {
				continue
			}
			sx, sy := g.cellCenter(c)
			rl.DrawCircleLines(int32(sx), int32(sy), radius*2, colorSchool)
		}
	}
}

// drawFads draws floating objects as diamonds, active ones filled.
func (g *Game) drawFads() {
	showInactive := g.overlays.IsEnabled(ui.OverlayInactiveFads)
	size := max(2, g.camera.Zoom/4)
	g.sim.Fads().Each(func(c grid.Cell, fad *components.Fad) {
		if !fad.Active && !showInactive {
			return
		}
		if !g.camera.IsVisible(float32(c.X), float32(c.Y), 1) {
			return
		}
		sx, sy := g.cellCenter(c)
		top := rl.Vector2{X: sx, Y: sy - size}
		left := rl.Vector2{X: sx - size, Y: sy}
		bottom := rl.Vector2{X: sx, Y: sy + size}
		right := rl.Vector2{X: sx + size, Y: sy}
		if fad.Active {
			rl.DrawTriangle(top, left, bottom, colorFadActive)
			rl.DrawTriangle(top, bottom, right, colorFadActive)
			return
		}
		rl.DrawLineV(top, left, colorFadInactive)
		rl.DrawLineV(left, bottom, colorFadInactive)
		rl.DrawLineV(bottom, right, colorFadInactive)
		rl.DrawLineV(right, top, colorFadInactive)
	})
}

// drawVessels draws each vessel as a circle with a hold fill arc.
func (g *Game) drawVessels() {
	radius := max(3, g.camera.Zoom*0.4)
	g.sim.EachVessel(func(c grid.Cell, v *components.Vessel, h *components.Hold) {
		if !g.camera.IsVisible(float32(c.X), float32(c.Y), 1) {
			return
		}
		sx, sy := g.cellCenter(c)
		color := colorVessel
		if h.Fill() >= 1 {
			color = colorVesselFull
		}
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, color)
		fill := float32(h.Fill()) * 360
		if fill > 0 {
			rl.DrawRing(rl.Vector2{X: sx, Y: sy}, radius+1, radius+3, -90, -90+fill, 24, rl.White)
		}
	})
}

// drawSelectionIndicator circles the selected entity.
func (g *Game) drawSelectionIndicator() {
	c, ok := g.selectedCell()
	if !ok {
		return
	}
	sx, sy := g.cellCenter(c)
	pulse := float32(math.Sin(rl.GetTime()*4)) * 2
	rl.DrawCircleLines(int32(sx), int32(sy), max(8, g.camera.Zoom*0.8)+pulse, rl.Yellow)
}

// drawUI renders the HUD and panels over the map.
func (g *Game) drawUI() {
	g.hud.Draw(g.hudData())
	g.controls.Draw(&g.state, g.overlays)
	g.windowPanel.Draw(g.lastWindow)
	if g.showPerf {
		g.perfPanel.Draw(g.sim.Perf().Stats())
	}
	g.drawInspector()
	g.hud.DrawControls(int32(g.screenHeight),
		"[Space] pause  [N] step  [,/.] pace  [Tab] controls  [P] perf  [1-4] attraction  [C] currents  [A] areas  [S] schools  [I] inactive  [Home] fit")
}

// hudData gathers the HUD counters.
func (g *Game) hudData() ui.HUDData {
	data := ui.HUDData{
		Title:         "Purse Seine Fleet",
		Day:           g.sim.Day(),
		SeasonClosed:  g.sim.Rules().Closed(g.sim.Day()),
		DaysPerSecond: float64(g.state.DaysPerSecond),
		FPS:           rl.GetFPS(),
		Paused:        g.state.Paused,
	}

	port := g.sim.Port()
	var fill float64
	g.sim.EachVessel(func(c grid.Cell, _ *components.Vessel, h *components.Hold) {
		data.Vessels++
		if c == port {
			data.AtPort++
		}
		fill += h.Fill()
	})
	if data.Vessels > 0 {
		data.MeanFill = fill / float64(data.Vessels)
	}

	data.ActiveFads, data.InactiveFads = g.sim.Fads().Count()
	for _, cache := range g.sim.Caches() {
		data.Schools += len(cache.ActiveAt(g.sim.Day()))
	}
	return data
}

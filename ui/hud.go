package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/seine/systems"
	"github.com/pthm-cable/seine/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Day           int
	Vessels       int
	AtPort        int
	MeanFill      float64
	ActiveFads    int
	InactiveFads  int
	Schools       int
	SeasonClosed  bool
	DaysPerSecond float64
	FPS           int32
	Paused        bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Vessels: %d (%d in port) | Mean hold: %.0f%%", data.Vessels, data.AtPort, data.MeanFill*100),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("FADs: %d active, %d inactive | Schools seen: %d", data.ActiveFads, data.InactiveFads, data.Schools),
		10, 55, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Day: %d | Speed: %.1f d/s | FPS: %d", data.Day, data.DaysPerSecond, data.FPS),
		10, 75, 16, rl.LightGray,
	)

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	rl.DrawText(status, 10, 95, 16, rl.Yellow)
	if data.SeasonClosed {
		rl.DrawText("SEASON CLOSED", 100, 95, 16, rl.Orange)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase timing of the simulated day.
type PerfPanel struct {
	renderer *Renderer
	registry *systems.PhaseRegistry
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32, registry *systems.PhaseRegistry) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		registry: registry,
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y
	p.renderer.DrawPanel(x-6, y-6, 300, 130)

	rl.DrawText("Day Performance", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Avg day: %s", stats.AvgDayDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, id := range p.registry.IDs() {
		pct := stats.PhasePct[id]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-16s %8s %5.1f%%", p.registry.GetName(id), stats.PhaseAvg[id].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// WindowPanel renders the counters of the last completed stats window.
type WindowPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewWindowPanel creates a new window stats panel.
func NewWindowPanel(x, y, width int32) *WindowPanel {
	return &WindowPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (w *WindowPanel) SetPosition(x, y int32) {
	w.x = x
	w.y = y
}

// Draw renders the panel. A nil window shows a placeholder.
func (w *WindowPanel) Draw(stats *telemetry.WindowStats) {
	r := w.renderer
	pad := r.Theme.Padding
	height := r.Theme.LineHeight*10 + pad*2
	r.DrawPanel(w.x, w.y, w.width, height)

	x := w.x + pad
	y := r.DrawSectionHeader(x, w.y+pad, "Last Window")
	if stats == nil {
		r.DrawLabelValue(x, y, "Status", "collecting")
		return
	}

	y = r.DrawLabelValue(x, y, "Days", fmt.Sprintf("%d-%d", stats.WindowStartDay, stats.WindowEndDay))
	y = r.DrawLabelValue(x, y, "Sets", fmt.Sprintf("FAD %d  OFS %d  NAS %d  DEL %d",
		stats.FadSets, stats.OpportunisticSets, stats.FreeSchoolSets, stats.DolphinSets))
	y = r.DrawLabelValue(x, y, "Deployed", fmt.Sprintf("%d", stats.Deployments))
	y = r.DrawLabelValue(x, y, "Search/Wait", fmt.Sprintf("%d / %d", stats.Searches, stats.Waits))
	y = r.DrawLabelValue(x, y, "Catch", fmt.Sprintf("%.0f t", stats.CatchTonnes))
	y = r.DrawLabelValue(x, y, "Landings", fmt.Sprintf("%d (%.0f)", stats.TripsEnded, stats.LandedRevenue))
	y = r.DrawLabelValue(x, y, "Value p50", fmt.Sprintf("%.3f", stats.ChosenValueP50))
	r.DrawBar(x, y, "Hold fill", float32(stats.HoldFillMean), w.width-2*pad)
}

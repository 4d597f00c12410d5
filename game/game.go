// Package game runs the simulation inside a raylib window: it paces days
// against wall time, draws the ocean and the fleet, and handles input.
package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/seine/camera"
	"github.com/pthm-cable/seine/config"
	"github.com/pthm-cable/seine/inspector"
	"github.com/pthm-cable/seine/sim"
	"github.com/pthm-cable/seine/systems"
	"github.com/pthm-cable/seine/telemetry"
	"github.com/pthm-cable/seine/ui"
)

// maxDaysPerFrame bounds catch-up after a slow frame.
const maxDaysPerFrame = 8

// Game wraps a simulation with its viewer state.
type Game struct {
	sim *sim.Simulation
	cfg *config.Config

	camera      *camera.Camera
	inspector   *inspector.Inspector
	hud         *ui.HUD
	perfPanel   *ui.PerfPanel
	windowPanel *ui.WindowPanel
	controls    *ui.ControlsPanel
	overlays    *ui.OverlayRegistry
	phases      *systems.PhaseRegistry

	state       ui.ControlsState
	accumulator float32
	showPerf    bool

	screenWidth  float32
	screenHeight float32

	selected   selection
	lastWindow *telemetry.WindowStats
}

// New creates the simulation and its viewer. The raylib window must be open.
func New(cfg *config.Config, opts sim.Options) (*Game, error) {
	g := &Game{
		cfg:          cfg,
		screenWidth:  float32(rl.GetScreenWidth()),
		screenHeight: float32(rl.GetScreenHeight()),
		hud:          ui.NewHUD(),
		overlays:     ui.NewOverlayRegistry(),
		phases:       systems.NewPhaseRegistry(),
		state:        ui.ControlsState{DaysPerSecond: float32(cfg.Screen.DaysPerSecond)},
	}

	onStats := opts.StatsCallback
	opts.StatsCallback = func(w telemetry.WindowStats) {
		g.lastWindow = &w
		if onStats != nil {
			onStats(w)
		}
	}
	s, err := sim.New(cfg, opts)
	if err != nil {
		return nil, err
	}
	g.sim = s

	m := s.Ocean()
	g.camera = camera.New(g.screenWidth, g.screenHeight, float32(m.W), float32(m.H))
	g.inspector = inspector.NewInspector(int32(g.screenWidth), cfg.Species)
	g.controls = ui.NewControlsPanel(10, 120, 260)
	g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-300, int32(g.screenHeight)-150, g.phases)
	g.windowPanel = ui.NewWindowPanel(10, int32(g.screenHeight)-210, 300)
	return g, nil
}

// Update handles input and advances the simulation by as many days as wall
// time allows at the configured pace.
func (g *Game) Update() {
	g.handleInput()
	g.sim.Perf().RecordFrame()

	if g.state.StepRequested {
		g.state.StepRequested = false
		g.sim.RunDay()
	}
	if g.state.ResetCamera {
		g.state.ResetCamera = false
		g.camera.Reset()
	}
	if g.state.Paused {
		g.accumulator = 0
		return
	}

	g.accumulator += rl.GetFrameTime() * g.state.DaysPerSecond
	for days := 0; g.accumulator >= 1 && days < maxDaysPerFrame; days++ {
		g.sim.RunDay()
		g.accumulator--
	}
	g.accumulator = min(g.accumulator, 1)
}

// Day returns the next day to simulate.
func (g *Game) Day() int {
	return g.sim.Day()
}

// Unload finalizes the simulation outputs.
func (g *Game) Unload() error {
	return g.sim.Close()
}

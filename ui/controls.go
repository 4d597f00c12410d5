package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Speed limits for the days-per-second slider.
const (
	MinDaysPerSecond = 0.5
	MaxDaysPerSecond = 60
)

// ControlsState is what the controls panel edits. The panel writes user
// changes back into it.
type ControlsState struct {
	Paused        bool
	StepRequested bool
	ResetCamera   bool
	DaysPerSecond float32
}

// ControlsPanel renders the left-side controls panel: run buttons, a speed
// slider and the overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen position lies over the visible panel.
func (c *ControlsPanel) Contains(mouseX, mouseY float32, overlays *OverlayRegistry) bool {
	if !c.visible {
		return false
	}
	return int32(mouseX) >= c.x && int32(mouseX) <= c.x+c.width &&
		int32(mouseY) >= c.y && int32(mouseY) <= c.y+c.height(overlays)
}

// height computes the panel height from its content.
func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	r := c.renderer
	lines := int32(0)
	for _, cat := range overlays.Categories() {
		lines += int32(len(overlays.ByCategory(cat))) + 1
	}
	return r.Theme.Padding*3 + 30 + 50 + lines*(r.Theme.LineHeight+6)
}

// Draw renders the panel and applies button presses to state and overlays.
func (c *ControlsPanel) Draw(state *ControlsState, overlays *OverlayRegistry) {
	if !c.visible {
		return
	}

	r := c.renderer
	pad := r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, c.height(overlays))

	x := float32(c.x + pad)
	y := float32(c.y + pad)
	inner := float32(c.width - 2*pad)
	buttonW := (inner - 10) / 3

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: buttonW, Height: 24}, toggleText(state.Paused, "Resume", "Pause")) {
		state.Paused = !state.Paused
	}
	if gui.Button(rl.Rectangle{X: x + buttonW + 5, Y: y, Width: buttonW, Height: 24}, "Step") {
		state.StepRequested = true
	}
	if gui.Button(rl.Rectangle{X: x + 2*(buttonW+5), Y: y, Width: buttonW, Height: 24}, "Fit View") {
		state.ResetCamera = true
	}
	y += 30

	rl.DrawText(fmt.Sprintf("Days per second: %.1f", state.DaysPerSecond), int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += 16
	state.DaysPerSecond = gui.SliderBar(
		rl.Rectangle{X: x + 25, Y: y, Width: inner - 50, Height: 16},
		"0.5", "60",
		state.DaysPerSecond, MinDaysPerSecond, MaxDaysPerSecond,
	)
	y += 34

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), int32(x), int32(y), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += float32(r.Theme.LineHeight + 6)

		for _, desc := range overlays.ByCategory(category) {
			label := fmt.Sprintf("%s %s [%s]", toggleText(overlays.IsEnabled(desc.ID), "[x]", "[ ]"), desc.Name, desc.KeyLabel)
			if gui.Button(rl.Rectangle{X: x, Y: y, Width: inner, Height: float32(r.Theme.LineHeight + 4)}, label) {
				overlays.Toggle(desc.ID)
			}
			y += float32(r.Theme.LineHeight + 6)
		}
	}
}

func toggleText(on bool, whenOn, whenOff string) string {
	if on {
		return whenOn
	}
	return whenOff
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "attraction":
		return "Attraction"
	case "ocean":
		return "Ocean"
	case "fleet":
		return "Fleet"
	default:
		return cat
	}
}

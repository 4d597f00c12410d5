// Package inspector draws a panel describing the selected vessel or floating
// object from the inspect tags on its components.
package inspector

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Panel dimensions
const (
	PanelWidth   = 320
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Section is a titled group of components shown in the panel.
type Section struct {
	Title      string
	Components []any
	Lines      []string // Free text drawn after the components
}

// Inspector holds the panel placement and the species labels used for
// per-species bars.
type Inspector struct {
	panelX, panelY int32
	species        string
	lastHeight     int32
}

// NewInspector creates an inspector anchored to the top right of the screen.
func NewInspector(screenWidth int32, species []string) *Inspector {
	return &Inspector{
		panelX:  screenWidth - PanelWidth - 10,
		panelY:  10,
		species: strings.Join(species, ","),
	}
}

// Resize re-anchors the panel after a window resize.
func (ins *Inspector) Resize(screenWidth int32) {
	ins.panelX = screenWidth - PanelWidth - 10
}

// CloseClicked reports whether a screen position hits the close button.
func (ins *Inspector) CloseClicked(mouseX, mouseY float32) bool {
	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	return int32(mouseX) >= closeX && int32(mouseX) <= closeX+20 &&
		int32(mouseY) >= closeY && int32(mouseY) <= closeY+20
}

// Contains reports whether a screen position lies over the last drawn panel.
func (ins *Inspector) Contains(mouseX, mouseY float32) bool {
	return int32(mouseX) >= ins.panelX && int32(mouseX) <= ins.panelX+PanelWidth &&
		int32(mouseY) >= ins.panelY && int32(mouseY) <= ins.panelY+ins.lastHeight
}

// Draw renders the panel with the given title and sections.
func (ins *Inspector) Draw(title string, sections []Section) {
	height := ins.panelHeight(sections)
	ins.lastHeight = height

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(height)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(title, ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, sec := range sections {
		ins.drawSectionHeader(x, y, sec.Title)
		y += 22
		for _, field := range ins.fields(sec) {
			y += DrawField(x, y, field)
		}
		for _, line := range sec.Lines {
			rl.DrawText(line, x, y, 14, ColorTextDim)
			y += 18
		}
		y += 6
	}
}

// fields extracts the section's fields, labelling per-species bars.
func (ins *Inspector) fields(sec Section) []Field {
	var out []Field
	for _, c := range sec.Components {
		for _, f := range ExtractFields(c) {
			if f.Widget == WidgetBar && ins.species != "" {
				if _, ok := GetFloatSlice(f.Value); ok {
					f.Options["labels"] = ins.species
				}
			}
			out = append(out, f)
		}
	}
	return out
}

// drawSectionHeader renders a section title.
func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

// panelHeight estimates the panel height from the widgets it will draw.
func (ins *Inspector) panelHeight(sections []Section) int32 {
	height := int32(HeaderHeight + PanelPadding)
	for _, sec := range sections {
		height += 22 + 6
		for _, f := range ins.fields(sec) {
			height += fieldHeight(f)
		}
		height += int32(len(sec.Lines)) * 18
	}
	return height + PanelPadding
}

// fieldHeight mirrors the heights returned by the draw functions.
func fieldHeight(f Field) int32 {
	switch f.Widget {
	case WidgetBar:
		if values, ok := GetFloatSlice(f.Value); ok {
			if parseLabels(f.Options, len(values)) != nil {
				return 32
			}
			return 18
		}
		if _, ok := GetFloatValue(f.Value); ok {
			return 18
		}
	case WidgetBool:
		if _, ok := f.Value.(bool); ok {
			return 18
		}
	}
	return 20
}

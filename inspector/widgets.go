package inspector

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg   = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarHigh = rl.Color{R: 220, G: 160, B: 60, A: 255}
	ColorText    = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorBoolOn  = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

// DrawLabel renders a text value.
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	text := FormatValue(value, options["fmt"])
	rl.DrawText(fmt.Sprintf("%s: %s", name, text), x, y, 16, ColorText)
	return 20
}

// DrawBar renders a horizontal bar filled to value/max.
func DrawBar(x, y int32, name string, value float32, options map[string]string) int32 {
	ratio := clampRatio(value / GetMax(options))

	barWidth := int32(120)
	barHeight := int32(14)

	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 80
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)
	fillColor := ColorBarFill
	if ratio > 0.9 {
		fillColor = ColorBarHigh
	}
	rl.DrawRectangle(barX, y, int32(float32(barWidth)*ratio), barHeight, fillColor)

	rl.DrawText(FormatValue(value, options["fmt"]), barX+barWidth+5, y, 14, ColorTextDim)
	return 18
}

// DrawBarGroup renders stacked horizontal bars for per-species values.
// A stacked bar reads as the share of max taken by each species.
func DrawBarGroup(x, y int32, name string, values []float32, options map[string]string) int32 {
	maxVal := GetMax(options)
	barWidth := int32(120)
	barHeight := int32(14)

	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 80
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)
	offset := int32(0)
	var total float32
	for i, v := range values {
		total += v
		w := int32(float32(barWidth) * clampRatio(v/maxVal))
		w = min(w, barWidth-offset)
		rl.DrawRectangle(barX+offset, y, w, barHeight, SpeciesColor(i))
		offset += w
	}
	rl.DrawText(fmt.Sprintf("%.1f", total), barX+barWidth+5, y, 14, ColorTextDim)
	height := barHeight + 4

	if labels := parseLabels(options, len(values)); labels != nil {
		lx := barX
		for i, label := range labels {
			rl.DrawRectangle(lx, y+height+2, 8, 8, SpeciesColor(i))
			text := fmt.Sprintf("%s %.1f", label, values[i])
			rl.DrawText(text, lx+11, y+height, 10, ColorTextDim)
			lx += int32(rl.MeasureText(text, 10)) + 20
		}
		height += 14
	}
	return height
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	indicatorX := x + 80
	indicatorSize := int32(14)
	color := ColorBoolOff
	text := "OFF"
	if value {
		color = ColorBoolOn
		text = "ON"
	}
	rl.DrawRectangle(indicatorX, y, indicatorSize, indicatorSize, color)
	rl.DrawText(text, indicatorX+indicatorSize+5, y, 14, color)
	return 18
}

// DrawField renders a field using its widget type.
func DrawField(x, y int32, field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if values, ok := GetFloatSlice(field.Value); ok {
			return DrawBarGroup(x, y, field.Name, values, field.Options)
		}
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawBar(x, y, field.Name, v, field.Options)
		}
	case WidgetBool:
		if v, ok := field.Value.(bool); ok {
			return DrawBool(x, y, field.Name, v)
		}
	}
	return DrawLabel(x, y, field.Name, field.Value, field.Options)
}

// SpeciesColor returns a stable color for a species index.
func SpeciesColor(i int) rl.Color {
	palette := []rl.Color{
		{R: 90, G: 160, B: 230, A: 255},
		{R: 230, G: 120, B: 90, A: 255},
		{R: 240, G: 210, B: 90, A: 255},
		{R: 150, G: 110, B: 210, A: 255},
	}
	return palette[i%len(palette)]
}

func parseLabels(options map[string]string, count int) []string {
	raw, ok := options["labels"]
	if !ok || raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) != count {
		return nil
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func clampRatio(r float32) float32 {
	return max(0, min(1, r))
}

// Ocean preview tool - interactive land mask and attraction tuning with sliders.
//
// Usage: go run ./cmd/oceanpreview [-config config.yaml]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/seine/action"
	"github.com/pthm-cable/seine/config"
	"github.com/pthm-cable/seine/grid"
	"github.com/pthm-cable/seine/ocean"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewW     = 640
	panelX       = previewW + 30
	panelWidth   = windowWidth - panelX - 20
)

// previewParams holds the tunable ocean parameters.
type previewParams struct {
	LandThreshold float32
	NoiseScale    float32
	Octaves       int
	Persistence   float32
	Seed          int64
	Kind          action.Kind
}

func paramsFrom(c config.OceanConfig, seed int64) previewParams {
	return previewParams{
		LandThreshold: float32(c.LandThreshold),
		NoiseScale:    float32(c.NoiseScale),
		Octaves:       c.Octaves,
		Persistence:   float32(c.Persistence),
		Seed:          seed,
		Kind:          action.FadSet,
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	defaults := paramsFrom(cfg.Ocean, cfg.Simulation.Seed)
	params := defaults
	port := grid.Cell{X: cfg.Fleet.PortX, Y: cfg.Fleet.PortY}

	rl.InitWindow(windowWidth, windowHeight, "Ocean Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	w, h := cfg.Ocean.Width, cfg.Ocean.Height
	img := rl.GenImageColor(w, h, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	previewH := float32(previewW) * float32(h) / float32(w)
	needsRegen := true
	var landShare float64

	for !rl.WindowShouldClose() {
		if needsRegen {
			landShare, err = regenerate(texture, cfg, params, port)
			if err != nil {
				slog.Error("failed to build attraction", "error", err)
				os.Exit(1)
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(w), Height: float32(h)},
			rl.Rectangle{X: 10, Y: 10, Width: previewW, Height: previewH},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewW, int32(previewH), rl.DarkGray)
		rl.DrawText(fmt.Sprintf("%dx%d cells | land %.1f%% | layer %s", w, h, landShare*100, params.Kind),
			15, int32(previewH)+20, 16, rl.DarkGray)

		y := float32(10)
		rl.DrawText("Ocean Parameters", panelX, int32(y), 20, rl.DarkGray)
		y += 35

		y, needsRegen = slider(y, "Land threshold (noise above is land)", "0.3", "1.0", &params.LandThreshold, 0.3, 1, "%.2f", needsRegen)
		y, needsRegen = slider(y, "Noise scale (base frequency)", "0.01", "0.3", &params.NoiseScale, 0.01, 0.3, "%.3f", needsRegen)

		octaves := float32(params.Octaves)
		y, needsRegen = slider(y, "Octaves", "1", "8", &octaves, 1, 8, "%.0f", needsRegen)
		params.Octaves = int(octaves)

		y, needsRegen = slider(y, "Persistence (octave gain)", "0.1", "0.9", &params.Persistence, 0.1, 0.9, "%.2f", needsRegen)

		seed := float32(params.Seed % 100000)
		y, needsRegen = slider(y, "Seed", "0", "99999", &seed, 0, 99999, "%.0f", needsRegen)
		if int64(seed) != params.Seed%100000 {
			params.Seed = int64(seed)
		}
		y += 10

		// Attraction layer buttons
		bw := float32(panelWidth-15) / 4
		for i, k := range action.SetKinds {
			label := k.String()
			if k == params.Kind {
				label = "[" + label + "]"
			}
			if gui.Button(rl.Rectangle{X: panelX + float32(i)*(bw+5), Y: y, Width: bw, Height: 30}, label) {
				params.Kind = k
				needsRegen = true
			}
		}
		y += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: y, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			needsRegen = true
		}
		y += 55

		rl.DrawText("YAML Config:", panelX, int32(y), 16, rl.DarkGray)
		y += 25
		for _, line := range yamlLines(params) {
			rl.DrawText(line, panelX, int32(y), 14, rl.Gray)
			y += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", panelX, windowHeight-30, 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			text := ""
			for _, line := range yamlLines(params) {
				text += line + "\n"
			}
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider bound to value and reports whether it changed.
func slider(y float32, label, lo, hi string, value *float32, minV, maxV float32, format string, changed bool) (float32, bool) {
	rl.DrawText(label, panelX, int32(y), 14, rl.Gray)
	y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: panelX + 30, Y: y, Width: float32(panelWidth - 110), Height: 20},
		lo, hi,
		*value, minV, maxV,
	)
	rl.DrawText(fmt.Sprintf(format, *value), panelX+panelWidth-70, int32(y+2), 16, rl.DarkGray)
	if v != *value {
		*value = v
		changed = true
	}
	return y + 35, changed
}

func yamlLines(p previewParams) []string {
	return []string{
		"simulation:",
		fmt.Sprintf("  seed: %d", p.Seed),
		"ocean:",
		fmt.Sprintf("  land_threshold: %.2f", p.LandThreshold),
		fmt.Sprintf("  noise_scale: %.3f", p.NoiseScale),
		fmt.Sprintf("  octaves: %d", p.Octaves),
		fmt.Sprintf("  persistence: %.2f", p.Persistence),
	}
}

// regenerate rebuilds the land mask and the selected attraction layer into
// the texture and returns the share of land cells.
func regenerate(texture rl.Texture2D, cfg *config.Config, p previewParams, port grid.Cell) (float64, error) {
	oc := cfg.Ocean
	oc.LandThreshold = float64(p.LandThreshold)
	oc.NoiseScale = float64(p.NoiseScale)
	oc.Octaves = p.Octaves
	oc.Persistence = float64(p.Persistence)

	m := ocean.NewMap(oc, port, p.Seed)
	attraction, err := ocean.NewAttraction(m, oc, cfg.Derived.Attraction, p.Seed)
	if err != nil {
		return 0, err
	}
	field := attraction.Field(p.Kind)
	peak := field.Max()

	pixels := make([]color.RGBA, m.Size())
	land := 0
	for i := range pixels {
		c := m.CellAt(i)
		switch {
		case c == port:
			pixels[i] = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		case m.IsLand(c):
			pixels[i] = color.RGBA{R: 70, G: 85, B: 55, A: 255}
			land++
		default:
			t := 0.0
			if peak > 0 {
				t = field.At(c) / peak
			}
			pixels[i] = seaColor(t)
		}
	}
	rl.UpdateTexture(texture, pixels)
	return float64(land) / float64(len(pixels)), nil
}

// seaColor maps attraction in [0,1] onto a deep blue to cyan gradient.
func seaColor(t float64) color.RGBA {
	t = max(0, min(1, t))
	return color.RGBA{
		R: uint8(10 + t*60),
		G: uint8(30 + t*170),
		B: uint8(70 + t*140),
		A: 255,
	}
}

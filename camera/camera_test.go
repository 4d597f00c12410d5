package camera

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1280, 720, 160, 90)

	// Should be centered on world and fitted to it
	if cam.X != 80 || cam.Y != 45 {
		t.Errorf("expected camera at (80, 45), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 8 {
		t.Errorf("expected zoom 8, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 160, 90)

	sx, sy := cam.WorldToScreen(80, 45)
	if !approx(sx, 640) || !approx(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 160, 90)
	cam.SetZoom(20)
	cam.Pan(300, -100)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !approx(sx, tc.sx) || !approx(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestCellAt(t *testing.T) {
	cam := New(1280, 720, 160, 90)

	tests := []struct {
		name   string
		sx, sy float32
		x, y   int
		ok     bool
	}{
		{"origin", 0, 0, 0, 0, true},
		{"center", 640, 360, 80, 45, true},
		{"inside last cell", 1279, 719, 159, 89, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := cam.CellAt(tt.sx, tt.sy)
			if ok != tt.ok || x != tt.x || y != tt.y {
				t.Errorf("CellAt(%v, %v) = (%d, %d, %v), want (%d, %d, %v)",
					tt.sx, tt.sy, x, y, ok, tt.x, tt.y, tt.ok)
			}
		})
	}

	cam.SetZoom(16)
	cam.Pan(-10000, 0)
	if _, _, ok := cam.CellAt(10, 360); ok {
		t.Error("screen left of the world should not map to a cell")
	}
}

func TestPanClamps(t *testing.T) {
	cam := New(1280, 720, 160, 90)
	cam.SetZoom(16)

	cam.Pan(-100000, 0)
	if cam.X != 0 {
		t.Errorf("expected X clamped to 0, got %f", cam.X)
	}
	cam.Pan(0, 100000)
	if cam.Y != 90 {
		t.Errorf("expected Y clamped to 90, got %f", cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(800, 600, 100, 50)

	// MinZoom fits the whole world: min(800/100, 600/50) = 8
	if cam.MinZoom != 8 {
		t.Errorf("expected MinZoom 8, got %f", cam.MinZoom)
	}

	cam.SetZoom(1) // Below min
	if cam.Zoom != 8 {
		t.Errorf("expected zoom clamped to 8, got %f", cam.Zoom)
	}

	cam.SetZoom(1000) // Above max
	if cam.Zoom != 64 {
		t.Errorf("expected zoom clamped to 64, got %f", cam.Zoom)
	}

	cam.ZoomBy(0.5)
	if cam.Zoom != 32 {
		t.Errorf("expected zoom 32 after halving, got %f", cam.Zoom)
	}
}

func TestResizeKeepsZoomInRange(t *testing.T) {
	cam := New(800, 600, 100, 50)
	cam.Resize(1600, 1200)
	if cam.MinZoom != 16 || cam.Zoom != 16 {
		t.Errorf("after resize MinZoom=%f Zoom=%f, want 16", cam.MinZoom, cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 160, 90)
	cam.SetZoom(16)

	// Visible range: (80-40, 45-22.5) to (80+40, 45+22.5)
	if !cam.IsVisible(80, 45, 1) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(150, 80, 1) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(35, 45, 6) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestVisibleCells(t *testing.T) {
	cam := New(1280, 720, 160, 90)
	x0, y0, x1, y1 := cam.VisibleCells()
	if x0 != 0 || y0 != 0 || x1 != 159 || y1 != 89 {
		t.Errorf("fitted view cells = (%d,%d)-(%d,%d)", x0, y0, x1, y1)
	}

	cam.SetZoom(32)
	x0, y0, x1, y1 = cam.VisibleCells()
	if x0 != 60 || y0 != 33 || x1 != 100 || y1 != 56 {
		t.Errorf("zoomed view cells = (%d,%d)-(%d,%d)", x0, y0, x1, y1)
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 160, 90)
	cam.X = 10
	cam.Y = 10
	cam.Zoom = 30

	cam.Reset()

	if cam.X != 80 || cam.Y != 45 {
		t.Errorf("expected position (80, 45), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom %f, got %f", cam.MinZoom, cam.Zoom)
	}
}

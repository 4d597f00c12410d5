// Package ocean provides the environmental surfaces the decision engine reads:
// the land mask, per-action attraction fields and a day-varying current field.
package ocean

import (
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/seine/action"
	"github.com/pthm-cable/seine/config"
	"github.com/pthm-cable/seine/grid"
)

// Map is the ocean grid with its land mask.
type Map struct {
	grid.Grid
	land []bool
}

// NewMap generates a land mask from octave noise. Cells whose normalized
// noise exceeds threshold are land. The port cell is always sea.
func NewMap(c config.OceanConfig, port grid.Cell, seed int64) *Map {
	g := grid.New(c.Width, c.Height)
	m := &Map{Grid: g, land: make([]bool, g.Size())}
	if c.LandThreshold >= 1 {
		return m
	}

	noise := opensimplex.NewNormalized(seed)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			v := octaveNoise(noise, float64(x), float64(y), c.Octaves, c.NoiseScale, c.Persistence)
			m.land[g.Index(grid.Cell{X: x, Y: y})] = v > c.LandThreshold
		}
	}
	if g.Contains(port) {
		m.land[g.Index(port)] = false
	}
	return m
}

// NewOpenMap creates a map with no land, for tests and synthetic scenarios.
func NewOpenMap(w, h int) *Map {
	g := grid.New(w, h)
	return &Map{Grid: g, land: make([]bool, g.Size())}
}

// IsLand reports whether the cell is land. Out-of-bounds cells count as land.
func (m *Map) IsLand(c grid.Cell) bool {
	if !m.Contains(c) {
		return true
	}
	return m.land[m.Index(c)]
}

// IsSea reports whether a vessel can be at the cell.
func (m *Map) IsSea(c grid.Cell) bool {
	return !m.IsLand(c)
}

// SetLand marks a cell as land or sea.
func (m *Map) SetLand(c grid.Cell, land bool) {
	if m.Contains(c) {
		m.land[m.Index(c)] = land
	}
}

// SeaNeighborhood returns the sea cells within radius of c.
func (m *Map) SeaNeighborhood(c grid.Cell, radius int) []grid.Cell {
	cells := m.Neighborhood(c, radius)
	out := cells[:0]
	for _, n := range cells {
		if m.IsSea(n) {
			out = append(out, n)
		}
	}
	return out
}

// octaveNoise sums octaves of normalized noise and renormalizes to [0,1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	if octaves < 1 {
		octaves = 1
	}
	total, amplitude, maxValue := 0.0, 1.0, 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxValue
}

// Field is a scalar surface over the grid.
type Field struct {
	grid.Grid
	values []float64
}

// NewField creates a zeroed field.
func NewField(g grid.Grid) *Field {
	return &Field{Grid: g, values: make([]float64, g.Size())}
}

// At returns the field value, or 0 outside the grid.
func (f *Field) At(c grid.Cell) float64 {
	if !f.Contains(c) {
		return 0
	}
	return f.values[f.Index(c)]
}

// Set assigns a value.
func (f *Field) Set(c grid.Cell, v float64) {
	if f.Contains(c) {
		f.values[f.Index(c)] = v
	}
}

// Max returns the largest value.
func (f *Field) Max() float64 {
	m := math.Inf(-1)
	for _, v := range f.values {
		m = math.Max(m, v)
	}
	return m
}

// Attraction holds one scalar field per action kind.
type Attraction struct {
	fields [action.NumKinds]*Field
}

// NewAttraction builds per-kind attraction fields from independent noise seeds,
// scaled by the configured factor. Land cells carry zero attraction.
func NewAttraction(m *Map, c config.OceanConfig, scales map[action.Kind]float64, seed int64) (*Attraction, error) {
	a := &Attraction{}
	for _, k := range action.Kinds {
		scale, ok := scales[k]
		if !ok {
			scale = 1
		}
		if scale < 0 || math.IsNaN(scale) {
			return nil, fmt.Errorf("ocean: attraction scale for %s must be >= 0, got %v", k, scale)
		}
		f := NewField(m.Grid)
		noise := opensimplex.NewNormalized(seed + 100 + int64(k))
		for y := 0; y < m.H; y++ {
			for x := 0; x < m.W; x++ {
				cell := grid.Cell{X: x, Y: y}
				if m.IsLand(cell) {
					continue
				}
				f.Set(cell, scale*octaveNoise(noise, float64(x), float64(y), c.Octaves, c.NoiseScale*1.5, c.Persistence))
			}
		}
		a.fields[k] = f
	}
	return a, nil
}

// NewUniformAttraction creates fields with the same constant value everywhere.
func NewUniformAttraction(g grid.Grid, values map[action.Kind]float64) *Attraction {
	a := &Attraction{}
	for _, k := range action.Kinds {
		f := NewField(g)
		for i := range f.values {
			f.values[i] = values[k]
		}
		a.fields[k] = f
	}
	return a
}

// Value returns the attraction of taking an action of kind k at cell c.
func (a *Attraction) Value(k action.Kind, c grid.Cell) float64 {
	if k >= action.NumKinds || a.fields[k] == nil {
		return 0
	}
	return a.fields[k].At(c)
}

// Field returns the underlying field for a kind.
func (a *Attraction) Field(k action.Kind) *Field {
	return a.fields[k]
}

package grid

import "testing"

func TestIndexRoundTrip(t *testing.T) {
	g := New(7, 5)
	for i := 0; i < g.Size(); i++ {
		if got := g.Index(g.CellAt(i)); got != i {
			t.Fatalf("Index(CellAt(%d)) = %d", i, got)
		}
	}
}

func TestNeighborhoodClipsToGrid(t *testing.T) {
	g := New(10, 10)
	tests := []struct {
		name   string
		cell   Cell
		radius int
		want   int
	}{
		{"corner r1", Cell{0, 0}, 1, 4},
		{"interior r1", Cell{5, 5}, 1, 9},
		{"edge r2", Cell{0, 5}, 2, 15},
		{"r0", Cell{3, 3}, 0, 1},
		{"negative", Cell{3, 3}, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := g.Neighborhood(tt.cell, tt.radius)
			if len(cells) != tt.want {
				t.Errorf("got %d cells, want %d", len(cells), tt.want)
			}
			for _, c := range cells {
				if c.Chebyshev(tt.cell) > tt.radius {
					t.Errorf("%v is farther than %d from %v", c, tt.radius, tt.cell)
				}
			}
		})
	}
}

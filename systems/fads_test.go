package systems

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/seine/components"
	"github.com/pthm-cable/seine/config"
	"github.com/pthm-cable/seine/grid"
	"github.com/pthm-cable/seine/ocean"
)

type steadyCurrent struct{ u, v float64 }

func (s steadyCurrent) Vector(grid.Cell, int) (float64, float64) { return s.u, s.v }

func testFadConfig() config.FadConfig {
	return config.FadConfig{
		LifetimeDays:     5,
		RemovalDelayDays: 2,
		CarryingCapacity: 100,
		AttractionRate:   0.5,
		DriftSpeed:       0.5,
	}
}

func newTestFadSystem(m *ocean.Map, cur CurrentField) *FadSystem {
	return NewFadSystem(ecs.NewWorld(), m, cur, testFadConfig(), []float64{0.7, 0.3})
}

func TestFadDriftAndAggregation(t *testing.T) {
	m := ocean.NewOpenMap(10, 10)
	s := newTestFadSystem(m, steadyCurrent{u: 1})
	_, id := s.Deploy(3, grid.Cell{X: 2, Y: 5}, 0)

	s.Update(1)
	if got := s.Index().FadsAt(grid.Cell{X: 3, Y: 5}); len(got) != 1 || got[0].ID != id {
		t.Fatalf("FAD did not drift east: %v", got)
	}
	f, _ := s.Index().Fad(id)
	if math.Abs(f.Biomass.Total()-50) > 1e-9 {
		t.Errorf("biomass after one day = %v, want 50", f.Biomass.Total())
	}
	if math.Abs(f.Biomass[0]-35) > 1e-9 {
		t.Errorf("composition split: skipjack %v, want 35", f.Biomass[0])
	}

	s.Update(2)
	if got := f.Biomass.Total(); got <= 50 || got >= 100 {
		t.Errorf("biomass must approach capacity from below, got %v", got)
	}
}

func TestFadWeakCurrentStays(t *testing.T) {
	m := ocean.NewOpenMap(10, 10)
	s := newTestFadSystem(m, steadyCurrent{u: 0.2, v: 0.2})
	cell := grid.Cell{X: 4, Y: 4}
	s.Deploy(1, cell, 0)
	s.Update(1)
	if len(s.Index().FadsAt(cell)) != 1 {
		t.Error("FAD moved under a current below drift speed")
	}
}

func TestFadLifecycle(t *testing.T) {
	m := ocean.NewOpenMap(10, 10)
	s := newTestFadSystem(m, steadyCurrent{})
	_, id := s.Deploy(9, grid.Cell{X: 1, Y: 1}, 0)

	for step := 1; step <= 4; step++ {
		s.Update(step)
	}
	if s.Index().ActiveFads(9) != 1 {
		t.Fatal("FAD deactivated before its lifetime")
	}
	s.Update(5)
	if active, inactive := s.Count(); active != 0 || inactive != 1 {
		t.Fatalf("after lifetime: active=%d inactive=%d", active, inactive)
	}
	if s.Index().ActiveFads(9) != 0 {
		t.Error("inactive FAD still counted against its owner")
	}
	if views := s.Index().FadsAt(grid.Cell{X: 1, Y: 1}); len(views) != 1 || views[0].Active {
		t.Errorf("inactive FAD should stay visible as inactive: %v", views)
	}

	s.Update(6)
	if n := s.Update(7); n != 1 {
		t.Errorf("removed %d FADs after the delay, want 1", n)
	}
	if _, ok := s.Index().Fad(id); ok {
		t.Error("removed FAD still indexed")
	}
}

func TestFadEach(t *testing.T) {
	m := ocean.NewOpenMap(10, 10)
	s := newTestFadSystem(m, steadyCurrent{})
	s.Deploy(1, grid.Cell{X: 1, Y: 1}, 0)
	s.Deploy(2, grid.Cell{X: 7, Y: 3}, 0)

	owners := make(map[int32]grid.Cell)
	s.Each(func(c grid.Cell, fad *components.Fad) {
		owners[fad.Owner] = c
	})
	if len(owners) != 2 || owners[1] != (grid.Cell{X: 1, Y: 1}) || owners[2] != (grid.Cell{X: 7, Y: 3}) {
		t.Errorf("Each visited %v", owners)
	}
}

func TestFadBeaches(t *testing.T) {
	m := ocean.NewOpenMap(5, 5)
	s := newTestFadSystem(m, steadyCurrent{u: 1})
	_, id := s.Deploy(1, grid.Cell{X: 4, Y: 2}, 0)
	s.Update(1)
	f, ok := s.Index().Fad(id)
	if !ok || f.Active {
		t.Error("FAD pushed off the grid must deactivate in place")
	}
}

func TestFadsNear(t *testing.T) {
	m := ocean.NewOpenMap(10, 10)
	s := newTestFadSystem(m, steadyCurrent{})
	s.Deploy(1, grid.Cell{X: 5, Y: 5}, 0)
	s.Deploy(1, grid.Cell{X: 6, Y: 6}, 0)
	s.Deploy(2, grid.Cell{X: 8, Y: 5}, 0)

	if n := len(s.Index().FadsNear(grid.Cell{X: 5, Y: 5}, 1)); n != 2 {
		t.Errorf("FadsNear radius 1 = %d, want 2", n)
	}
	if n := len(s.Index().FadsNear(grid.Cell{X: 5, Y: 5}, 0)); n != 1 {
		t.Errorf("FadsNear radius 0 = %d, want 1", n)
	}
	if s.Index().ActiveFads(1) != 2 || s.Index().ActiveFads(2) != 1 {
		t.Error("active counts per owner wrong")
	}
}

func TestRelocationStaysAtSea(t *testing.T) {
	m := ocean.NewOpenMap(8, 8)
	for y := 0; y < 8; y++ {
		m.SetLand(grid.Cell{X: 5, Y: y}, true)
	}
	r := NewRelocation(m, 2)
	rng := rand.New(rand.NewPCG(1, 2))
	from := grid.Cell{X: 4, Y: 4}
	for i := 0; i < 200; i++ {
		to := r.Next(from, rng)
		if m.IsLand(to) || to.Chebyshev(from) > 2 {
			t.Fatalf("relocated to %v", to)
		}
	}
}

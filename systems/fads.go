package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/seine/biology"
	"github.com/pthm-cable/seine/components"
	"github.com/pthm-cable/seine/config"
	"github.com/pthm-cable/seine/grid"
	"github.com/pthm-cable/seine/ocean"
)

// CurrentField gives the current vector at a cell.
type CurrentField interface {
	Vector(c grid.Cell, step int) (u, v float64)
}

// FadSystem deploys floating objects and advances them each day: drift along
// the current, fish aggregation, deactivation and removal.
type FadSystem struct {
	world  *ecs.World
	mapper *ecs.Map2[components.Position, components.Fad]
	filter *ecs.Filter2[components.Position, components.Fad]

	ocean       *ocean.Map
	currents    CurrentField
	cfg         config.FadConfig
	composition []float64 // Species split of aggregated biomass
	index       *FadIndex

	nextID  int64
	removed []ecs.Entity
}

// NewFadSystem creates a FAD system. composition gives the species split of aggregating fish.
func NewFadSystem(w *ecs.World, m *ocean.Map, currents CurrentField, cfg config.FadConfig, composition []float64) *FadSystem {
	return &FadSystem{
		world:       w,
		mapper:      ecs.NewMap2[components.Position, components.Fad](w),
		filter:      ecs.NewFilter2[components.Position, components.Fad](w),
		ocean:       m,
		currents:    currents,
		cfg:         cfg,
		composition: composition,
		index:       NewFadIndex(w, m.Grid),
	}
}

// Index returns the spatial index of floating objects.
func (s *FadSystem) Index() *FadIndex {
	return s.index
}

// Deploy places a new floating object owned by the vessel at the cell.
func (s *FadSystem) Deploy(owner int32, c grid.Cell, step int) (ecs.Entity, int64) {
	s.nextID++
	pos := components.PositionOf(c)
	fad := components.Fad{
		ID:       s.nextID,
		Owner:    owner,
		Deployed: step,
		Active:   true,
		Biomass:  biology.NewCatch(len(s.composition)),
	}
	e := s.mapper.NewEntity(&pos, &fad)
	_, stored := s.mapper.Get(e)
	s.index.Insert(e, c, stored)
	return e, fad.ID
}

// driftStep returns the neighbor cell the current pushes toward, or c when too weak.
func (s *FadSystem) driftStep(c grid.Cell, step int) grid.Cell {
	u, v := s.currents.Vector(c, step)
	speed := math.Hypot(u, v)
	if speed < s.cfg.DriftSpeed || speed == 0 {
		return c
	}
	return grid.Cell{
		X: c.X + int(math.Round(u/speed)),
		Y: c.Y + int(math.Round(v/speed)),
	}
}

func (s *FadSystem) aggregate(f *components.Fad) {
	total := f.Biomass.Total()
	gain := s.cfg.AttractionRate * (s.cfg.CarryingCapacity - total)
	if gain <= 0 {
		return
	}
	for i, w := range s.composition {
		f.Biomass[i] += gain * w
	}
}

// Update advances every floating object by one day and rebuilds the index.
// It returns how many objects were removed.
func (s *FadSystem) Update(step int) int {
	s.removed = s.removed[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, fad := query.Get()
		if !fad.Active {
			if step-fad.DeactivatedAt >= s.cfg.RemovalDelayDays {
				s.removed = append(s.removed, query.Entity())
			}
			continue
		}

		next := s.driftStep(pos.Cell(), step)
		if !s.ocean.IsSea(next) {
			fad.Active = false
			fad.DeactivatedAt = step
			continue
		}
		*pos = components.PositionOf(next)

		s.aggregate(fad)
		if step-fad.Deployed >= s.cfg.LifetimeDays {
			fad.Active = false
			fad.DeactivatedAt = step
		}
	}

	// Entities cannot be removed while the query holds the world lock.
	for _, e := range s.removed {
		s.world.RemoveEntity(e)
	}

	s.Reindex()
	return len(s.removed)
}

// Reindex rebuilds the spatial index from the world.
func (s *FadSystem) Reindex() {
	s.index.Clear()
	query := s.filter.Query()
	for query.Next() {
		pos, fad := query.Get()
		s.index.Insert(query.Entity(), pos.Cell(), fad)
	}
}

// Count returns the number of active and inactive floating objects.
func (s *FadSystem) Count() (active, inactive int) {
	query := s.filter.Query()
	for query.Next() {
		_, fad := query.Get()
		if fad.Active {
			active++
		} else {
			inactive++
		}
	}
	return active, inactive
}

// Each calls fn for every floating object with its current cell.
// fn must not add or remove entities.
func (s *FadSystem) Each(fn func(c grid.Cell, fad *components.Fad)) {
	query := s.filter.Query()
	for query.Next() {
		pos, fad := query.Get()
		fn(pos.Cell(), fad)
	}
}

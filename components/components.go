// Package components defines ECS components for the fishery simulation.
package components

import (
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/seine/biology"
)

// Vessel holds a purse seiner's identity and trip state.
type Vessel struct {
	ID          int32      `inspect:"label"`
	Class       string     `inspect:"label"`
	FadsCarried int        `inspect:"skip"`  // Loaded at the start of each trip
	FadsInStock int        `inspect:"label"` // Not yet deployed this trip
	HoursUsed   float64    `inspect:"label,fmt:%.1fh"`
	Trip        int        `inspect:"label"`
	TripDays    int        `inspect:"label"`
	Revenue     float64    `inspect:"label,fmt:%.0f"` // Cumulative sales
	Rng         *rand.Rand `inspect:"skip"`
}

// Hold tracks what a vessel has caught this trip.
type Hold struct {
	Catch    biology.Catch `inspect:"bar,max:Capacity"`
	Capacity float64       `inspect:"label,fmt:%.0ft"`
}

// NewHold creates an empty hold.
func NewHold(species int, capacity float64) Hold {
	return Hold{Catch: biology.NewCatch(species), Capacity: capacity}
}

// Total returns the tonnes on board.
func (h *Hold) Total() float64 {
	return h.Catch.Total()
}

// Remaining returns the free capacity in tonnes.
func (h *Hold) Remaining() float64 {
	return math.Max(0, h.Capacity-h.Total())
}

// fullTolerance absorbs rounding left by proportional loading.
const fullTolerance = 1e-9

// Fill returns the fraction of capacity in use. A hold within rounding of its
// capacity reports exactly 1.
func (h *Hold) Fill() float64 {
	if h.Capacity <= 0 || h.Remaining() <= fullTolerance*h.Capacity {
		return 1
	}
	return h.Total() / h.Capacity
}

// Load stores as much of c as fits, scaling every species by the same
// proportion, and returns what was stored.
func (h *Hold) Load(c biology.Catch) biology.Catch {
	total := c.Total()
	room := h.Remaining()
	if total <= 0 || room <= 0 {
		return biology.NewCatch(len(c))
	}
	taken := c.Scaled(math.Min(1, room/total))
	h.Catch.Add(taken)
	return taken
}

// Empty unloads the hold and returns the catch.
func (h *Hold) Empty() biology.Catch {
	out := h.Catch.Clone()
	h.Catch = biology.NewCatch(len(h.Catch))
	return out
}

// Fad is a drifting floating object that aggregates fish.
type Fad struct {
	ID            int64         `inspect:"label"`
	Owner         int32         `inspect:"label"`
	Deployed      int           `inspect:"label"` // Step of deployment
	Active        bool          `inspect:"bool"`
	DeactivatedAt int           `inspect:"label"`
	Biomass       biology.Catch `inspect:"bar,max:60"`
}

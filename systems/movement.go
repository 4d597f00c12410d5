package systems

import (
	"math/rand/v2"

	"github.com/pthm-cable/seine/grid"
	"github.com/pthm-cable/seine/ocean"
)

// Relocation moves a vessel to a random sea cell within a radius between days.
type Relocation struct {
	ocean  *ocean.Map
	radius int
}

// NewRelocation creates a relocation rule.
func NewRelocation(m *ocean.Map, radius int) Relocation {
	return Relocation{ocean: m, radius: radius}
}

// Next picks the vessel's cell for the coming day. A vessel with no sea around stays put.
func (r Relocation) Next(from grid.Cell, rng *rand.Rand) grid.Cell {
	options := r.ocean.SeaNeighborhood(from, r.radius)
	if len(options) == 0 {
		return from
	}
	return options[rng.IntN(len(options))]
}

// Package opportunity discovers the set actions available to a vessel each decision round.
package opportunity

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/seine/action"
	"github.com/pthm-cable/seine/biology"
	"github.com/pthm-cable/seine/dist"
	"github.com/pthm-cable/seine/grid"
	"github.com/pthm-cable/seine/valuation"
)

// Vessel is the vessel state opportunity discovery reads.
type Vessel interface {
	ID() int32
	Cell() grid.Cell
	HoldFill() float64 // Fraction of hold capacity in use
	Rand() *rand.Rand
}

// FadView is a read-only snapshot of a floating object.
type FadView struct {
	ID      int64
	Owner   int32
	Cell    grid.Cell
	Active  bool
	Biomass biology.Catch
}

// FadLocator finds floating objects by location.
type FadLocator interface {
	FadsAt(c grid.Cell) []FadView
	FadsNear(c grid.Cell, radius int) []FadView
}

// SeaChecker reports whether a vessel may be at a cell.
type SeaChecker interface {
	IsSea(c grid.Cell) bool
}

// AttractionField gives the location-dependent value of an action kind.
type AttractionField interface {
	Value(k action.Kind, c grid.Cell) float64
}

// Clock reports the current simulation step.
type Clock interface {
	Step() int
}

// Generator produces candidate actions of one kind. Each call computes a fresh slice.
type Generator interface {
	Kind() action.Kind
	Generate(v Vessel) []action.Action
}

func mustBeAtSea(sea SeaChecker, v Vessel) {
	if sea != nil && !sea.IsSea(v.Cell()) {
		panic(fmt.Sprintf("opportunity: vessel %d asked for opportunities at invalid cell %v", v.ID(), v.Cell()))
	}
}

// FadSetGenerator offers a set on every active floating object at the vessel's cell
// whose ownership matches: own objects for FadSet, foreign ones for OpportunisticFadSet.
type FadSetGenerator struct {
	kind     action.Kind
	fads     FadLocator
	sea      SeaChecker
	duration dist.Sampler
}

// NewFadSetGenerator creates a floating object set generator. kind must be FadSet or OpportunisticFadSet.
func NewFadSetGenerator(kind action.Kind, fads FadLocator, sea SeaChecker, duration dist.Sampler) (*FadSetGenerator, error) {
	if !kind.IsFadSet() {
		return nil, fmt.Errorf("opportunity: %s is not a floating object set kind", kind)
	}
	return &FadSetGenerator{kind: kind, fads: fads, sea: sea, duration: duration}, nil
}

func (g *FadSetGenerator) Kind() action.Kind { return g.kind }

func (g *FadSetGenerator) owned(f FadView, vessel int32) bool {
	if g.kind == action.FadSet {
		return f.Owner == vessel
	}
	return f.Owner != vessel
}

// Generate returns one set action per matching floating object.
func (g *FadSetGenerator) Generate(v Vessel) []action.Action {
	mustBeAtSea(g.sea, v)
	var out []action.Action
	for _, f := range g.fads.FadsAt(v.Cell()) {
		if !f.Active || !g.owned(f, v.ID()) {
			continue
		}
		target := &action.Target{ID: f.ID, Owner: f.Owner, Cell: f.Cell, Biomass: f.Biomass.Clone()}
		a, err := action.NewSet(g.kind, v.ID(), v.Cell(), g.duration.Sample(v.Rand()), target)
		if err != nil {
			slog.Warn("dropping floating object set", "vessel", v.ID(), "fad", f.ID, "error", err)
			continue
		}
		out = append(out, a)
	}
	return out
}

// SchoolSetGenerator offers a set on a free or dolphin-associated school. A school
// appears with a probability derived from the local attraction and then stays present
// at that cell for the cache window, for every vessel.
type SchoolSetGenerator struct {
	kind         action.Kind
	attraction   AttractionField
	probability  valuation.Transform
	sampler      *biology.SchoolSampler
	cache        *ActiveCache
	window       int
	clock        Clock
	fads         FadLocator
	canPoach     bool
	searchRadius int
	sea          SeaChecker
	duration     dist.Sampler

	nextID int64
}

// SchoolGeneratorConfig groups the collaborators of a SchoolSetGenerator.
type SchoolGeneratorConfig struct {
	Kind         action.Kind
	Attraction   AttractionField
	Probability  valuation.Transform // Attraction -> probability, clamped to [0,1]
	Sampler      *biology.SchoolSampler
	Cache        *ActiveCache
	Window       int
	Clock        Clock
	Fads         FadLocator // Optional; required when CanPoach
	CanPoach     bool
	SearchRadius int
	Sea          SeaChecker
	Duration     dist.Sampler
}

// NewSchoolSetGenerator creates a school set generator.
func NewSchoolSetGenerator(c SchoolGeneratorConfig) (*SchoolSetGenerator, error) {
	if !c.Kind.IsSchoolSet() {
		return nil, fmt.Errorf("opportunity: %s is not a school set kind", c.Kind)
	}
	if c.Cache == nil || c.Cache.Kind() != c.Kind {
		return nil, fmt.Errorf("opportunity: %s generator needs the %s cache", c.Kind, c.Kind)
	}
	if c.Window < 1 {
		return nil, fmt.Errorf("%w: window %d", ErrBadWindow, c.Window)
	}
	if c.CanPoach && c.Fads == nil {
		return nil, fmt.Errorf("opportunity: poaching needs a floating object locator")
	}
	if c.Sampler == nil || c.Probability == nil || c.Attraction == nil || c.Clock == nil || c.Duration == nil {
		return nil, fmt.Errorf("opportunity: %s generator is missing a collaborator", c.Kind)
	}
	return &SchoolSetGenerator{
		kind:         c.Kind,
		attraction:   c.Attraction,
		probability:  valuation.Probability(c.Probability),
		sampler:      c.Sampler,
		cache:        c.Cache,
		window:       c.Window,
		clock:        c.Clock,
		fads:         c.Fads,
		canPoach:     c.CanPoach,
		searchRadius: c.SearchRadius,
		sea:          c.Sea,
		duration:     c.Duration,
	}, nil
}

func (g *SchoolSetGenerator) Kind() action.Kind { return g.kind }

// Generate returns at most one school set at the vessel's cell. The cache
// marks where a school is present, not a depletable stock: while the cell is
// cached, every call samples a fresh full school. With poaching, the stock of
// active floating objects within the search radius is added to the target and
// recorded in Target.Poached so the executor can take it out of them.
func (g *SchoolSetGenerator) Generate(v Vessel) []action.Action {
	mustBeAtSea(g.sea, v)
	cell := v.Cell()
	step := g.clock.Step()

	fresh := false
	if !g.cache.Has(cell, step) {
		p := g.probability.Apply(g.attraction.Value(g.kind, cell))
		trial := distuv.Bernoulli{P: p, Src: v.Rand()}
		if trial.Rand() == 0 {
			return nil
		}
		fresh = true
	}

	biomass := g.sampler.Sample(v.Rand())
	var poached []action.FadShare
	if g.canPoach {
		for _, f := range g.fads.FadsNear(cell, g.searchRadius) {
			if f.Active && len(f.Biomass) == len(biomass) && f.Biomass.Total() > 0 {
				biomass.Add(f.Biomass)
				poached = append(poached, action.FadShare{ID: f.ID, Biomass: f.Biomass.Clone()})
			}
		}
	}

	g.nextID++
	target := &action.Target{ID: g.nextID, Owner: action.NoOwner, Cell: cell, Biomass: biomass, Poached: poached}
	a, err := action.NewSet(g.kind, v.ID(), cell, g.duration.Sample(v.Rand()), target)
	if err != nil {
		slog.Warn("dropping school set", "vessel", v.ID(), "kind", g.kind, "error", err)
		return nil
	}

	if fresh {
		if err := g.cache.Add(cell, step, g.window); err != nil {
			slog.Warn("school not registered", "kind", g.kind, "cell", cell, "step", step, "error", err)
		}
	}
	return []action.Action{a}
}

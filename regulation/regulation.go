// Package regulation provides a reference legality oracle for vessel actions.
package regulation

import (
	"github.com/pthm-cable/seine/action"
	"github.com/pthm-cable/seine/config"
	"github.com/pthm-cable/seine/grid"
)

// DaysPerYear maps a step to its day of year.
const DaysPerYear = 365

// Clock reports the current simulation step (one step per day).
type Clock interface {
	Step() int
}

// FadCounter reports how many active floating objects a vessel owns.
type FadCounter interface {
	ActiveFads(owner int32) int
}

// Closure is an inclusive day-of-year range.
type Closure struct {
	StartDay, EndDay int
}

// Contains reports whether the day of year falls inside the closure.
func (c Closure) Contains(dayOfYear int) bool {
	return dayOfYear >= c.StartDay && dayOfYear <= c.EndDay
}

// Area is an inclusive rectangle of cells.
type Area struct {
	Min, Max grid.Cell
}

// Contains reports whether the cell is inside the area.
func (a Area) Contains(c grid.Cell) bool {
	return c.X >= a.Min.X && c.X <= a.Max.X && c.Y >= a.Min.Y && c.Y <= a.Max.Y
}

// Rules applies time closures, closed areas, an annual dolphin-set limit and an
// active floating object limit. Search is always permitted.
type Rules struct {
	closures        []Closure
	areas           []Area
	dolphinSetLimit int
	activeFadLimit  int

	clock Clock
	fads  FadCounter

	year        int
	dolphinSets map[int32]int
}

// New builds rules from configuration. fads may be nil when no FAD limit applies.
func New(c config.RegulationConfig, clock Clock, fads FadCounter) *Rules {
	r := &Rules{
		dolphinSetLimit: c.DolphinSetLimit,
		activeFadLimit:  c.ActiveFadLimit,
		clock:           clock,
		fads:            fads,
		dolphinSets:     make(map[int32]int),
	}
	for _, cl := range c.Closures {
		r.closures = append(r.closures, Closure{StartDay: cl.StartDay, EndDay: cl.EndDay})
	}
	for _, a := range c.ClosedAreas {
		r.areas = append(r.areas, Area{Min: grid.Cell{X: a.MinX, Y: a.MinY}, Max: grid.Cell{X: a.MaxX, Y: a.MaxY}})
	}
	return r
}

// Closed reports whether a closure is in force at the step.
func (r *Rules) Closed(step int) bool {
	day := step % DaysPerYear
	for _, c := range r.closures {
		if c.Contains(day) {
			return true
		}
	}
	return false
}

// InClosedArea reports whether the cell lies in any closed area.
func (r *Rules) InClosedArea(c grid.Cell) bool {
	for _, a := range r.areas {
		if a.Contains(c) {
			return true
		}
	}
	return false
}

func (r *Rules) rollYear() {
	if y := r.clock.Step() / DaysPerYear; y != r.year {
		r.year = y
		clear(r.dolphinSets)
	}
}

// DolphinSets returns the vessel's dolphin sets so far this year.
func (r *Rules) DolphinSets(vessel int32) int {
	r.rollYear()
	return r.dolphinSets[vessel]
}

// IsPermitted reports whether the action is legal now.
func (r *Rules) IsPermitted(a action.Action) bool {
	if a.Kind == action.Search {
		return true
	}
	step := r.clock.Step()
	if r.Closed(step) || r.InClosedArea(a.Cell) {
		return false
	}
	switch a.Kind {
	case action.DolphinSet:
		return r.dolphinSetLimit <= 0 || r.DolphinSets(a.Vessel) < r.dolphinSetLimit
	case action.Deployment:
		return r.activeFadLimit <= 0 || r.fads == nil || r.fads.ActiveFads(a.Vessel) < r.activeFadLimit
	case action.FadSet, action.OpportunisticFadSet, action.NonAssociatedSet:
		return true
	default:
		panic("regulation: unhandled action kind " + a.Kind.String())
	}
}

// Observe records a committed action against the vessel's quotas.
func (r *Rules) Observe(a action.Action) {
	if a.Kind != action.DolphinSet {
		return
	}
	r.rollYear()
	r.dolphinSets[a.Vessel]++
}

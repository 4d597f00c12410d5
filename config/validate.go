package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/seine/action"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func isProbability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}

// Validate checks cross-field constraints. Nothing is clamped here.
func (c *Config) Validate() error {
	if c.Simulation.HoursPerDay <= 0 {
		return invalid("simulation.hours_per_day must be > 0, got %v", c.Simulation.HoursPerDay)
	}
	if c.Simulation.Days < 0 {
		return invalid("simulation.days must be >= 0, got %d", c.Simulation.Days)
	}
	if c.Ocean.Width <= 0 || c.Ocean.Height <= 0 {
		return invalid("ocean dimensions must be positive, got %dx%d", c.Ocean.Width, c.Ocean.Height)
	}
	if c.Fleet.PortX < 0 || c.Fleet.PortX >= c.Ocean.Width || c.Fleet.PortY < 0 || c.Fleet.PortY >= c.Ocean.Height {
		return invalid("fleet port (%d,%d) outside the ocean grid", c.Fleet.PortX, c.Fleet.PortY)
	}
	if len(c.Species) == 0 {
		return invalid("at least one species is required")
	}

	for _, vc := range c.Fleet.Classes {
		if vc.Name == "" {
			return invalid("fleet class without a name")
		}
		if vc.Count < 0 || vc.HoldCapacity <= 0 || vc.FadsCarried < 0 {
			return invalid("fleet class %q: count, hold_capacity and fads_carried must be non-negative (capacity > 0)", vc.Name)
		}
	}

	if !isProbability(c.Detection.SearchBonus) {
		return invalid("detection.search_bonus must be in [0,1], got %v", c.Detection.SearchBonus)
	}
	for k, p := range c.Derived.Probabilities {
		if !k.IsSchoolSet() {
			return invalid("detection.probabilities: %s is not a school set kind", k)
		}
		if !isProbability(p) {
			return invalid("detection.probabilities[%s] must be in [0,1], got %v", k, p)
		}
	}

	for k, ac := range c.Derived.Actions {
		if err := ac.Duration.validate(); err != nil {
			return invalid("actions.%s.duration: %v", k, err)
		}
		if err := ac.Transform.validate(); err != nil {
			return invalid("actions.%s.transform: %v", k, err)
		}
		if ac.Decay < 0 || math.IsNaN(ac.Decay) {
			return invalid("actions.%s.decay must be >= 0, got %v", k, ac.Decay)
		}
	}
	for _, k := range action.Kinds {
		if _, ok := c.Derived.Actions[k]; !ok {
			return invalid("actions.%s is missing", k)
		}
	}

	for _, k := range c.Derived.SetKinds {
		if !k.IsSet() {
			return invalid("strategy.set_kinds: %s is not a set kind", k)
		}
		if k.IsSchoolSet() {
			if _, ok := c.Derived.Generators[k]; !ok {
				return invalid("schools.generators.%s is missing", k)
			}
			if _, ok := c.Derived.Probabilities[k]; !ok {
				return invalid("detection.probabilities.%s is missing", k)
			}
		}
	}
	for k, g := range c.Derived.Generators {
		if !k.IsSchoolSet() {
			return invalid("schools.generators: %s is not a school set kind", k)
		}
		if err := g.validate(); err != nil {
			return invalid("schools.generators.%s: %v", k, err)
		}
	}
	if c.Schools.CacheWindow < 1 {
		return invalid("schools.cache_window must be >= 1, got %d", c.Schools.CacheWindow)
	}
	if c.Schools.SearchRadius < 0 {
		return invalid("schools.search_radius must be >= 0, got %d", c.Schools.SearchRadius)
	}

	if c.Fads.LifetimeDays < 1 || c.Fads.RemovalDelayDays < 0 {
		return invalid("fads.lifetime_days must be >= 1 and removal_delay_days >= 0")
	}
	if c.Fads.CarryingCapacity < 0 || c.Fads.AttractionRate < 0 {
		return invalid("fads.carrying_capacity and attraction_rate must be >= 0")
	}

	for i, cl := range c.Regulation.Closures {
		if cl.StartDay > cl.EndDay {
			return invalid("regulation.closures[%d]: start_day %d after end_day %d", i, cl.StartDay, cl.EndDay)
		}
	}
	for i, a := range c.Regulation.ClosedAreas {
		if a.MinX > a.MaxX || a.MinY > a.MaxY {
			return invalid("regulation.closed_areas[%d]: min exceeds max", i)
		}
	}
	return nil
}

func (d DistributionConfig) validate() error {
	switch d.Kind {
	case "constant":
		if d.Value < 0 {
			return fmt.Errorf("constant value %v is negative", d.Value)
		}
	case "uniform":
		if d.Min < 0 || d.Min > d.Max {
			return fmt.Errorf("uniform bounds [%v,%v] are inconsistent", d.Min, d.Max)
		}
	case "normal":
		if d.StdDev < 0 {
			return fmt.Errorf("normal std_dev %v is negative", d.StdDev)
		}
	case "lognormal":
		if d.Sigma < 0 {
			return fmt.Errorf("lognormal sigma %v is negative", d.Sigma)
		}
	default:
		return fmt.Errorf("unknown distribution kind %q", d.Kind)
	}
	return nil
}

func (t TransformConfig) validate() error {
	switch t.Kind {
	case "identity", "linear":
	case "logistic":
		if t.Max <= 0 || t.Steepness <= 0 {
			return fmt.Errorf("logistic needs max > 0 and steepness > 0")
		}
	case "saturating":
		if t.Max <= 0 || t.HalfSaturation <= 0 {
			return fmt.Errorf("saturating needs max > 0 and half_saturation > 0")
		}
	default:
		return fmt.Errorf("unknown transform kind %q", t.Kind)
	}
	return nil
}

// Package strategy implements the daily fishing decision loop of a purse-seine vessel.
package strategy

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/pthm-cable/seine/action"
	"github.com/pthm-cable/seine/biology"
	"github.com/pthm-cable/seine/dist"
	"github.com/pthm-cable/seine/grid"
	"github.com/pthm-cable/seine/opportunity"
	"github.com/pthm-cable/seine/valuation"
)

// Vessel is the vessel state the decision loop reads.
type Vessel interface {
	opportunity.Vessel
	RemainingCapacity() float64 // Tonnes of free hold space
	Prices() biology.Prices
	FadsInStock() int
	RemainingHours() float64 // Time left in the current day
}

// Regulations decides whether an action is legal.
type Regulations interface {
	IsPermitted(a action.Action) bool
}

// Environment reports the ocean current speed at a cell.
type Environment interface {
	CurrentSpeed(c grid.Cell, step int) float64
}

// SpeedLimits gives the highest current speed at which a kind can be carried out.
type SpeedLimits interface {
	MaxSpeed(k action.Kind) (float64, bool)
}

// Detector is the source of set opportunities.
type Detector interface {
	PossibleActions(v opportunity.Vessel) []action.Action
	NotifyOfSearch()
}

// Options are the per-run decision settings.
type Options struct {
	SetKinds        []action.Kind // Set kinds the vessel pursues; each gets a search placeholder
	Deploy          bool
	MovingThreshold float64 // Candidates must be weighted strictly above this
	SearchDuration  dist.Sampler
	DeployDuration  dist.Sampler
}

// Config groups the collaborators of a FishingStrategy.
type Config struct {
	Vessel      Vessel
	Detector    Detector
	Valuer      *valuation.Valuer
	Environment Environment
	SpeedLimits SpeedLimits
	Attraction  opportunity.AttractionField
	Regulations Regulations
	Options     Options
}

// Decision is the outcome of one Act call.
type Decision struct {
	Chosen     valuation.WeightedAction
	Wait       bool // No candidate fit; the vessel idles for the rest of the day
	Candidates int  // Candidates considered
}

// Action returns the chosen action, or the zero Action for a wait.
func (d Decision) Action() action.Action {
	return d.Chosen.Action
}

// Duration returns the hours the decision takes.
func (d Decision) Duration() float64 {
	if d.Wait {
		return 0
	}
	return d.Chosen.Action.Duration
}

// FishingStrategy chooses one action per decision round for one vessel.
type FishingStrategy struct {
	vessel      Vessel
	detector    Detector
	valuer      *valuation.Valuer
	env         Environment
	limits      SpeedLimits
	attraction  opportunity.AttractionField
	regulations Regulations
	opts        Options

	state State
}

// New creates a strategy.
func New(c Config) (*FishingStrategy, error) {
	switch {
	case c.Vessel == nil:
		return nil, fmt.Errorf("strategy: no vessel")
	case c.Detector == nil:
		return nil, fmt.Errorf("strategy: vessel %d has no detector", c.Vessel.ID())
	case c.Valuer == nil:
		return nil, fmt.Errorf("strategy: vessel %d has no valuer", c.Vessel.ID())
	case c.Environment == nil || c.SpeedLimits == nil || c.Attraction == nil:
		return nil, fmt.Errorf("strategy: vessel %d is missing an environment provider", c.Vessel.ID())
	case c.Options.SearchDuration == nil:
		return nil, fmt.Errorf("strategy: vessel %d has no search duration", c.Vessel.ID())
	case c.Options.Deploy && c.Options.DeployDuration == nil:
		return nil, fmt.Errorf("strategy: vessel %d deploys without a deployment duration", c.Vessel.ID())
	}
	for _, k := range c.Options.SetKinds {
		if !k.IsSet() {
			return nil, fmt.Errorf("strategy: %s is not a set kind", k)
		}
	}
	return &FishingStrategy{
		vessel:      c.Vessel,
		detector:    c.Detector,
		valuer:      c.Valuer,
		env:         c.Environment,
		limits:      c.SpeedLimits,
		attraction:  c.Attraction,
		regulations: c.Regulations,
		opts:        c.Options,
	}, nil
}

// Vessel returns the vessel this strategy decides for.
func (s *FishingStrategy) Vessel() Vessel {
	return s.vessel
}

// State returns the strategy's decision state.
func (s *FishingStrategy) State() *State {
	return &s.state
}

// ResetTrip clears the decision state when a new trip starts.
func (s *FishingStrategy) ResetTrip() {
	s.state.Reset()
}

// safeKinds returns which kinds the current at the vessel's cell allows.
// A kind without a configured limit is never safe.
func (s *FishingStrategy) safeKinds(step int) [action.NumKinds]bool {
	var safe [action.NumKinds]bool
	speed := s.env.CurrentSpeed(s.vessel.Cell(), step)
	for _, k := range action.Kinds {
		if limit, ok := s.limits.MaxSpeed(k); ok && speed <= limit {
			safe[k] = true
		}
	}
	return safe
}

// rawValue is the payoff before transform: catch value for sets, attraction otherwise.
func (s *FishingStrategy) rawValue(a action.Action) float64 {
	switch a.Kind {
	case action.FadSet, action.OpportunisticFadSet, action.NonAssociatedSet, action.DolphinSet:
		return valuation.SetValue(a.Target.Biomass, s.vessel.RemainingCapacity(), s.vessel.Prices())
	case action.Search:
		return s.attraction.Value(a.StandsFor, a.Cell)
	case action.Deployment:
		return s.attraction.Value(action.Deployment, a.Cell)
	default:
		panic(fmt.Sprintf("strategy: unhandled action kind %v", a.Kind))
	}
}

// candidates builds the unfiltered candidate list for this round.
func (s *FishingStrategy) candidates(step int) []action.Action {
	safe := s.safeKinds(step)
	v := s.vessel

	var out []action.Action
	var found [action.NumKinds]bool
	for _, a := range s.detector.PossibleActions(v) {
		if !safe[a.Kind] {
			continue
		}
		found[a.Kind] = true
		out = append(out, a)
	}

	for _, k := range s.opts.SetKinds {
		if found[k] || !safe[k] {
			continue
		}
		a, err := action.NewSearch(v.ID(), v.Cell(), s.opts.SearchDuration.Sample(v.Rand()), k)
		if err != nil {
			slog.Warn("search placeholder dropped", "vessel", v.ID(), "stands_for", k, "error", err)
			continue
		}
		out = append(out, a)
	}

	if s.opts.Deploy && v.FadsInStock() > 0 && safe[action.Deployment] {
		a, err := action.NewDeployment(v.ID(), v.Cell(), s.opts.DeployDuration.Sample(v.Rand()))
		if err != nil {
			slog.Warn("deployment dropped", "vessel", v.ID(), "error", err)
		} else {
			out = append(out, a)
		}
	}
	return out
}

// Prepare builds the pending candidate list. It returns false when nothing is
// worth doing, in which case the occurrence counters start over.
func (s *FishingStrategy) Prepare(step int) bool {
	var weighted []valuation.WeightedAction
	for _, a := range s.candidates(step) {
		if s.regulations != nil && !s.regulations.IsPermitted(a) {
			continue
		}
		w := s.valuer.Weigh(a, s.rawValue(a), s.state.Occurrences(a.Kind))
		if w.WeightedValue > s.opts.MovingThreshold {
			weighted = append(weighted, w)
		}
	}
	// Kind priority first, discovery order within a kind.
	slices.SortStableFunc(weighted, func(a, b valuation.WeightedAction) int {
		return int(a.Action.Kind) - int(b.Action.Kind)
	})
	s.state.setPending(weighted)
	return len(weighted) > 0
}

// Act commits to the pending candidate with the highest weighted value that
// fits the remaining hours. The first of equal maxima wins.
func (s *FishingStrategy) Act(step int) Decision {
	pending := s.state.Pending()
	remaining := s.vessel.RemainingHours()
	best := -1
	for i, w := range pending {
		if w.Action.Duration > remaining {
			continue
		}
		if best < 0 || w.WeightedValue > pending[best].WeightedValue {
			best = i
		}
	}
	s.state.clearPending()

	if best < 0 {
		slog.Debug("no candidate fits", "vessel", s.vessel.ID(), "step", step, "candidates", len(pending), "hours", remaining)
		return Decision{Wait: true, Candidates: len(pending)}
	}

	chosen := pending[best]
	s.state.record(chosen.Action.Kind)
	if chosen.Action.Kind == action.Search {
		s.detector.NotifyOfSearch()
	}
	slog.Debug("action chosen",
		"vessel", s.vessel.ID(),
		"step", step,
		"kind", chosen.Action.Kind,
		"weighted", chosen.WeightedValue,
		"candidates", len(pending),
	)
	return Decision{Chosen: chosen, Candidates: len(pending)}
}

// Step runs one decision round: prepare if nothing is pending, then act.
func (s *FishingStrategy) Step(step int) Decision {
	if !s.state.HasPending() && !s.Prepare(step) {
		return Decision{Wait: true}
	}
	return s.Act(step)
}

package sim

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/seine/action"
	"github.com/pthm-cable/seine/biology"
	"github.com/pthm-cable/seine/components"
	"github.com/pthm-cable/seine/dist"
	"github.com/pthm-cable/seine/grid"
	"github.com/pthm-cable/seine/opportunity"
	"github.com/pthm-cable/seine/strategy"
	"github.com/pthm-cable/seine/telemetry"
	"github.com/pthm-cable/seine/valuation"
)

// vesselAgent adapts a vessel entity to the decision loop. Component pointers
// are fetched on every call since deployments add entities to the world.
type vesselAgent struct {
	sim      *Simulation
	entity   ecs.Entity
	id       int32
	strategy *strategy.FishingStrategy
	detector *opportunity.Detector
}

func (a *vesselAgent) components() (*components.Position, *components.Vessel, *components.Hold) {
	return a.sim.vesselMap.Get(a.entity)
}

func (a *vesselAgent) vessel() *components.Vessel {
	_, v, _ := a.components()
	return v
}

func (a *vesselAgent) hold() *components.Hold {
	_, _, h := a.components()
	return h
}

func (a *vesselAgent) ID() int32 { return a.id }

func (a *vesselAgent) Cell() grid.Cell {
	pos, _, _ := a.components()
	return pos.Cell()
}

func (a *vesselAgent) HoldFill() float64 { return a.hold().Fill() }

func (a *vesselAgent) Rand() *rand.Rand { return a.vessel().Rng }

func (a *vesselAgent) RemainingCapacity() float64 { return a.hold().Remaining() }

func (a *vesselAgent) Prices() biology.Prices { return a.sim.prices }

func (a *vesselAgent) FadsInStock() int { return a.vessel().FadsInStock }

func (a *vesselAgent) RemainingHours() float64 {
	return max(0, a.sim.cfg.Simulation.HoursPerDay-a.vessel().HoursUsed)
}

// spawnFleet creates every configured vessel at the port, with its own detector,
// valuer and strategy. Vessel ids follow the class order of the configuration.
func (s *Simulation) spawnFleet() error {
	cfg := s.cfg
	year := cfg.Simulation.Year

	required := append([]action.Kind(nil), cfg.Derived.SetKinds...)
	if cfg.Strategy.Deploy {
		required = append(required, action.Deployment)
	}
	limits, err := s.tables.SpeedLimitsFor(year, required)
	if err != nil {
		return err
	}

	searchDuration, err := dist.New(cfg.Derived.Actions[action.Search].Duration)
	if err != nil {
		return fmt.Errorf("SEARCH duration: %w", err)
	}
	deployDuration, err := dist.New(cfg.Derived.Actions[action.Deployment].Duration)
	if err != nil {
		return fmt.Errorf("DPL duration: %w", err)
	}
	opts := strategy.Options{
		SetKinds:        cfg.Derived.SetKinds,
		Deploy:          cfg.Strategy.Deploy,
		MovingThreshold: cfg.Strategy.MovingThreshold,
		SearchDuration:  searchDuration,
		DeployDuration:  deployDuration,
	}

	var id int32
	for _, class := range cfg.Fleet.Classes {
		weights, err := s.tables.WeightsFor(year, class.Name)
		if err != nil {
			return err
		}
		valuer, err := valuation.NewValuer(cfg.Derived.Actions, weights)
		if err != nil {
			return fmt.Errorf("vessel class %s: %w", class.Name, err)
		}

		for i := 0; i < class.Count; i++ {
			if err := s.spawnVessel(id, class.Name, class.HoldCapacity, class.FadsCarried, valuer, limits, opts); err != nil {
				return err
			}
			id++
		}
	}
	return nil
}

func (s *Simulation) spawnVessel(id int32, class string, capacity float64, fads int, valuer *valuation.Valuer, limits strategy.SpeedLimits, opts strategy.Options) error {
	pos := components.PositionOf(s.port)
	vessel := components.Vessel{
		ID:          id,
		Class:       class,
		FadsCarried: fads,
		FadsInStock: fads,
		Rng:         rand.New(rand.NewPCG(uint64(s.seed), uint64(id))),
	}
	hold := components.NewHold(len(s.cfg.Species), capacity)
	entity := s.vesselMap.NewEntity(&pos, &vessel, &hold)

	detector, err := opportunity.NewDetector(s.cfg.Detection.SearchBonus, s.detectionEntries()...)
	if err != nil {
		return fmt.Errorf("vessel %d: %w", id, err)
	}
	ag := &vesselAgent{sim: s, entity: entity, id: id, detector: detector}

	strat, err := strategy.New(strategy.Config{
		Vessel:      ag,
		Detector:    detector,
		Valuer:      valuer,
		Environment: s.currents,
		SpeedLimits: limits,
		Attraction:  s.attraction,
		Regulations: s.rules,
		Options:     opts,
	})
	if err != nil {
		return err
	}
	if err := s.registry.Register(strat); err != nil {
		return err
	}
	ag.strategy = strat
	s.agents[id] = ag
	s.trips.Start(id, 0, 0)
	return nil
}

// fishDay moves the vessel to its fishing cell and runs decision rounds until
// the vessel waits, fills its hold or exhausts its hours.
func (s *Simulation) fishDay(ag *vesselAgent, day int) {
	pos, v, _ := ag.components()
	v.HoursUsed = 0
	*pos = components.PositionOf(s.relocation.Next(pos.Cell(), v.Rng))

	for round := 0; round < maxRoundsPerDay; round++ {
		d := ag.strategy.Step(day)
		rec := telemetry.NewDecisionRecord(day, ag.vessel().Class, ag.id, d)
		if d.Wait {
			rec.X, rec.Y = ag.Cell().X, ag.Cell().Y
			s.record(rec)
			return
		}

		a := d.Action()
		rec.Caught = s.execute(ag, a, day)
		s.rules.Observe(a)
		ag.vessel().HoursUsed += a.Duration
		s.record(rec)

		if ag.HoldFill() >= 1 || ag.RemainingHours() <= 0 {
			return
		}
	}
	slog.Warn("decision round cap reached", "vessel", ag.id, "day", day, "rounds", maxRoundsPerDay)
}

// execute applies a committed action and returns the tonnes loaded.
func (s *Simulation) execute(ag *vesselAgent, a action.Action, day int) float64 {
	switch a.Kind {
	case action.FadSet, action.OpportunisticFadSet:
		fad, ok := s.fads.Index().Fad(a.Target.ID)
		if !ok || !fad.Active {
			return 0
		}
		taken := ag.hold().Load(fad.Biomass)
		fad.Biomass.Sub(taken)
		return taken.Total()
	case action.NonAssociatedSet, action.DolphinSet:
		taken := ag.hold().Load(a.Target.Biomass)
		s.depletePoached(a.Target, taken.Total())
		return taken.Total()
	case action.Deployment:
		s.fads.Deploy(ag.id, a.Cell, day)
		ag.vessel().FadsInStock--
		return 0
	case action.Search:
		return 0
	default:
		panic(fmt.Sprintf("sim: unhandled action kind %v", a.Kind))
	}
}

// depletePoached removes the loaded share of poached stock from the floating
// objects it came from. Loading is proportional, so each object gives up the
// same fraction of what it contributed.
func (s *Simulation) depletePoached(t *action.Target, loaded float64) {
	total := t.Biomass.Total()
	if len(t.Poached) == 0 || total <= 0 || loaded <= 0 {
		return
	}
	frac := min(1, loaded/total)
	for _, share := range t.Poached {
		fad, ok := s.fads.Index().Fad(share.ID)
		if !ok {
			continue
		}
		fad.Biomass.Sub(share.Biomass.Scaled(frac))
	}
}

// returnToPort sells the hold, restocks floating objects and starts a new trip.
func (s *Simulation) returnToPort(ag *vesselAgent, day int) {
	pos, v, hold := ag.components()
	landed := hold.Empty()
	revenue := s.prices.Value(landed)
	v.Revenue += revenue

	if trip := s.trips.End(ag.id, day, revenue); trip != nil {
		if err := s.output.WriteTrip(*trip); err != nil {
			slog.Error("failed to write trip", "error", err)
		}
		if s.store != nil {
			if err := s.store.SaveTrip(*trip); err != nil {
				slog.Error("failed to store trip", "error", err)
			}
		}
	}
	s.collector.RecordLanding(revenue)

	slog.Debug("port call",
		"vessel", ag.id,
		"day", day,
		"trip", v.Trip,
		"trip_days", v.TripDays,
		"landed_t", landed.Total(),
		"revenue", revenue,
	)

	v.Trip++
	v.TripDays = 0
	v.FadsInStock = v.FadsCarried
	*pos = components.PositionOf(s.port)
	ag.strategy.ResetTrip()
	s.trips.Start(ag.id, v.Trip, day+1)
}

// EachVessel calls fn for every vessel in id order.
func (s *Simulation) EachVessel(fn func(c grid.Cell, v *components.Vessel, h *components.Hold)) {
	for _, id := range s.registry.IDs() {
		pos, v, h := s.agents[id].components()
		fn(pos.Cell(), v, h)
	}
}

// Vessel returns the components of a vessel.
func (s *Simulation) Vessel(id int32) (*components.Vessel, *components.Hold, bool) {
	ag, ok := s.agents[id]
	if !ok {
		return nil, nil, false
	}
	_, v, h := ag.components()
	return v, h, true
}

// VesselsAt returns the ids of vessels in a cell.
func (s *Simulation) VesselsAt(c grid.Cell) []int32 {
	var ids []int32
	for _, id := range s.registry.IDs() {
		if s.agents[id].Cell() == c {
			ids = append(ids, id)
		}
	}
	return ids
}

// Package sim hosts the fishery simulation: the ocean, the fleet, drifting
// floating objects, the daily scheduler and telemetry.
package sim

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/seine/action"
	"github.com/pthm-cable/seine/biology"
	"github.com/pthm-cable/seine/components"
	"github.com/pthm-cable/seine/config"
	"github.com/pthm-cable/seine/dist"
	"github.com/pthm-cable/seine/grid"
	"github.com/pthm-cable/seine/ocean"
	"github.com/pthm-cable/seine/opportunity"
	"github.com/pthm-cable/seine/regulation"
	"github.com/pthm-cable/seine/strategy"
	"github.com/pthm-cable/seine/systems"
	"github.com/pthm-cable/seine/tables"
	"github.com/pthm-cable/seine/telemetry"
	"github.com/pthm-cable/seine/valuation"
)

// maxRoundsPerDay caps decision rounds for one vessel in one day.
const maxRoundsPerDay = 64

// Options configures a simulation run beyond the YAML configuration.
type Options struct {
	Seed          int64  // Overrides simulation.seed when non-zero
	OutputDir     string // CSV output directory ("" disables)
	DBPath        string // SQLite store path ("" disables)
	LogStats      bool   // Log window stats
	StatsCallback func(telemetry.WindowStats)
}

// dayClock exposes the current day to components that read time.
type dayClock struct{ day int }

func (c *dayClock) Step() int { return c.day }

// Simulation owns one run: the world, its shared opportunity caches and the fleet.
type Simulation struct {
	cfg  *config.Config
	seed int64

	world       *ecs.World
	vesselMap   *ecs.Map3[components.Position, components.Vessel, components.Hold]
	vesselQuery *ecs.Filter3[components.Position, components.Vessel, components.Hold]

	ocean      *ocean.Map
	attraction *ocean.Attraction
	currents   *ocean.Currents
	fads       *systems.FadSystem
	relocation systems.Relocation
	port       grid.Cell

	clock     *dayClock
	scheduler *Scheduler
	caches    opportunity.Caches
	rules     *regulation.Rules
	registry  *strategy.Registry
	agents    map[int32]*vesselAgent

	tables     *tables.Tables
	prices     biology.Prices
	generators map[action.Kind]opportunity.Generator

	// Telemetry
	collector *telemetry.Collector
	trips     *telemetry.TripTracker
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	store     *telemetry.Store
	dayLog    []telemetry.DecisionRecord
	lastDay   []telemetry.DecisionRecord
	logStats  bool
	onStats   func(telemetry.WindowStats)
}

// New builds a simulation from configuration. Table lookups, transforms and
// detector probabilities are validated here; any error is a configuration error.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	seed := cfg.Simulation.Seed
	if opts.Seed != 0 {
		seed = opts.Seed
	}

	tbl, err := tables.Load(cfg.Tables)
	if err != nil {
		return nil, fmt.Errorf("loading tables: %w", err)
	}

	world := ecs.NewWorld()
	port := grid.Cell{X: cfg.Fleet.PortX, Y: cfg.Fleet.PortY}
	m := ocean.NewMap(cfg.Ocean, port, seed)
	attraction, err := ocean.NewAttraction(m, cfg.Ocean, cfg.Derived.Attraction, seed)
	if err != nil {
		return nil, fmt.Errorf("attraction: %w", err)
	}
	currents := ocean.NewCurrents(cfg.Ocean, seed)

	year := cfg.Simulation.Year
	fadComposition, err := tbl.CompositionFor(year, action.FadSet, cfg.Species)
	if err != nil {
		return nil, err
	}
	prices, err := tbl.PricesFor(year, cfg.Species)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:         cfg,
		seed:        seed,
		world:       world,
		vesselMap:   ecs.NewMap3[components.Position, components.Vessel, components.Hold](world),
		vesselQuery: ecs.NewFilter3[components.Position, components.Vessel, components.Hold](world),
		ocean:       m,
		attraction:  attraction,
		currents:    currents,
		fads:        systems.NewFadSystem(world, m, currents, cfg.Fads, fadComposition),
		relocation:  systems.NewRelocation(m, cfg.Fleet.RelocationRadius),
		port:        port,
		clock:       &dayClock{},
		scheduler:   NewScheduler(),
		caches:      opportunity.NewCaches(),
		registry:    strategy.NewRegistry(),
		agents:      make(map[int32]*vesselAgent),
		tables:      tbl,
		prices:      prices,
		collector:   telemetry.NewCollector(cfg.Telemetry.StatsWindowDays),
		trips:       telemetry.NewTripTracker(),
		perf:        telemetry.NewPerfCollector(cfg.Telemetry.StatsWindowDays),
		logStats:    opts.LogStats,
		onStats:     opts.StatsCallback,
	}
	s.rules = regulation.New(cfg.Regulation, s.clock, s.fads.Index())

	if err := s.caches.Start(s.scheduler); err != nil {
		return nil, err
	}
	if err := s.buildGenerators(); err != nil {
		return nil, err
	}
	if err := s.spawnFleet(); err != nil {
		return nil, err
	}
	if err := s.openOutputs(opts); err != nil {
		s.Close()
		return nil, err
	}

	slog.Info("simulation ready",
		"seed", seed,
		"year", year,
		"vessels", s.registry.Len(),
		"ocean", fmt.Sprintf("%dx%d", m.W, m.H),
		"hooks", s.scheduler.Hooks(),
	)
	return s, nil
}

// buildGenerators creates one generator per pursued set kind. Generators are
// shared by the fleet so that school caches and target ids are run-wide.
func (s *Simulation) buildGenerators() error {
	cfg := s.cfg
	year := cfg.Simulation.Year
	s.generators = make(map[action.Kind]opportunity.Generator)

	for _, k := range cfg.Derived.SetKinds {
		duration, err := dist.New(cfg.Derived.Actions[k].Duration)
		if err != nil {
			return fmt.Errorf("%s duration: %w", k, err)
		}

		switch k {
		case action.FadSet, action.OpportunisticFadSet:
			g, err := opportunity.NewFadSetGenerator(k, s.fads.Index(), s.ocean, duration)
			if err != nil {
				return err
			}
			s.generators[k] = g
		case action.NonAssociatedSet, action.DolphinSet:
			sampler, err := s.tables.SchoolSamplerFor(year, k, cfg.Species)
			if err != nil {
				return err
			}
			tc, ok := cfg.Derived.Generators[k]
			if !ok {
				return fmt.Errorf("%w: schools.generators.%s is missing", config.ErrInvalid, k)
			}
			transform, err := valuation.NewTransform(tc)
			if err != nil {
				return fmt.Errorf("schools.generators.%s: %w", k, err)
			}
			g, err := opportunity.NewSchoolSetGenerator(opportunity.SchoolGeneratorConfig{
				Kind:         k,
				Attraction:   s.attraction,
				Probability:  transform,
				Sampler:      sampler,
				Cache:        s.caches[k],
				Window:       cfg.Schools.CacheWindow,
				Clock:        s.clock,
				Fads:         s.fads.Index(),
				CanPoach:     cfg.Schools.CanPoach,
				SearchRadius: cfg.Schools.SearchRadius,
				Sea:          s.ocean,
				Duration:     duration,
			})
			if err != nil {
				return err
			}
			s.generators[k] = g
		default:
			return fmt.Errorf("%w: %s is not a set kind", config.ErrInvalid, k)
		}
	}
	return nil
}

// detectionEntries lists the detector entries for the pursued kinds. Floating
// objects are always seen; schools use the configured probability.
func (s *Simulation) detectionEntries() []opportunity.Entry {
	var entries []opportunity.Entry
	for _, k := range s.cfg.Derived.SetKinds {
		g, ok := s.generators[k]
		if !ok {
			continue
		}
		p := 1.0
		if k.IsSchoolSet() {
			p = s.cfg.Derived.Probabilities[k]
		}
		entries = append(entries, opportunity.Entry{Generator: g, Probability: p})
	}
	return entries
}

func (s *Simulation) openOutputs(opts Options) error {
	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return err
	}
	s.output = om
	if err := om.WriteConfig(s.cfg); err != nil {
		return fmt.Errorf("writing config snapshot: %w", err)
	}

	if opts.DBPath == "" {
		return nil
	}
	store, err := telemetry.OpenStore(opts.DBPath)
	if err != nil {
		return err
	}
	s.store = store
	runID, err := store.BeginRun(s.seed, s.cfg.Simulation.Year)
	if err != nil {
		return err
	}
	slog.Info("run registered", "run_id", runID, "db", opts.DBPath)
	return nil
}

// Day returns the next day to simulate.
func (s *Simulation) Day() int {
	return s.clock.day
}

// Seed returns the seed of the run.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// Ocean returns the ocean map.
func (s *Simulation) Ocean() *ocean.Map {
	return s.ocean
}

// Attraction returns the attraction fields.
func (s *Simulation) Attraction() *ocean.Attraction {
	return s.attraction
}

// Currents returns the current field.
func (s *Simulation) Currents() *ocean.Currents {
	return s.currents
}

// Fads returns the floating object system.
func (s *Simulation) Fads() *systems.FadSystem {
	return s.fads
}

// Caches returns the run's shared school caches.
func (s *Simulation) Caches() opportunity.Caches {
	return s.caches
}

// Scheduler returns the daily scheduler.
func (s *Simulation) Scheduler() *Scheduler {
	return s.scheduler
}

// Rules returns the regulation oracle.
func (s *Simulation) Rules() *regulation.Rules {
	return s.rules
}

// Strategies returns the vessel strategy registry.
func (s *Simulation) Strategies() *strategy.Registry {
	return s.registry
}

// Port returns the port cell.
func (s *Simulation) Port() grid.Cell {
	return s.port
}

// LastDecisions returns the decisions of the last simulated day.
func (s *Simulation) LastDecisions() []telemetry.DecisionRecord {
	return s.lastDay
}

// Perf returns the performance collector.
func (s *Simulation) Perf() *telemetry.PerfCollector {
	return s.perf
}

// Run simulates days consecutive days.
func (s *Simulation) Run(days int) {
	for i := 0; i < days; i++ {
		s.RunDay()
	}
}

// RunDay simulates one day: cache expiry, floating object drift, every vessel's
// decisions in id order, port calls and telemetry.
func (s *Simulation) RunDay() {
	day := s.clock.day
	s.perf.StartDay()

	s.perf.StartPhase(telemetry.PhaseExpire)
	s.scheduler.Advance(day)

	s.perf.StartPhase(telemetry.PhaseFads)
	if removed := s.fads.Update(day); removed > 0 {
		slog.Debug("floating objects removed", "day", day, "count", removed)
	}

	s.perf.StartPhase(telemetry.PhaseFleet)
	for _, id := range s.registry.IDs() {
		s.fishDay(s.agents[id], day)
	}

	s.perf.StartPhase(telemetry.PhasePort)
	for _, id := range s.registry.IDs() {
		ag := s.agents[id]
		if ag.HoldFill() >= 1 {
			s.returnToPort(ag, day)
		} else {
			ag.vessel().TripDays++
		}
	}

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.flushDay(day)

	s.perf.EndDay()
	s.clock.day++
}

// Close finalizes outputs. Later calls do nothing.
func (s *Simulation) Close() error {
	var firstErr error
	if s.store != nil {
		if s.store.RunID() != "" {
			if err := s.store.FinishRun(s.clock.day); err != nil {
				firstErr = err
			}
		}
		if err := s.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.store = nil
	}
	if err := s.output.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	s.output = nil
	return firstErr
}

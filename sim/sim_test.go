package sim

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/seine/action"
	"github.com/pthm-cable/seine/biology"
	"github.com/pthm-cable/seine/components"
	"github.com/pthm-cable/seine/config"
	"github.com/pthm-cable/seine/grid"
	"github.com/pthm-cable/seine/opportunity"
	"github.com/pthm-cable/seine/strategy"
	"github.com/pthm-cable/seine/telemetry"
)

func testConfig(t *testing.T, overrides string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(overrides))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

const smallFleet = `
ocean: {width: 30, height: 20}
fleet:
  port_x: 2
  port_y: 10
  relocation_radius: 2
  classes:
    - {name: large, count: 2, hold_capacity: 40, fads_carried: 3}
    - {name: small, count: 2, hold_capacity: 20, fads_carried: 2}
regulation:
  closures: []
  closed_areas: []
telemetry: {stats_window_days: 5}
`

func newTestSim(t *testing.T, opts Options) *Simulation {
	t.Helper()
	s, err := New(testConfig(t, smallFleet), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSchedulerAdvance(t *testing.T) {
	s := NewScheduler()
	var seen []int
	s.EveryStep("a", func(step int) { seen = append(seen, step) })

	s.Advance(0)
	s.Advance(0)
	s.Advance(3)
	want := []int{0, 1, 2, 3}
	if len(seen) != len(want) {
		t.Fatalf("hook ran for %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("hook ran for %v, want %v", seen, want)
		}
	}
	if !s.Registered("a") || s.Registered("b") {
		t.Error("Registered mismatch")
	}
}

func TestNewStartsCachesOnce(t *testing.T) {
	s := newTestSim(t, Options{})
	for _, name := range []string{"cache:NAS", "cache:DEL"} {
		if !s.Scheduler().Registered(name) {
			t.Errorf("expiry hook %s not registered", name)
		}
	}
	if err := s.Caches().Start(s.Scheduler()); !errors.Is(err, opportunity.ErrCacheAlreadyStarted) {
		t.Errorf("second start: %v", err)
	}
}

func TestDoubleRegistrationFails(t *testing.T) {
	s := newTestSim(t, Options{})
	if s.Strategies().Len() != 4 {
		t.Fatalf("registered %d vessels, want 4", s.Strategies().Len())
	}
	strat, _ := s.Strategies().Get(0)
	if err := s.Strategies().Register(strat); !errors.Is(err, strategy.ErrAlreadyRegistered) {
		t.Errorf("second registration: %v", err)
	}
}

func TestRunKeepsInvariants(t *testing.T) {
	s := newTestSim(t, Options{})
	for day := 0; day < 40; day++ {
		s.RunDay()

		for _, id := range s.Strategies().IDs() {
			ag := s.agents[id]
			if fill := ag.HoldFill(); fill < 0 || fill > 1 {
				t.Fatalf("day %d vessel %d hold fill %v", day, id, fill)
			}
			if !s.Ocean().IsSea(ag.Cell()) {
				t.Fatalf("day %d vessel %d on land at %v", day, id, ag.Cell())
			}
			if ag.FadsInStock() < 0 {
				t.Fatalf("day %d vessel %d has negative FAD stock", day, id)
			}
		}

		hours := make(map[int32]float64)
		for _, r := range s.LastDecisions() {
			if r.Day != day {
				t.Fatalf("decision for day %d logged on day %d", r.Day, day)
			}
			hours[r.Vessel] += r.Duration
		}
		for id, h := range hours {
			if h > s.cfg.Simulation.HoursPerDay+1e-9 {
				t.Fatalf("day %d vessel %d used %v hours", day, id, h)
			}
		}
	}
	if s.Day() != 40 {
		t.Errorf("Day() = %d, want 40", s.Day())
	}
}

func TestRunDeterministic(t *testing.T) {
	a := newTestSim(t, Options{Seed: 7})
	b := newTestSim(t, Options{Seed: 7})
	for day := 0; day < 15; day++ {
		a.RunDay()
		b.RunDay()
		da, db := a.LastDecisions(), b.LastDecisions()
		if len(da) != len(db) {
			t.Fatalf("day %d: %d vs %d decisions", day, len(da), len(db))
		}
		for i := range da {
			if da[i] != db[i] {
				t.Fatalf("day %d decision %d differs: %+v vs %+v", day, i, da[i], db[i])
			}
		}
	}
}

func TestTinyHoldReturnsToPort(t *testing.T) {
	cfg := testConfig(t, smallFleet+`
detection: {probabilities: {NAS: 1}}
schools:
  generators:
    NAS: {kind: linear, slope: 0, intercept: 1}
actions:
  NAS:
    duration: {kind: constant, value: 2}
    transform: {kind: linear, slope: 1}
strategy: {set_kinds: [NAS], deploy: false}
`)
	cfg.Ocean.CurrentMaxSpeed = 0.1
	cfg.Fleet.Classes = []config.VesselClassConfig{{Name: "small", Count: 1, HoldCapacity: 0.5, FadsCarried: 1}}
	cfg.Derived.VesselCount = 1
	var landings int
	s, err := New(cfg, Options{StatsCallback: func(w telemetry.WindowStats) { landings += w.TripsEnded }})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.Run(20)
	if trip := s.agents[0].vessel().Trip; trip == 0 {
		t.Fatal("vessel with a tiny hold never returned to port")
	}
	if landings == 0 {
		t.Error("no landing reported in window stats")
	}
	if s.agents[0].vessel().Revenue <= 0 {
		t.Error("landings earned no revenue")
	}
}

func TestOutputsWritten(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")
	var windows []telemetry.WindowStats
	s := newTestSim(t, Options{
		OutputDir:     filepath.Join(dir, "out"),
		DBPath:        db,
		StatsCallback: func(w telemetry.WindowStats) { windows = append(windows, w) },
	})
	s.Run(10)
	runID := s.store.RunID()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if len(windows) != 2 || windows[1].WindowEndDay != 10 {
		t.Fatalf("windows = %+v", windows)
	}
	for _, name := range []string{"config.yaml", "decisions.csv", "telemetry.csv", "perf.csv", "trips.csv"} {
		if _, err := os.Stat(filepath.Join(dir, "out", name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	store, err := telemetry.OpenStore(db)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	stored, err := store.Windows(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 2 {
		t.Errorf("stored %d windows, want 2", len(stored))
	}
	decisions, err := store.Decisions(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(decisions) < 4*10 {
		t.Errorf("stored %d decisions, want at least one per vessel per day", len(decisions))
	}
}

func TestVesselLookup(t *testing.T) {
	s := newTestSim(t, Options{})
	if ids := s.VesselsAt(s.Port()); len(ids) != 4 {
		t.Fatalf("vessels at port = %v, want all 4", ids)
	}
	v, h, ok := s.Vessel(2)
	if !ok || v.Class != "small" || h.Capacity != 20 {
		t.Fatalf("Vessel(2) = %+v %+v %v", v, h, ok)
	}
	if _, _, ok := s.Vessel(99); ok {
		t.Error("unknown vessel found")
	}

	var seen []int32
	s.EachVessel(func(_ grid.Cell, v *components.Vessel, _ *components.Hold) {
		seen = append(seen, v.ID)
	})
	if len(seen) != 4 || seen[0] != 0 || seen[3] != 3 {
		t.Errorf("EachVessel order = %v", seen)
	}
}

func TestSchoolSetDepletesPoachedFads(t *testing.T) {
	s := newTestSim(t, Options{})
	ag := s.agents[0] // large class, 40 t hold
	cell := ag.Cell()

	_, id := s.fads.Deploy(3, cell, 0)
	fad, ok := s.fads.Index().Fad(id)
	if !ok {
		t.Fatal("deployed object not indexed")
	}
	fad.Biomass = biology.Catch{40, 0, 0}

	target := &action.Target{
		ID:      1,
		Owner:   action.NoOwner,
		Cell:    cell,
		Biomass: biology.Catch{40, 20, 0},
		Poached: []action.FadShare{{ID: id, Biomass: biology.Catch{40, 0, 0}}},
	}
	a, err := action.NewSet(action.NonAssociatedSet, ag.id, cell, 2, target)
	if err != nil {
		t.Fatal(err)
	}

	loaded := s.execute(ag, a, 0)
	if math.Abs(loaded-40) > 1e-9 {
		t.Fatalf("loaded = %v, want the full 40 t hold", loaded)
	}
	// Two thirds of the target fit, so the object gives up two thirds of its 40 t.
	if got := fad.Biomass[0]; math.Abs(got-40.0/3) > 1e-9 {
		t.Errorf("object stock after the set = %v, want %v", got, 40.0/3)
	}
}

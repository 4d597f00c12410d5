package opportunity

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/pthm-cable/seine/action"
	"github.com/pthm-cable/seine/biology"
	"github.com/pthm-cable/seine/dist"
	"github.com/pthm-cable/seine/grid"
	"github.com/pthm-cable/seine/valuation"
)

type testVessel struct {
	id   int32
	cell grid.Cell
	fill float64
	rng  *rand.Rand
}

func newTestVessel(id int32, fill float64) *testVessel {
	return &testVessel{id: id, cell: grid.Cell{X: 2, Y: 2}, fill: fill, rng: rand.New(rand.NewPCG(7, uint64(id)))}
}

func (v *testVessel) ID() int32         { return v.id }
func (v *testVessel) Cell() grid.Cell   { return v.cell }
func (v *testVessel) HoldFill() float64 { return v.fill }
func (v *testVessel) Rand() *rand.Rand  { return v.rng }

type testFads []FadView

func (f testFads) FadsAt(c grid.Cell) []FadView {
	var out []FadView
	for _, fad := range f {
		if fad.Cell == c {
			out = append(out, fad)
		}
	}
	return out
}

func (f testFads) FadsNear(c grid.Cell, radius int) []FadView {
	var out []FadView
	for _, fad := range f {
		if fad.Cell.Chebyshev(c) <= radius {
			out = append(out, fad)
		}
	}
	return out
}

type testClock struct{ step int }

func (c *testClock) Step() int { return c.step }

type testScheduler struct {
	hooks map[string]func(int)
}

func (s *testScheduler) EveryStep(name string, fn func(int)) {
	if s.hooks == nil {
		s.hooks = make(map[string]func(int))
	}
	s.hooks[name] = fn
}

type flatField float64

func (f flatField) Value(action.Kind, grid.Cell) float64 { return float64(f) }

// fixedGenerator yields n copies of a set action every call.
type fixedGenerator struct {
	kind  action.Kind
	n     int
	calls int
}

func (g *fixedGenerator) Kind() action.Kind { return g.kind }

func (g *fixedGenerator) Generate(v Vessel) []action.Action {
	g.calls++
	out := make([]action.Action, 0, g.n)
	for i := 0; i < g.n; i++ {
		a, _ := action.NewSet(g.kind, v.ID(), v.Cell(), 1, &action.Target{ID: int64(i)})
		out = append(out, a)
	}
	return out
}

func TestCacheExpiryWindow(t *testing.T) {
	cell := grid.Cell{X: 3, Y: 4}
	other := grid.Cell{X: 9, Y: 9}
	for _, d := range []int{1, 2, 5} {
		for _, s := range []int{0, 3} {
			c := NewActiveCache(action.NonAssociatedSet)
			for now := 0; now <= s; now++ {
				c.Expire(now)
			}
			if err := c.Add(cell, s, d); err != nil {
				t.Fatalf("Add(%d, %d): %v", s, d, err)
			}
			for k := 0; k < d+3; k++ {
				now := s + k
				c.Expire(now)
				// Unrelated churn must not disturb the entry.
				if err := c.Add(other, now, 1); err != nil {
					t.Fatalf("unrelated add at %d: %v", now, err)
				}
				want := k < d
				if got := c.Has(cell, now); got != want {
					t.Errorf("d=%d s=%d: Has at s+%d = %v, want %v", d, s, k, got, want)
				}
			}
		}
	}
}

func TestCacheExpireIdempotent(t *testing.T) {
	c := NewActiveCache(action.DolphinSet)
	cell := grid.Cell{X: 1, Y: 1}
	if err := c.Add(cell, 0, 2); err != nil {
		t.Fatal(err)
	}
	c.Expire(1)
	c.Expire(1)
	if !c.Has(cell, 1) {
		t.Error("repeated expiry removed a live entry")
	}
	if c.Has(cell, 0) {
		t.Error("elapsed entry still present")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCacheRejects(t *testing.T) {
	c := NewActiveCache(action.NonAssociatedSet)
	c.Expire(5)
	if err := c.Add(grid.Cell{}, 4, 2); !errors.Is(err, ErrBackdated) {
		t.Errorf("back-dated add: got %v, want ErrBackdated", err)
	}
	if err := c.Add(grid.Cell{}, 6, 0); !errors.Is(err, ErrBadWindow) {
		t.Errorf("zero duration: got %v, want ErrBadWindow", err)
	}
	if err := c.Add(grid.Cell{}, 5, 1); err != nil {
		t.Errorf("add at current step: %v", err)
	}
}

func TestCacheStartOnce(t *testing.T) {
	s := &testScheduler{}
	cs := NewCaches()
	if err := cs.Start(s); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if len(s.hooks) != 2 {
		t.Errorf("registered %d hooks, want 2", len(s.hooks))
	}
	if err := cs[action.NonAssociatedSet].Start(s); !errors.Is(err, ErrCacheAlreadyStarted) {
		t.Errorf("second start: got %v, want ErrCacheAlreadyStarted", err)
	}
}

func TestNewDetectorValidatesProbabilities(t *testing.T) {
	g := &fixedGenerator{kind: action.NonAssociatedSet, n: 1}
	tests := []struct {
		name  string
		bonus float64
		p     float64
		ok    bool
	}{
		{"bounds", 0, 1, true},
		{"upper bonus", 1, 0, true},
		{"negative probability", 0.1, -0.01, false},
		{"probability above one", 0.1, 1.01, false},
		{"NaN probability", 0.1, math.NaN(), false},
		{"bonus above one", 1.5, 0.5, false},
		{"negative bonus", -0.1, 0.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDetector(tt.bonus, Entry{Generator: g, Probability: tt.p})
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrBadProbability) {
				t.Errorf("got %v, want ErrBadProbability", err)
			}
		})
	}
}

func TestEffectiveProbabilityClamped(t *testing.T) {
	for _, p := range []float64{0, 0.3, 0.95, 1} {
		for _, bonus := range []float64{0, 0.1, 0.5, 1} {
			d, err := NewDetector(bonus, Entry{Generator: &fixedGenerator{kind: action.DolphinSet}, Probability: p})
			if err != nil {
				t.Fatal(err)
			}
			d.NotifyOfSearch()
			e := d.EffectiveProbability(action.DolphinSet)
			if e < 0 || e > 1 {
				t.Errorf("p=%v bonus=%v: effective %v outside [0,1]", p, bonus, e)
			}
			if want := math.Min(1, p+bonus); e != want {
				t.Errorf("p=%v bonus=%v: effective %v, want %v", p, bonus, e, want)
			}
		}
	}
}

func newFadGenerators(t *testing.T, fads FadLocator) (*FadSetGenerator, *FadSetGenerator) {
	t.Helper()
	own, err := NewFadSetGenerator(action.FadSet, fads, nil, dist.Constant(3))
	if err != nil {
		t.Fatal(err)
	}
	foreign, err := NewFadSetGenerator(action.OpportunisticFadSet, fads, nil, dist.Constant(3))
	if err != nil {
		t.Fatal(err)
	}
	return own, foreign
}

func newSchoolGenerator(t *testing.T, kind action.Kind, cache *ActiveCache, clock Clock, attraction float64) *SchoolSetGenerator {
	t.Helper()
	sampler, err := biology.NewSchoolSampler(3, 0.5, []float64{0.6, 0.1, 0.3})
	if err != nil {
		t.Fatal(err)
	}
	g, err := NewSchoolSetGenerator(SchoolGeneratorConfig{
		Kind:        kind,
		Attraction:  flatField(attraction),
		Probability: valuation.Identity{},
		Sampler:     sampler,
		Cache:       cache,
		Window:      3,
		Clock:       clock,
		Sea:         nil,
		Duration:    dist.Constant(4),
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestScenarioOwnFadOnly(t *testing.T) {
	v := newTestVessel(1, 0)
	fads := testFads{{ID: 10, Owner: 1, Cell: v.cell, Active: true, Biomass: biology.Catch{5, 1, 2}}}
	own, foreign := newFadGenerators(t, fads)
	caches := NewCaches()
	clock := &testClock{}
	nas := newSchoolGenerator(t, action.NonAssociatedSet, caches[action.NonAssociatedSet], clock, 1)
	del := newSchoolGenerator(t, action.DolphinSet, caches[action.DolphinSet], clock, 1)

	d, err := NewDetector(0.1,
		Entry{Generator: own, Probability: 1},
		Entry{Generator: foreign, Probability: 1},
		Entry{Generator: nas, Probability: 0},
		Entry{Generator: del, Probability: 0},
	)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 20; i++ {
		got := d.PossibleActions(v)
		if len(got) != 1 {
			t.Fatalf("round %d: got %d candidates, want 1", i, len(got))
		}
		if got[0].Kind != action.FadSet || got[0].Target == nil || got[0].Target.ID != 10 {
			t.Fatalf("round %d: unexpected candidate %v", i, got[0])
		}
	}
}

func TestScenarioFullHold(t *testing.T) {
	v := newTestVessel(1, 1)
	fads := testFads{
		{ID: 10, Owner: 1, Cell: v.cell, Active: true},
		{ID: 11, Owner: 2, Cell: v.cell, Active: true},
	}
	own, foreign := newFadGenerators(t, fads)
	d, err := NewDetector(0.5, Entry{Generator: own, Probability: 1}, Entry{Generator: foreign, Probability: 1})
	if err != nil {
		t.Fatal(err)
	}
	d.NotifyOfSearch()
	if got := d.PossibleActions(v); len(got) != 0 {
		t.Errorf("full hold produced %d candidates", len(got))
	}
	v.fill = 1.2
	if got := d.PossibleActions(v); len(got) != 0 {
		t.Errorf("overfull hold produced %d candidates", len(got))
	}
	if d.Searched() {
		t.Error("search flag not consumed")
	}
}

func TestScenarioSearchBonusOneShot(t *testing.T) {
	const trials = 4000
	v := newTestVessel(3, 0.2)
	g := &fixedGenerator{kind: action.NonAssociatedSet, n: trials}
	d, err := NewDetector(0.3, Entry{Generator: g, Probability: 0.2})
	if err != nil {
		t.Fatal(err)
	}

	d.NotifyOfSearch()
	if e := d.EffectiveProbability(action.NonAssociatedSet); math.Abs(e-0.5) > 1e-12 {
		t.Fatalf("armed effective probability = %v, want 0.5", e)
	}
	boosted := float64(len(d.PossibleActions(v))) / trials
	if e := d.EffectiveProbability(action.NonAssociatedSet); e != 0.2 {
		t.Fatalf("effective probability after consumption = %v, want 0.2", e)
	}
	base := float64(len(d.PossibleActions(v))) / trials

	// Binomial standard error at n=4000 is below 0.008.
	if math.Abs(boosted-0.5) > 0.04 {
		t.Errorf("boosted acceptance rate %v, want about 0.5", boosted)
	}
	if math.Abs(base-0.2) > 0.04 {
		t.Errorf("base acceptance rate %v, want about 0.2", base)
	}
}

func TestFadOwnership(t *testing.T) {
	v := newTestVessel(1, 0)
	fads := testFads{
		{ID: 1, Owner: 1, Cell: v.cell, Active: true},
		{ID: 2, Owner: 1, Cell: v.cell, Active: false},
		{ID: 3, Owner: 2, Cell: v.cell, Active: true},
		{ID: 4, Owner: 3, Cell: v.cell, Active: true},
		{ID: 5, Owner: 1, Cell: grid.Cell{X: 9, Y: 9}, Active: true},
	}
	own, foreign := newFadGenerators(t, fads)

	ids := func(as []action.Action) []int64 {
		var out []int64
		for _, a := range as {
			out = append(out, a.Target.ID)
		}
		return out
	}
	if got := ids(own.Generate(v)); len(got) != 1 || got[0] != 1 {
		t.Errorf("own sets on %v, want [1]", got)
	}
	if got := ids(foreign.Generate(v)); len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Errorf("foreign sets on %v, want [3 4]", got)
	}
	for _, a := range own.Generate(v) {
		if a.Duration != 3 {
			t.Errorf("duration %v, want 3", a.Duration)
		}
	}
}

func TestSchoolPersistsInSharedCache(t *testing.T) {
	clock := &testClock{}
	cache := NewActiveCache(action.NonAssociatedSet)
	sched := &testScheduler{}
	if err := cache.Start(sched); err != nil {
		t.Fatal(err)
	}
	g := newSchoolGenerator(t, action.NonAssociatedSet, cache, clock, 1)

	first := newTestVessel(1, 0)
	got := g.Generate(first)
	if len(got) != 1 {
		t.Fatalf("certain school not detected: %d actions", len(got))
	}
	if got[0].Target.Owner != action.NoOwner || got[0].Target.Biomass.Total() <= 0 {
		t.Errorf("unexpected school target %+v", got[0].Target)
	}
	if !cache.Has(first.cell, 0) {
		t.Fatal("detection not registered in cache")
	}

	// A zero attraction field would never produce a school; the cache still does,
	// for any vessel, until the window elapses.
	g.attraction = flatField(0)
	second := newTestVessel(2, 0)
	for step := 0; step < 3; step++ {
		clock.step = step
		sched.hooks["cache:NAS"](step)
		// Each call samples a full school; sets do not deplete the cached one.
		for call := 0; call < 2; call++ {
			acts := g.Generate(second)
			if len(acts) != 1 {
				t.Fatalf("step %d: %d actions from cached school, want 1", step, len(acts))
			}
			if acts[0].Target.Biomass.Total() <= 0 {
				t.Errorf("step %d call %d: empty school from cache", step, call)
			}
		}
	}
	clock.step = 3
	sched.hooks["cache:NAS"](3)
	if n := len(g.Generate(second)); n != 0 {
		t.Errorf("school outlived its window: %d actions", n)
	}
}

func TestSchoolPoachesNearbyFads(t *testing.T) {
	v := newTestVessel(1, 0)
	fads := testFads{
		{ID: 1, Owner: 4, Cell: grid.Cell{X: 3, Y: 2}, Active: true, Biomass: biology.Catch{100, 0, 0}},
		{ID: 2, Owner: 4, Cell: grid.Cell{X: 6, Y: 2}, Active: true, Biomass: biology.Catch{1000, 0, 0}},
	}
	sampler, err := biology.NewSchoolSampler(0, 1e-9, []float64{0, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	g, err := NewSchoolSetGenerator(SchoolGeneratorConfig{
		Kind:         action.NonAssociatedSet,
		Attraction:   flatField(1),
		Probability:  valuation.Identity{},
		Sampler:      sampler,
		Cache:        NewActiveCache(action.NonAssociatedSet),
		Window:       1,
		Clock:        &testClock{},
		Fads:         fads,
		CanPoach:     true,
		SearchRadius: 1,
		Duration:     dist.Constant(2),
	})
	if err != nil {
		t.Fatal(err)
	}
	got := g.Generate(v)
	if len(got) != 1 {
		t.Fatalf("got %d actions, want 1", len(got))
	}
	if b := got[0].Target.Biomass; math.Abs(b[0]-100) > 1e-9 {
		t.Errorf("poached skipjack = %v, want 100 from the adjacent object only", b[0])
	}
	poached := got[0].Target.Poached
	if len(poached) != 1 || poached[0].ID != 1 || poached[0].Biomass[0] != 100 {
		t.Errorf("Poached = %+v, want the adjacent object's 100 t", poached)
	}
}

type noSea struct{}

func (noSea) IsSea(grid.Cell) bool { return false }

func TestGeneratorPanicsOnLand(t *testing.T) {
	g, err := NewFadSetGenerator(action.FadSet, testFads{}, noSea{}, dist.Constant(1))
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a vessel on land")
		}
	}()
	g.Generate(newTestVessel(1, 0))
}

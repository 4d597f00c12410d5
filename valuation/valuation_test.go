package valuation

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/pthm-cable/seine/action"
	"github.com/pthm-cable/seine/biology"
	"github.com/pthm-cable/seine/config"
	"github.com/pthm-cable/seine/grid"
)

func TestNormalizeWeightsSumsToOne(t *testing.T) {
	inputs := []map[action.Kind]float64{
		{action.FadSet: 1, action.Search: 1},
		{action.FadSet: 0.3, action.OpportunisticFadSet: 0.12, action.NonAssociatedSet: 0.14, action.DolphinSet: 0.1, action.Deployment: 0.18, action.Search: 0.16},
		{action.FadSet: 1e-9, action.DolphinSet: 5e6, action.Deployment: 3},
		{action.Search: 7},
	}
	for i, raw := range inputs {
		norm, err := NormalizeWeights(raw)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		sum := 0.0
		for _, w := range norm {
			sum += w
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("case %d: weights sum to %v", i, sum)
		}

		// Relative ordering is preserved
		kinds := make([]action.Kind, 0, len(raw))
		for k := range raw {
			kinds = append(kinds, k)
		}
		sort.Slice(kinds, func(a, b int) bool { return raw[kinds[a]] < raw[kinds[b]] })
		for j := 1; j < len(kinds); j++ {
			if norm[kinds[j-1]] > norm[kinds[j]] {
				t.Errorf("case %d: ordering of %s and %s not preserved", i, kinds[j-1], kinds[j])
			}
		}
	}
}

func TestNormalizeWeightsRejects(t *testing.T) {
	bad := []map[action.Kind]float64{
		{},
		{action.FadSet: 0, action.Search: 0},
		{action.FadSet: -1, action.Search: 2},
		{action.FadSet: math.NaN()},
		{action.FadSet: math.Inf(1)},
	}
	for i, raw := range bad {
		if _, err := NormalizeWeights(raw); !errors.Is(err, ErrBadWeights) {
			t.Errorf("case %d: expected ErrBadWeights, got %v", i, err)
		}
	}
}

func TestDecayMonotonic(t *testing.T) {
	for _, c := range []float64{0.01, 0.5, 3} {
		prev := math.Inf(1)
		for n := 0; n < 20; n++ {
			v := Decay(10, c, n)
			if v > prev {
				t.Fatalf("decay constant %v: value increased at n=%d (%v > %v)", c, n, v, prev)
			}
			prev = v
		}
	}
	if Decay(10, 0, 5) != 10 {
		t.Error("zero decay constant must leave value unchanged")
	}
}

func TestSetValue(t *testing.T) {
	prices := biology.Prices{1000, 2000}
	tests := []struct {
		name     string
		target   biology.Catch
		capacity float64
		want     float64
	}{
		{"fits", biology.Catch{10, 5}, 100, 20000},
		{"clipped to half", biology.Catch{10, 10}, 10, 15000},
		{"zero biomass", biology.Catch{0, 0}, 100, 0},
		{"no capacity", biology.Catch{10, 10}, 0, 0},
		{"empty target", nil, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SetValue(tt.target, tt.capacity, prices)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SetValue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransforms(t *testing.T) {
	l := Logistic{Max: 1, Steepness: 1, Midpoint: 0}
	if math.Abs(l.Apply(0)-0.5) > 1e-12 {
		t.Errorf("logistic at midpoint = %v, want 0.5", l.Apply(0))
	}
	s := Saturating{Max: 2, HalfSaturation: 1}
	if s.Apply(1) != 1 || s.Apply(-3) != 0 {
		t.Errorf("saturating: f(1)=%v f(-3)=%v", s.Apply(1), s.Apply(-3))
	}
	p := Probability(Linear{Slope: 2})
	if p.Apply(5) != 1 || p.Apply(-1) != 0 {
		t.Errorf("probability clamp failed: %v %v", p.Apply(5), p.Apply(-1))
	}

	for _, c := range []config.TransformConfig{
		{Kind: "logistic", Max: 0, Steepness: 1},
		{Kind: "saturating", Max: 1},
		{Kind: "linear", Slope: -1},
		{Kind: "cubic"},
	} {
		if _, err := NewTransform(c); err == nil {
			t.Errorf("NewTransform(%+v) succeeded, want error", c)
		}
	}
}

func testActions() map[action.Kind]config.ActionConfig {
	acts := make(map[action.Kind]config.ActionConfig)
	for _, k := range action.Kinds {
		acts[k] = config.ActionConfig{Transform: config.TransformConfig{Kind: "identity"}}
	}
	s := acts[action.Search]
	s.Decay = 0.5
	acts[action.Search] = s
	return acts
}

func TestValuerWeigh(t *testing.T) {
	v, err := NewValuer(testActions(), map[action.Kind]float64{action.FadSet: 3, action.Search: 1})
	if err != nil {
		t.Fatalf("NewValuer: %v", err)
	}

	set, _ := action.NewSet(action.FadSet, 1, grid.Cell{}, 1, &action.Target{ID: 1})
	wa := v.Weigh(set, 8, 4)
	if wa.ModulatedValue != 8 {
		t.Errorf("set actions do not decay: modulated = %v", wa.ModulatedValue)
	}
	if wa.WeightedValue != 6 {
		t.Errorf("weighted = %v, want 6", wa.WeightedValue)
	}

	search, _ := action.NewSearch(1, grid.Cell{}, 1, action.FadSet)
	prev := math.Inf(1)
	for n := 0; n < 5; n++ {
		w := v.Weigh(search, 8, n).WeightedValue
		if n > 0 && w >= prev {
			t.Errorf("search value should strictly decrease with occurrences: n=%d %v >= %v", n, w, prev)
		}
		prev = w
	}

	if v.Weight(action.DolphinSet) != 0 {
		t.Errorf("kinds without a raw weight get zero, got %v", v.Weight(action.DolphinSet))
	}
}

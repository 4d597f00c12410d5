package regulation

import (
	"testing"

	"github.com/pthm-cable/seine/action"
	"github.com/pthm-cable/seine/config"
	"github.com/pthm-cable/seine/grid"
)

type clock struct{ step int }

func (c *clock) Step() int { return c.step }

type fadCount map[int32]int

func (f fadCount) ActiveFads(owner int32) int { return f[owner] }

func set(kind action.Kind, vessel int32, cell grid.Cell) action.Action {
	a, err := action.NewSet(kind, vessel, cell, 1, &action.Target{ID: 1, Owner: action.NoOwner, Cell: cell})
	if err != nil {
		panic(err)
	}
	return a
}

func testRules(clk *clock, fads FadCounter) *Rules {
	return New(config.RegulationConfig{
		Closures:        []config.ClosureConfig{{StartDay: 10, EndDay: 20}},
		ClosedAreas:     []config.AreaConfig{{MinX: 5, MinY: 5, MaxX: 6, MaxY: 6}},
		DolphinSetLimit: 2,
		ActiveFadLimit:  3,
	}, clk, fads)
}

func TestClosuresAndAreas(t *testing.T) {
	clk := &clock{}
	r := testRules(clk, nil)
	open := grid.Cell{X: 1, Y: 1}
	closed := grid.Cell{X: 6, Y: 5}
	search, _ := action.NewSearch(1, closed, 1, action.FadSet)

	tests := []struct {
		name string
		step int
		a    action.Action
		want bool
	}{
		{"open season", 0, set(action.FadSet, 1, open), true},
		{"closure start", 10, set(action.FadSet, 1, open), false},
		{"closure end", 20, set(action.NonAssociatedSet, 1, open), false},
		{"after closure", 21, set(action.NonAssociatedSet, 1, open), true},
		{"closure next year", 365 + 15, set(action.FadSet, 1, open), false},
		{"closed area", 0, set(action.FadSet, 1, closed), false},
		{"search in closed area", 15, search, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk.step = tt.step
			if got := r.IsPermitted(tt.a); got != tt.want {
				t.Errorf("IsPermitted = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDolphinSetLimit(t *testing.T) {
	clk := &clock{}
	r := testRules(clk, nil)
	del := set(action.DolphinSet, 4, grid.Cell{})

	for i := 0; i < 2; i++ {
		if !r.IsPermitted(del) {
			t.Fatalf("set %d denied below the limit", i)
		}
		r.Observe(del)
	}
	if r.IsPermitted(del) {
		t.Error("set permitted at the limit")
	}
	if !r.IsPermitted(set(action.DolphinSet, 5, grid.Cell{})) {
		t.Error("limit leaked to another vessel")
	}

	clk.step = DaysPerYear
	if !r.IsPermitted(del) {
		t.Error("limit not reset in the new year")
	}
}

func TestActiveFadLimit(t *testing.T) {
	fads := fadCount{1: 3, 2: 1}
	r := testRules(&clock{}, fads)
	for vessel, want := range map[int32]bool{1: false, 2: true} {
		dpl, _ := action.NewDeployment(vessel, grid.Cell{}, 1)
		if got := r.IsPermitted(dpl); got != want {
			t.Errorf("vessel %d deployment permitted = %v, want %v", vessel, got, want)
		}
	}
}

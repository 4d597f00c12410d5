package action

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/seine/biology"
	"github.com/pthm-cable/seine/grid"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		code string
		want Kind
	}{
		{"FAD", FadSet},
		{"ofs", OpportunisticFadSet},
		{" NAS ", NonAssociatedSet},
		{"DEL", DolphinSet},
		{"DPL", Deployment},
		{"search", Search},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.code)
		if err != nil {
			t.Errorf("ParseKind(%q) error: %v", tt.code, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}

	if _, err := ParseKind("LONGLINE"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestKindPredicates(t *testing.T) {
	for _, k := range Kinds {
		if k.IsSchoolSet() && !k.IsSet() {
			t.Errorf("%s: school set must be a set", k)
		}
		if k.IsFadSet() && !k.IsSet() {
			t.Errorf("%s: fad set must be a set", k)
		}
		if k.IsLocationAnchored() == k.IsSet() {
			t.Errorf("%s: location-anchored kinds are exactly the non-set kinds", k)
		}
	}
}

func TestNewSetRequiresTarget(t *testing.T) {
	if _, err := NewSet(FadSet, 1, grid.Cell{}, 3, nil); !errors.Is(err, ErrMissingTarget) {
		t.Errorf("expected ErrMissingTarget, got %v", err)
	}
	if _, err := NewSet(Search, 1, grid.Cell{}, 3, &Target{}); !errors.Is(err, ErrNotSetKind) {
		t.Errorf("expected ErrNotSetKind, got %v", err)
	}

	a, err := NewSet(DolphinSet, 1, grid.Cell{X: 2, Y: 3}, 4, &Target{ID: 9, Owner: NoOwner, Biomass: biology.Catch{1, 2}})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("valid set failed validation: %v", err)
	}
}

func TestDurationMustBeNonNegative(t *testing.T) {
	for _, d := range []float64{-1, math.NaN(), math.Inf(1)} {
		if _, err := NewDeployment(1, grid.Cell{}, d); !errors.Is(err, ErrNegativeDuration) {
			t.Errorf("duration %v: expected ErrNegativeDuration, got %v", d, err)
		}
	}
	if _, err := NewDeployment(1, grid.Cell{}, 0); err != nil {
		t.Errorf("zero duration should be allowed: %v", err)
	}
}

func TestSearchCarriesNoTarget(t *testing.T) {
	a, err := NewSearch(1, grid.Cell{}, 2, NonAssociatedSet)
	if err != nil {
		t.Fatalf("NewSearch: %v", err)
	}
	if a.StandsFor != NonAssociatedSet {
		t.Errorf("StandsFor = %v, want NAS", a.StandsFor)
	}
	a.Target = &Target{}
	if err := a.Validate(); !errors.Is(err, ErrUnexpectedTarget) {
		t.Errorf("expected ErrUnexpectedTarget, got %v", err)
	}

	if _, err := NewSearch(1, grid.Cell{}, 2, Deployment); !errors.Is(err, ErrNotSetKind) {
		t.Errorf("search may only stand for set kinds, got %v", err)
	}
}

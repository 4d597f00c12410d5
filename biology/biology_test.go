package biology

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func TestCatchArithmetic(t *testing.T) {
	c := Catch{10, 5, 0}
	if c.Total() != 15 {
		t.Errorf("Total = %v, want 15", c.Total())
	}

	half := c.Scaled(0.5)
	if half[0] != 5 || c[0] != 10 {
		t.Errorf("Scaled must not modify the receiver: %v %v", half, c)
	}

	c.Sub(Catch{12, 1, 0})
	if c[0] != 0 || c[1] != 4 {
		t.Errorf("Sub should floor at zero: %v", c)
	}

	if NewCatch(0).Total() != 0 {
		t.Error("empty catch should total zero")
	}
}

func TestPricesValue(t *testing.T) {
	p := Prices{1000, 2000}
	if v := p.Value(Catch{1, 0.5}); v != 2000 {
		t.Errorf("Value = %v, want 2000", v)
	}
}

func TestSchoolSampler(t *testing.T) {
	if _, err := NewSchoolSampler(1, 0.5, []float64{0, 0}); !errors.Is(err, ErrBadComposition) {
		t.Errorf("zero composition: expected ErrBadComposition, got %v", err)
	}
	if _, err := NewSchoolSampler(1, 0.5, []float64{1, -1}); !errors.Is(err, ErrBadComposition) {
		t.Errorf("negative composition: expected ErrBadComposition, got %v", err)
	}

	s, err := NewSchoolSampler(3, 0.5, []float64{3, 1})
	if err != nil {
		t.Fatalf("NewSchoolSampler: %v", err)
	}
	src := rand.NewPCG(4, 5)
	for i := 0; i < 100; i++ {
		c := s.Sample(src)
		if c.Total() <= 0 {
			t.Fatalf("school biomass must be positive, got %v", c)
		}
		if math.Abs(c[0]/c.Total()-0.75) > 1e-9 {
			t.Fatalf("composition not respected: %v", c)
		}
	}
}

package dist

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/pthm-cable/seine/config"
)

func TestNewRejectsBadConfig(t *testing.T) {
	bad := []config.DistributionConfig{
		{Kind: "constant", Value: -1},
		{Kind: "uniform", Min: 5, Max: 3},
		{Kind: "uniform", Min: -1, Max: 3},
		{Kind: "normal", StdDev: -0.1},
		{Kind: "lognormal", Sigma: -1},
		{Kind: "poisson"},
	}
	for _, c := range bad {
		if _, err := New(c); err == nil {
			t.Errorf("New(%+v) succeeded, want error", c)
		}
	}
}

func TestSamplesStayInRange(t *testing.T) {
	src := rand.NewPCG(1, 2)
	tests := []struct {
		name     string
		cfg      config.DistributionConfig
		min, max float64
	}{
		{"constant", config.DistributionConfig{Kind: "constant", Value: 4}, 4, 4},
		{"uniform", config.DistributionConfig{Kind: "uniform", Min: 3, Max: 5}, 3, 5},
		{"degenerate uniform", config.DistributionConfig{Kind: "uniform", Min: 2, Max: 2}, 2, 2},
		{"normal", config.DistributionConfig{Kind: "normal", Mean: 1, StdDev: 3}, 0, math.Inf(1)},
		{"lognormal", config.DistributionConfig{Kind: "lognormal", Mu: 1.3, Sigma: 0.2}, 0, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			for i := 0; i < 500; i++ {
				v := s.Sample(src)
				if v < tt.min || v > tt.max {
					t.Fatalf("sample %v outside [%v,%v]", v, tt.min, tt.max)
				}
			}
		})
	}
}

func TestLogNormalMean(t *testing.T) {
	l := LogNormal{Mu: 0, Sigma: 0.5}
	want := math.Exp(0.125)
	if math.Abs(l.Mean()-want) > 1e-9 {
		t.Errorf("Mean() = %v, want %v", l.Mean(), want)
	}
}

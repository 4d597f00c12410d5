// Package dist builds non-negative scalar samplers (action durations, sizes) from configuration.
package dist

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/seine/config"
)

// Sampler draws a non-negative value using the caller's random source.
type Sampler interface {
	Sample(src rand.Source) float64
	Mean() float64
}

// Constant always returns the same value.
type Constant float64

func (c Constant) Sample(rand.Source) float64 { return float64(c) }
func (c Constant) Mean() float64              { return float64(c) }

// Uniform samples from [Min, Max).
type Uniform struct {
	Min, Max float64
}

func (u Uniform) Sample(src rand.Source) float64 {
	if u.Max == u.Min {
		return u.Min
	}
	return distuv.Uniform{Min: u.Min, Max: u.Max, Src: src}.Rand()
}

func (u Uniform) Mean() float64 { return (u.Min + u.Max) / 2 }

// TruncatedNormal samples a normal distribution floored at zero.
type TruncatedNormal struct {
	Mu, StdDev float64
}

func (n TruncatedNormal) Sample(src rand.Source) float64 {
	return math.Max(0, distuv.Normal{Mu: n.Mu, Sigma: n.StdDev, Src: src}.Rand())
}

func (n TruncatedNormal) Mean() float64 { return math.Max(0, n.Mu) }

// LogNormal samples exp(N(Mu, Sigma)).
type LogNormal struct {
	Mu, Sigma float64
}

func (l LogNormal) Sample(src rand.Source) float64 {
	return distuv.LogNormal{Mu: l.Mu, Sigma: l.Sigma, Src: src}.Rand()
}

func (l LogNormal) Mean() float64 { return distuv.LogNormal{Mu: l.Mu, Sigma: l.Sigma}.Mean() }

// New builds a sampler from its configuration.
func New(c config.DistributionConfig) (Sampler, error) {
	switch c.Kind {
	case "constant":
		if c.Value < 0 {
			return nil, fmt.Errorf("dist: constant %v is negative", c.Value)
		}
		return Constant(c.Value), nil
	case "uniform":
		if c.Min < 0 || c.Min > c.Max {
			return nil, fmt.Errorf("dist: uniform bounds [%v,%v] are inconsistent", c.Min, c.Max)
		}
		return Uniform{Min: c.Min, Max: c.Max}, nil
	case "normal":
		if c.StdDev < 0 {
			return nil, fmt.Errorf("dist: normal std_dev %v is negative", c.StdDev)
		}
		return TruncatedNormal{Mu: c.Mean, StdDev: c.StdDev}, nil
	case "lognormal":
		if c.Sigma < 0 {
			return nil, fmt.Errorf("dist: lognormal sigma %v is negative", c.Sigma)
		}
		return LogNormal{Mu: c.Mu, Sigma: c.Sigma}, nil
	default:
		return nil, fmt.Errorf("dist: unknown distribution kind %q", c.Kind)
	}
}

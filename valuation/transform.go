// Package valuation converts raw action payoffs into decision-comparable weighted values.
package valuation

import (
	"fmt"
	"math"

	"github.com/pthm-cable/seine/config"
)

// Transform is a monotonic non-decreasing scalar function applied to a raw payoff.
type Transform interface {
	Apply(x float64) float64
}

// Identity returns its input.
type Identity struct{}

func (Identity) Apply(x float64) float64 { return x }

// Linear is Slope*x + Intercept.
type Linear struct {
	Slope, Intercept float64
}

func (l Linear) Apply(x float64) float64 { return l.Slope*x + l.Intercept }

// Logistic is Max / (1 + exp(-Steepness*(x-Midpoint))).
type Logistic struct {
	Max, Steepness, Midpoint float64
}

func (l Logistic) Apply(x float64) float64 {
	return l.Max / (1 + math.Exp(-l.Steepness*(x-l.Midpoint)))
}

// Saturating is Max * x / (x + HalfSaturation) for x >= 0, and 0 below.
type Saturating struct {
	Max, HalfSaturation float64
}

func (s Saturating) Apply(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return s.Max * x / (x + s.HalfSaturation)
}

// Clamped bounds another transform's output.
type Clamped struct {
	Inner    Transform
	Min, Max float64
}

func (c Clamped) Apply(x float64) float64 {
	return math.Min(c.Max, math.Max(c.Min, c.Inner.Apply(x)))
}

// Probability wraps a transform so its output is a valid probability.
func Probability(t Transform) Transform {
	return Clamped{Inner: t, Min: 0, Max: 1}
}

// NewTransform builds a transform from configuration.
func NewTransform(c config.TransformConfig) (Transform, error) {
	switch c.Kind {
	case "identity":
		return Identity{}, nil
	case "linear":
		if c.Slope < 0 {
			return nil, fmt.Errorf("valuation: linear slope %v would not be monotonic", c.Slope)
		}
		return Linear{Slope: c.Slope, Intercept: c.Intercept}, nil
	case "logistic":
		if c.Max <= 0 || c.Steepness <= 0 {
			return nil, fmt.Errorf("valuation: logistic needs max > 0 and steepness > 0")
		}
		return Logistic{Max: c.Max, Steepness: c.Steepness, Midpoint: c.Midpoint}, nil
	case "saturating":
		if c.Max <= 0 || c.HalfSaturation <= 0 {
			return nil, fmt.Errorf("valuation: saturating needs max > 0 and half_saturation > 0")
		}
		return Saturating{Max: c.Max, HalfSaturation: c.HalfSaturation}, nil
	default:
		return nil, fmt.Errorf("valuation: unknown transform kind %q", c.Kind)
	}
}

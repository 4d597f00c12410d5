package valuation

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/seine/action"
	"github.com/pthm-cable/seine/biology"
	"github.com/pthm-cable/seine/config"
)

// ErrBadWeights is returned when a weight map cannot be normalized.
var ErrBadWeights = errors.New("action weights must be finite, non-negative and not all zero")

// Decay discounts value by exp(-constant * occurrences).
func Decay(value, constant float64, occurrences int) float64 {
	if occurrences <= 0 || constant == 0 {
		return value
	}
	return value * math.Exp(-constant*float64(occurrences))
}

// NormalizeWeights scales raw weights so they sum to 1. Kinds absent from raw get zero.
func NormalizeWeights(raw map[action.Kind]float64) (map[action.Kind]float64, error) {
	vals := make([]float64, 0, len(raw))
	for k, w := range raw {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: %s=%v", ErrBadWeights, k, w)
		}
		vals = append(vals, w)
	}
	sum := floats.Sum(vals)
	if sum <= 0 {
		return nil, ErrBadWeights
	}

	out := make(map[action.Kind]float64, action.NumKinds)
	for _, k := range action.Kinds {
		out[k] = raw[k] / sum
	}
	return out, nil
}

// SetValue prices what a set would land: the target's biomass clipped to the
// remaining hold capacity, scaled proportionally across species.
func SetValue(target biology.Catch, remainingCapacity float64, prices biology.Prices) float64 {
	total := target.Total()
	if total <= 0 || remainingCapacity <= 0 {
		return 0
	}
	proportion := math.Min(1, remainingCapacity/total)
	return prices.Value(target.Scaled(proportion))
}

// WeightedAction is a candidate together with its valuation steps.
// Weighted values are only comparable within one decision round.
type WeightedAction struct {
	Action         action.Action
	InitialValue   float64
	ModulatedValue float64
	WeightedValue  float64
}

// Valuer weighs actions for one vessel.
type Valuer struct {
	transforms [action.NumKinds]Transform
	decay      [action.NumKinds]float64
	weights    [action.NumKinds]float64
}

// NewValuer builds a valuer from per-kind configuration and the vessel's raw weights.
func NewValuer(actions map[action.Kind]config.ActionConfig, rawWeights map[action.Kind]float64) (*Valuer, error) {
	norm, err := NormalizeWeights(rawWeights)
	if err != nil {
		return nil, err
	}
	v := &Valuer{}
	for _, k := range action.Kinds {
		ac, ok := actions[k]
		if !ok {
			return nil, fmt.Errorf("valuation: no configuration for %s", k)
		}
		t, err := NewTransform(ac.Transform)
		if err != nil {
			return nil, fmt.Errorf("valuation: %s: %w", k, err)
		}
		if ac.Decay < 0 {
			return nil, fmt.Errorf("valuation: %s decay %v is negative", k, ac.Decay)
		}
		v.transforms[k] = t
		v.decay[k] = ac.Decay
		v.weights[k] = norm[k]
	}
	return v, nil
}

// Weight returns the normalized weight for a kind.
func (v *Valuer) Weight(k action.Kind) float64 {
	return v.weights[k]
}

// Modulate applies the kind's transform and, for location-anchored kinds, the repetition decay.
func (v *Valuer) Modulate(k action.Kind, raw float64, occurrences int) float64 {
	m := v.transforms[k].Apply(raw)
	if k.IsLocationAnchored() {
		m = Decay(m, v.decay[k], occurrences)
	}
	return m
}

// Weigh computes all three valuation stages for an action.
func (v *Valuer) Weigh(a action.Action, raw float64, occurrences int) WeightedAction {
	m := v.Modulate(a.Kind, raw, occurrences)
	return WeightedAction{
		Action:         a,
		InitialValue:   raw,
		ModulatedValue: m,
		WeightedValue:  m * v.weights[a.Kind],
	}
}

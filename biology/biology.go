// Package biology holds species catch vectors and market prices.
package biology

import (
	"gonum.org/v1/gonum/floats"
)

// Catch is a biomass vector in tonnes, indexed by species.
type Catch []float64

// NewCatch returns an empty catch vector for n species.
func NewCatch(n int) Catch {
	return make(Catch, n)
}

// Total returns the summed biomass.
func (c Catch) Total() float64 {
	if len(c) == 0 {
		return 0
	}
	return floats.Sum(c)
}

// Clone returns an independent copy.
func (c Catch) Clone() Catch {
	if c == nil {
		return nil
	}
	out := make(Catch, len(c))
	copy(out, c)
	return out
}

// Scaled returns a copy with every species multiplied by f.
func (c Catch) Scaled(f float64) Catch {
	out := c.Clone()
	if len(out) > 0 {
		floats.Scale(f, out)
	}
	return out
}

// Add accumulates o into c. Both must have the same length.
func (c Catch) Add(o Catch) {
	floats.Add(c, o)
}

// Sub removes o from c, flooring each species at zero.
func (c Catch) Sub(o Catch) {
	for i := range c {
		c[i] -= o[i]
		if c[i] < 0 {
			c[i] = 0
		}
	}
}

// Prices holds the market price per tonne for each species, in the same order as Catch.
type Prices []float64

// Value prices a catch vector.
func (p Prices) Value(c Catch) float64 {
	if len(c) == 0 {
		return 0
	}
	return floats.Dot(p, c)
}

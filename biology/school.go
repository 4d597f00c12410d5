package biology

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrBadComposition is returned for composition weights that cannot be normalized.
var ErrBadComposition = errors.New("species composition weights must be non-negative with a positive sum")

// SchoolSampler materializes the biological content of a detected school:
// a log-normal total biomass split across species by fixed composition weights.
type SchoolSampler struct {
	Mu, Sigma float64   // Log-normal parameters of total tonnes
	weights   []float64 // Normalized composition
}

// NewSchoolSampler creates a sampler. Composition weights are normalized to sum to 1.
func NewSchoolSampler(mu, sigma float64, composition []float64) (*SchoolSampler, error) {
	if sigma < 0 {
		return nil, fmt.Errorf("school sampler sigma %v is negative", sigma)
	}
	if len(composition) == 0 {
		return nil, ErrBadComposition
	}
	for _, w := range composition {
		if w < 0 {
			return nil, ErrBadComposition
		}
	}
	sum := floats.Sum(composition)
	if sum <= 0 {
		return nil, ErrBadComposition
	}
	weights := make([]float64, len(composition))
	copy(weights, composition)
	floats.Scale(1/sum, weights)
	return &SchoolSampler{Mu: mu, Sigma: sigma, weights: weights}, nil
}

// Composition returns the normalized species weights.
func (s *SchoolSampler) Composition() []float64 {
	return s.weights
}

// Sample draws one school's biomass vector.
func (s *SchoolSampler) Sample(src rand.Source) Catch {
	total := distuv.LogNormal{Mu: s.Mu, Sigma: s.Sigma, Src: src}.Rand()
	c := make(Catch, len(s.weights))
	floats.ScaleTo(c, total, s.weights)
	return c
}

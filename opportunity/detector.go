package opportunity

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/seine/action"
)

// ErrBadProbability is returned when a detection probability or the search bonus is outside [0,1].
var ErrBadProbability = errors.New("detection probability must lie in [0,1]")

// Entry pairs a generator with the probability that each of its opportunities is perceived.
type Entry struct {
	Generator   Generator
	Probability float64
}

// Detector aggregates generators behind independent detection trials. A search on
// the previous round raises every probability by the search bonus for one call.
type Detector struct {
	entries     []Entry
	searchBonus float64
	searched    bool
}

func validProbability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}

// NewDetector creates a detector. Entries are evaluated in the given order.
func NewDetector(searchBonus float64, entries ...Entry) (*Detector, error) {
	if !validProbability(searchBonus) {
		return nil, fmt.Errorf("%w: search bonus %v", ErrBadProbability, searchBonus)
	}
	for _, e := range entries {
		if e.Generator == nil {
			return nil, fmt.Errorf("opportunity: detector entry without generator")
		}
		if !validProbability(e.Probability) {
			return nil, fmt.Errorf("%w: %s probability %v", ErrBadProbability, e.Generator.Kind(), e.Probability)
		}
	}
	return &Detector{entries: entries, searchBonus: searchBonus}, nil
}

// NotifyOfSearch grants the bonus to the next PossibleActions call only.
func (d *Detector) NotifyOfSearch() {
	d.searched = true
}

// Searched reports whether the bonus is armed for the next call.
func (d *Detector) Searched() bool {
	return d.searched
}

// Probability returns the base probability configured for a kind, or 0 if no generator has it.
func (d *Detector) Probability(k action.Kind) float64 {
	for _, e := range d.entries {
		if e.Generator.Kind() == k {
			return e.Probability
		}
	}
	return 0
}

// EffectiveProbability returns the probability the next call would use for a kind.
func (d *Detector) EffectiveProbability(k action.Kind) float64 {
	return d.effective(d.Probability(k), d.searched)
}

func (d *Detector) effective(p float64, searched bool) float64 {
	if !searched {
		return p
	}
	return math.Min(1, p+d.searchBonus)
}

// PossibleActions returns the perceived set opportunities for the vessel. Every
// call draws fresh randomness and consumes the search flag. A full hold yields nothing.
func (d *Detector) PossibleActions(v Vessel) []action.Action {
	searched := d.searched
	d.searched = false

	if v.HoldFill() >= 1 {
		return nil
	}

	var out []action.Action
	for _, e := range d.entries {
		p := d.effective(e.Probability, searched)
		if p == 0 {
			continue
		}
		trial := distuv.Bernoulli{P: p, Src: v.Rand()}
		for _, a := range e.Generator.Generate(v) {
			if trial.Rand() == 1 {
				out = append(out, a)
			}
		}
	}
	return out
}

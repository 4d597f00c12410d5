// Package tables loads the calibration tables that parameterize the decision engine:
// action weights, maximum tolerable current speeds, species compositions, school sizes and prices.
package tables

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/seine/action"
	"github.com/pthm-cable/seine/biology"
	"github.com/pthm-cable/seine/config"
)

//go:embed data/*.csv
var defaults embed.FS

// ErrMissingEntry is wrapped when a lookup finds no row for the requested key.
var ErrMissingEntry = errors.New("missing table entry")

// WeightRow is one raw (pre-normalization) action weight for a vessel class.
type WeightRow struct {
	Year   int     `csv:"year"`
	Class  string  `csv:"vessel_class"`
	Action string  `csv:"action"`
	Weight float64 `csv:"weight"`
}

// SpeedRow is the maximum current speed (m/s) at which an action can be taken.
type SpeedRow struct {
	Action string  `csv:"action"`
	Year   int     `csv:"year"`
	Speed  float64 `csv:"speed"`
}

// CompositionRow is one species' share of the biomass caught by an action.
type CompositionRow struct {
	Year    int     `csv:"year"`
	Action  string  `csv:"action"`
	Species string  `csv:"species"`
	Weight  float64 `csv:"weight"`
}

// SchoolSizeRow holds log-normal parameters of total school biomass in tonnes.
type SchoolSizeRow struct {
	Year   int     `csv:"year"`
	Action string  `csv:"action"`
	Mu     float64 `csv:"mu"`
	Sigma  float64 `csv:"sigma"`
}

// PriceRow is the price per tonne of a species.
type PriceRow struct {
	Year    int     `csv:"year"`
	Species string  `csv:"species"`
	Price   float64 `csv:"price"`
}

// Tables holds every loaded calibration table.
type Tables struct {
	Weights      []WeightRow
	Speeds       []SpeedRow
	Compositions []CompositionRow
	SchoolSizes  []SchoolSizeRow
	Prices       []PriceRow
}

// Load reads every table from the configured paths, falling back to the embedded
// defaults for empty paths.
func Load(c config.TablesConfig) (*Tables, error) {
	t := &Tables{}
	if err := load(c.Weights, "weights.csv", &t.Weights); err != nil {
		return nil, err
	}
	if err := load(c.MaxCurrentSpeeds, "max_current_speeds.csv", &t.Speeds); err != nil {
		return nil, err
	}
	if err := load(c.Compositions, "compositions.csv", &t.Compositions); err != nil {
		return nil, err
	}
	if err := load(c.SchoolSizes, "school_sizes.csv", &t.SchoolSizes); err != nil {
		return nil, err
	}
	if err := load(c.Prices, "prices.csv", &t.Prices); err != nil {
		return nil, err
	}
	return t, nil
}

func load[T any](path, fallback string, out *[]T) error {
	var r io.ReadCloser
	var err error
	if path == "" {
		r, err = defaults.Open("data/" + fallback)
	} else {
		r, err = os.Open(path)
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", fallback, err)
	}
	defer r.Close()

	if err := Unmarshal(r, out); err != nil {
		return fmt.Errorf("parsing %s: %w", fallback, err)
	}
	return nil
}

// Unmarshal decodes CSV rows with a header line into out.
func Unmarshal[T any](r io.Reader, out *[]T) error {
	return gocsv.Unmarshal(r, out)
}

// WeightsFor returns the raw per-kind weights for a vessel class in a year.
// Every kind must be present.
func (t *Tables) WeightsFor(year int, class string) (map[action.Kind]float64, error) {
	w := make(map[action.Kind]float64, action.NumKinds)
	for _, row := range t.Weights {
		if row.Year != year || row.Class != class {
			continue
		}
		k, err := action.ParseKind(row.Action)
		if err != nil {
			return nil, fmt.Errorf("weights: %w", err)
		}
		w[k] = row.Weight
	}
	for _, k := range action.Kinds {
		if _, ok := w[k]; !ok {
			return nil, fmt.Errorf("%w: weight for class %q, action %s, year %d", ErrMissingEntry, class, k, year)
		}
	}
	return w, nil
}

// SpeedLimits maps action kinds to the maximum tolerable current speed.
type SpeedLimits map[action.Kind]float64

// MaxSpeed returns the limit for a kind and whether one is known.
func (s SpeedLimits) MaxSpeed(k action.Kind) (float64, bool) {
	v, ok := s[k]
	return v, ok
}

// SpeedLimitsFor returns the speed limits for a year. Every kind in required must be present.
func (t *Tables) SpeedLimitsFor(year int, required []action.Kind) (SpeedLimits, error) {
	limits := make(SpeedLimits)
	for _, row := range t.Speeds {
		if row.Year != year {
			continue
		}
		k, err := action.ParseKind(row.Action)
		if err != nil {
			return nil, fmt.Errorf("max current speeds: %w", err)
		}
		limits[k] = row.Speed
	}
	for _, k := range required {
		if _, ok := limits[k]; !ok {
			return nil, fmt.Errorf("%w: max current speed for action %s, year %d", ErrMissingEntry, k, year)
		}
	}
	return limits, nil
}

// CompositionFor returns species weights for an action in a year, ordered like species.
func (t *Tables) CompositionFor(year int, k action.Kind, species []string) ([]float64, error) {
	index := make(map[string]int, len(species))
	for i, s := range species {
		index[s] = i
	}
	weights := make([]float64, len(species))
	found := make([]bool, len(species))
	for _, row := range t.Compositions {
		if row.Year != year || row.Action != k.String() {
			continue
		}
		i, ok := index[row.Species]
		if !ok {
			continue
		}
		weights[i] = row.Weight
		found[i] = true
	}
	for i, ok := range found {
		if !ok {
			return nil, fmt.Errorf("%w: composition for action %s, species %s, year %d", ErrMissingEntry, k, species[i], year)
		}
	}
	return weights, nil
}

// SchoolSamplerFor builds the school biomass sampler for a school set kind.
func (t *Tables) SchoolSamplerFor(year int, k action.Kind, species []string) (*biology.SchoolSampler, error) {
	comp, err := t.CompositionFor(year, k, species)
	if err != nil {
		return nil, err
	}
	for _, row := range t.SchoolSizes {
		if row.Year == year && row.Action == k.String() {
			s, err := biology.NewSchoolSampler(row.Mu, row.Sigma, comp)
			if err != nil {
				return nil, fmt.Errorf("school sampler %s/%d: %w", k, year, err)
			}
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: school size for action %s, year %d", ErrMissingEntry, k, year)
}

// PricesFor returns species prices for a year, ordered like species.
func (t *Tables) PricesFor(year int, species []string) (biology.Prices, error) {
	prices := make(biology.Prices, len(species))
	for i, s := range species {
		found := false
		for _, row := range t.Prices {
			if row.Year == year && row.Species == s {
				prices[i] = row.Price
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: price for species %s, year %d", ErrMissingEntry, s, year)
		}
	}
	return prices, nil
}

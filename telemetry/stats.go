package telemetry

import (
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated fleet statistics for a window of days.
type WindowStats struct {
	WindowStartDay int `csv:"-" db:"window_start"`
	WindowEndDay   int `csv:"window_end" db:"window_end"`

	// Decisions during window
	FadSets           int `csv:"fad_sets" db:"fad_sets"`
	OpportunisticSets int `csv:"ofs_sets" db:"ofs_sets"`
	FreeSchoolSets    int `csv:"nas_sets" db:"nas_sets"`
	DolphinSets       int `csv:"del_sets" db:"del_sets"`
	Deployments       int `csv:"deployments" db:"deployments"`
	Searches          int `csv:"searches" db:"searches"`
	Waits             int `csv:"waits" db:"waits"`

	// Catch and landings
	CatchTonnes   float64 `csv:"catch_t" db:"catch_t"`
	TripsEnded    int     `csv:"trips_ended" db:"trips_ended"`
	LandedRevenue float64 `csv:"revenue" db:"revenue"`

	// Floating objects at window end
	ActiveFads   int `csv:"active_fads" db:"active_fads"`
	InactiveFads int `csv:"inactive_fads" db:"inactive_fads"`

	// Weighted value of chosen actions
	ChosenValueMean float64 `csv:"chosen_mean" db:"chosen_mean"`
	ChosenValueP10  float64 `csv:"chosen_p10" db:"chosen_p10"`
	ChosenValueP50  float64 `csv:"chosen_p50" db:"chosen_p50"`
	ChosenValueP90  float64 `csv:"chosen_p90" db:"chosen_p90"`

	// Hold fill across the fleet at window end
	HoldFillMean float64 `csv:"hold_fill_mean" db:"hold_fill_mean"`
	HoldFillStd  float64 `csv:"hold_fill_std" db:"hold_fill_std"`

	// Shared school caches at window end
	ActiveSchools int `csv:"active_schools" db:"active_schools"`
}

// Sets returns the total number of sets in the window.
func (s WindowStats) Sets() int {
	return s.FadSets + s.OpportunisticSets + s.FreeSchoolSets + s.DolphinSets
}

// Percentile returns the empirical p-th quantile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(min(max(p, 0), 1), stat.Empirical, sorted, nil)
}

// ComputeValueStats calculates mean and percentiles.
func ComputeValueStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mean = stat.Mean(sorted, nil)
	return mean, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// ComputeSpread calculates mean and population standard deviation.
func ComputeSpread(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	return mean, math.Sqrt(variance)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartDay),
		slog.Int("window_end", s.WindowEndDay),
		slog.Int("fad_sets", s.FadSets),
		slog.Int("ofs_sets", s.OpportunisticSets),
		slog.Int("nas_sets", s.FreeSchoolSets),
		slog.Int("del_sets", s.DolphinSets),
		slog.Int("deployments", s.Deployments),
		slog.Int("searches", s.Searches),
		slog.Int("waits", s.Waits),
		slog.Float64("catch_t", s.CatchTonnes),
		slog.Int("trips_ended", s.TripsEnded),
		slog.Float64("revenue", s.LandedRevenue),
		slog.Int("active_fads", s.ActiveFads),
		slog.Float64("chosen_p50", s.ChosenValueP50),
		slog.Float64("hold_fill_mean", s.HoldFillMean),
		slog.Int("active_schools", s.ActiveSchools),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndDay,
		"sets", s.Sets(),
		"fad_sets", s.FadSets,
		"ofs_sets", s.OpportunisticSets,
		"nas_sets", s.FreeSchoolSets,
		"del_sets", s.DolphinSets,
		"deployments", s.Deployments,
		"searches", s.Searches,
		"waits", s.Waits,
		"catch_t", s.CatchTonnes,
		"trips_ended", s.TripsEnded,
		"revenue", s.LandedRevenue,
		"active_fads", s.ActiveFads,
		"inactive_fads", s.InactiveFads,
		"chosen_mean", s.ChosenValueMean,
		"chosen_p10", s.ChosenValueP10,
		"chosen_p50", s.ChosenValueP50,
		"chosen_p90", s.ChosenValueP90,
		"hold_fill_mean", s.HoldFillMean,
		"hold_fill_std", s.HoldFillStd,
		"active_schools", s.ActiveSchools,
	)
}

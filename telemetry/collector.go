package telemetry

import "github.com/pthm-cable/seine/action"

// Collector accumulates events within windows of days and produces WindowStats.
type Collector struct {
	windowDays int

	// Current window tracking
	windowStartDay int

	// Event counters for current window
	sets        [action.NumKinds]int
	waits       int
	catch       float64
	tripsEnded  int
	revenue     float64
	chosenValue []float64
}

// NewCollector creates a new stats collector flushing every windowDays days.
func NewCollector(windowDays int) *Collector {
	if windowDays < 1 {
		windowDays = 1
	}
	return &Collector{windowDays: windowDays}
}

// RecordDecision counts one committed decision.
func (c *Collector) RecordDecision(r DecisionRecord) {
	if r.Kind == WaitKind {
		c.waits++
		return
	}
	k, err := action.ParseKind(r.Kind)
	if err != nil {
		return
	}
	c.sets[k]++
	c.catch += r.Caught
	c.chosenValue = append(c.chosenValue, r.Weighted)
}

// RecordLanding records the end of a trip and the revenue of its catch.
func (c *Collector) RecordLanding(revenue float64) {
	c.tripsEnded++
	c.revenue += revenue
}

// ShouldFlush returns true if enough days have passed to flush the window.
func (c *Collector) ShouldFlush(day int) bool {
	return day-c.windowStartDay >= c.windowDays
}

// FleetState is the end-of-window state the simulation reports alongside counters.
type FleetState struct {
	ActiveFads    int
	InactiveFads  int
	HoldFills     []float64
	ActiveSchools int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(day int, fleet FleetState) WindowStats {
	mean, p10, p50, p90 := ComputeValueStats(c.chosenValue)
	fillMean, fillStd := ComputeSpread(fleet.HoldFills)

	stats := WindowStats{
		WindowStartDay: c.windowStartDay,
		WindowEndDay:   day,

		FadSets:           c.sets[action.FadSet],
		OpportunisticSets: c.sets[action.OpportunisticFadSet],
		FreeSchoolSets:    c.sets[action.NonAssociatedSet],
		DolphinSets:       c.sets[action.DolphinSet],
		Deployments:       c.sets[action.Deployment],
		Searches:          c.sets[action.Search],
		Waits:             c.waits,

		CatchTonnes:   c.catch,
		TripsEnded:    c.tripsEnded,
		LandedRevenue: c.revenue,

		ActiveFads:   fleet.ActiveFads,
		InactiveFads: fleet.InactiveFads,

		ChosenValueMean: mean,
		ChosenValueP10:  p10,
		ChosenValueP50:  p50,
		ChosenValueP90:  p90,

		HoldFillMean: fillMean,
		HoldFillStd:  fillStd,

		ActiveSchools: fleet.ActiveSchools,
	}

	// Reset for next window
	c.windowStartDay = day
	c.sets = [action.NumKinds]int{}
	c.waits = 0
	c.catch = 0
	c.tripsEnded = 0
	c.revenue = 0
	c.chosenValue = c.chosenValue[:0]

	return stats
}

// WindowDays returns the number of days per window.
func (c *Collector) WindowDays() int {
	return c.windowDays
}

package telemetry

import "github.com/pthm-cable/seine/action"

// TripStats tracks per-vessel statistics over one trip.
type TripStats struct {
	Vessel    int32   `csv:"vessel" db:"vessel"`
	Trip      int     `csv:"trip" db:"trip"`
	StartDay  int     `csv:"start_day" db:"start_day"`
	EndDay    int     `csv:"end_day" db:"end_day"`
	FadSets   int     `csv:"fad_sets" db:"fad_sets"`
	OfsSets   int     `csv:"ofs_sets" db:"ofs_sets"`
	NasSets   int     `csv:"nas_sets" db:"nas_sets"`
	DelSets   int     `csv:"del_sets" db:"del_sets"`
	Deployed  int     `csv:"deployed" db:"deployed"`
	Searches  int     `csv:"searches" db:"searches"`
	Waits     int     `csv:"waits" db:"waits"`
	CatchT    float64 `csv:"catch_t" db:"catch_t"`
	Revenue   float64 `csv:"revenue" db:"revenue"`
	HoursUsed float64 `csv:"hours_used" db:"hours_used"`
}

// TripTracker manages per-vessel trip statistics.
type TripTracker struct {
	stats map[int32]*TripStats
}

// NewTripTracker creates a new trip tracker.
func NewTripTracker() *TripTracker {
	return &TripTracker{stats: make(map[int32]*TripStats)}
}

// Start opens a trip for a vessel, replacing any open one.
func (tt *TripTracker) Start(vessel int32, trip, day int) {
	tt.stats[vessel] = &TripStats{Vessel: vessel, Trip: trip, StartDay: day}
}

// Get returns the open trip of a vessel, or nil if not found.
func (tt *TripTracker) Get(vessel int32) *TripStats {
	return tt.stats[vessel]
}

// Record adds one decision to the vessel's open trip.
func (tt *TripTracker) Record(r DecisionRecord) {
	s := tt.stats[r.Vessel]
	if s == nil {
		return
	}
	s.HoursUsed += r.Duration
	if r.Kind == WaitKind {
		s.Waits++
		return
	}
	k, err := action.ParseKind(r.Kind)
	if err != nil {
		return
	}
	switch k {
	case action.FadSet:
		s.FadSets++
	case action.OpportunisticFadSet:
		s.OfsSets++
	case action.NonAssociatedSet:
		s.NasSets++
	case action.DolphinSet:
		s.DelSets++
	case action.Deployment:
		s.Deployed++
	case action.Search:
		s.Searches++
	}
	s.CatchT += r.Caught
}

// End closes the vessel's open trip and returns it.
func (tt *TripTracker) End(vessel int32, day int, revenue float64) *TripStats {
	s := tt.stats[vessel]
	if s == nil {
		return nil
	}
	delete(tt.stats, vessel)
	s.EndDay = day
	s.Revenue = revenue
	return s
}

// Count returns the number of open trips.
func (tt *TripTracker) Count() int {
	return len(tt.stats)
}

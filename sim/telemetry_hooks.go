package sim

import (
	"log/slog"

	"github.com/pthm-cable/seine/telemetry"
)

// record buffers one decision for the day's output.
func (s *Simulation) record(r telemetry.DecisionRecord) {
	s.collector.RecordDecision(r)
	s.trips.Record(r)
	s.dayLog = append(s.dayLog, r)
}

// flushDay writes the day's decisions and flushes the stats window when due.
func (s *Simulation) flushDay(day int) {
	if err := s.output.WriteDecisions(s.dayLog); err != nil {
		slog.Error("failed to write decisions", "error", err)
	}
	if s.store != nil {
		if err := s.store.SaveDecisions(s.dayLog); err != nil {
			slog.Error("failed to store decisions", "error", err)
		}
	}
	s.lastDay = append(s.lastDay[:0], s.dayLog...)
	s.dayLog = s.dayLog[:0]

	end := day + 1
	if !s.collector.ShouldFlush(end) {
		return
	}

	stats := s.collector.Flush(end, s.fleetState())
	perfStats := s.perf.Stats()

	if s.onStats != nil {
		s.onStats(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.output.WritePerf(perfStats, stats.WindowEndDay); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	if s.store != nil {
		if err := s.store.SaveWindow(stats); err != nil {
			slog.Error("failed to store window", "error", err)
		}
	}
}

// fleetState samples the end-of-window state reported alongside counters.
func (s *Simulation) fleetState() telemetry.FleetState {
	active, inactive := s.fads.Count()
	fills := make([]float64, 0, s.registry.Len())
	query := s.vesselQuery.Query()
	for query.Next() {
		_, _, hold := query.Get()
		fills = append(fills, hold.Fill())
	}

	schools := 0
	for _, c := range s.caches {
		schools += len(c.ActiveAt(s.clock.day))
	}

	return telemetry.FleetState{
		ActiveFads:    active,
		InactiveFads:  inactive,
		HoldFills:     fills,
		ActiveSchools: schools,
	}
}

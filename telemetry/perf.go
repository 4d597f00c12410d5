package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation day.
const (
	PhaseExpire    = "expire"
	PhaseFads      = "fads"
	PhaseFleet     = "fleet"
	PhasePort      = "port"
	PhaseTelemetry = "telemetry"
)

var phases = []string{PhaseExpire, PhaseFads, PhaseFleet, PhasePort, PhaseTelemetry}

// PerfSample holds timing data for a single day.
type PerfSample struct {
	DayDuration time.Duration
	Phases      map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	dayStart      time.Time
	phaseStart    time.Time
	lastPhase     string

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector averaging over windowSize days.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 30
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartDay begins timing a new simulated day.
func (p *PerfCollector) StartDay() {
	p.dayStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndDay finishes timing the current day and records the sample.
func (p *PerfCollector) EndDay() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		DayDuration: now.Sub(p.dayStart),
		Phases:      p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgDayDuration time.Duration
	MinDayDuration time.Duration
	MaxDayDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total day time
	PhasePct map[string]float64

	DaysPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:      make(map[string]time.Duration),
			PhasePct:      make(map[string]float64),
			FrameDuration: p.frameDuration,
			FPS:           fps,
		}
	}

	var total, minDay, maxDay time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.DayDuration
		if i == 0 || s.DayDuration < minDay {
			minDay = s.DayDuration
		}
		if s.DayDuration > maxDay {
			maxDay = s.DayDuration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var perSec float64
	if avg > 0 {
		perSec = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		AvgDayDuration: avg,
		MinDayDuration: minDay,
		MaxDayDuration: maxDay,
		PhaseAvg:       phaseAvg,
		PhasePct:       phasePct,
		DaysPerSecond:  perSec,
		FrameDuration:  p.frameDuration,
		FPS:            fps,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_day_us", s.AvgDayDuration.Microseconds(),
		"min_day_us", s.MinDayDuration.Microseconds(),
		"max_day_us", s.MaxDayDuration.Microseconds(),
		"days_per_sec", int(s.DaysPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_day_us", s.AvgDayDuration.Microseconds()),
		slog.Int64("min_day_us", s.MinDayDuration.Microseconds()),
		slog.Int64("max_day_us", s.MaxDayDuration.Microseconds()),
		slog.Float64("days_per_sec", s.DaysPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int     `csv:"window_end"`
	AvgDayUS     int64   `csv:"avg_day_us"`
	MinDayUS     int64   `csv:"min_day_us"`
	MaxDayUS     int64   `csv:"max_day_us"`
	DaysPerSec   float64 `csv:"days_per_sec"`
	FPS          float64 `csv:"fps"`
	ExpirePct    float64 `csv:"expire_pct"`
	FadsPct      float64 `csv:"fads_pct"`
	FleetPct     float64 `csv:"fleet_pct"`
	PortPct      float64 `csv:"port_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgDayUS:     s.AvgDayDuration.Microseconds(),
		MinDayUS:     s.MinDayDuration.Microseconds(),
		MaxDayUS:     s.MaxDayDuration.Microseconds(),
		DaysPerSec:   s.DaysPerSecond,
		FPS:          s.FPS,
		ExpirePct:    s.PhasePct[PhaseExpire],
		FadsPct:      s.PhasePct[PhaseFads],
		FleetPct:     s.PhasePct[PhaseFleet],
		PortPct:      s.PhasePct[PhasePort],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}

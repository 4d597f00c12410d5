package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/seine/action"
	"github.com/pthm-cable/seine/strategy"
)

// DecisionRecord is one committed decision of one vessel.
type DecisionRecord struct {
	Day        int     `csv:"day" db:"day"`
	Vessel     int32   `csv:"vessel" db:"vessel"`
	Class      string  `csv:"class" db:"class"`
	Kind       string  `csv:"kind" db:"kind"`             // Action code, or WAIT
	StandsFor  string  `csv:"stands_for" db:"stands_for"` // Set kind a search stands for
	X          int     `csv:"x" db:"x"`
	Y          int     `csv:"y" db:"y"`
	Duration   float64 `csv:"duration_h" db:"duration_h"`
	Initial    float64 `csv:"initial_value" db:"initial_value"`
	Modulated  float64 `csv:"modulated_value" db:"modulated_value"`
	Weighted   float64 `csv:"weighted_value" db:"weighted_value"`
	Candidates int     `csv:"candidates" db:"candidates"`
	Caught     float64 `csv:"caught_t" db:"caught_t"` // Tonnes landed in the hold
}

// WaitKind is the Kind recorded for a wait decision.
const WaitKind = "WAIT"

// NewDecisionRecord flattens a strategy decision.
func NewDecisionRecord(day int, class string, vessel int32, d strategy.Decision) DecisionRecord {
	r := DecisionRecord{
		Day:        day,
		Vessel:     vessel,
		Class:      class,
		Candidates: d.Candidates,
	}
	if d.Wait {
		r.Kind = WaitKind
		return r
	}
	a := d.Action()
	r.Kind = a.Kind.String()
	if a.Kind == action.Search {
		r.StandsFor = a.StandsFor.String()
	}
	r.X, r.Y = a.Cell.X, a.Cell.Y
	r.Duration = a.Duration
	r.Initial = d.Chosen.InitialValue
	r.Modulated = d.Chosen.ModulatedValue
	r.Weighted = d.Chosen.WeightedValue
	return r
}

// LogValue implements slog.LogValuer for structured logging.
func (r DecisionRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("day", r.Day),
		slog.Int("vessel", int(r.Vessel)),
		slog.String("kind", r.Kind),
		slog.Int("x", r.X),
		slog.Int("y", r.Y),
		slog.Float64("weighted", r.Weighted),
		slog.Float64("caught", r.Caught),
	)
}

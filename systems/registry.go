package systems

import "github.com/pthm-cable/seine/telemetry"

// PhaseInfo describes one phase of the simulated day for UI display.
type PhaseInfo struct {
	ID          string // Perf tracking key
	Name        string // Display name
	Description string
	Category    string // "environment", "fleet" or "output"
}

// PhaseRegistry holds metadata about the phases of a day, in run order.
// The viewer and the perf collector share its IDs.
type PhaseRegistry struct {
	phases []PhaseInfo
	byID   map[string]PhaseInfo
}

// NewPhaseRegistry creates a registry with every phase of the day.
func NewPhaseRegistry() *PhaseRegistry {
	reg := &PhaseRegistry{
		byID: make(map[string]PhaseInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the day phases. Update this when the day loop changes.
func (r *PhaseRegistry) registerDefaults() {
	r.Register(PhaseInfo{ID: telemetry.PhaseExpire, Name: "Expiry", Description: "Drops school detections past their window", Category: "environment"})
	r.Register(PhaseInfo{ID: telemetry.PhaseFads, Name: "Floating Objects", Description: "Drift, aggregation and deactivation", Category: "environment"})
	r.Register(PhaseInfo{ID: telemetry.PhaseFleet, Name: "Fleet", Description: "Detection, valuation and action selection", Category: "fleet"})
	r.Register(PhaseInfo{ID: telemetry.PhasePort, Name: "Port Calls", Description: "Landings and trip turnover", Category: "fleet"})
	r.Register(PhaseInfo{ID: telemetry.PhaseTelemetry, Name: "Telemetry", Description: "Decision logs and window stats", Category: "output"})
}

// Register adds a phase. Registering an existing ID replaces its metadata.
func (r *PhaseRegistry) Register(info PhaseInfo) {
	if _, ok := r.byID[info.ID]; !ok {
		r.phases = append(r.phases, info)
	} else {
		for i := range r.phases {
			if r.phases[i].ID == info.ID {
				r.phases[i] = info
			}
		}
	}
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *PhaseRegistry) Get(id string) (PhaseInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *PhaseRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// ByCategory returns phases filtered by category.
func (r *PhaseRegistry) ByCategory(category string) []PhaseInfo {
	var result []PhaseInfo
	for _, info := range r.phases {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// IDs returns all phase IDs in run order.
func (r *PhaseRegistry) IDs() []string {
	ids := make([]string, len(r.phases))
	for i, info := range r.phases {
		ids[i] = info.ID
	}
	return ids
}

package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/seine/action"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayAttractionFAD OverlayID = "attraction_fad"
	OverlayAttractionOFS OverlayID = "attraction_ofs"
	OverlayAttractionNAS OverlayID = "attraction_nas"
	OverlayAttractionDEL OverlayID = "attraction_del"
	OverlayCurrents      OverlayID = "currents"
	OverlayClosedAreas   OverlayID = "closed_areas"
	OverlaySchools       OverlayID = "schools"
	OverlayInactiveFads  OverlayID = "inactive_fads"
)

// attractionOverlays lists the mutually exclusive attraction layers.
var attractionOverlays = []OverlayID{
	OverlayAttractionFAD,
	OverlayAttractionOFS,
	OverlayAttractionNAS,
	OverlayAttractionDEL,
}

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID
	Name        string
	Description string
	Key         int32  // Keyboard key to toggle (0 = no key)
	KeyLabel    string // Key label for display (e.g., "1", "C")
	Category    string // Grouping: "attraction", "ocean" or "fleet"
	Exclusive   []OverlayID
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays. The FAD set
// attraction layer starts enabled.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	reg.SetEnabled(OverlayAttractionFAD, true)
	reg.SetEnabled(OverlayInactiveFads, true)
	return reg
}

// others returns the attraction layers other than id.
func others(id OverlayID) []OverlayID {
	var out []OverlayID
	for _, o := range attractionOverlays {
		if o != id {
			out = append(out, o)
		}
	}
	return out
}

// registerDefaults adds standard overlays.
func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayAttractionFAD,
		Name:        "FAD Set Attraction",
		Description: "Shade cells by the value of setting on a floating object",
		Key:         rl.KeyOne,
		KeyLabel:    "1",
		Category:    "attraction",
		Exclusive:   others(OverlayAttractionFAD),
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayAttractionOFS,
		Name:        "Opportunistic Attraction",
		Description: "Shade cells by the value of setting on a foreign floating object",
		Key:         rl.KeyTwo,
		KeyLabel:    "2",
		Category:    "attraction",
		Exclusive:   others(OverlayAttractionOFS),
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayAttractionNAS,
		Name:        "Free School Attraction",
		Description: "Shade cells by free school abundance",
		Key:         rl.KeyThree,
		KeyLabel:    "3",
		Category:    "attraction",
		Exclusive:   others(OverlayAttractionNAS),
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayAttractionDEL,
		Name:        "Dolphin Attraction",
		Description: "Shade cells by dolphin-associated school abundance",
		Key:         rl.KeyFour,
		KeyLabel:    "4",
		Category:    "attraction",
		Exclusive:   others(OverlayAttractionDEL),
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayCurrents,
		Name:        "Currents",
		Description: "Show current vectors",
		Key:         rl.KeyC,
		KeyLabel:    "C",
		Category:    "ocean",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayClosedAreas,
		Name:        "Closed Areas",
		Description: "Hatch cells where fishing is closed",
		Key:         rl.KeyA,
		KeyLabel:    "A",
		Category:    "ocean",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlaySchools,
		Name:        "School Detections",
		Description: "Mark cells with an active school detection",
		Key:         rl.KeyS,
		KeyLabel:    "S",
		Category:    "fleet",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayInactiveFads,
		Name:        "Inactive FADs",
		Description: "Show floating objects past their lifetime",
		Key:         rl.KeyI,
		KeyLabel:    "I",
		Category:    "fleet",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	state := !r.enabled[id]
	r.SetEnabled(id, state)
	return state
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

// AttractionKind returns the action kind of the enabled attraction layer.
func (r *OverlayRegistry) AttractionKind() (action.Kind, bool) {
	kinds := map[OverlayID]action.Kind{
		OverlayAttractionFAD: action.FadSet,
		OverlayAttractionOFS: action.OpportunisticFadSet,
		OverlayAttractionNAS: action.NonAssociatedSet,
		OverlayAttractionDEL: action.DolphinSet,
	}
	for _, id := range attractionOverlays {
		if r.enabled[id] {
			return kinds[id], true
		}
	}
	return 0, false
}

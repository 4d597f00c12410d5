// Package action defines the candidate actions a purse-seine vessel can take in one decision round.
package action

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pthm-cable/seine/biology"
	"github.com/pthm-cable/seine/grid"
)

// Kind identifies one of the mutually exclusive action types.
type Kind uint8

const (
	FadSet              Kind = iota // Set on the vessel's own floating object
	OpportunisticFadSet             // Set on another owner's floating object
	NonAssociatedSet                // Set on a free school
	DolphinSet                      // Set on a dolphin-associated school
	Deployment                      // Place a new floating object
	Search                          // Keep scanning
	NumKinds
)

// Kinds lists every kind in priority order. Tie-breaking in the decision loop follows this order.
var Kinds = [NumKinds]Kind{FadSet, OpportunisticFadSet, NonAssociatedSet, DolphinSet, Deployment, Search}

// SetKinds lists the kinds that commit a net to a target.
var SetKinds = []Kind{FadSet, OpportunisticFadSet, NonAssociatedSet, DolphinSet}

var codes = [NumKinds]string{"FAD", "OFS", "NAS", "DEL", "DPL", "SEARCH"}

// ErrUnknownKind is returned by ParseKind for unrecognized codes.
var ErrUnknownKind = errors.New("unknown action kind")

// String returns the table code for the kind.
func (k Kind) String() string {
	if k < NumKinds {
		return codes[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind maps a table code (case-insensitive) to a Kind.
func ParseKind(code string) (Kind, error) {
	up := strings.ToUpper(strings.TrimSpace(code))
	for i, c := range codes {
		if c == up {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, code)
}

// IsSet reports whether the kind commits a net to a target.
func (k Kind) IsSet() bool {
	switch k {
	case FadSet, OpportunisticFadSet, NonAssociatedSet, DolphinSet:
		return true
	case Deployment, Search:
		return false
	default:
		panic(fmt.Sprintf("action: unhandled kind %d", k))
	}
}

// IsFadSet reports whether the kind targets a floating object.
func (k Kind) IsFadSet() bool {
	return k == FadSet || k == OpportunisticFadSet
}

// IsSchoolSet reports whether the kind targets a free or dolphin-associated school.
func (k Kind) IsSchoolSet() bool {
	return k == NonAssociatedSet || k == DolphinSet
}

// IsLocationAnchored reports whether the kind's value comes from an attraction field
// and decays with repetition.
func (k Kind) IsLocationAnchored() bool {
	return k == Deployment || k == Search
}

// Target is the object or school a set action encloses.
type Target struct {
	ID      int64
	Owner   int32 // Owning vessel for floating objects, NoOwner for schools
	Cell    grid.Cell
	Biomass biology.Catch
	Poached []FadShare // Floating object stock included in a school's Biomass
}

// FadShare is the stock one floating object contributed to a school target.
type FadShare struct {
	ID      int64
	Biomass biology.Catch
}

// NoOwner marks targets that belong to nobody.
const NoOwner int32 = -1

// Action is one candidate action. Which fields are meaningful depends on Kind:
// set kinds carry a Target; Search carries StandsFor when it is a placeholder
// for a set kind with no opportunity this round.
type Action struct {
	Kind      Kind
	Vessel    int32
	Cell      grid.Cell
	Duration  float64 // Hours
	Target    *Target
	StandsFor Kind
}

var (
	ErrNegativeDuration = errors.New("action duration must be finite and >= 0")
	ErrMissingTarget    = errors.New("set action requires a target")
	ErrUnexpectedTarget = errors.New("only set actions carry a target")
	ErrNotSetKind       = errors.New("kind is not a set kind")
)

func checkDuration(d float64) error {
	if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return fmt.Errorf("%w: %v", ErrNegativeDuration, d)
	}
	return nil
}

// NewSet creates a set action against a concrete target.
func NewSet(kind Kind, vessel int32, cell grid.Cell, duration float64, target *Target) (Action, error) {
	if !kind.IsSet() {
		return Action{}, fmt.Errorf("%w: %s", ErrNotSetKind, kind)
	}
	if target == nil {
		return Action{}, ErrMissingTarget
	}
	if err := checkDuration(duration); err != nil {
		return Action{}, err
	}
	return Action{Kind: kind, Vessel: vessel, Cell: cell, Duration: duration, Target: target, StandsFor: kind}, nil
}

// NewSearch creates a search action standing in for the given set kind.
func NewSearch(vessel int32, cell grid.Cell, duration float64, standsFor Kind) (Action, error) {
	if !standsFor.IsSet() {
		return Action{}, fmt.Errorf("%w: search stands for %s", ErrNotSetKind, standsFor)
	}
	if err := checkDuration(duration); err != nil {
		return Action{}, err
	}
	return Action{Kind: Search, Vessel: vessel, Cell: cell, Duration: duration, StandsFor: standsFor}, nil
}

// NewDeployment creates a floating object deployment.
func NewDeployment(vessel int32, cell grid.Cell, duration float64) (Action, error) {
	if err := checkDuration(duration); err != nil {
		return Action{}, err
	}
	return Action{Kind: Deployment, Vessel: vessel, Cell: cell, Duration: duration, StandsFor: Deployment}, nil
}

// Validate re-checks the constructor invariants.
func (a Action) Validate() error {
	if err := checkDuration(a.Duration); err != nil {
		return err
	}
	switch a.Kind {
	case FadSet, OpportunisticFadSet, NonAssociatedSet, DolphinSet:
		if a.Target == nil {
			return ErrMissingTarget
		}
	case Deployment, Search:
		if a.Target != nil {
			return ErrUnexpectedTarget
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownKind, a.Kind)
	}
	return nil
}

// String formats the action for logs.
func (a Action) String() string {
	switch a.Kind {
	case FadSet, OpportunisticFadSet, NonAssociatedSet, DolphinSet:
		return fmt.Sprintf("%s[target=%d %.1ft @%s %.1fh]", a.Kind, a.Target.ID, a.Target.Biomass.Total(), a.Cell, a.Duration)
	case Search:
		return fmt.Sprintf("SEARCH[%s @%s %.1fh]", a.StandsFor, a.Cell, a.Duration)
	case Deployment:
		return fmt.Sprintf("DPL[@%s %.1fh]", a.Cell, a.Duration)
	default:
		panic(fmt.Sprintf("action: unhandled kind %d", a.Kind))
	}
}

package strategy

import (
	"github.com/pthm-cable/seine/action"
	"github.com/pthm-cable/seine/valuation"
)

// State is one vessel's private decision state: the candidates not yet acted
// upon and how many times each kind was chosen in the current streak.
type State struct {
	pending     []valuation.WeightedAction
	occurrences [action.NumKinds]int
}

// Pending returns the outstanding candidates in tie-break order.
func (s *State) Pending() []valuation.WeightedAction {
	return s.pending
}

// HasPending reports whether candidates are waiting to be acted upon.
func (s *State) HasPending() bool {
	return len(s.pending) > 0
}

// Occurrences returns how many times a kind was chosen since the last reset.
func (s *State) Occurrences(k action.Kind) int {
	return s.occurrences[k]
}

func (s *State) setPending(ws []valuation.WeightedAction) {
	s.pending = ws
	if len(ws) == 0 {
		s.resetOccurrences()
	}
}

func (s *State) clearPending() {
	s.pending = nil
}

func (s *State) record(k action.Kind) {
	s.occurrences[k]++
}

func (s *State) resetOccurrences() {
	s.occurrences = [action.NumKinds]int{}
}

// Reset clears everything, as at the start of a new trip.
func (s *State) Reset() {
	s.clearPending()
	s.resetOccurrences()
}

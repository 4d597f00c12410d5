package strategy

import (
	"errors"
	"fmt"
	"slices"
)

// ErrAlreadyRegistered is returned when a vessel is given a second strategy.
var ErrAlreadyRegistered = errors.New("vessel already has a fishing strategy")

// Registry maps vessels to their strategies for one simulation run.
type Registry struct {
	byVessel map[int32]*FishingStrategy
	ids      []int32
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byVessel: make(map[int32]*FishingStrategy)}
}

// Register attaches a strategy to its vessel.
func (r *Registry) Register(s *FishingStrategy) error {
	id := s.vessel.ID()
	if _, ok := r.byVessel[id]; ok {
		return fmt.Errorf("%w: vessel %d", ErrAlreadyRegistered, id)
	}
	r.byVessel[id] = s
	i, _ := slices.BinarySearch(r.ids, id)
	r.ids = slices.Insert(r.ids, i, id)
	return nil
}

// Get returns the strategy for a vessel.
func (r *Registry) Get(id int32) (*FishingStrategy, bool) {
	s, ok := r.byVessel[id]
	return s, ok
}

// IDs returns the registered vessel ids in ascending order.
func (r *Registry) IDs() []int32 {
	return r.ids
}

// Len returns the number of registered vessels.
func (r *Registry) Len() int {
	return len(r.ids)
}

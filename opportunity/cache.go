package opportunity

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/seine/action"
	"github.com/pthm-cable/seine/grid"
)

var (
	// ErrCacheAlreadyStarted is returned by a second Start. Starting twice would
	// register a second expiry hook and double-count expirations.
	ErrCacheAlreadyStarted = errors.New("active opportunity cache already started")
	// ErrBackdated is returned when an entry would start at or before an already expired step.
	ErrBackdated = errors.New("active opportunity entry is back-dated")
	ErrBadWindow = errors.New("active opportunity duration must be >= 1")
)

// Scheduler runs a callback once per elapsed step. Implemented by the simulation host.
type Scheduler interface {
	EveryStep(name string, fn func(step int))
}

// ActiveCache records grid cells where a school was recently spotted.
// An entry (step, cell) means a school is considered present there at that step.
// Entries expire when the step advances, not when read.
type ActiveCache struct {
	kind        action.Kind
	entries     map[int]map[grid.Cell]struct{}
	lastExpired int
	started     bool
}

// NewActiveCache creates an empty cache for a school set kind.
func NewActiveCache(kind action.Kind) *ActiveCache {
	return &ActiveCache{
		kind:        kind,
		entries:     make(map[int]map[grid.Cell]struct{}),
		lastExpired: -1,
	}
}

// Kind returns the school kind this cache tracks.
func (c *ActiveCache) Kind() action.Kind {
	return c.kind
}

// Start hooks expiry into the scheduler. It may be called once.
func (c *ActiveCache) Start(s Scheduler) error {
	if c.started {
		return fmt.Errorf("%w: %s", ErrCacheAlreadyStarted, c.kind)
	}
	c.started = true
	s.EveryStep("cache:"+c.kind.String(), c.Expire)
	return nil
}

// Has reports whether the cell is active at the step.
func (c *ActiveCache) Has(cell grid.Cell, step int) bool {
	cells, ok := c.entries[step]
	if !ok {
		return false
	}
	_, ok = cells[cell]
	return ok
}

// Add marks the cell active for duration consecutive steps starting at step.
func (c *ActiveCache) Add(cell grid.Cell, step, duration int) error {
	if duration < 1 {
		return fmt.Errorf("%w: got %d", ErrBadWindow, duration)
	}
	if step <= c.lastExpired {
		return fmt.Errorf("%w: step %d, last expired %d", ErrBackdated, step, c.lastExpired)
	}
	for s := step; s < step+duration; s++ {
		cells, ok := c.entries[s]
		if !ok {
			cells = make(map[grid.Cell]struct{})
			c.entries[s] = cells
		}
		cells[cell] = struct{}{}
	}
	return nil
}

// Expire drops every entry for the step that just elapsed (now-1).
func (c *ActiveCache) Expire(now int) {
	elapsed := now - 1
	delete(c.entries, elapsed)
	if elapsed > c.lastExpired {
		c.lastExpired = elapsed
	}
}

// Len returns the number of (step, cell) entries.
func (c *ActiveCache) Len() int {
	n := 0
	for _, cells := range c.entries {
		n += len(cells)
	}
	return n
}

// ActiveAt returns the cells active at a step, for telemetry and the viewer.
func (c *ActiveCache) ActiveAt(step int) []grid.Cell {
	cells := make([]grid.Cell, 0, len(c.entries[step]))
	for cell := range c.entries[step] {
		cells = append(cells, cell)
	}
	return cells
}

// Caches holds one shared cache per school set kind for a simulation run.
type Caches map[action.Kind]*ActiveCache

// NewCaches creates a cache for every school set kind.
func NewCaches() Caches {
	cs := make(Caches)
	for _, k := range action.SetKinds {
		if k.IsSchoolSet() {
			cs[k] = NewActiveCache(k)
		}
	}
	return cs
}

// Start starts every cache in kind order.
func (cs Caches) Start(s Scheduler) error {
	for _, k := range action.Kinds {
		if c, ok := cs[k]; ok {
			if err := c.Start(s); err != nil {
				return err
			}
		}
	}
	return nil
}

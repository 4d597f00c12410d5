package sim

import "slices"

// hook is a named callback run once per elapsed day.
type hook struct {
	name string
	fn   func(step int)
}

// Scheduler runs registered callbacks once per day, in registration order.
// Days skipped between two Advance calls are replayed one by one.
type Scheduler struct {
	hooks []hook
	last  int
}

// NewScheduler creates a scheduler that has not run any day.
func NewScheduler() *Scheduler {
	return &Scheduler{last: -1}
}

// EveryStep registers fn to run for every day from the next Advance on.
func (s *Scheduler) EveryStep(name string, fn func(step int)) {
	s.hooks = append(s.hooks, hook{name: name, fn: fn})
}

// Advance runs every hook for each day after the last advanced one up to now.
// Calls for a day already run are ignored.
func (s *Scheduler) Advance(now int) {
	for step := s.last + 1; step <= now; step++ {
		for _, h := range s.hooks {
			h.fn(step)
		}
		s.last = step
	}
}

// Hooks returns the registered hook names in run order.
func (s *Scheduler) Hooks() []string {
	names := make([]string, len(s.hooks))
	for i, h := range s.hooks {
		names[i] = h.name
	}
	return names
}

// Registered reports whether a hook with the name exists.
func (s *Scheduler) Registered(name string) bool {
	return slices.ContainsFunc(s.hooks, func(h hook) bool { return h.name == name })
}

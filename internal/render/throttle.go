package render

import "time"

// Throttle admits at most one event per Interval.
type Throttle struct {
	Interval time.Duration
	last     time.Time
}

// Allow reports whether an event at now passes, and records it if so.
func (t *Throttle) Allow(now time.Time) bool {
	if !t.last.IsZero() && now.Sub(t.last) < t.Interval {
		return false
	}
	t.last = now
	return true
}

// Reset forgets the last admitted event.
func (t *Throttle) Reset() { t.last = time.Time{} }

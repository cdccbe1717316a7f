package game

import "time"

type viewportSize struct {
	w, h int
	dpr  float64
}

// resizer coalesces window size changes: a size is applied once no newer
// change arrived for the configured delay.
type resizer struct {
	delay   time.Duration
	applied viewportSize
	pending viewportSize
	due     time.Time
	waiting bool
}

// request notes the outside size reported by Layout. It returns false when
// the size matches what is already applied or pending.
func (r *resizer) request(s viewportSize, now time.Time) bool {
	if s.w <= 0 || s.h <= 0 {
		return false
	}
	if r.waiting && s == r.pending {
		return false
	}
	if !r.waiting && s == r.applied {
		return false
	}
	r.pending = s
	r.due = now.Add(r.delay)
	r.waiting = true
	return true
}

// take returns the pending size once its delay elapsed.
func (r *resizer) take(now time.Time) (viewportSize, bool) {
	if !r.waiting || now.Before(r.due) {
		return viewportSize{}, false
	}
	r.waiting = false
	r.applied = r.pending
	return r.applied, true
}

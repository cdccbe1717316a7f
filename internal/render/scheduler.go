package render

import "time"

// Handle identifies a scheduled callback. The zero Handle is never issued.
type Handle uint64

// Scheduler runs callbacks on the host's next frame.
type Scheduler interface {
	Schedule(fn func(now time.Time)) Handle
	Cancel(h Handle)
}

type scheduled struct {
	h  Handle
	fn func(time.Time)
}

// FrameScheduler queues callbacks until the host pumps it with Run, once per
// host frame. It is not safe for concurrent use: hosts pump it from the same
// goroutine that schedules.
type FrameScheduler struct {
	next    Handle
	pending []scheduled
	running []scheduled
}

// NewFrameScheduler returns an empty scheduler.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

// Schedule queues fn for the next Run.
func (s *FrameScheduler) Schedule(fn func(time.Time)) Handle {
	s.next++
	s.pending = append(s.pending, scheduled{h: s.next, fn: fn})
	return s.next
}

// Cancel drops a queued callback. Unknown handles are ignored.
func (s *FrameScheduler) Cancel(h Handle) {
	for i, p := range s.pending {
		if p.h == h {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// Run invokes every callback queued before the call and returns how many ran.
// Callbacks scheduled while running wait for the next Run.
func (s *FrameScheduler) Run(now time.Time) int {
	s.running, s.pending = s.pending, s.running[:0]
	for _, p := range s.running {
		p.fn(now)
	}
	n := len(s.running)
	clear(s.running)
	s.running = s.running[:0]
	return n
}

// Pending returns the number of queued callbacks.
func (s *FrameScheduler) Pending() int { return len(s.pending) }

package game

import "time"

// frameTap records the last N frame durations into a ring buffer so the
// overlay can draw recent frame pacing.
type frameTap struct {
	buffer    []time.Duration
	nextIndex int
	filled    int
}

func newFrameTap(ringSize int) *frameTap {
	return &frameTap{buffer: make([]time.Duration, max(ringSize, 1))}
}

func (t *frameTap) record(d time.Duration) {
	t.buffer[t.nextIndex] = d
	t.nextIndex++
	if t.nextIndex >= len(t.buffer) {
		t.nextIndex = 0
	}
	if t.filled < len(t.buffer) {
		t.filled++
	}
}

// snapshot returns up to the last n durations, most recent last.
func (t *frameTap) snapshot(n int) []time.Duration {
	n = min(n, t.filled)
	out := make([]time.Duration, n)
	idx := t.nextIndex - n
	if idx < 0 {
		idx += len(t.buffer)
	}
	for i := range out {
		out[i] = t.buffer[idx]
		idx++
		if idx >= len(t.buffer) {
			idx = 0
		}
	}
	return out
}

// mean returns the average of the recorded durations.
func (t *frameTap) mean() time.Duration {
	if t.filled == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range t.snapshot(t.filled) {
		sum += d
	}
	return sum / time.Duration(t.filled)
}

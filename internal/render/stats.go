package render

import "time"

// Stats counts frames for the FPS estimate and diagnostics.
type Stats struct {
	Drawn    uint64
	Skipped  uint64
	Failures uint64
	FPS      float64

	Edges     int
	Triangles int

	windowStart  time.Time
	windowFrames int
}

// record counts a drawn frame and reports whether a one-second FPS window closed.
func (s *Stats) record(now time.Time) bool {
	s.Drawn++
	if s.windowStart.IsZero() {
		s.windowStart = now
		return false
	}
	s.windowFrames++
	elapsed := now.Sub(s.windowStart)
	if elapsed < time.Second {
		return false
	}
	s.FPS = float64(s.windowFrames) / elapsed.Seconds()
	s.windowFrames = 0
	s.windowStart = now
	return true
}

// Status is a snapshot of the renderer for diagnostics overlays and logs.
type Status struct {
	Width, Height float64
	DPR           float64
	Scale         float64
	FPS           float64
	Lines         int
	PerLine       int
	Interval      int
	TargetFPS     float64
	LowPower      bool
	ReducedMotion bool
	Running       bool
	Disabled      bool
	Drawn         uint64
	Skipped       uint64
	Failures      uint64
	Edges         int
	Triangles     int
}

package scene

import "math"

// Wave holds the frequencies of the three displacement terms.
type Wave struct {
	ScrollFreq    float64 // scroll phase per scrolled pixel
	ScrollSpatial float64 // scroll phase per unit of x
	IdleSpatial   float64 // primary idle phase per unit of x
	DriftSpatial  float64 // secondary idle phase per unit of x
}

// Frame is the input of one evaluation.
type Frame struct {
	ScrollY float64
	Time    float64
	Height  float64
	// Simplified drops the scroll-driven term.
	Simplified bool
}

// Evaluate computes the displaced control points of line for frame f and
// appends them to dst[:0]. For a fixed frame the result is bit-identical
// across calls.
func Evaluate(line *Line, f Frame, w Wave, dst []Point) []Point {
	dst = dst[:0]
	for i := range line.Points {
		dst = append(dst, Point{X: line.Points[i].X, Y: displace(line, &line.Points[i], f, w)})
	}
	return dst
}

func displace(line *Line, p *ControlPoint, f Frame, w Wave) float64 {
	base := p.BaseY
	if f.Height > 0 {
		base = math.Mod(base, f.Height)
	}

	var scroll float64
	if !f.Simplified {
		scroll = math.Sin(f.ScrollY*w.ScrollFreq+p.X*w.ScrollSpatial+line.Seed) * p.Amplitude
	}
	idle := math.Sin(f.Time*p.Speed+p.Phase+p.X*w.IdleSpatial) * p.Amplitude * 0.2
	drift := math.Cos(f.Time*p.Speed*0.7+p.Phase*2+p.X*w.DriftSpatial) * p.Amplitude * 0.1

	return base + scroll + idle + drift
}

package scene

import (
	"math"
	"math/rand/v2"
)

// Range is a half-open [Min, Max) interval.
type Range struct {
	Min, Max float64
}

// Draw returns a uniform sample from the range. A degenerate range returns Min.
func (r Range) Draw(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Params drives Generate. Width and Height are in canvas units.
type Params struct {
	Width, Height float64

	Lines          int
	PointsMin      int
	PointsMax      int
	Amplitude      Range
	Thickness      Range
	PointSpeed     Range
	Opacity        float64
	MarkersPerLine int
	MarkerSpeed    Range
	MarkerJitter   float64
}

// Generate builds p.Lines lines. Point X coordinates are spaced evenly across
// the width; every other tunable value is drawn from its configured range.
func Generate(p Params, rng *rand.Rand) []Line {
	if p.Lines <= 0 {
		return nil
	}
	lo, hi := p.PointsMin, p.PointsMax
	if hi < lo {
		lo, hi = hi, lo
	}
	if lo < 2 {
		lo = 2
	}
	if hi < lo {
		hi = lo
	}

	lines := make([]Line, p.Lines)
	for i := range lines {
		n := lo + rng.IntN(hi-lo+1)
		baseY := rng.Float64() * p.Height

		line := Line{
			Points:    make([]ControlPoint, n),
			BaseY:     baseY,
			Seed:      rng.Float64() * 1000,
			Thickness: p.Thickness.Draw(rng),
			Opacity:   p.Opacity,
			Markers:   make([]Marker, max(p.MarkersPerLine, 0)),
		}

		widthRatio := p.Width / float64(n-1)
		for j := range line.Points {
			line.Points[j] = ControlPoint{
				X:         widthRatio * float64(j),
				BaseY:     baseY,
				Amplitude: p.Amplitude.Draw(rng),
				Phase:     rng.Float64() * 2 * math.Pi,
				Speed:     p.PointSpeed.Draw(rng),
			}
		}

		for j := range line.Markers {
			offset := float64(j)/float64(len(line.Markers)) + rng.Float64()*p.MarkerJitter
			line.Markers[j] = Marker{
				Offset: wrap01(offset),
				Speed:  p.MarkerSpeed.Draw(rng),
			}
		}

		lines[i] = line
	}
	return lines
}

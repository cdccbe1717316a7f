// Package scene holds the procedural geometry of the background: wavy lines,
// their control points and the markers travelling along them.
//
// Everything here is pure data plus pure functions. Per-frame results are
// written into caller-owned buffers so the render loop can reuse them.
package scene

import "math"

// Point is a position in canvas space.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p*s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Len returns the euclidean length of p.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Lerp interpolates between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// ControlPoint is a line's anchor. X is fixed; the rendered Y is derived each frame.
type ControlPoint struct {
	X         float64
	BaseY     float64
	Amplitude float64
	Phase     float64
	Speed     float64
}

// Marker travels along its line at a constant normalized speed.
type Marker struct {
	Offset float64 // [0,1)
	Speed  float64
}

// Advance moves the marker by its speed, wrapping at 1.
func (m *Marker) Advance() {
	m.Offset = wrap01(m.Offset + m.Speed)
}

// Line is one wavy line with its markers.
type Line struct {
	Points    []ControlPoint
	BaseY     float64
	Seed      float64
	Thickness float64
	Opacity   float64
	Markers   []Marker
}

func wrap01(v float64) float64 {
	v = math.Mod(v, 1)
	if v < 0 {
		v++
	}
	return v
}

// Square returns the corners of a square of edge size centred at c and
// rotated by angle radians, in drawing order.
func Square(c Point, size, angle float64) [4]Point {
	h := size / 2
	sin, cos := math.Sincos(angle)
	local := [4]Point{{-h, -h}, {h, -h}, {h, h}, {-h, h}}
	var out [4]Point
	for i, p := range local {
		out[i] = Point{
			X: c.X + p.X*cos - p.Y*sin,
			Y: c.Y + p.X*sin + p.Y*cos,
		}
	}
	return out
}

package scene

// Quad is a quadratic Bezier segment continuing from the previous end point.
type Quad struct {
	Ctrl, End Point
}

// SmoothQuads converts a polyline into midpoint quadratic segments: each
// segment uses the previous point as control and ends halfway to the next
// point. The final segment is a straight tail to the last point, expressed as
// a quad whose control equals its end.
func SmoothQuads(pts []Point, dst []Quad) []Quad {
	dst = dst[:0]
	for i := 1; i < len(pts); i++ {
		prev, cur := pts[i-1], pts[i]
		dst = append(dst, Quad{Ctrl: prev, End: prev.Lerp(cur, 0.5)})
		if i == len(pts)-1 {
			dst = append(dst, Quad{Ctrl: cur, End: cur})
		}
	}
	return dst
}

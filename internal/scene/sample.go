package scene

// Sample maps a normalized offset to a position along the polyline pts,
// proportionally to cumulative arc length. It also returns the unit tangent
// of the segment containing the position. ok is false for fewer than two points.
func Sample(pts []Point, offset float64) (pos, tangent Point, ok bool) {
	n := len(pts)
	if n < 2 {
		return Point{}, Point{}, false
	}
	if offset <= 0 {
		return pts[0], unit(pts[1].Sub(pts[0])), true
	}
	if offset >= 1 {
		return pts[n-1], unit(pts[n-1].Sub(pts[n-2])), true
	}

	var total float64
	for i := 1; i < n; i++ {
		total += pts[i].Sub(pts[i-1]).Len()
	}
	if total == 0 {
		return pts[0], Point{X: 1}, true
	}

	target := offset * total
	var walked float64
	for i := 1; i < n; i++ {
		seg := pts[i].Sub(pts[i-1])
		l := seg.Len()
		if walked+l >= target && l > 0 {
			return pts[i-1].Lerp(pts[i], (target-walked)/l), seg.Scale(1 / l), true
		}
		walked += l
	}
	// Floating point leftovers land on the last point.
	return pts[n-1], unit(pts[n-1].Sub(pts[n-2])), true
}

func unit(v Point) Point {
	l := v.Len()
	if l == 0 {
		return Point{X: 1}
	}
	return v.Scale(1 / l)
}

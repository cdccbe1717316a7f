package render

import "github.com/iburimskiy/wavy-background/internal/scene"

// TriangleEvent describes a filled triangle to listeners such as a sound layer.
type TriangleEvent struct {
	Area     float64
	Alpha    float64
	Grey     uint8
	Vertices [3]scene.Point
	// Pan is the horizontal position of the centroid in [-1, 1].
	Pan float64
}

// TriangleListener receives at most one event per configured interval: the
// largest triangle filled in the admitted frame.
type TriangleListener func(TriangleEvent)

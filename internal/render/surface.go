package render

import (
	"errors"
	"image/color"

	"github.com/iburimskiy/wavy-background/internal/scene"
)

var (
	// ErrNoSurface is returned when no surface was given and none could be created.
	ErrNoSurface = errors.New("render: no surface")
	// ErrNoContext means the surface cannot provide a drawing context.
	ErrNoContext = errors.New("render: no 2d context")
	// ErrDisabled is returned by Tick on a renderer without a context.
	ErrDisabled = errors.New("render: renderer disabled")
)

// Surface is the backing store the renderer owns while active.
type Surface interface {
	// Size returns the backing store size in device pixels.
	Size() (w, h int)
	// SetSize reallocates the backing store.
	SetSize(w, h int)
	// Context returns the drawing context of the surface.
	Context() (Canvas, error)
}

// Segment is a straight connection between two points.
type Segment struct {
	From, To scene.Point
}

// Gradient is a linear fill running from the first to the last vertex of
// each filled triangle.
type Gradient struct {
	From, To color.NRGBA
}

// Canvas is a 2D drawing context. Coordinates are in CSS units; the canvas
// applies the transform set by SetTransform.
type Canvas interface {
	// Clear fills the whole surface with bg.
	Clear(bg color.NRGBA)
	// SetTransform resets the transform, then scales by s.
	SetTransform(s float64)
	StrokePolyline(pts []scene.Point, width float64, c color.NRGBA)
	// StrokeCurve strokes a path starting at start and continuing along quads.
	StrokeCurve(start scene.Point, quads []scene.Quad, width float64, c color.NRGBA)
	StrokeSegments(segs []Segment, width float64, c color.NRGBA)
	// StrokeSquare outlines a square of edge size centred at c, rotated by angle radians.
	StrokeSquare(center scene.Point, size, angle, width float64, c color.NRGBA)
	FillTriangles(tris [][3]scene.Point, g Gradient)
	FillDots(pts []scene.Point, radius float64, c color.NRGBA)
}

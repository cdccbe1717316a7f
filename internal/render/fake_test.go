package render

import (
	"errors"
	"image/color"

	"github.com/iburimskiy/wavy-background/internal/scene"
)

type recordCanvas struct {
	clears    int
	transform float64
	polylines int
	curves    int
	segments  int
	squares   int
	fills     int
	filled    int
	dots      int

	panicOnClear bool
}

func (c *recordCanvas) Clear(color.NRGBA) {
	if c.panicOnClear {
		panic("canvas lost")
	}
	c.clears++
}

func (c *recordCanvas) SetTransform(s float64) { c.transform = s }

func (c *recordCanvas) StrokePolyline([]scene.Point, float64, color.NRGBA) { c.polylines++ }

func (c *recordCanvas) StrokeCurve(scene.Point, []scene.Quad, float64, color.NRGBA) { c.curves++ }

func (c *recordCanvas) StrokeSegments(segs []Segment, _ float64, _ color.NRGBA) {
	c.segments += len(segs)
}

func (c *recordCanvas) StrokeSquare(scene.Point, float64, float64, float64, color.NRGBA) {
	c.squares++
}

func (c *recordCanvas) FillTriangles(tris [][3]scene.Point, _ Gradient) {
	c.fills++
	c.filled += len(tris)
}

func (c *recordCanvas) FillDots(pts []scene.Point, _ float64, _ color.NRGBA) { c.dots += len(pts) }

type fakeSurface struct {
	w, h   int
	canvas *recordCanvas
	ctxErr error
	sizes  [][2]int
}

func newFakeSurface(w, h int) *fakeSurface {
	return &fakeSurface{w: w, h: h, canvas: &recordCanvas{}}
}

func (s *fakeSurface) Size() (int, int) { return s.w, s.h }

func (s *fakeSurface) SetSize(w, h int) {
	s.w, s.h = w, h
	s.sizes = append(s.sizes, [2]int{w, h})
}

func (s *fakeSurface) Context() (Canvas, error) {
	if s.ctxErr != nil {
		return nil, s.ctxErr
	}
	return s.canvas, nil
}

var errNoGPU = errors.New("no gpu")

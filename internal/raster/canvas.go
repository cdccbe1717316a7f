// Package raster renders the background without a window: a Canvas over an
// *image.RGBA driven by a gg drawing context, plus PNG export.
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/iburimskiy/wavy-background/internal/render"
	"github.com/iburimskiy/wavy-background/internal/scene"
)

// Surface is an in-memory backing store.
type Surface struct {
	img    *image.RGBA
	canvas *Canvas
}

var _ render.Surface = (*Surface)(nil)

// NewSurface allocates a w×h surface.
func NewSurface(w, h int) *Surface {
	s := &Surface{}
	s.canvas = &Canvas{scale: 1}
	s.alloc(max(w, 1), max(h, 1))
	return s
}

func (s *Surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Surface) SetSize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if cw, ch := s.Size(); cw == w && ch == h {
		return
	}
	s.alloc(w, h)
}

func (s *Surface) alloc(w, h int) {
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
	s.canvas.dc = gg.NewContextForRGBA(s.img)
	s.canvas.dc.SetLineCap(gg.LineCapRound)
	s.canvas.dc.SetLineJoin(gg.LineJoinRound)
	s.canvas.SetTransform(s.canvas.scale)
}

func (s *Surface) Context() (render.Canvas, error) { return s.canvas, nil }

// Image returns the current backing image. It is overwritten by the next frame.
func (s *Surface) Image() *image.RGBA { return s.img }

// Canvas draws in CSS units; the context matrix maps them to device pixels.
// Line widths are not transformed by gg, so they are scaled here.
type Canvas struct {
	dc    *gg.Context
	scale float64
}

var _ render.Canvas = (*Canvas)(nil)

func (c *Canvas) Clear(bg color.NRGBA) {
	c.dc.SetColor(bg)
	c.dc.Clear()
}

func (c *Canvas) SetTransform(s float64) {
	if s <= 0 {
		s = 1
	}
	c.scale = s
	c.dc.Identity()
	c.dc.Scale(s, s)
}

func (c *Canvas) StrokePolyline(pts []scene.Point, width float64, clr color.NRGBA) {
	if len(pts) < 2 {
		return
	}
	c.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.stroke(width, clr)
}

func (c *Canvas) StrokeCurve(start scene.Point, quads []scene.Quad, width float64, clr color.NRGBA) {
	if len(quads) == 0 {
		return
	}
	c.dc.MoveTo(start.X, start.Y)
	for _, q := range quads {
		c.dc.QuadraticTo(q.Ctrl.X, q.Ctrl.Y, q.End.X, q.End.Y)
	}
	c.stroke(width, clr)
}

// StrokeSegments strokes all segments as one path, so overlaps do not
// darken.
func (c *Canvas) StrokeSegments(segs []render.Segment, width float64, clr color.NRGBA) {
	if len(segs) == 0 {
		return
	}
	for _, s := range segs {
		c.dc.MoveTo(s.From.X, s.From.Y)
		c.dc.LineTo(s.To.X, s.To.Y)
	}
	c.stroke(width, clr)
}

func (c *Canvas) StrokeSquare(center scene.Point, size, angle, width float64, clr color.NRGBA) {
	sq := scene.Square(center, size, angle)
	c.dc.MoveTo(sq[0].X, sq[0].Y)
	for _, p := range sq[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.dc.ClosePath()
	c.stroke(width, clr)
}

// FillTriangles fills each triangle with a linear gradient running from its
// first to its last vertex.
func (c *Canvas) FillTriangles(tris [][3]scene.Point, g render.Gradient) {
	for _, t := range tris {
		// Gradient coordinates are in device space.
		from, to := t[0].Scale(c.scale), t[2].Scale(c.scale)
		grad := gg.NewLinearGradient(from.X, from.Y, to.X, to.Y)
		grad.AddColorStop(0, g.From)
		grad.AddColorStop(1, g.To)
		c.dc.SetFillStyle(grad)

		c.dc.MoveTo(t[0].X, t[0].Y)
		c.dc.LineTo(t[1].X, t[1].Y)
		c.dc.LineTo(t[2].X, t[2].Y)
		c.dc.ClosePath()
		c.dc.Fill()
	}
}

func (c *Canvas) FillDots(pts []scene.Point, radius float64, clr color.NRGBA) {
	if len(pts) == 0 {
		return
	}
	for _, p := range pts {
		c.dc.DrawCircle(p.X, p.Y, radius)
	}
	c.dc.SetColor(clr)
	c.dc.Fill()
}

func (c *Canvas) stroke(width float64, clr color.NRGBA) {
	// Hairlines still cover a device pixel.
	c.dc.SetLineWidth(math.Max(width*c.scale, 1))
	c.dc.SetColor(clr)
	c.dc.Stroke()
}

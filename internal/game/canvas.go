package game

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/wavy-background/internal/render"
	"github.com/iburimskiy/wavy-background/internal/scene"
)

// maxBatchVertices keeps one DrawTriangles call within uint16 indices.
const maxBatchVertices = 65535 - 3

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// canvas draws on an *ebiten.Image. Every coordinate is multiplied by the
// transform scale before it reaches the GPU.
type canvas struct {
	surface *Surface
	scale   float32

	path     vector.Path
	vertices []ebiten.Vertex
	indices  []uint16
}

var _ render.Canvas = (*canvas)(nil)

func (c *canvas) Clear(bg color.NRGBA) {
	c.surface.img.Fill(bg)
}

func (c *canvas) SetTransform(s float64) {
	c.scale = float32(s)
}

func (c *canvas) StrokePolyline(pts []scene.Point, width float64, clr color.NRGBA) {
	if len(pts) < 2 {
		return
	}
	c.path = vector.Path{}
	c.moveTo(pts[0])
	for _, p := range pts[1:] {
		c.lineTo(p)
	}
	c.stroke(width, clr)
}

func (c *canvas) StrokeCurve(start scene.Point, quads []scene.Quad, width float64, clr color.NRGBA) {
	if len(quads) == 0 {
		return
	}
	c.path = vector.Path{}
	c.moveTo(start)
	for _, q := range quads {
		c.path.QuadTo(
			float32(q.Ctrl.X)*c.scale, float32(q.Ctrl.Y)*c.scale,
			float32(q.End.X)*c.scale, float32(q.End.Y)*c.scale,
		)
	}
	c.stroke(width, clr)
}

func (c *canvas) StrokeSegments(segs []render.Segment, width float64, clr color.NRGBA) {
	if len(segs) == 0 {
		return
	}
	c.path = vector.Path{}
	for _, s := range segs {
		c.moveTo(s.From)
		c.lineTo(s.To)
	}
	c.stroke(width, clr)
}

func (c *canvas) StrokeSquare(center scene.Point, size, angle, width float64, clr color.NRGBA) {
	corners := scene.Square(center, size, angle)
	c.path = vector.Path{}
	c.moveTo(corners[0])
	for _, p := range corners[1:] {
		c.lineTo(p)
	}
	c.path.Close()
	c.stroke(width, clr)
}

func (c *canvas) FillTriangles(tris [][3]scene.Point, g render.Gradient) {
	from, to := vertexColor(g.From), vertexColor(g.To)
	mid := [4]float32{
		(from[0] + to[0]) / 2,
		(from[1] + to[1]) / 2,
		(from[2] + to[2]) / 2,
		(from[3] + to[3]) / 2,
	}
	shades := [3][4]float32{from, mid, to}

	c.vertices, c.indices = c.vertices[:0], c.indices[:0]
	for _, t := range tris {
		if len(c.vertices) > maxBatchVertices {
			c.flush()
		}
		base := uint16(len(c.vertices))
		for i, p := range t {
			s := shades[i]
			c.vertices = append(c.vertices, ebiten.Vertex{
				DstX:   float32(p.X) * c.scale,
				DstY:   float32(p.Y) * c.scale,
				SrcX:   1,
				SrcY:   1,
				ColorR: s[0],
				ColorG: s[1],
				ColorB: s[2],
				ColorA: s[3],
			})
		}
		c.indices = append(c.indices, base, base+1, base+2)
	}
	c.flush()
}

func (c *canvas) FillDots(pts []scene.Point, radius float64, clr color.NRGBA) {
	r := float32(radius) * c.scale
	for _, p := range pts {
		vector.DrawFilledCircle(c.surface.img, float32(p.X)*c.scale, float32(p.Y)*c.scale, r, clr, true)
	}
}

func (c *canvas) moveTo(p scene.Point) {
	c.path.MoveTo(float32(p.X)*c.scale, float32(p.Y)*c.scale)
}

func (c *canvas) lineTo(p scene.Point) {
	c.path.LineTo(float32(p.X)*c.scale, float32(p.Y)*c.scale)
}

func (c *canvas) stroke(width float64, clr color.NRGBA) {
	op := &vector.StrokeOptions{
		Width:    float32(width) * c.scale,
		LineJoin: vector.LineJoinRound,
		LineCap:  vector.LineCapRound,
	}
	c.vertices, c.indices = c.path.AppendVerticesAndIndicesForStroke(c.vertices[:0], c.indices[:0], op)
	rgba := vertexColor(clr)
	for i := range c.vertices {
		v := &c.vertices[i]
		v.SrcX, v.SrcY = 1, 1
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = rgba[0], rgba[1], rgba[2], rgba[3]
	}
	c.flush()
}

func (c *canvas) flush() {
	if len(c.indices) == 0 {
		return
	}
	op := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModeStraightAlpha,
		AntiAlias:      true,
	}
	c.surface.img.DrawTriangles(c.vertices, c.indices, whiteSubImage, op)
	c.vertices, c.indices = c.vertices[:0], c.indices[:0]
}

func vertexColor(c color.NRGBA) [4]float32 {
	return [4]float32{
		float32(c.R) / 0xff,
		float32(c.G) / 0xff,
		float32(c.B) / 0xff,
		float32(c.A) / 0xff,
	}
}

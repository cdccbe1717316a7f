package raster

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/iburimskiy/wavy-background/internal/config"
	"github.com/iburimskiy/wavy-background/internal/render"
	"github.com/iburimskiy/wavy-background/internal/scene"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
	red   = color.NRGBA{R: 255, A: 255}
)

func newCanvas(t *testing.T, w, h int) (*Surface, render.Canvas) {
	t.Helper()
	s := NewSurface(w, h)
	c, err := s.Context()
	require.NoError(t, err)
	c.Clear(white)
	return s, c
}

func rgbaAt(s *Surface, x, y int) color.RGBA {
	return s.Image().RGBAAt(x, y)
}

func TestStrokePolylinePaints(t *testing.T) {
	s, c := newCanvas(t, 100, 100)
	c.StrokePolyline([]scene.Point{{X: 10, Y: 50}, {X: 90, Y: 50}}, 4, black)

	assert.Equal(t, color.RGBA{A: 255}, rgbaAt(s, 50, 50))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, rgbaAt(s, 50, 10))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, rgbaAt(s, 95, 50))
}

func TestTransformScalesCoordinates(t *testing.T) {
	s, c := newCanvas(t, 100, 100)
	c.SetTransform(2)
	c.StrokeSegments([]render.Segment{{From: scene.Point{X: 10, Y: 10}, To: scene.Point{X: 20, Y: 10}}}, 2, black)

	assert.Equal(t, uint8(0), rgbaAt(s, 30, 20).R)
	assert.Equal(t, uint8(255), rgbaAt(s, 15, 10).R)
}

func TestFillTrianglesAndDots(t *testing.T) {
	s, c := newCanvas(t, 100, 100)
	c.FillTriangles([][3]scene.Point{{{X: 0, Y: 0}, {X: 80, Y: 0}, {X: 0, Y: 80}}}, render.Gradient{From: red, To: red})
	c.FillDots([]scene.Point{{X: 80, Y: 80}}, 5, black)

	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgbaAt(s, 10, 10))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, rgbaAt(s, 70, 70))
	assert.Equal(t, color.RGBA{A: 255}, rgbaAt(s, 80, 80))
}

func TestGradientRunsFirstToLastVertex(t *testing.T) {
	s, c := newCanvas(t, 100, 100)
	c.FillTriangles([][3]scene.Point{{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 100}}}, render.Gradient{From: black, To: white})

	near := rgbaAt(s, 2, 2)
	far := rgbaAt(s, 2, 80)
	assert.Less(t, near.R, far.R)
}

func TestStrokeSquareOutline(t *testing.T) {
	s, c := newCanvas(t, 100, 100)
	c.StrokeSquare(scene.Point{X: 50, Y: 50}, 40, 0, 2, black)

	assert.Equal(t, uint8(0), rgbaAt(s, 50, 30).R, "edge")
	assert.Equal(t, uint8(255), rgbaAt(s, 50, 50).R, "hollow centre")
}

func TestSurfaceSetSize(t *testing.T) {
	s := NewSurface(10, 10)
	s.SetSize(40, 20)
	w, h := s.Size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 20, h)

	s.SetSize(0, -1)
	w, h = s.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestReducedMotionSurvivesResize(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Performance.ReducedMotion = true
	s := NewSurface(320, 200)
	r, err := render.New(cfg, s, render.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	sched := render.NewFrameScheduler()
	r.Start(sched)

	r.Resize(400, 300, 1)
	sched.Run(time.Now())

	img := s.Image()
	require.Equal(t, 400, img.Bounds().Dx())
	blank := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] == 0 {
			blank++
		}
	}
	assert.Zero(t, blank, "static frame redrawn on the new backing store")
}

func TestSnapshotWritesFrames(t *testing.T) {
	dir := t.TempDir()
	paths, err := Snapshot(context.Background(), config.DefaultConfig(), zaptest.NewLogger(t), SnapshotOptions{
		Width:    320,
		Height:   180,
		Frames:   3,
		Interval: 50 * time.Millisecond,
		Dir:      dir,
		Seed:     7,
		Start:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, paths, 3)

	for _, p := range paths {
		img, err := gg.LoadPNG(p)
		require.NoError(t, err)
		assert.Equal(t, 320, img.Bounds().Dx())
		assert.Equal(t, 180, img.Bounds().Dy())

		painted := false
		for y := 0; y < 180 && !painted; y++ {
			for x := 0; x < 320; x++ {
				if r, _, _, _ := img.At(x, y).RGBA(); r < 0xf000 {
					painted = true
					break
				}
			}
		}
		assert.True(t, painted, "%s is blank", p)
	}
}

func TestSnapshotRejectsNoFrames(t *testing.T) {
	_, err := Snapshot(context.Background(), config.DefaultConfig(), nil, SnapshotOptions{Width: 10, Height: 10, Dir: t.TempDir()})
	assert.Error(t, err)
}

package game

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/wavy-background/internal/config"
	"github.com/iburimskiy/wavy-background/internal/raster"
	"github.com/iburimskiy/wavy-background/internal/render"
)

func TestFrameTapSnapshotOrder(t *testing.T) {
	tap := newFrameTap(4)
	assert.Empty(t, tap.snapshot(3))
	assert.Zero(t, tap.mean())

	for i := 1; i <= 6; i++ {
		tap.record(time.Duration(i) * time.Millisecond)
	}
	assert.Equal(t, []time.Duration{4 * time.Millisecond, 5 * time.Millisecond, 6 * time.Millisecond}, tap.snapshot(3))
	assert.Len(t, tap.snapshot(10), 4)
	assert.Equal(t, 4500*time.Microsecond, tap.mean())
}

func TestResizerCoalescesChanges(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := resizer{delay: 100 * time.Millisecond, applied: viewportSize{w: 800, h: 600, dpr: 1}}

	assert.False(t, r.request(viewportSize{w: 800, h: 600, dpr: 1}, now), "unchanged")
	assert.False(t, r.request(viewportSize{w: 0, h: 600, dpr: 1}, now), "empty")

	require.True(t, r.request(viewportSize{w: 1024, h: 768, dpr: 1}, now))
	require.True(t, r.request(viewportSize{w: 1280, h: 720, dpr: 2}, now.Add(50*time.Millisecond)))
	assert.False(t, r.request(viewportSize{w: 1280, h: 720, dpr: 2}, now.Add(60*time.Millisecond)))

	_, ok := r.take(now.Add(120 * time.Millisecond))
	assert.False(t, ok, "delay restarts on every change")

	s, ok := r.take(now.Add(150 * time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, viewportSize{w: 1280, h: 720, dpr: 2}, s)

	_, ok = r.take(now.Add(time.Second))
	assert.False(t, ok)
	assert.False(t, r.request(s, now.Add(time.Second)))
}

func TestStatusLines(t *testing.T) {
	st := render.Status{
		Width: 1920, Height: 1080, DPR: 2, Scale: 1,
		FPS: 59.5, TargetFPS: 60,
		Lines: 15, PerLine: 5, Interval: 1,
		Edges: 12, Triangles: 3,
		LowPower: true,
	}
	lines := statusLines(st, 75*time.Second, 16*time.Millisecond)
	text := strings.Join(lines, "\n")

	assert.Contains(t, text, "1920x1080")
	assert.Contains(t, text, "up 01:15")
	assert.Contains(t, text, "lines 15")
	assert.Contains(t, text, "triangles 3")
	assert.Contains(t, text, "low power on")
	assert.NotContains(t, text, "disabled")

	st.Disabled = true
	assert.Contains(t, statusLines(st, 0, 0), "renderer disabled")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-1))
	assert.Equal(t, 1.0, clamp01(3))
	assert.Equal(t, 0.25, clamp01(0.25))
	assert.Equal(t, "02:05", formatDuration(125*time.Second))
	assert.Equal(t, "on", onOff(true))
}

func TestApplyKeepsReducedMotionFlag(t *testing.T) {
	cfg := config.DefaultConfig()
	r, err := render.New(cfg, raster.NewSurface(320, 180))
	require.NoError(t, err)
	g := &Game{cfg: cfg, renderer: r, opts: Options{ReducedMotion: true}}
	r.SetReducedMotion(true, time.Now())

	reloaded := cfg.Clone()
	reloaded.Performance.ReducedMotion = false
	g.apply(reloaded)
	assert.True(t, r.Status().ReducedMotion, "flag survives a reload")
	assert.False(t, reloaded.Performance.ReducedMotion, "loaded config untouched")

	g.opts.ReducedMotion = false
	g.apply(reloaded.Clone())
	assert.False(t, r.Status().ReducedMotion)
}

package render

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/iburimskiy/wavy-background/internal/config"
	"github.com/iburimskiy/wavy-background/internal/scene"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestRenderer(t *testing.T, cfg *config.Config, s *fakeSurface, opts ...Option) *Renderer {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	opts = append([]Option{
		WithLogger(zaptest.NewLogger(t)),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	}, opts...)
	var surface Surface
	if s != nil {
		surface = s
	}
	r, err := New(cfg, surface, opts...)
	require.NoError(t, err)
	return r
}

func TestNewWithoutSurface(t *testing.T) {
	_, err := New(config.DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrNoSurface)

	_, err = New(config.DefaultConfig(), nil, WithSurfaceFactory(func() (Surface, error) {
		return nil, errNoGPU
	}))
	assert.ErrorIs(t, err, ErrNoSurface)
	assert.ErrorIs(t, err, errNoGPU)
}

func TestNewCreatesSurfaceLazily(t *testing.T) {
	s := newFakeSurface(1920, 1080)
	calls := 0
	r := newTestRenderer(t, nil, nil, WithSurfaceFactory(func() (Surface, error) {
		calls++
		return s, nil
	}))

	assert.Equal(t, 1, calls)
	assert.False(t, r.Disabled())
	require.NotEmpty(t, s.sizes)
	assert.Equal(t, [2]int{1920, 1080}, s.sizes[len(s.sizes)-1])
	assert.Len(t, r.Lines(), 15)
}

func TestNewDisablesWithoutContext(t *testing.T) {
	s := newFakeSurface(800, 600)
	s.ctxErr = errNoGPU
	r := newTestRenderer(t, nil, s)

	assert.True(t, r.Disabled())
	assert.ErrorIs(t, r.Err(), ErrNoContext)
	assert.ErrorIs(t, r.Err(), errNoGPU)
	assert.ErrorIs(t, r.Tick(t0), ErrDisabled)

	sched := NewFrameScheduler()
	r.Start(sched)
	assert.Zero(t, sched.Pending())
	assert.True(t, r.Status().Disabled)
}

func TestResizeScalesAndRegenerates(t *testing.T) {
	s := newFakeSurface(1920, 1080)
	r := newTestRenderer(t, nil, s)

	r.Resize(960, 540, 3)

	vp := r.Viewport()
	assert.InDelta(t, 0.5, vp.Scale, 1e-9)
	assert.Equal(t, 2.0, vp.DPR, "dpr capped")
	assert.Equal(t, [2]int{1920, 1080}, s.sizes[len(s.sizes)-1])
	assert.Equal(t, 2.0, s.canvas.transform)
	assert.InDelta(t, 30.0, vp.Distance, 1e-9)
	assert.InDelta(t, 50.0, vp.CellSize, 1e-9)

	require.Len(t, r.Lines(), 8)
	for _, l := range r.Lines() {
		n := len(l.Points)
		require.GreaterOrEqual(t, n, 2)
		for j, p := range l.Points {
			assert.InDelta(t, 960/float64(n-1)*float64(j), p.X, 1e-9)
		}
		assert.Len(t, l.Markers, 3)
	}
}

func TestTickDrawsAndThrottles(t *testing.T) {
	s := newFakeSurface(1920, 1080)
	r := newTestRenderer(t, nil, s)
	c := s.canvas

	require.NoError(t, r.Tick(t0))
	assert.Equal(t, 1, c.clears)
	assert.Equal(t, 15, c.curves)
	assert.Zero(t, c.polylines)
	assert.Equal(t, 75, c.squares)

	require.NoError(t, r.Tick(t0.Add(time.Millisecond)))
	assert.Equal(t, 1, c.clears)
	assert.EqualValues(t, 1, r.Status().Skipped)

	require.NoError(t, r.Tick(t0.Add(20*time.Millisecond)))
	assert.Equal(t, 2, c.clears)
	assert.EqualValues(t, 2, r.Status().Drawn)
}

func TestScrollHidesMarkersWhileMoving(t *testing.T) {
	s := newFakeSurface(1920, 1080)
	r := newTestRenderer(t, nil, s)
	c := s.canvas

	assert.True(t, r.SetScroll(120, t0))
	assert.False(t, r.SetScroll(240, t0.Add(5*time.Millisecond)), "throttled")
	assert.True(t, r.Moving(t0.Add(299*time.Millisecond)))

	require.NoError(t, r.Tick(t0.Add(10*time.Millisecond)))
	assert.Equal(t, 15, c.polylines)
	assert.Zero(t, c.curves)
	assert.Zero(t, c.squares)
	assert.Zero(t, c.segments)

	require.NoError(t, r.Tick(t0.Add(400*time.Millisecond)))
	assert.Equal(t, 15, c.curves)
	assert.Equal(t, 75, c.squares)
}

func TestLoopRecoversAfterFailure(t *testing.T) {
	s := newFakeSurface(1920, 1080)
	r := newTestRenderer(t, nil, s)
	sched := NewFrameScheduler()

	r.Start(sched)
	require.Equal(t, 1, sched.Pending())

	s.canvas.panicOnClear = true
	sched.Run(t0)
	assert.EqualValues(t, 1, r.Status().Failures)
	assert.Equal(t, 1, sched.Pending(), "loop stays armed")

	s.canvas.panicOnClear = false
	sched.Run(t0.Add(time.Second))
	assert.Zero(t, s.canvas.clears, "waiting for the recovery delay")

	sched.Run(t0.Add(2 * time.Second))
	assert.Equal(t, 1, s.canvas.clears)
	assert.True(t, r.Running())
}

func TestStopCancelsPendingTick(t *testing.T) {
	r := newTestRenderer(t, nil, newFakeSurface(1920, 1080))
	sched := NewFrameScheduler()

	r.Start(sched)
	assert.True(t, r.Running())
	r.Stop()
	assert.False(t, r.Running())
	assert.Zero(t, sched.Run(t0))
}

func TestReducedMotionDrawsOneFrame(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Performance.ReducedMotion = true
	s := newFakeSurface(1920, 1080)
	r := newTestRenderer(t, cfg, s)
	sched := NewFrameScheduler()

	r.Start(sched)
	assert.Equal(t, 1, s.canvas.clears)
	assert.Zero(t, sched.Pending())

	r.SetReducedMotion(false, t0)
	assert.Equal(t, 1, sched.Pending())

	r.SetReducedMotion(true, t0)
	assert.Zero(t, sched.Pending())
	assert.Equal(t, 2, s.canvas.clears)
	assert.True(t, r.Status().ReducedMotion)
}

func TestReducedMotionRedrawsAfterResize(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Performance.ReducedMotion = true
	s := newFakeSurface(1920, 1080)
	r := newTestRenderer(t, cfg, s)
	sched := NewFrameScheduler()

	r.Resize(1280, 720, 1)
	assert.Zero(t, s.canvas.clears, "nothing drawn before Start")

	r.Start(sched)
	require.Equal(t, 1, s.canvas.clears)

	r.Resize(1280, 720, 2)
	assert.Equal(t, 2, s.canvas.clears)
	assert.Zero(t, sched.Pending())

	r.Reconfigure(cfg.Clone())
	assert.Equal(t, 3, s.canvas.clears)
	assert.Zero(t, sched.Pending())
}

func TestToggleLowPowerRoundTrip(t *testing.T) {
	s := newFakeSurface(1920, 1080)
	r := newTestRenderer(t, nil, s)

	st := r.Status()
	assert.Equal(t, 15, st.Lines)
	assert.Equal(t, 1, st.Interval)

	on, msg := r.ToggleLowPower()
	assert.True(t, on)
	assert.NotEmpty(t, msg)
	st = r.Status()
	assert.Equal(t, 5, st.Lines)
	assert.Equal(t, 2, st.PerLine)
	assert.Equal(t, 6, st.Interval)
	assert.Equal(t, 20.0, st.TargetFPS)
	assert.True(t, st.LowPower)

	require.NoError(t, r.Tick(t0))
	assert.Equal(t, 5, s.canvas.polylines, "low power strokes straight segments")
	assert.Zero(t, s.canvas.curves)

	on, _ = r.ToggleLowPower()
	assert.False(t, on)
	st = r.Status()
	assert.Equal(t, 15, st.Lines)
	assert.Equal(t, 5, st.PerLine)
	assert.Equal(t, 1, st.Interval)
	assert.Equal(t, 60.0, st.TargetFPS)
}

func TestAdaptiveComplexity(t *testing.T) {
	r := newTestRenderer(t, nil, newFakeSurface(1920, 1080))

	for i := 0; i <= 5; i++ {
		require.NoError(t, r.Tick(t0.Add(time.Duration(i)*200*time.Millisecond)))
	}
	st := r.Status()
	assert.Less(t, st.FPS, 20.0)
	assert.Equal(t, 13, st.Lines)
	assert.Equal(t, 2, st.Interval)

	start := t0.Add(time.Second)
	for i := 1; i <= 60; i++ {
		require.NoError(t, r.Tick(start.Add(time.Duration(i)*17*time.Millisecond)))
	}
	st = r.Status()
	assert.Greater(t, st.FPS, 45.0)
	assert.Equal(t, 14, st.Lines)
}

func TestAdaptiveIntervalKeepsLines(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Performance.MinLines = 15
	r := newTestRenderer(t, cfg, newFakeSurface(1920, 1080))
	require.Equal(t, 15, r.Status().Lines)
	first := &r.lines[0]

	for i := 0; i <= 5; i++ {
		require.NoError(t, r.Tick(t0.Add(time.Duration(i)*200*time.Millisecond)))
	}
	st := r.Status()
	assert.Equal(t, 15, st.Lines)
	assert.Equal(t, 2, st.Interval)
	assert.Same(t, first, &r.lines[0], "lines are not regenerated")
}

func TestAdaptiveSkippedInLowPower(t *testing.T) {
	r := newTestRenderer(t, nil, newFakeSurface(1920, 1080))
	r.ToggleLowPower()

	for i := 0; i <= 5; i++ {
		require.NoError(t, r.Tick(t0.Add(time.Duration(i)*200*time.Millisecond)))
	}
	assert.Equal(t, 5, r.Status().Lines)
	assert.Equal(t, 6, r.Status().Interval)
}

func TestConnectFillsAndNotifies(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Triangles.MinArea = 100
	var events []TriangleEvent
	s := newFakeSurface(1920, 1080)
	r := newTestRenderer(t, cfg, s, WithTriangleListener(func(e TriangleEvent) {
		events = append(events, e)
	}))

	r.grid.Reset()
	r.pos = []scene.Point{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 25, Y: 40}}
	for i, p := range r.pos {
		r.grid.Insert(i, p.X, p.Y)
	}
	r.connect(t0)

	assert.Equal(t, 3, s.canvas.segments)
	assert.Equal(t, 1, s.canvas.filled)
	assert.Equal(t, 3, r.Status().Edges)
	assert.Equal(t, 1, r.Status().Triangles)
	require.Len(t, events, 1)
	assert.InDelta(t, 1000.0, events[0].Area, 1e-9)
	assert.InDelta(t, 25.0/1920*2-1, events[0].Pan, 1e-9)

	r.connect(t0.Add(100 * time.Millisecond))
	assert.Len(t, events, 1, "listener throttled")
	r.connect(t0.Add(400 * time.Millisecond))
	assert.Len(t, events, 2)
}

func TestConnectRespectsDisabledTriangles(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Triangles.Enabled = false
	s := newFakeSurface(1920, 1080)
	r := newTestRenderer(t, cfg, s)

	r.grid.Reset()
	r.pos = []scene.Point{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 25, Y: 40}}
	for i, p := range r.pos {
		r.grid.Insert(i, p.X, p.Y)
	}
	r.connect(t0)

	assert.Equal(t, 3, s.canvas.segments)
	assert.Zero(t, s.canvas.fills)
}

func TestReconfigureRegenerates(t *testing.T) {
	r := newTestRenderer(t, nil, newFakeSurface(1920, 1080))
	cfg := config.DefaultConfig()
	cfg.Lines.Count = 4
	cfg.Markers.PerLine = 1

	r.Reconfigure(cfg)
	require.Len(t, r.Lines(), 4)
	for _, l := range r.Lines() {
		assert.Len(t, l.Markers, 1)
	}
	assert.Same(t, cfg, r.Config())
}

func TestTickRecoversPanic(t *testing.T) {
	s := newFakeSurface(1920, 1080)
	r := newTestRenderer(t, nil, s)
	s.canvas.panicOnClear = true

	err := r.Tick(t0)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrDisabled))
}

// Package render drives the animated background: it owns the surface, the
// generated lines and the per-frame pipeline from displaced control points to
// filled triangles. A Renderer is single-threaded; every method must be called
// from the goroutine that pumps its Scheduler.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/iburimskiy/wavy-background/internal/config"
	"github.com/iburimskiy/wavy-background/internal/mesh"
	"github.com/iburimskiy/wavy-background/internal/scene"
	"github.com/iburimskiy/wavy-background/internal/spatial"
)

const markerStroke = 1.0

// limits are the counts currently in effect after scaling, adaptation and
// low-power mode.
type limits struct {
	lines     int
	perLine   int
	interval  int
	targetFPS float64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) { r.log = l }
}

// WithRand sets the random source used for geometry and styling.
func WithRand(rng *rand.Rand) Option {
	return func(r *Renderer) { r.rng = rng }
}

// WithSurfaceFactory creates the surface lazily when New receives none.
func WithSurfaceFactory(f func() (Surface, error)) Option {
	return func(r *Renderer) { r.factory = f }
}

// WithTriangleListener registers a listener for filled triangles.
func WithTriangleListener(l TriangleListener) Option {
	return func(r *Renderer) { r.listener = l }
}

// Renderer is the background renderer.
type Renderer struct {
	cfg     *config.Config
	log     *zap.Logger
	rng     *rand.Rand
	factory func() (Surface, error)

	surface  Surface
	canvas   Canvas
	disabled bool
	err      error

	sched   Scheduler
	handle  Handle
	active  bool
	resume  time.Time
	reduced bool

	vp       Viewport
	base     limits
	cur      limits
	lowPower bool
	saved    *limits

	lineColor color.NRGBA
	edgeColor color.NRGBA
	bg        color.NRGBA
	wave      scene.Wave
	styler    mesh.Styler
	shape     spatial.Shape

	lines    []scene.Line
	scrollY  float64
	scroll   Throttle
	moving   time.Time
	animTime float64
	rotation float64
	frames   uint64
	lastDraw time.Time

	stats     Stats
	listener  TriangleListener
	triEvents Throttle

	grid   *spatial.Grid
	det    *mesh.Detector
	ctrl   []scene.Point
	quads  []scene.Quad
	pos    []scene.Point
	edges  []mesh.Edge
	segs   []Segment
	tris   []mesh.Triangle
	styled []mesh.Styled
	bounds []int
	verts  [][3]scene.Point
	dots   []scene.Point
}

// New creates a renderer drawing on surface. A nil surface is created through
// WithSurfaceFactory when one was given. A surface without a drawing context
// yields a disabled renderer: it is returned without error, logs the failure,
// and reports it through Err.
func New(cfg *config.Config, surface Surface, opts ...Option) (*Renderer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	r := &Renderer{
		log:  zap.NewNop(),
		grid: spatial.NewGrid(cfg.Connections.CellSize),
		det:  mesh.NewDetector(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	r.log = r.log.Named("render")
	r.applyConfig(cfg)

	if surface == nil {
		if r.factory == nil {
			return nil, ErrNoSurface
		}
		r.log.Info("render surface missing, creating one")
		s, err := r.factory()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoSurface, err)
		}
		if s == nil {
			return nil, ErrNoSurface
		}
		surface = s
	}
	r.surface = surface

	canvas, err := surface.Context()
	if err == nil && canvas == nil {
		err = errors.New("nil canvas")
	}
	if err != nil {
		r.disabled = true
		r.err = fmt.Errorf("%w: %w", ErrNoContext, err)
		r.log.Error("rendering disabled", zap.Error(r.err))
		return r, nil
	}
	r.canvas = canvas

	w, h := surface.Size()
	r.Resize(float64(w), float64(h), 1)
	return r, nil
}

// Disabled reports whether the renderer failed to obtain a drawing context.
func (r *Renderer) Disabled() bool { return r.disabled }

// Err returns the reason the renderer is disabled, if any.
func (r *Renderer) Err() error { return r.err }

// Config returns the configuration in effect.
func (r *Renderer) Config() *config.Config { return r.cfg }

// Lines returns the generated lines. The slice is owned by the renderer.
func (r *Renderer) Lines() []scene.Line { return r.lines }

// Viewport returns the viewport in effect.
func (r *Renderer) Viewport() Viewport { return r.vp }

func (r *Renderer) applyConfig(cfg *config.Config) {
	r.cfg = cfg
	r.lineColor = rgb(cfg.Lines.Color, cfg.Lines.Opacity)
	r.edgeColor = rgb(cfg.Connections.Color, cfg.Connections.Alpha)
	r.bg = rgb(cfg.Viewport.Background, 1)
	r.wave = scene.Wave{
		ScrollFreq:    cfg.Wave.ScrollFreq,
		ScrollSpatial: cfg.Wave.ScrollSpatial,
		IdleSpatial:   cfg.Wave.IdleSpatial,
		DriftSpatial:  cfg.Wave.DriftSpatial,
	}
	r.styler = mesh.Styler{
		GreyMin:        cfg.Triangles.Grey.Min,
		GreyMax:        cfg.Triangles.Grey.Max,
		AlphaMin:       cfg.Triangles.Alpha.Min,
		AlphaMax:       cfg.Triangles.Alpha.Max,
		Drop:           cfg.Triangles.GradientDrop,
		DecorationArea: cfg.Triangles.DecorationArea,
	}
	r.shape = spatial.Neighborhood9
	if cfg.Connections.Shape == config.ShapePlus {
		r.shape = spatial.Neighborhood5
	}
	r.scroll.Interval = cfg.Performance.ScrollThrottle
	r.triEvents.Interval = cfg.Events.TriangleInterval
	r.reduced = cfg.Performance.ReducedMotion
	r.lowPower = false
	r.saved = nil
}

// Resize adapts the renderer to a viewport of w×h CSS units at the given
// device pixel ratio: it rescales every size-dependent knob, reallocates the
// backing store, resets the transform and regenerates all lines.
func (r *Renderer) Resize(w, h, dpr float64) {
	if r.disabled {
		return
	}
	r.vp = NewViewport(r.cfg, w, h, dpr)
	bw, bh := r.vp.Backing()
	r.surface.SetSize(bw, bh)
	r.canvas.SetTransform(r.vp.DPR)
	r.grid.SetCellSize(r.vp.CellSize)

	r.base = limits{
		lines:     r.vp.Lines,
		perLine:   r.vp.PerLine,
		interval:  max(1, r.cfg.Connections.Interval),
		targetFPS: r.cfg.Performance.TargetFPS,
	}
	if r.lowPower {
		saved := r.base
		r.saved = &saved
	} else {
		r.cur = r.base
	}
	r.regenerate()
	// The new backing store is blank and no loop will repaint it.
	if r.active && r.reduced {
		r.drawStatic(time.Now())
	}

	r.log.Debug("viewport resized",
		zap.Float64("width", w),
		zap.Float64("height", h),
		zap.Float64("dpr", r.vp.DPR),
		zap.Float64("scale", r.vp.Scale),
		zap.Int("lines", r.cur.lines))
}

// Reconfigure swaps in a new configuration and regenerates the geometry for
// the current viewport.
func (r *Renderer) Reconfigure(cfg *config.Config) {
	if cfg == nil {
		return
	}
	wasReduced := r.reduced
	r.applyConfig(cfg)
	r.log.Info("configuration applied", zap.String("profile", cfg.Profile))
	if r.disabled {
		return
	}
	r.Resize(r.vp.Width, r.vp.Height, r.vp.DPR)
	if wasReduced != r.reduced {
		r.setReduced(r.reduced, time.Now())
	}
}

func (r *Renderer) regenerate() {
	r.lines = scene.Generate(scene.Params{
		Width:          r.vp.Width,
		Height:         r.vp.Height,
		Lines:          r.cur.lines,
		PointsMin:      r.cfg.Lines.Points.Min,
		PointsMax:      r.cfg.Lines.Points.Max,
		Amplitude:      scene.Range(r.cfg.Lines.Amplitude),
		Thickness:      scene.Range(r.cfg.Lines.Thickness),
		PointSpeed:     scene.Range(r.cfg.Lines.PointSpeed),
		Opacity:        r.cfg.Lines.Opacity,
		MarkersPerLine: r.cur.perLine,
		MarkerSpeed:    scene.Range(r.cfg.Markers.Speed),
		MarkerJitter:   r.cfg.Markers.Jitter,
	}, r.rng)
}

// SetScroll records the page scroll offset. Updates closer together than the
// scroll throttle are dropped. Every admitted update keeps the renderer in
// its moving state for MovingHold.
func (r *Renderer) SetScroll(y float64, now time.Time) bool {
	if !r.scroll.Allow(now) {
		return false
	}
	r.scrollY = y
	r.moving = now.Add(r.cfg.Performance.MovingHold)
	return true
}

// Moving reports whether a scroll happened within the moving hold.
func (r *Renderer) Moving(now time.Time) bool { return now.Before(r.moving) }

// Start begins the render loop on s. Under reduced motion a single static
// frame is drawn instead.
func (r *Renderer) Start(s Scheduler) {
	if r.disabled || s == nil {
		return
	}
	r.sched = s
	r.active = true
	if r.reduced {
		r.drawStatic(time.Now())
		return
	}
	r.arm()
}

// Stop cancels the pending tick. In-flight work is never interrupted since
// every tick runs to completion.
func (r *Renderer) Stop() {
	r.active = false
	if r.handle != 0 && r.sched != nil {
		r.sched.Cancel(r.handle)
	}
	r.handle = 0
}

// Running reports whether a tick is scheduled.
func (r *Renderer) Running() bool { return r.handle != 0 }

// SetReducedMotion applies the user's reduced-motion preference: the loop
// stops after one static frame and restarts when the preference clears.
func (r *Renderer) SetReducedMotion(on bool, now time.Time) {
	if on == r.reduced {
		return
	}
	r.reduced = on
	r.setReduced(on, now)
}

func (r *Renderer) setReduced(on bool, now time.Time) {
	if !r.active || r.disabled {
		return
	}
	if on {
		if r.handle != 0 {
			r.sched.Cancel(r.handle)
			r.handle = 0
		}
		r.drawStatic(now)
		r.log.Info("reduced motion on, animation paused")
		return
	}
	r.log.Info("reduced motion off, animation resumed")
	r.arm()
}

func (r *Renderer) arm() {
	if r.handle == 0 && r.active && !r.reduced && !r.disabled {
		r.handle = r.sched.Schedule(r.loop)
	}
}

// loop is the scheduled callback: one tick, then re-arm. A failed tick
// delays the next frame by RecoverDelay instead of stopping the loop.
func (r *Renderer) loop(now time.Time) {
	r.handle = 0
	if !r.active || r.reduced {
		return
	}
	if !r.resume.IsZero() {
		if now.Before(r.resume) {
			r.arm()
			return
		}
		r.resume = time.Time{}
		r.log.Info("resuming animation")
	}
	if err := r.Tick(now); err != nil {
		r.stats.Failures++
		r.resume = now.Add(r.cfg.Performance.RecoverDelay)
		r.log.Error("frame failed, retrying later",
			zap.Error(err),
			zap.Duration("delay", r.cfg.Performance.RecoverDelay))
	}
	r.arm()
}

// Tick renders one frame at now unless the frame throttle skips it. Panics
// raised while drawing are recovered and returned as errors.
func (r *Renderer) Tick(now time.Time) (err error) {
	if r.disabled {
		return ErrDisabled
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("frame panic: %v", p)
		}
	}()

	interval := time.Duration(float64(time.Second) / r.cur.targetFPS)
	if !r.lastDraw.IsZero() && now.Sub(r.lastDraw) < interval {
		r.stats.Skipped++
		return nil
	}
	r.lastDraw = now
	if r.stats.record(now) {
		r.adapt()
	}

	r.draw(now, true)
	return nil
}

func (r *Renderer) drawStatic(now time.Time) {
	defer func() {
		if p := recover(); p != nil {
			r.stats.Failures++
			r.log.Error("static frame failed", zap.Any("panic", p))
		}
	}()
	r.draw(now, false)
}

// draw runs the frame pipeline. animate=false draws the current state
// without advancing time or markers.
func (r *Renderer) draw(now time.Time, animate bool) {
	r.canvas.Clear(r.bg)
	if animate {
		r.animTime += r.cfg.Wave.TimeStep
		r.rotation += r.cfg.Markers.RotationSpeed
	}

	moving := r.Moving(now)
	lowPower := r.lowPower || r.cfg.Performance.LowPower
	smooth := r.cfg.Performance.Smooth && !moving && !lowPower
	drawMarkers := !moving

	frame := scene.Frame{
		ScrollY:    r.scrollY,
		Time:       r.animTime,
		Height:     r.vp.Height,
		Simplified: lowPower,
	}

	r.grid.Reset()
	r.pos = r.pos[:0]
	for i := range r.lines {
		line := &r.lines[i]
		r.ctrl = scene.Evaluate(line, frame, r.wave, r.ctrl)
		if len(r.ctrl) < 2 {
			continue
		}

		c := withAlpha(r.lineColor, line.Opacity)
		if smooth {
			r.quads = scene.SmoothQuads(r.ctrl, r.quads)
			r.canvas.StrokeCurve(r.ctrl[0], r.quads, line.Thickness, c)
		} else {
			r.canvas.StrokePolyline(r.ctrl, line.Thickness, c)
		}

		if !drawMarkers {
			continue
		}
		for j := range line.Markers {
			m := &line.Markers[j]
			if animate {
				m.Advance()
			}
			p, tan, ok := scene.Sample(r.ctrl, m.Offset)
			if !ok {
				continue
			}
			angle := math.Atan2(tan.Y, tan.X) + r.rotation*0.5
			r.canvas.StrokeSquare(p, r.vp.MarkerSize, angle, markerStroke, c)
			r.grid.Insert(len(r.pos), p.X, p.Y)
			r.pos = append(r.pos, p)
		}
	}

	r.stats.Edges, r.stats.Triangles = 0, 0
	connect := drawMarkers &&
		!(moving && r.cfg.Triangles.DisableOnMovement) &&
		r.frames%uint64(max(1, r.cur.interval)) == 0
	if connect && len(r.pos) >= 2 {
		r.connect(now)
	}
	r.frames++
}

func (r *Renderer) connect(now time.Time) {
	r.edges = r.det.Connect(r.pos, r.grid, r.vp.Distance, r.shape, r.edges)
	r.stats.Edges = len(r.edges)
	if len(r.edges) == 0 {
		return
	}

	r.segs = r.segs[:0]
	for _, e := range r.edges {
		r.segs = append(r.segs, Segment{From: r.pos[e.A], To: r.pos[e.B]})
	}
	r.canvas.StrokeSegments(r.segs, r.cfg.Connections.Width, r.edgeColor)

	if !r.cfg.Triangles.Enabled {
		return
	}
	r.tris = r.det.Triangles(len(r.pos), r.edges, r.tris)
	r.tris = mesh.FilterArea(r.pos, r.tris, r.cfg.Triangles.MinArea)
	r.stats.Triangles = len(r.tris)
	if len(r.tris) == 0 {
		return
	}

	r.styled = r.styler.Decorate(r.pos, r.tris, r.rng, r.styled)
	r.bounds = mesh.Batch(r.styled, r.bounds)
	for b := 0; b+1 < len(r.bounds); b++ {
		run := r.styled[r.bounds[b]:r.bounds[b+1]]
		r.verts = r.verts[:0]
		r.dots = r.dots[:0]
		for i := range run {
			r.verts = append(r.verts, run[i].Vertices(r.pos))
			r.dots = append(r.dots, run[i].Dots[:run[i].NDots]...)
		}
		st := run[0].Style
		r.canvas.FillTriangles(r.verts, Gradient{
			From: grey(st.Grey, st.Alpha),
			To:   grey(st.End, st.Alpha),
		})
		if len(r.dots) > 0 {
			r.canvas.FillDots(r.dots, r.vp.MarkerSize*0.25, grey(st.End, math.Min(1, st.Alpha*2)))
		}
	}
	r.emit(now)
}

func (r *Renderer) emit(now time.Time) {
	if r.listener == nil || !r.triEvents.Allow(now) {
		return
	}
	best := 0
	for i := range r.styled {
		if r.styled[i].Area > r.styled[best].Area {
			best = i
		}
	}
	t := r.styled[best]
	v := t.Vertices(r.pos)
	pan := 0.0
	if r.vp.Width > 0 {
		pan = clamp((v[0].X+v[1].X+v[2].X)/3/r.vp.Width*2-1, -1, 1)
	}
	r.listener(TriangleEvent{
		Area:     t.Area,
		Alpha:    t.Alpha,
		Grey:     t.Grey,
		Vertices: v,
		Pan:      pan,
	})
}

// adapt trades complexity for frame rate once per FPS window.
func (r *Renderer) adapt() {
	if !r.cfg.Performance.Adaptive || r.lowPower {
		return
	}
	fps := r.stats.FPS
	pc := r.cfg.Performance
	switch {
	case fps < pc.LowFPS:
		lines, interval := r.cur.lines, r.cur.interval
		if r.cur.lines > pc.MinLines {
			r.cur.lines = max(pc.MinLines, r.cur.lines-2)
			r.regenerate()
		}
		if r.cur.interval < pc.MaxInterval {
			r.cur.interval++
		}
		if lines != r.cur.lines || interval != r.cur.interval {
			r.log.Info("frame rate low, reducing complexity",
				zap.Float64("fps", fps),
				zap.Int("lines", r.cur.lines),
				zap.Int("interval", r.cur.interval))
		}
	case fps > pc.HighFPS && r.cur.lines < r.base.lines:
		r.cur.lines++
		r.regenerate()
		r.log.Info("frame rate good, adding a line",
			zap.Float64("fps", fps),
			zap.Int("lines", r.cur.lines))
	}
}

// ToggleLowPower switches low-power mode and reports the new state.
func (r *Renderer) ToggleLowPower() (enabled bool, message string) {
	if !r.lowPower {
		saved := r.cur
		r.saved = &saved
		lp := config.LowPower()
		r.cur = limits{
			lines:     lp.Lines,
			perLine:   lp.PerLine,
			interval:  lp.Interval,
			targetFPS: lp.TargetFPS,
		}
		r.lowPower = true
		message = "low power mode enabled"
	} else {
		if r.saved != nil {
			r.cur = *r.saved
		} else {
			r.cur = r.base
		}
		r.saved = nil
		r.lowPower = false
		message = "normal mode restored"
	}
	if !r.disabled {
		r.regenerate()
	}
	r.log.Info(message, zap.Int("lines", r.cur.lines), zap.Float64("target_fps", r.cur.targetFPS))
	return r.lowPower, message
}

// Status returns a diagnostics snapshot.
func (r *Renderer) Status() Status {
	return Status{
		Width:         r.vp.Width,
		Height:        r.vp.Height,
		DPR:           r.vp.DPR,
		Scale:         r.vp.Scale,
		FPS:           r.stats.FPS,
		Lines:         len(r.lines),
		PerLine:       r.cur.perLine,
		Interval:      r.cur.interval,
		TargetFPS:     r.cur.targetFPS,
		LowPower:      r.lowPower,
		ReducedMotion: r.reduced,
		Running:       r.Running(),
		Disabled:      r.disabled,
		Drawn:         r.stats.Drawn,
		Skipped:       r.stats.Skipped,
		Failures:      r.stats.Failures,
		Edges:         r.stats.Edges,
		Triangles:     r.stats.Triangles,
	}
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(clamp(a, 0, 1) * 255))
	return c
}

func rgb(s string, a float64) color.NRGBA {
	c := config.MustRGB(s)
	return withAlpha(color.NRGBA{R: c.R, G: c.G, B: c.B}, a)
}

func grey(v uint8, a float64) color.NRGBA {
	return withAlpha(color.NRGBA{R: v, G: v, B: v}, a)
}

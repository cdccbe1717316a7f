// Package game hosts the background renderer in an ebiten window.
package game

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/iburimskiy/wavy-background/internal/config"
	"github.com/iburimskiy/wavy-background/internal/render"
)

const (
	frameRingSize = 512
	wheelStep     = 40.0
	messageHold   = 2 * time.Second
)

// Options configures a Game.
type Options struct {
	// Updates delivers reloaded configurations; drained between frames.
	Updates <-chan *config.Config
	// ConfigPath is reloaded when a file is picked with the O key.
	ConfigPath string
	Profile    string
	ShowStatus bool
	// ReducedMotion forces reduced motion on, across config reloads, until
	// toggled off with the R key.
	ReducedMotion bool
	Listener      render.TriangleListener
}

// Game implements ebiten.Game around a render.Renderer.
type Game struct {
	cfg      *config.Config
	log      *zap.Logger
	opts     Options
	surface  *Surface
	renderer *render.Renderer
	sched    *render.FrameScheduler

	tap        *frameTap
	resize     resizer
	started    time.Time
	lastUpdate time.Time
	scrollY    float64
	scrollMax  float64

	showStatus   bool
	message      string
	messageUntil time.Time
}

// New creates the game and its renderer. The surface starts at w×h and
// follows the window size from the first Layout on.
func New(cfg *config.Config, log *zap.Logger, w, h int, opts Options) (*Game, error) {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Game{
		cfg:        cfg,
		log:        log.Named("game"),
		opts:       opts,
		sched:      render.NewFrameScheduler(),
		tap:        newFrameTap(frameRingSize),
		showStatus: opts.ShowStatus,
		resize:     resizer{delay: cfg.Performance.ResizeThrottle},
	}

	ropts := []render.Option{
		render.WithLogger(log),
		render.WithSurfaceFactory(func() (render.Surface, error) {
			g.surface = NewSurface(w, h)
			return g.surface, nil
		}),
	}
	if opts.Listener != nil {
		ropts = append(ropts, render.WithTriangleListener(opts.Listener))
	}
	r, err := render.New(cfg, nil, ropts...)
	if err != nil {
		return nil, err
	}
	g.renderer = r
	if opts.ReducedMotion {
		r.SetReducedMotion(true, time.Now())
	}
	g.resize.applied = viewportSize{w: w, h: h, dpr: 1}
	g.scrollMax = float64(h) * 4
	return g, nil
}

// Renderer exposes the hosted renderer.
func (g *Game) Renderer() *render.Renderer { return g.renderer }

// Start begins the render loop. Call before ebiten.RunGame.
func (g *Game) Start() {
	g.started = time.Now()
	g.renderer.Start(g.sched)
}

func (g *Game) Update() error {
	now := time.Now()
	if !g.lastUpdate.IsZero() {
		g.tap.record(now.Sub(g.lastUpdate))
	}
	g.lastUpdate = now

	g.drainUpdates()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	g.handleInput(now)

	if s, ok := g.resize.take(now); ok {
		g.renderer.Resize(float64(s.w), float64(s.h), s.dpr)
	}

	g.sched.Run(now)
	return nil
}

func (g *Game) drainUpdates() {
	for {
		select {
		case cfg, ok := <-g.opts.Updates:
			if !ok {
				g.opts.Updates = nil
				return
			}
			g.apply(cfg)
		default:
			return
		}
	}
}

func (g *Game) apply(cfg *config.Config) {
	g.cfg = cfg
	g.resize.delay = cfg.Performance.ResizeThrottle
	g.renderer.Reconfigure(cfg)
	if g.opts.ReducedMotion {
		g.renderer.SetReducedMotion(true, time.Now())
	}
	g.flash("configuration reloaded", time.Now())
}

func (g *Game) handleInput(now time.Time) {
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.scroll(-dy*wheelStep, now)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) || inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		g.scroll(wheelStep*4, now)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) || inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		g.scroll(-wheelStep*4, now)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		_, msg := g.renderer.ToggleLowPower()
		g.flash(msg, now)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		on := !g.renderer.Status().ReducedMotion
		g.renderer.SetReducedMotion(on, now)
		g.opts.ReducedMotion = on
		g.flash("reduced motion "+onOff(on), now)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.showStatus = !g.showStatus
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.pickConfig(now)
	}
}

func (g *Game) scroll(dy float64, now time.Time) {
	y := g.scrollY + dy
	if y < 0 {
		y = 0
	}
	if y > g.scrollMax {
		y = g.scrollMax
	}
	if g.renderer.SetScroll(y, now) {
		g.scrollY = y
	}
}

func (g *Game) pickConfig(now time.Time) {
	path, err := PickConfigFile()
	if err != nil {
		g.log.Error("config dialog failed", zap.Error(err))
		g.flash("error: "+err.Error(), now)
		return
	}
	if path == "" {
		return
	}
	cfg, err := config.Load(path, g.opts.Profile)
	if err != nil {
		g.log.Error("config rejected", zap.String("path", path), zap.Error(err))
		g.flash("error: "+err.Error(), now)
		return
	}
	g.log.Info("config loaded", zap.String("path", path))
	g.opts.ConfigPath = path
	g.apply(cfg)
}

func (g *Game) flash(msg string, now time.Time) {
	g.message = msg
	g.messageUntil = now.Add(messageHold)
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.surface != nil && !g.renderer.Disabled() {
		src := g.surface.Image()
		sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
		dw, dh := screen.Bounds().Dx(), screen.Bounds().Dy()
		op := &ebiten.DrawImageOptions{}
		if sw > 0 && sh > 0 {
			op.GeoM.Scale(float64(dw)/float64(sw), float64(dh)/float64(sh))
		}
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(src, op)
	}

	now := time.Now()
	if g.showStatus || g.renderer.Disabled() {
		st := g.renderer.Status()
		lines := statusLines(st, now.Sub(g.started), g.tap.mean())
		if err := g.renderer.Err(); err != nil {
			lines = append(lines, "error: "+err.Error())
		}
		drawStatus(screen, lines)
		drawFrameBar(screen, g.tap.snapshot(barSamples), g.cfg.FrameInterval())
	}
	if g.message != "" && now.Before(g.messageUntil) {
		ebitenutil.DebugPrintAt(screen, g.message, barMargin, screen.Bounds().Dy()-barHeight-barMargin-20)
	}
}

// Layout reports the screen in device pixels so the backing store can match
// the display density. Size changes are applied after the resize delay.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := ebiten.Monitor().DeviceScaleFactor()
	if dpr <= 0 {
		dpr = 1
	}
	if g.resize.request(viewportSize{w: outsideWidth, h: outsideHeight, dpr: dpr}, time.Now()) {
		g.log.Debug("window resized",
			zap.Int("width", outsideWidth),
			zap.Int("height", outsideHeight),
			zap.Float64("dpr", dpr))
		g.scrollMax = float64(outsideHeight) * 4
	}
	return int(float64(outsideWidth) * dpr), int(float64(outsideHeight) * dpr)
}

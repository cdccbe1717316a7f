package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iburimskiy/wavy-background/internal/config"
	"github.com/iburimskiy/wavy-background/internal/game"
	"github.com/iburimskiy/wavy-background/internal/render"
)

var (
	windowWidth   int
	windowHeight  int
	pickConfig    bool
	reducedMotion bool
	showStatus    bool
	watchConfig   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open a window and animate the background",
	Long: `Opens a resizable window. The configuration file given with --config is
watched and reapplied when it changes on disk.`,
	RunE: runWindow,
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&windowWidth, "width", 1280, "window width")
	f.IntVar(&windowHeight, "height", 720, "window height")
	f.BoolVar(&pickConfig, "pick-config", false, "choose the configuration file with a dialog")
	f.BoolVar(&reducedMotion, "reduced-motion", false, "draw one static frame instead of animating")
	f.BoolVar(&showStatus, "status", false, "show the diagnostics overlay")
	f.BoolVar(&watchConfig, "watch", true, "reload the configuration file when it changes")
}

func runWindow(cmd *cobra.Command, args []string) error {
	if pickConfig {
		path, err := game.PickConfigFile()
		if err != nil {
			return fmt.Errorf("pick config: %w", err)
		}
		if path != "" {
			loaded, err := config.Load(path, profile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			configPath, cfg = path, loaded
		}
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	opts := game.Options{
		ConfigPath:    configPath,
		Profile:       profile,
		ShowStatus:    showStatus,
		ReducedMotion: reducedMotion,
		Listener:      triangleLogger(logger),
	}
	if configPath != "" && watchConfig {
		w, err := config.NewWatcher(configPath, profile, logger)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
		opts.Updates = w.Updates()
	}

	g, err := game.New(cfg, logger, windowWidth, windowHeight, opts)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	if g.Renderer().Disabled() {
		logger.Warn("renderer disabled, showing diagnostics only", zap.Error(g.Renderer().Err()))
	}

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Wavy Background - L: low power, R: reduced motion, D: status, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ebiten.SyncWithFPS)

	logger.Info("starting",
		zap.String("profile", cfg.Profile),
		zap.String("config", configPath),
		zap.Int("width", windowWidth),
		zap.Int("height", windowHeight))

	g.Start()
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	logger.Info("stopped", zap.Uint64("frames", g.Renderer().Status().Drawn))
	return nil
}

// triangleLogger reports filled triangles at debug level; a sound layer
// would subscribe here.
func triangleLogger(log *zap.Logger) render.TriangleListener {
	if !log.Core().Enabled(zap.DebugLevel) {
		return nil
	}
	return func(e render.TriangleEvent) {
		log.Debug("triangle",
			zap.Float64("area", e.Area),
			zap.Float64("alpha", e.Alpha),
			zap.Uint8("grey", e.Grey),
			zap.Float64("pan", e.Pan))
	}
}

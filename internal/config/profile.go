package config

import (
	"fmt"
	"time"
)

// Profile names.
const (
	ProfileDesktop       = "desktop"
	ProfileMobile        = "mobile"
	ProfileReducedMotion = "reduced-motion"
	ProfileLowPower      = "low-power"
)

// Profiles lists the built-in profile names.
var Profiles = []string{ProfileDesktop, ProfileMobile, ProfileReducedMotion, ProfileLowPower}

// Profile returns a fresh copy of the named built-in profile.
// The empty name selects the desktop profile.
func Profile(name string) (*Config, error) {
	cfg := DefaultConfig()
	switch name {
	case "", ProfileDesktop:
		return cfg, nil
	case ProfileMobile:
		applyMobile(cfg)
	case ProfileReducedMotion:
		cfg.Performance.ReducedMotion = true
	case ProfileLowPower:
		applyMobile(cfg)
		applyLowPower(cfg)
	default:
		return nil, fmt.Errorf("unknown profile %q (valid: %v)", name, Profiles)
	}
	cfg.Profile = name
	return cfg, nil
}

// applyMobile mirrors the lighter settings used on small touch devices.
func applyMobile(cfg *Config) {
	cfg.Lines.Count = 8
	cfg.Lines.Points = IntRange{Min: 3, Max: 4}
	cfg.Lines.Amplitude = Range{Min: 25, Max: 100}
	cfg.Lines.Thickness = Range{Min: 1, Max: 2}
	cfg.Lines.PointSpeed = Range{Min: 0.3, Max: 0.6}
	cfg.Lines.Opacity = 1
	cfg.Lines.Color = "50, 50, 50"

	cfg.Markers.PerLine = 5
	cfg.Markers.Speed = Range{Min: 0.0001, Max: 0.0006}

	cfg.Connections.Distance = 60
	cfg.Connections.CellSize = 120
	cfg.Connections.Shape = ShapePlus
	cfg.Connections.Interval = 3

	cfg.Triangles.Alpha = Range{Min: 0.1, Max: 0.3}
	cfg.Triangles.DisableOnMovement = true

	cfg.Viewport.MaxDPR = 1

	cfg.Performance.TargetFPS = 30
	cfg.Performance.ScrollThrottle = 32 * time.Millisecond
	cfg.Performance.ResizeThrottle = 200 * time.Millisecond
	cfg.Performance.Smooth = true
}

func applyLowPower(cfg *Config) {
	cfg.Lines.Count = 5
	cfg.Markers.PerLine = 2
	cfg.Connections.Interval = 6
	cfg.Performance.TargetFPS = 20
	cfg.Performance.LowPower = true
	cfg.Performance.Smooth = false
}

// LowPowerLimits are the counts the renderer drops to when low-power mode is toggled on.
type LowPowerLimits struct {
	Lines     int
	PerLine   int
	Interval  int
	TargetFPS float64
}

// LowPower returns the limits of the low-power profile.
func LowPower() LowPowerLimits {
	cfg, _ := Profile(ProfileLowPower)
	return LowPowerLimits{
		Lines:     cfg.Lines.Count,
		PerLine:   cfg.Markers.PerLine,
		Interval:  cfg.Connections.Interval,
		TargetFPS: cfg.Performance.TargetFPS,
	}
}

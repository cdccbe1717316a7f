package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Neighbourhood shapes for the spatial grid query.
const (
	ShapeFull = "full" // own cell + 8 neighbours
	ShapePlus = "plus" // own cell + 4 orthogonal neighbours
)

// Config holds every tunable knob of the background renderer.
// A loaded Config is treated as immutable; reconfiguration swaps the pointer.
type Config struct {
	Profile string `yaml:"profile"`

	Lines       LinesConfig       `yaml:"lines"`
	Markers     MarkersConfig     `yaml:"markers"`
	Connections ConnectionsConfig `yaml:"connections"`
	Triangles   TrianglesConfig   `yaml:"triangles"`
	Wave        WaveConfig        `yaml:"wave"`
	Viewport    ViewportConfig    `yaml:"viewport"`
	Performance PerformanceConfig `yaml:"performance"`
	Events      EventsConfig      `yaml:"events"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// Range is a half-open [Min, Max) interval of floats.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Span returns Max-Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// IntRange is an inclusive [Min, Max] interval of ints.
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// LinesConfig configures the wavy lines.
type LinesConfig struct {
	Count      int      `yaml:"count"`
	Points     IntRange `yaml:"points"`
	Amplitude  Range    `yaml:"amplitude"`
	Thickness  Range    `yaml:"thickness"`
	PointSpeed Range    `yaml:"point_speed"`
	Opacity    float64  `yaml:"opacity"`
	Color      string   `yaml:"color"` // "r, g, b"
}

// MarkersConfig configures the cubes travelling along each line.
type MarkersConfig struct {
	Size          float64 `yaml:"size"`
	PerLine       int     `yaml:"per_line"`
	Speed         Range   `yaml:"speed"`
	Jitter        float64 `yaml:"jitter"`
	RotationSpeed float64 `yaml:"rotation_speed"`
}

// ConnectionsConfig configures proximity edges between markers.
type ConnectionsConfig struct {
	Distance float64 `yaml:"distance"`
	CellSize float64 `yaml:"cell_size"`
	Shape    string  `yaml:"shape"`
	Width    float64 `yaml:"width"`
	Color    string  `yaml:"color"`
	Alpha    float64 `yaml:"alpha"`
	// Interval computes connections every N drawn frames.
	Interval int `yaml:"interval"`
}

// TrianglesConfig configures triangle fills between mutually connected markers.
type TrianglesConfig struct {
	Enabled           bool     `yaml:"enabled"`
	MinArea           float64  `yaml:"min_area"`
	Alpha             Range    `yaml:"alpha"`
	Grey              IntRange `yaml:"grey"`
	GradientDrop      int      `yaml:"gradient_drop"`
	DecorationArea    float64  `yaml:"decoration_area"`
	DisableOnMovement bool     `yaml:"disable_on_movement"`
}

// WaveConfig holds the spatial and temporal frequencies of the displacement terms.
type WaveConfig struct {
	ScrollFreq    float64 `yaml:"scroll_freq"`    // k1
	ScrollSpatial float64 `yaml:"scroll_spatial"` // k2
	IdleSpatial   float64 `yaml:"idle_spatial"`   // k3
	DriftSpatial  float64 `yaml:"drift_spatial"`  // k4
	TimeStep      float64 `yaml:"time_step"`      // animation time added per drawn frame
}

// ViewportConfig configures responsive scaling.
type ViewportConfig struct {
	RefWidth   float64 `yaml:"ref_width"`
	RefHeight  float64 `yaml:"ref_height"`
	MinScale   float64 `yaml:"min_scale"`
	MaxScale   float64 `yaml:"max_scale"`
	MaxDPR     float64 `yaml:"max_dpr"`
	Background string  `yaml:"background"`
}

// PerformanceConfig configures throttling and adaptive complexity.
type PerformanceConfig struct {
	TargetFPS      float64       `yaml:"target_fps"`
	ScrollThrottle time.Duration `yaml:"scroll_throttle"`
	ResizeThrottle time.Duration `yaml:"resize_throttle"`
	MovingHold     time.Duration `yaml:"moving_hold"`
	RecoverDelay   time.Duration `yaml:"recover_delay"`
	Smooth         bool          `yaml:"smooth"`
	ReducedMotion  bool          `yaml:"reduced_motion"`
	LowPower       bool          `yaml:"low_power"`
	Adaptive       bool          `yaml:"adaptive"`
	LowFPS         float64       `yaml:"low_fps"`
	HighFPS        float64       `yaml:"high_fps"`
	MinLines       int           `yaml:"min_lines"`
	MaxInterval    int           `yaml:"max_interval"`
}

// EventsConfig configures the triangle hand-off to external listeners.
type EventsConfig struct {
	TriangleInterval time.Duration `yaml:"triangle_interval"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the desktop profile.
func DefaultConfig() *Config {
	return &Config{
		Profile: ProfileDesktop,
		Lines: LinesConfig{
			Count:      15,
			Points:     IntRange{Min: 3, Max: 5},
			Amplitude:  Range{Min: 15, Max: 80},
			Thickness:  Range{Min: 0.3, Max: 1},
			PointSpeed: Range{Min: 0.3, Max: 0.6},
			Opacity:    0.8,
			Color:      "120, 120, 120",
		},
		Markers: MarkersConfig{
			Size:          4,
			PerLine:       5,
			Speed:         Range{Min: 0.0001, Max: 0.0006},
			Jitter:        0.1,
			RotationSpeed: 0.01,
		},
		Connections: ConnectionsConfig{
			Distance: 60,
			CellSize: 100,
			Shape:    ShapeFull,
			Width:    0.5,
			Color:    "10, 10, 10",
			Alpha:    0.2,
			Interval: 1,
		},
		Triangles: TrianglesConfig{
			Enabled:           true,
			MinArea:           3000,
			Alpha:             Range{Min: 0.1, Max: 0.3},
			Grey:              IntRange{Min: 0, Max: 200},
			GradientDrop:      20,
			DecorationArea:    6000,
			DisableOnMovement: false,
		},
		Wave: WaveConfig{
			ScrollFreq:    0.002,
			ScrollSpatial: 0.0015,
			IdleSpatial:   0.002,
			DriftSpatial:  0.003,
			TimeStep:      0.01,
		},
		Viewport: ViewportConfig{
			RefWidth:   1920,
			RefHeight:  1080,
			MinScale:   0.5,
			MaxScale:   1.5,
			MaxDPR:     2,
			Background: "255, 255, 255",
		},
		Performance: PerformanceConfig{
			TargetFPS:      60,
			ScrollThrottle: 16 * time.Millisecond,
			ResizeThrottle: 100 * time.Millisecond,
			MovingHold:     300 * time.Millisecond,
			RecoverDelay:   2 * time.Second,
			Smooth:         true,
			Adaptive:       true,
			LowFPS:         20,
			HighFPS:        45,
			MinLines:       5,
			MaxInterval:    6,
		},
		Events: EventsConfig{
			TriangleInterval: 300 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML file on top of the named profile's defaults.
// An empty profile falls back to the file's profile key, then WAVY_PROFILE, then desktop.
// A missing file yields the profile defaults.
func Load(path, profile string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if profile == "" && len(data) > 0 {
		var head struct {
			Profile string `yaml:"profile"`
		}
		if err := yaml.Unmarshal(data, &head); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		profile = head.Profile
	}
	if profile == "" {
		profile = os.Getenv("WAVY_PROFILE")
	}

	cfg, err := Profile(profile)
	if err != nil {
		return nil, err
	}

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		// The profile key in the file never overrides the resolved one.
		cfg.Profile = profile
		if cfg.Profile == "" {
			cfg.Profile = ProfileDesktop
		}
	}

	cfg.applyEnvOverrides()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if lvl := os.Getenv("WAVY_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
	if fps := os.Getenv("WAVY_TARGET_FPS"); fps != "" {
		if v, err := strconv.ParseFloat(fps, 64); err == nil && v > 0 {
			c.Performance.TargetFPS = v
		}
	}
	if os.Getenv("WAVY_REDUCED_MOTION") == "1" {
		c.Performance.ReducedMotion = true
	}
}

// normalize enforces derived invariants. Keys missing from a file already
// hold the profile defaults, so explicit zeros are kept and left to Validate.
func (c *Config) normalize() {
	def, err := Profile(c.Profile)
	if err != nil {
		def = DefaultConfig()
	}
	fillString(&c.Logging.Level, def.Logging.Level)
	fillString(&c.Logging.Format, def.Logging.Format)

	if c.Lines.Points.Min > c.Lines.Points.Max {
		c.Lines.Points.Min, c.Lines.Points.Max = c.Lines.Points.Max, c.Lines.Points.Min
	}
	// A 3x3 neighbourhood scan only sees every true neighbour when a cell is at
	// least one connection distance wide.
	if c.Connections.CellSize < c.Connections.Distance {
		c.Connections.CellSize = c.Connections.Distance
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error
	if c.Lines.Count < 1 {
		errs = append(errs, fmt.Errorf("lines.count must be positive, got %d", c.Lines.Count))
	}
	if c.Lines.Points.Min < 2 {
		errs = append(errs, fmt.Errorf("lines.points.min must be at least 2, got %d", c.Lines.Points.Min))
	}
	for name, r := range map[string]Range{
		"lines.amplitude":   c.Lines.Amplitude,
		"lines.thickness":   c.Lines.Thickness,
		"lines.point_speed": c.Lines.PointSpeed,
		"markers.speed":     c.Markers.Speed,
		"triangles.alpha":   c.Triangles.Alpha,
	} {
		if r.Min > r.Max {
			errs = append(errs, fmt.Errorf("%s: min %.4g exceeds max %.4g", name, r.Min, r.Max))
		}
		if r.Min < 0 {
			errs = append(errs, fmt.Errorf("%s: min must not be negative, got %g", name, r.Min))
		}
	}
	for name, v := range map[string]float64{
		"lines.opacity":     c.Lines.Opacity,
		"connections.alpha": c.Connections.Alpha,
		"triangles.alpha":   c.Triangles.Alpha.Max,
	} {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0,1], got %g", name, v))
		}
	}
	if c.Markers.Size <= 0 {
		errs = append(errs, fmt.Errorf("markers.size must be positive, got %g", c.Markers.Size))
	}
	if c.Markers.PerLine < 1 {
		errs = append(errs, fmt.Errorf("markers.per_line must be positive, got %d", c.Markers.PerLine))
	}
	if c.Connections.Width < 0 {
		errs = append(errs, fmt.Errorf("connections.width must not be negative, got %g", c.Connections.Width))
	}
	if c.Connections.Interval < 1 {
		errs = append(errs, fmt.Errorf("connections.interval must be at least 1, got %d", c.Connections.Interval))
	}
	if c.Wave.TimeStep < 0 {
		errs = append(errs, fmt.Errorf("wave.time_step must not be negative, got %g", c.Wave.TimeStep))
	}
	if c.Connections.Distance <= 0 {
		errs = append(errs, fmt.Errorf("connections.distance must be positive, got %g", c.Connections.Distance))
	}
	if c.Connections.CellSize < c.Connections.Distance {
		errs = append(errs, fmt.Errorf("connections.cell_size %g is smaller than distance %g", c.Connections.CellSize, c.Connections.Distance))
	}
	if c.Connections.Shape != ShapeFull && c.Connections.Shape != ShapePlus {
		errs = append(errs, fmt.Errorf("connections.shape must be %q or %q, got %q", ShapeFull, ShapePlus, c.Connections.Shape))
	}
	if c.Triangles.MinArea < 0 {
		errs = append(errs, fmt.Errorf("triangles.min_area must not be negative, got %g", c.Triangles.MinArea))
	}
	if c.Triangles.Grey.Min < 0 || c.Triangles.Grey.Max > 255 || c.Triangles.Grey.Min > c.Triangles.Grey.Max {
		errs = append(errs, fmt.Errorf("triangles.grey must satisfy 0 <= min <= max <= 255, got [%d,%d]", c.Triangles.Grey.Min, c.Triangles.Grey.Max))
	}
	if c.Viewport.RefWidth <= 0 || c.Viewport.RefHeight <= 0 {
		errs = append(errs, fmt.Errorf("viewport: reference size must be positive, got %gx%g", c.Viewport.RefWidth, c.Viewport.RefHeight))
	}
	if c.Viewport.MinScale <= 0 {
		errs = append(errs, fmt.Errorf("viewport.min_scale must be positive, got %g", c.Viewport.MinScale))
	}
	if c.Viewport.MaxDPR <= 0 {
		errs = append(errs, fmt.Errorf("viewport.max_dpr must be positive, got %g", c.Viewport.MaxDPR))
	}
	if c.Viewport.MinScale > c.Viewport.MaxScale {
		errs = append(errs, fmt.Errorf("viewport: min_scale %g exceeds max_scale %g", c.Viewport.MinScale, c.Viewport.MaxScale))
	}
	if c.Performance.TargetFPS <= 0 {
		errs = append(errs, fmt.Errorf("performance.target_fps must be positive, got %g", c.Performance.TargetFPS))
	}
	if c.Performance.RecoverDelay <= 0 {
		errs = append(errs, fmt.Errorf("performance.recover_delay must be positive, got %s", c.Performance.RecoverDelay))
	}
	if c.Performance.MinLines < 1 || c.Performance.MaxInterval < 1 {
		errs = append(errs, fmt.Errorf("performance: min_lines and max_interval must be at least 1, got %d and %d", c.Performance.MinLines, c.Performance.MaxInterval))
	}
	for name, s := range map[string]string{
		"lines.color":         c.Lines.Color,
		"connections.color":   c.Connections.Color,
		"viewport.background": c.Viewport.Background,
	} {
		if _, err := ParseRGB(s); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// FrameInterval returns the minimum time between two drawn frames.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.Performance.TargetFPS)
}

// ParseRGB parses an "r, g, b" triplet into an opaque color.
func ParseRGB(s string) (color.RGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("color %q: want \"r, g, b\"", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return color.RGBA{}, fmt.Errorf("color %q: component %q out of range", s, strings.TrimSpace(p))
		}
		rgb[i] = uint8(v)
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}

// MustRGB is ParseRGB for values that already passed Validate.
func MustRGB(s string) color.RGBA {
	c, err := ParseRGB(s)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return c
}

func fillString(dst *string, def string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = def
	}
}


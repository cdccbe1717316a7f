package render

import (
	"math"

	"github.com/iburimskiy/wavy-background/internal/config"
)

// Viewport holds the size-dependent parameters derived for one canvas size.
type Viewport struct {
	Width, Height float64 // CSS units
	DPR           float64
	Scale         float64

	MarkerSize float64
	Lines      int
	PerLine    int
	Distance   float64
	CellSize   float64
}

// NewViewport scales the size-dependent knobs of cfg against the reference
// resolution. The scale factor is clamped to [MinScale, MaxScale] and the
// device pixel ratio to (0, MaxDPR].
func NewViewport(cfg *config.Config, w, h, dpr float64) Viewport {
	vc := cfg.Viewport

	scale := 1.0
	if vc.RefWidth > 0 && vc.RefHeight > 0 && w > 0 && h > 0 {
		scale = math.Min(w/vc.RefWidth, h/vc.RefHeight)
	}
	scale = clamp(scale, vc.MinScale, vc.MaxScale)

	if dpr <= 0 || math.IsNaN(dpr) {
		dpr = 1
	}
	if vc.MaxDPR > 0 && dpr > vc.MaxDPR {
		dpr = vc.MaxDPR
	}

	dist := cfg.Connections.Distance * scale
	return Viewport{
		Width:      w,
		Height:     h,
		DPR:        dpr,
		Scale:      scale,
		MarkerSize: cfg.Markers.Size * scale,
		Lines:      max(1, int(math.Round(float64(cfg.Lines.Count)*scale))),
		PerLine:    max(1, int(math.Round(float64(cfg.Markers.PerLine)*scale))),
		Distance:   dist,
		CellSize:   math.Max(cfg.Connections.CellSize*scale, dist),
	}
}

// Backing returns the backing store size in device pixels.
func (v Viewport) Backing() (int, int) {
	return int(math.Round(v.Width * v.DPR)), int(math.Round(v.Height * v.DPR))
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

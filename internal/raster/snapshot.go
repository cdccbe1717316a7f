package raster

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iburimskiy/wavy-background/internal/config"
	"github.com/iburimskiy/wavy-background/internal/render"
)

// SnapshotOptions drives Snapshot.
type SnapshotOptions struct {
	Width, Height int // CSS units
	DPR           float64
	Frames        int
	Interval      time.Duration
	Dir           string
	Prefix        string
	Seed          uint64
	// Start is the time of the first frame. Zero means time.Now.
	Start time.Time
}

// Snapshot renders opts.Frames frames without a window and writes them as PNG
// files into opts.Dir. Frames are rendered sequentially on a simulated clock
// while encoding runs in parallel. It returns the written paths in order.
func Snapshot(ctx context.Context, cfg *config.Config, log *zap.Logger, opts SnapshotOptions) ([]string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Frames <= 0 {
		return nil, fmt.Errorf("snapshot: frames must be positive, got %d", opts.Frames)
	}
	if opts.Interval <= 0 {
		opts.Interval = cfg.FrameInterval()
	}
	if opts.Prefix == "" {
		opts.Prefix = "frame"
	}
	if opts.DPR <= 0 {
		opts.DPR = 1
	}
	start := opts.Start
	if start.IsZero() {
		start = time.Now()
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	surface := NewSurface(opts.Width, opts.Height)
	r, err := render.New(cfg, surface,
		render.WithLogger(log),
		render.WithRand(rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5851f42d4c957f2d))),
	)
	if err != nil {
		return nil, err
	}
	if r.Disabled() {
		return nil, r.Err()
	}
	r.Resize(float64(opts.Width), float64(opts.Height), opts.DPR)

	sched := render.NewFrameScheduler()
	r.Start(sched)
	defer r.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	paths := make([]string, opts.Frames)
	for i := range opts.Frames {
		if err := gctx.Err(); err != nil {
			break
		}
		sched.Run(start.Add(time.Duration(i) * opts.Interval))

		frame := cloneRGBA(surface.Image())
		path := filepath.Join(opts.Dir, fmt.Sprintf("%s-%04d.png", opts.Prefix, i))
		paths[i] = path
		g.Go(func() error {
			return WritePNG(path, frame)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st := r.Status()
	log.Info("snapshot written",
		zap.String("dir", opts.Dir),
		zap.Int("frames", opts.Frames),
		zap.Uint64("drawn", st.Drawn),
		zap.Uint64("skipped", st.Skipped),
		zap.Uint64("failures", st.Failures))
	return paths, nil
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

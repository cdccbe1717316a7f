package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/wavy-background/internal/render"
)

const (
	barSamples = 120
	barHeight  = 40
	barWidth   = 240
	barMargin  = 12
)

// statusLines renders the diagnostics overlay text.
func statusLines(st render.Status, uptime, frame time.Duration) []string {
	lines := []string{
		fmt.Sprintf("%.0fx%.0f @%.2g  scale %.2f  up %s", st.Width, st.Height, st.DPR, st.Scale, formatDuration(uptime)),
		fmt.Sprintf("fps %.1f / %.0f  frame %.1fms", st.FPS, st.TargetFPS, float64(frame)/float64(time.Millisecond)),
		fmt.Sprintf("lines %d  cubes/line %d  every %d frames", st.Lines, st.PerLine, st.Interval),
		fmt.Sprintf("edges %d  triangles %d", st.Edges, st.Triangles),
		fmt.Sprintf("drawn %d  skipped %d  failures %d", st.Drawn, st.Skipped, st.Failures),
		fmt.Sprintf("low power %s  reduced motion %s", onOff(st.LowPower), onOff(st.ReducedMotion)),
	}
	if st.Disabled {
		lines = append(lines, "renderer disabled")
	}
	return lines
}

func drawStatus(screen *ebiten.Image, lines []string) {
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, barMargin, barMargin+i*16)
	}
}

// drawFrameBar plots recent frame durations against the frame budget; a bar
// at full height took twice the budget or more.
func drawFrameBar(screen *ebiten.Image, samples []time.Duration, budget time.Duration) {
	if len(samples) == 0 || budget <= 0 {
		return
	}
	h := screen.Bounds().Dy()
	x0 := float32(barMargin)
	y0 := float32(h - barHeight - barMargin)

	vector.DrawFilledRect(screen, x0, y0, barWidth, barHeight, color.RGBA{R: 20, G: 25, B: 35, A: 160}, false)
	vector.StrokeRect(screen, x0, y0, barWidth, barHeight, 1, color.RGBA{R: 60, G: 70, B: 90, A: 255}, false)

	seg := float32(barWidth) / barSamples
	for i, d := range samples {
		ratio := clamp01(float64(d) / float64(2*budget))
		segH := max(float32(ratio*barHeight), 1)
		c := color.RGBA{R: 90, G: 160, B: 110, A: 220}
		if d > budget {
			c = color.RGBA{R: 200, G: 90, B: 80, A: 220}
		}
		vector.DrawFilledRect(screen, x0+float32(i)*seg, y0+barHeight-segH, seg, segH, c, false)
	}

	mid := y0 + barHeight/2
	vector.StrokeLine(screen, x0, mid, x0+barWidth, mid, 1, color.RGBA{R: 100, G: 110, B: 130, A: 140}, false)
}

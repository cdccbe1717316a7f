package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/wavy-background/internal/render"
)

// Surface is an offscreen ebiten image the renderer paints into. The game
// blits it onto the screen every Draw.
type Surface struct {
	img    *ebiten.Image
	canvas *canvas
}

var _ render.Surface = (*Surface)(nil)

// NewSurface allocates a w×h surface.
func NewSurface(w, h int) *Surface {
	s := &Surface{img: ebiten.NewImage(max(w, 1), max(h, 1))}
	s.canvas = &canvas{surface: s, scale: 1}
	return s
}

// Size returns the backing store size in device pixels.
func (s *Surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// SetSize reallocates the backing store. The old image is released.
func (s *Surface) SetSize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if cw, ch := s.Size(); cw == w && ch == h {
		return
	}
	s.img.Deallocate()
	s.img = ebiten.NewImage(w, h)
}

// Context returns the canvas bound to this surface.
func (s *Surface) Context() (render.Canvas, error) {
	return s.canvas, nil
}

// Image returns the current backing image.
func (s *Surface) Image() *ebiten.Image { return s.img }

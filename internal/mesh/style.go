package mesh

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/iburimskiy/wavy-background/internal/scene"
)

// MaxDots is the most decoration dots a triangle can carry.
const MaxDots = 3

// Style is the fill of one triangle: a linear gradient from Grey to End.
type Style struct {
	Grey  uint8
	End   uint8
	Alpha float64 // quantized to 1/100
}

// Bucket identifies triangles sharing the same fill state.
type Bucket struct {
	Grey     uint8
	AlphaPct int
}

// Bucket returns the grouping key of s.
func (s Style) Bucket() Bucket {
	return Bucket{Grey: s.Grey, AlphaPct: int(math.Round(s.Alpha * 100))}
}

// Styler draws random triangle styles.
type Styler struct {
	GreyMin, GreyMax int
	AlphaMin         float64
	AlphaMax         float64
	Drop             int
	DecorationArea   float64
}

// Styled is a triangle ready to fill.
type Styled struct {
	Triangle
	Style
	Dots  [MaxDots]scene.Point
	NDots int
}

// Style draws a style for one triangle.
func (s Styler) Style(rng *rand.Rand) Style {
	lo, hi := s.GreyMin, s.GreyMax
	if hi < lo {
		lo, hi = hi, lo
	}
	grey := lo + rng.IntN(hi-lo+1)

	alpha := s.AlphaMin
	if s.AlphaMax > s.AlphaMin {
		alpha += rng.Float64() * (s.AlphaMax - s.AlphaMin)
	}
	alpha = math.Round(alpha*100) / 100

	return Style{
		Grey:  uint8(grey),
		End:   uint8(max(grey-s.Drop, 0)),
		Alpha: alpha,
	}
}

// Decorate styles every triangle and appends the result to dst[:0]. Triangles
// at least DecorationArea large get 1..MaxDots random interior dots.
func (s Styler) Decorate(pts []scene.Point, tris []Triangle, rng *rand.Rand, dst []Styled) []Styled {
	dst = dst[:0]
	for _, t := range tris {
		st := Styled{Triangle: t, Style: s.Style(rng)}
		if s.DecorationArea > 0 && t.Area >= s.DecorationArea {
			st.NDots = 1 + rng.IntN(MaxDots)
			v := t.Vertices(pts)
			for i := 0; i < st.NDots; i++ {
				st.Dots[i] = interior(v, rng)
			}
		}
		dst = append(dst, st)
	}
	return dst
}

// Batch orders styled triangles so equal buckets are contiguous and returns
// the run boundaries: run i spans styled[bounds[i]:bounds[i+1]].
func Batch(styled []Styled, bounds []int) []int {
	slices.SortStableFunc(styled, func(a, b Styled) int {
		ka, kb := a.Bucket(), b.Bucket()
		if c := cmp.Compare(ka.Grey, kb.Grey); c != 0 {
			return c
		}
		return cmp.Compare(ka.AlphaPct, kb.AlphaPct)
	})

	bounds = bounds[:0]
	for i := range styled {
		if i == 0 || styled[i].Bucket() != styled[i-1].Bucket() {
			bounds = append(bounds, i)
		}
	}
	return append(bounds, len(styled))
}

// interior returns a uniform random point inside v.
func interior(v [3]scene.Point, rng *rand.Rand) scene.Point {
	r1, r2 := rng.Float64(), rng.Float64()
	if r1+r2 > 1 {
		r1, r2 = 1-r1, 1-r2
	}
	return v[0].Add(v[1].Sub(v[0]).Scale(r1)).Add(v[2].Sub(v[0]).Scale(r2))
}

package spatial

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid_CellNegativeCoordinates(t *testing.T) {
	g := NewGrid(100)
	tests := []struct {
		x, y   float64
		cx, cy int
	}{
		{0, 0, 0, 0},
		{99.9, 100, 0, 1},
		{-0.1, -100, -1, -1},
		{-100.5, 250, -2, 2},
	}
	for _, tt := range tests {
		cx, cy := g.Cell(tt.x, tt.y)
		assert.Equal(t, tt.cx, cx, "x=%v", tt.x)
		assert.Equal(t, tt.cy, cy, "y=%v", tt.y)
	}
}

func TestGrid_ResetKeepsNothing(t *testing.T) {
	g := NewGrid(50)
	g.Insert(0, 10, 10)
	g.Insert(1, 20, 20)
	g.Insert(2, 500, 500)
	assert.Equal(t, 2, g.Len())

	g.Reset()
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Query(10, 10, Neighborhood9, nil))

	g.Insert(7, 10, 10)
	assert.Equal(t, []int{7}, g.Query(10, 10, Neighborhood9, nil))
}

func TestGrid_PlusShapeSkipsDiagonals(t *testing.T) {
	g := NewGrid(100)
	g.Insert(0, 150, 150) // cell (1,1)
	g.Insert(1, 50, 50)   // diagonal (0,0)
	g.Insert(2, 150, 50)  // orthogonal (1,0)

	full := g.Query(150, 150, Neighborhood9, nil)
	slices.Sort(full)
	assert.Equal(t, []int{0, 1, 2}, full)

	plus := g.Query(150, 150, Neighborhood5, nil)
	slices.Sort(plus)
	assert.Equal(t, []int{0, 2}, plus)
}

func TestGrid_MatchesBruteForce(t *testing.T) {
	const (
		n         = 400
		threshold = 100.0
	)
	rng := rand.New(rand.NewPCG(42, 7))
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = rng.Float64() * 1000
		ys[i] = rng.Float64() * 1000
	}

	for _, cell := range []float64{100, 137, 250} {
		g := NewGrid(cell)
		for i := range xs {
			g.Insert(i, xs[i], ys[i])
		}

		var cand []int
		for i := range xs {
			cand = g.Query(xs[i], ys[i], Neighborhood9, cand[:0])

			var brute, filtered []int
			for j := range xs {
				dx, dy := xs[j]-xs[i], ys[j]-ys[i]
				if j != i && dx*dx+dy*dy < threshold*threshold {
					brute = append(brute, j)
				}
			}
			for _, j := range cand {
				dx, dy := xs[j]-xs[i], ys[j]-ys[i]
				if j != i && dx*dx+dy*dy < threshold*threshold {
					filtered = append(filtered, j)
				}
			}
			slices.Sort(filtered)

			for _, j := range brute {
				require.Contains(t, cand, j, "cell=%v: candidate set of %d misses %d", cell, i, j)
			}
			require.Equal(t, brute, filtered, "cell=%v point %d", cell, i)
		}
	}
}

func TestGrid_SetCellSize(t *testing.T) {
	g := NewGrid(0)
	assert.Equal(t, 1.0, g.CellSize())
	g.Insert(0, 3, 3)
	g.SetCellSize(120)
	assert.Equal(t, 120.0, g.CellSize())
	assert.Equal(t, 0, g.Len())
}

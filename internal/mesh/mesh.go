// Package mesh turns marker positions into proximity edges and filled
// triangles. All results are per frame; the Detector only keeps buffers.
package mesh

import (
	"math"
	"slices"

	"github.com/iburimskiy/wavy-background/internal/scene"
	"github.com/iburimskiy/wavy-background/internal/spatial"
)

// Edge connects two marker indices with A < B.
type Edge struct {
	A, B int
}

// Triangle is a 3-clique of the edge graph with A < B < C.
type Triangle struct {
	A, B, C int
	Area    float64
}

// Vertices returns the triangle corners from pts.
func (t Triangle) Vertices(pts []scene.Point) [3]scene.Point {
	return [3]scene.Point{pts[t.A], pts[t.B], pts[t.C]}
}

// Area returns the absolute shoelace area of abc.
func Area(a, b, c scene.Point) float64 {
	return math.Abs((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y)) / 2
}

// Detector reuses its adjacency and dedupe buffers across frames.
type Detector struct {
	cand []int
	adj  [][]int
	seen map[[3]int]struct{}
}

// NewDetector returns an empty detector.
func NewDetector() *Detector {
	return &Detector{seen: make(map[[3]int]struct{})}
}

// Connect appends to dst[:0] every pair of points closer than threshold.
// g must already hold every index of pts at its position. The comparison is
// strict: a pair exactly threshold apart is not connected.
func (d *Detector) Connect(pts []scene.Point, g *spatial.Grid, threshold float64, shape spatial.Shape, dst []Edge) []Edge {
	dst = dst[:0]
	limit := threshold * threshold
	for i, p := range pts {
		d.cand = g.Query(p.X, p.Y, shape, d.cand[:0])
		for _, j := range d.cand {
			if j <= i {
				continue
			}
			dx, dy := pts[j].X-p.X, pts[j].Y-p.Y
			if dx*dx+dy*dy < limit {
				dst = append(dst, Edge{A: i, B: j})
			}
		}
	}
	return dst
}

// Triangles appends to dst[:0] every triple (i<j<k) of the n vertices whose
// three pairwise edges are all present. Each triangle appears once.
func (d *Detector) Triangles(n int, edges []Edge, dst []Triangle) []Triangle {
	dst = dst[:0]
	if n < 3 || len(edges) < 3 {
		return dst
	}

	if cap(d.adj) < n {
		d.adj = make([][]int, n)
	}
	d.adj = d.adj[:n]
	for i := range d.adj {
		d.adj[i] = d.adj[i][:0]
	}
	for _, e := range edges {
		a, b := e.A, e.B
		if a > b {
			a, b = b, a
		}
		if a == b || a < 0 || b >= n {
			continue
		}
		d.adj[a] = append(d.adj[a], b)
		d.adj[b] = append(d.adj[b], a)
	}
	for i := range d.adj {
		slices.Sort(d.adj[i])
		d.adj[i] = slices.Compact(d.adj[i])
	}

	clear(d.seen)
	for i := 0; i < n; i++ {
		ni := d.adj[i]
		for x, j := range ni {
			if j <= i {
				continue
			}
			for _, k := range ni[x+1:] {
				if _, ok := slices.BinarySearch(d.adj[j], k); !ok {
					continue
				}
				key := [3]int{i, j, k}
				if _, dup := d.seen[key]; dup {
					continue
				}
				d.seen[key] = struct{}{}
				dst = append(dst, Triangle{A: i, B: j, C: k})
			}
		}
	}
	return dst
}

// FilterArea computes each triangle's area and keeps, in place, only those
// strictly larger than minArea.
func FilterArea(pts []scene.Point, tris []Triangle, minArea float64) []Triangle {
	kept := tris[:0]
	for _, t := range tris {
		t.Area = Area(pts[t.A], pts[t.B], pts[t.C])
		if t.Area <= minArea {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

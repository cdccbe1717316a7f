// Package spatial provides a uniform grid for neighbour queries among points
// that move every frame.
package spatial

import "math"

// Shape selects which neighbouring cells a query scans.
type Shape int

const (
	// Neighborhood9 scans the own cell and all 8 neighbours.
	Neighborhood9 Shape = iota
	// Neighborhood5 scans the own cell and the 4 orthogonal neighbours.
	// Cheaper, but may miss true neighbours across a diagonal corner.
	Neighborhood5
)

var (
	offsets9 = [...][2]int{{0, 0}, {-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}
	offsets5 = [...][2]int{{0, 0}, {0, 1}, {0, -1}, {1, 0}, {-1, 0}}
)

type cellKey struct {
	x, y int
}

// Grid buckets point indices by cell. Cell slices are kept across Reset so a
// steady-state frame does not allocate.
type Grid struct {
	cellSize float64
	cells    map[cellKey][]int
	used     []cellKey
}

// NewGrid creates a grid with the given cell size. For an exact neighbour
// search the cell size must be at least the query distance.
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}
}

// CellSize returns the cell edge length.
func (g *Grid) CellSize() float64 { return g.cellSize }

// SetCellSize changes the cell size and empties the grid.
func (g *Grid) SetCellSize(cellSize float64) {
	if cellSize <= 0 {
		cellSize = 1
	}
	g.cellSize = cellSize
	clear(g.cells)
	g.used = g.used[:0]
}

// Reset empties every cell while keeping its storage.
func (g *Grid) Reset() {
	for _, k := range g.used {
		g.cells[k] = g.cells[k][:0]
	}
	g.used = g.used[:0]
}

// Cell returns the cell coordinates of (x, y).
func (g *Grid) Cell(x, y float64) (int, int) {
	return int(math.Floor(x / g.cellSize)), int(math.Floor(y / g.cellSize))
}

// Insert adds idx at (x, y).
func (g *Grid) Insert(idx int, x, y float64) {
	cx, cy := g.Cell(x, y)
	k := cellKey{cx, cy}
	bucket := g.cells[k]
	if len(bucket) == 0 {
		g.used = append(g.used, k)
	}
	g.cells[k] = append(bucket, idx)
}

// Query appends to dst the indices stored in the cells around (x, y) and
// returns it. Results are candidates only; callers apply the exact distance test.
func (g *Grid) Query(x, y float64, shape Shape, dst []int) []int {
	cx, cy := g.Cell(x, y)
	offsets := offsets9[:]
	if shape == Neighborhood5 {
		offsets = offsets5[:]
	}
	for _, o := range offsets {
		dst = append(dst, g.cells[cellKey{cx + o[0], cy + o[1]}]...)
	}
	return dst
}

// Len returns the number of non-empty cells.
func (g *Grid) Len() int { return len(g.used) }

package sph

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y int64
}

// offsets is the 3x3 block visited by a candidate search, centre first.
var offsets = [9]Cell{
	{0, 0}, {0, 1}, {0, -1},
	{-1, -1}, {-1, 0}, {-1, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Grid buckets particle indices by cell. The cell side equals the
// interaction radius so every neighbour of a particle lies in the 3x3 block
// around its cell.
type Grid struct {
	size  float64
	cells map[Cell][]int
}

// NewGrid returns an empty grid with the given cell side.
func NewGrid(size float64) *Grid {
	return &Grid{size: size, cells: make(map[Cell][]int)}
}

// Size returns the cell side.
func (g *Grid) Size() float64 { return g.size }

// CellOf maps a position to its cell. Uses floor so that negative
// coordinates do not alias onto cell zero.
func (g *Grid) CellOf(pos r2.Vec) Cell {
	return Cell{
		X: int64(math.Floor(pos.X / g.size)),
		Y: int64(math.Floor(pos.Y / g.size)),
	}
}

// Rebuild clears the grid and inserts every particle index in order.
// Bucket storage is reused between rebuilds.
func (g *Grid) Rebuild(particles []Particle) {
	for c, idx := range g.cells {
		g.cells[c] = idx[:0]
	}
	for i := range particles {
		c := g.CellOf(particles[i].Position)
		g.cells[c] = append(g.cells[c], i)
	}
}

// Cell returns the indices stored in c. The slice aliases the grid.
func (g *Grid) Cell(c Cell) []int {
	return g.cells[c]
}

// Len returns the number of non-empty cells.
func (g *Grid) Len() int {
	n := 0
	for _, idx := range g.cells {
		if len(idx) > 0 {
			n++
		}
	}
	return n
}

// CandidateCells returns the non-empty buckets of the 3x3 block around
// pos. The buckets alias the grid and are only valid until the next Rebuild.
func (g *Grid) CandidateCells(pos r2.Vec) [][]int {
	return g.AppendCandidates(nil, pos)
}

// AppendCandidates is CandidateCells appending into dst.
func (g *Grid) AppendCandidates(dst [][]int, pos r2.Vec) [][]int {
	c := g.CellOf(pos)
	for _, off := range offsets {
		idx := g.cells[Cell{X: c.X + off.X, Y: c.Y + off.Y}]
		if len(idx) > 0 {
			dst = append(dst, idx)
		}
	}
	return dst
}

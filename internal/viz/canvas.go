package viz

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

const brailleBlank = 0x2800

// dot bits of a braille cell, indexed [row][col]:
//
//	1 4
//	2 5
//	3 6
//	7 8
var brailleBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a character grid where every cell holds a 2x4 braille dot
// block, giving Width*2 x Height*4 addressable dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in dots.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, bit rune, ok bool) {
	if x < 0 || y < 0 || x >= c.Width*2 || y >= c.Height*4 {
		return 0, 0, 0, false
	}
	return y / 4, x / 2, brailleBits[y%4][x%2], true
}

// Set lights the dot at (x, y); out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= bit
	}
}

// Unset clears the dot at (x, y).
func (c *Canvas) Unset(x, y int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.Grid[row][col] &^= bit
	}
}

// Get reports whether the dot at (x, y) is lit.
func (c *Canvas) Get(x, y int) bool {
	row, col, bit, ok := c.cell(x, y)
	return ok && c.Grid[row][col]&bit != 0
}

func (c *Canvas) Clear() {
	for _, row := range c.Grid {
		for j := range row {
			row[j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps the y-up tank [0, Width] x [0, Height] onto canvas dots.
type Viewport struct {
	Width, Height float64
	DotsX, DotsY  int
}

func NewViewport(width, height float64, c *Canvas) Viewport {
	dx, dy := c.Dots()
	return Viewport{Width: width, Height: height, DotsX: dx, DotsY: dy}
}

// ToDot converts a world position to a dot coordinate.
func (v Viewport) ToDot(p r2.Vec) (int, int) {
	x := int(p.X / v.Width * float64(v.DotsX-1))
	y := int((1 - p.Y/v.Height) * float64(v.DotsY-1))
	return x, y
}

// CellToWorldX converts a terminal column inside the canvas to a world x.
func (v Viewport) CellToWorldX(col int) float64 {
	return float64(col*2) / float64(v.DotsX-1) * v.Width
}

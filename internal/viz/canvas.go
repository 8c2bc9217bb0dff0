package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Tag marks what last drew into a cell, so the cell can be coloured.
type Tag uint8

const (
	TagNone Tag = iota
	TagWall
	TagGate
	TagLeft
	TagRight
)

type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Tags          [][]Tag
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Tags:   make([][]Tag, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Tags[i] = make([]Tag, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in sub-pixels, (Width*2) x (Height*4).
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Set sets a pixel at (x, y) in sub-pixel coordinates.
func (c *Canvas) Set(x, y int) {
	c.SetTagged(x, y, TagNone)
}

// SetTagged sets a pixel and, unless tag is TagNone, claims its cell.
func (c *Canvas) SetTagged(x, y int, tag Tag) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if tag != TagNone {
		c.Tags[row][col] = tag
	}
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Tags[i][j] = TagNone
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillRect sets every pixel of the inclusive rectangle.
func (c *Canvas) FillRect(x0, y0, x1, y1 int, tag Tag) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.SetTagged(x, y, tag)
		}
	}
}

// FillCircle sets every pixel within r of (cx, cy). Radii below one
// pixel still draw the centre.
func (c *Canvas) FillCircle(cx, cy, r int, tag Tag) {
	c.SetTagged(cx, cy, tag)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.SetTagged(cx+dx, cy+dy, tag)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render is String with each run of equally tagged cells coloured by the
// theme.
func (c *Canvas) Render(th Theme) string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Tags[i][j] == c.Tags[i][start] {
				continue
			}
			seg := string(row[start:j])
			if tag := c.Tags[i][start]; tag != TagNone {
				seg = lipgloss.NewStyle().Foreground(th.Color(tag)).Render(seg)
			}
			b.WriteString(seg)
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
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

// Canvas is a Braille dot grid with one foreground color per cell. A cell
// takes the color of the last dot painted into it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]colorful.Color
	painted       [][]bool
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{
		Width:   w,
		Height:  h,
		Grid:    make([][]rune, h),
		Colors:  make([][]colorful.Color, h),
		painted: make([][]bool, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]colorful.Color, w)
		c.painted[i] = make([]bool, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// DotWidth and DotHeight give the canvas size in sub-pixels.
func (c *Canvas) DotWidth() int  { return c.Width * 2 }
func (c *Canvas) DotHeight() int { return c.Height * 4 }

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

// SetColor sets a pixel and recolors its cell.
func (c *Canvas) SetColor(x, y int, clr colorful.Color) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Colors[row][col] = clr
	c.painted[row][col] = true
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.painted[i][j] = false
		}
	}
}

// FillEllipse paints every dot inside the axis-aligned ellipse centered on
// (cx, cy).
func (c *Canvas) FillEllipse(cx, cy, rx, ry float64, clr colorful.Color) {
	if rx < 0.5 {
		rx = 0.5
	}
	if ry < 0.5 {
		ry = 0.5
	}
	for y := int(cy - ry); y <= int(cy+ry); y++ {
		for x := int(cx - rx); x <= int(cx+rx); x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1 {
				c.SetColor(x, y, clr)
			}
		}
	}
}

// DrawRing paints the outline of a circle of radius r.
func (c *Canvas) DrawRing(cx, cy, r float64, clr colorful.Color) {
	if r < 1 {
		c.SetColor(int(cx), int(cy), clr)
		return
	}
	inner := (r - 1) * (r - 1)
	outer := r * r
	for y := int(cy - r); y <= int(cy+r); y++ {
		for x := int(cx - r); x <= int(cx+r); x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if d := dx*dx + dy*dy; d >= inner && d <= outer {
				c.SetColor(x, y, clr)
			}
		}
	}
}

// DrawLine paints a line between two dots using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, clr colorful.Color) {
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
		c.SetColor(x0, y0, clr)
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

// Render renders the dots with each painted cell in its color. Runs of the
// same color share one style.
func (c *Canvas) Render(fallback lipgloss.Color) string {
	var b strings.Builder
	base := lipgloss.NewStyle().Foreground(fallback)
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.sameStyle(i, start, j) {
				continue
			}
			run := string(row[start:j])
			if c.painted[i][start] {
				hex := c.Colors[i][start].Clamped().Hex()
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(run))
			} else {
				b.WriteString(base.Render(run))
			}
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (c *Canvas) sameStyle(row, a, b int) bool {
	if c.painted[row][a] != c.painted[row][b] {
		return false
	}
	return !c.painted[row][a] || c.Colors[row][a] == c.Colors[row][b]
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

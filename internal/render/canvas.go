package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a terminal drawing surface of Width x Height cells, addressed in
// dots: (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]string
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]string, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]string, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col = x / 2
	row = y / 4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Set turns on the dot at (x, y). A non-empty color replaces the cell's
// color.
func (c *Canvas) Set(x, y int, color string) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if color != "" {
		c.Colors[row][col] = color
	}
}

func (c *Canvas) Unset(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &= ^rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < brailleBlank {
		c.Grid[row][col] = brailleBlank
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
			c.Colors[i][j] = ""
		}
	}
}

// DrawCircle draws a circle outline with the midpoint algorithm.
func (c *Canvas) DrawCircle(cx, cy, r int, color string) {
	if r <= 0 {
		c.Set(cx, cy, color)
		return
	}
	x, y := r, 0
	err := 1 - r
	for x >= y {
		c.Set(cx+x, cy+y, color)
		c.Set(cx+y, cy+x, color)
		c.Set(cx-y, cy+x, color)
		c.Set(cx-x, cy+y, color)
		c.Set(cx-x, cy-y, color)
		c.Set(cx-y, cy-x, color)
		c.Set(cx+y, cy-x, color)
		c.Set(cx+x, cy-y, color)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

// DrawScene maps the scene onto the canvas, scaling uniformly so the whole
// scene fits.
func (c *Canvas) DrawScene(s *Scene) {
	if s.Width <= 0 || s.Height <= 0 {
		return
	}
	dotsW := float64(c.Width * 2)
	dotsH := float64(c.Height * 4)
	scale := math.Min(dotsW/s.Width, dotsH/s.Height)
	for _, el := range s.Elements() {
		cx := int(math.Round(el.X * scale))
		cy := int(math.Round(el.Y * scale))
		r := int(math.Round(el.Radius * scale))
		c.DrawCircle(cx, cy, r, el.Fill)
	}
}

// String renders the canvas, coloring runs of cells that share a color.
func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Colors[i][j] == c.Colors[i][start] {
				continue
			}
			run := string(row[start:j])
			if color := c.Colors[i][start]; color != "" {
				run = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(run)
			}
			b.WriteString(run)
			start = j
		}
		b.WriteString("\n")
	}
	return b.String()
}

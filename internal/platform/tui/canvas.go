package tui

import (
	"strings"
)

// Color is a logical foreground color of a canvas cell. The Theme maps it
// to a terminal style.
type Color uint8

const (
	ColorDefault Color = iota
	ColorDim
	ColorLeft
	ColorRight
	ColorBall
	ColorBanner
	ColorAccent
	ColorError
)

type cell struct {
	r     rune
	color Color
}

// Canvas is a fixed-size grid of colored runes. Drawing outside the grid
// is silently clipped.
type Canvas struct {
	width  int
	height int
	cells  [][]cell
}

// NewCanvas creates a canvas filled with spaces.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Width returns the canvas width in cells.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in cells.
func (c *Canvas) Height() int {
	return c.height
}

// Resize changes the dimensions and clears the canvas.
func (c *Canvas) Resize(width, height int) {
	c.width = max(width, 0)
	c.height = max(height, 0)
	c.cells = make([][]cell, c.height)
	for y := range c.cells {
		c.cells[y] = make([]cell, c.width)
	}
	c.Clear()
}

// Clear fills the canvas with uncolored spaces.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' '}
		}
	}
}

// Set places a rune at (x, y).
func (c *Canvas) Set(x, y int, r rune, color Color) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = cell{r: r, color: color}
}

// Get returns the rune at (x, y), or a space outside the grid.
func (c *Canvas) Get(x, y int) rune {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return ' '
	}
	return c.cells[y][x].r
}

// ColorAt returns the color at (x, y).
func (c *Canvas) ColorAt(x, y int) Color {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return ColorDefault
	}
	return c.cells[y][x].color
}

// DrawText writes text starting at (x, y).
func (c *Canvas) DrawText(x, y int, text string, color Color) {
	i := 0
	for _, r := range text {
		c.Set(x+i, y, r, color)
		i++
	}
}

// DrawTextCentered writes text centered on row y.
func (c *Canvas) DrawTextCentered(y int, text string, color Color) {
	c.DrawText((c.width-runeLen(text))/2, y, text, color)
}

// FillRect fills the w×h rectangle at (x, y).
func (c *Canvas) FillRect(x, y, w, h int, r rune, color Color) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			c.Set(col, row, r, color)
		}
	}
}

// DrawBox outlines the w×h rectangle at (x, y) with box-drawing characters.
func (c *Canvas) DrawBox(x, y, w, h int, color Color) {
	if w < 2 || h < 2 {
		return
	}
	right, bottom := x+w-1, y+h-1
	c.Set(x, y, '┌', color)
	c.Set(right, y, '┐', color)
	c.Set(x, bottom, '└', color)
	c.Set(right, bottom, '┘', color)
	for col := x + 1; col < right; col++ {
		c.Set(col, y, '─', color)
		c.Set(col, bottom, '─', color)
	}
	for row := y + 1; row < bottom; row++ {
		c.Set(x, row, '│', color)
		c.Set(right, row, '│', color)
	}
}

// String returns the runes without styling, one line per row.
func (c *Canvas) String() string {
	var sb strings.Builder
	sb.Grow(c.width*c.height + c.height)
	for y := range c.height {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := range c.width {
			sb.WriteRune(c.cells[y][x].r)
		}
	}
	return sb.String()
}

// Render converts the canvas to a styled string. Adjacent cells with the
// same color share one style run to keep escape sequences down.
func (c *Canvas) Render(theme Theme) string {
	var sb strings.Builder
	sb.Grow(c.width*c.height*2 + c.height)

	for y := range c.height {
		if y > 0 {
			sb.WriteRune('\n')
		}
		row := c.cells[y]
		for x := 0; x < len(row); {
			color := row[x].color
			var run strings.Builder
			for x < len(row) && row[x].color == color {
				run.WriteRune(row[x].r)
				x++
			}
			sb.WriteString(theme.Style(color).Render(run.String()))
		}
	}
	return sb.String()
}

func runeLen(s string) int {
	return len([]rune(s))
}

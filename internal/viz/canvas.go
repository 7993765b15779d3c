package viz

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/driftpair/internal/config"
	"github.com/san-kum/driftpair/internal/motion"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const (
	brailleBase = 0x2800
	// fadeFrames is how many Fade calls a dot survives, roughly matching a
	// 25% translucent overlay per frame.
	fadeFrames = 8
)

// Canvas maps canvas coordinates onto a grid of braille cells. Every cell
// holds 2x4 dots; dots lose one unit of life per Fade and disappear at zero.
type Canvas struct {
	Cols, Rows    int
	width, height float64
	life          [][]uint8
	ink           [][]color.NRGBA
}

func NewCanvas(cols, rows int, width, height float64) *Canvas {
	c := &Canvas{width: width, height: height}
	c.Resize(cols, rows)
	return c
}

// Resize changes the cell grid and wipes it.
func (c *Canvas) Resize(cols, rows int) {
	c.Cols, c.Rows = max(cols, 1), max(rows, 1)
	c.life = make([][]uint8, c.Rows*4)
	for i := range c.life {
		c.life[i] = make([]uint8, c.Cols*2)
	}
	c.ink = make([][]color.NRGBA, c.Rows)
	for i := range c.ink {
		c.ink[i] = make([]color.NRGBA, c.Cols)
	}
}

func (c *Canvas) Size() (float64, float64) { return c.width, c.height }

func (c *Canvas) Clear(color.NRGBA) {
	for _, row := range c.life {
		for j := range row {
			row[j] = 0
		}
	}
}

func (c *Canvas) Fade(color.NRGBA) {
	for _, row := range c.life {
		for j, v := range row {
			if v > 0 {
				row[j] = v - 1
			}
		}
	}
}

func (c *Canvas) StrokeCircle(center motion.Vec, radius, _ float64, col color.NRGBA) {
	steps := int(2*math.Pi*radius*c.dotsPerUnit()) + 8
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.plot(center.X+radius*math.Cos(a), center.Y+radius*math.Sin(a), col)
	}
}

func (c *Canvas) FillCircle(center motion.Vec, radius float64, col color.NRGBA) {
	x0, y0 := c.dot(center.X-radius, center.Y-radius)
	x1, y1 := c.dot(center.X+radius, center.Y+radius)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			wx, wy := c.unit(x, y)
			if math.Hypot(wx-center.X, wy-center.Y) <= radius {
				c.set(x, y, col)
			}
		}
	}
	c.plot(center.X, center.Y, col)
}

func (c *Canvas) Polyline(points []motion.Vec, _ float64, col color.NRGBA) {
	if len(points) == 1 {
		c.plot(points[0].X, points[0].Y, col)
	}
	for i := 1; i < len(points); i++ {
		x0, y0 := c.dot(points[i-1].X, points[i-1].Y)
		x1, y1 := c.dot(points[i].X, points[i].Y)
		c.line(x0, y0, x1, y1, col)
	}
}

// Lit reports whether the dot at sub-cell coordinates (x, y) is visible.
func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || y >= len(c.life) || x >= len(c.life[0]) {
		return false
	}
	return c.life[y][x] > 0
}

func (c *Canvas) dotsPerUnit() float64 {
	return math.Max(float64(c.Cols*2)/c.width, float64(c.Rows*4)/c.height)
}

func (c *Canvas) dot(x, y float64) (int, int) {
	return int(x / c.width * float64(c.Cols*2)), int(y / c.height * float64(c.Rows*4))
}

func (c *Canvas) unit(x, y int) (float64, float64) {
	return (float64(x) + 0.5) * c.width / float64(c.Cols*2), (float64(y) + 0.5) * c.height / float64(c.Rows*4)
}

func (c *Canvas) plot(x, y float64, col color.NRGBA) {
	dx, dy := c.dot(x, y)
	c.set(dx, dy, col)
}

func (c *Canvas) set(x, y int, col color.NRGBA) {
	if x < 0 || y < 0 || y >= len(c.life) || x >= len(c.life[0]) {
		return
	}
	c.life[y][x] = fadeFrames
	c.ink[y/4][x/2] = col
}

// line draws a line using Bresenham's algorithm
func (c *Canvas) line(x0, y0, x1, y1 int, col color.NRGBA) {
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
		c.set(x0, y0, col)
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

func (c *Canvas) cell(row, col int) rune {
	r := rune(brailleBase)
	for sy := 0; sy < 4; sy++ {
		for sx := 0; sx < 2; sx++ {
			if c.life[row*4+sy][col*2+sx] > 0 {
				r |= pixelMap[sy][sx]
			}
		}
	}
	return r
}

// String renders the grid, coloring runs of cells that share an ink.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Rows; row++ {
		var run strings.Builder
		var runInk color.NRGBA
		flush := func() {
			if run.Len() == 0 {
				return
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(config.FormatColor(runInk)))
			b.WriteString(style.Render(run.String()))
			run.Reset()
		}
		for col := 0; col < c.Cols; col++ {
			r := c.cell(row, col)
			ink := c.ink[row][col]
			if r == brailleBase {
				ink = color.NRGBA{}
			}
			if ink != runInk {
				flush()
				runInk = ink
			}
			run.WriteRune(r)
		}
		flush()
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

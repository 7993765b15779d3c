package export

import (
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/san-kum/driftpair/internal/motion"
	"github.com/san-kum/driftpair/internal/render"
)

// Canvas writes every drawing call straight into an SVG document.
// Coordinates are rounded to whole pixels.
type Canvas struct {
	svg           *svg.SVG
	width, height int
}

// NewCanvas starts an SVG document on w. Close must be called to finish it.
func NewCanvas(w io.Writer, width, height int) *Canvas {
	c := &Canvas{svg: svg.New(w), width: width, height: height}
	c.svg.Start(width, height)
	return c
}

func (c *Canvas) Close() { c.svg.End() }

func (c *Canvas) Size() (float64, float64) { return float64(c.width), float64(c.height) }

func (c *Canvas) Clear(col color.NRGBA) {
	c.svg.Rect(0, 0, c.width, c.height, fill(col))
}

func (c *Canvas) Fade(col color.NRGBA) {
	c.svg.Rect(0, 0, c.width, c.height, fill(col))
}

func (c *Canvas) StrokeCircle(center motion.Vec, radius, width float64, col color.NRGBA) {
	c.svg.Circle(px(center.X), px(center.Y), px(radius), "fill:none;"+stroke(col, width))
}

func (c *Canvas) FillCircle(center motion.Vec, radius float64, col color.NRGBA) {
	c.svg.Circle(px(center.X), px(center.Y), px(radius), fill(col))
}

func (c *Canvas) Polyline(points []motion.Vec, width float64, col color.NRGBA) {
	xs := make([]int, len(points))
	ys := make([]int, len(points))
	for i, p := range points {
		xs[i], ys[i] = px(p.X), px(p.Y)
	}
	c.svg.Polyline(xs, ys, "fill:none;stroke-linejoin:round;"+stroke(col, width))
}

// WriteSVG renders the stopped-state trail image of tracks as SVG.
func WriteSVG(w io.Writer, width, height int, tracks []render.Track) {
	c := NewCanvas(w, width, height)
	render.DrawTrails(c, tracks)
	c.Close()
}

func px(v float64) int { return int(math.Round(v)) }

func rgb(col color.NRGBA) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", col.R, col.G, col.B)
}

func fill(col color.NRGBA) string {
	s := "fill:" + rgb(col)
	if col.A < 255 {
		s += fmt.Sprintf(";fill-opacity:%.2f", float64(col.A)/255)
	}
	return s
}

func stroke(col color.NRGBA, width float64) string {
	s := fmt.Sprintf("stroke:%s;stroke-width:%g", rgb(col), width)
	if col.A < 255 {
		s += fmt.Sprintf(";stroke-opacity:%.2f", float64(col.A)/255)
	}
	return s
}

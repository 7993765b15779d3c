package render

import (
	"image/color"

	"github.com/san-kum/driftpair/internal/motion"
)

type Op struct {
	Kind   string
	Points []motion.Vec
	Radius float64
	Width  float64
	Color  color.NRGBA
}

// Recorder is a Canvas that only remembers what was drawn.
type Recorder struct {
	W, H float64
	Ops  []Op
}

func NewRecorder(w, h float64) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (float64, float64) { return r.W, r.H }

func (r *Recorder) Clear(c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: "clear", Color: c})
}

func (r *Recorder) Fade(c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: "fade", Color: c})
}

func (r *Recorder) StrokeCircle(center motion.Vec, radius, width float64, c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: "circle", Points: []motion.Vec{center}, Radius: radius, Width: width, Color: c})
}

func (r *Recorder) FillCircle(center motion.Vec, radius float64, c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: "disc", Points: []motion.Vec{center}, Radius: radius, Color: c})
}

func (r *Recorder) Polyline(points []motion.Vec, width float64, c color.NRGBA) {
	pts := make([]motion.Vec, len(points))
	copy(pts, points)
	r.Ops = append(r.Ops, Op{Kind: "polyline", Points: pts, Width: width, Color: c})
}

// Kinds lists the recorded operation kinds in order.
func (r *Recorder) Kinds() []string {
	kinds := make([]string, len(r.Ops))
	for i, op := range r.Ops {
		kinds[i] = op.Kind
	}
	return kinds
}

func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

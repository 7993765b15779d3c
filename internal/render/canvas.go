package render

import (
	"image/color"

	"github.com/san-kum/driftpair/internal/motion"
)

// Canvas is an immediate-mode drawing surface in canvas coordinates.
type Canvas interface {
	Size() (width, height float64)
	// Clear paints the whole surface opaque.
	Clear(c color.NRGBA)
	// Fade paints the whole surface with a translucent color, leaving a
	// dimmed copy of what was there before.
	Fade(c color.NRGBA)
	StrokeCircle(center motion.Vec, radius, width float64, c color.NRGBA)
	FillCircle(center motion.Vec, radius float64, c color.NRGBA)
	Polyline(points []motion.Vec, width float64, c color.NRGBA)
}

var (
	Background  = color.NRGBA{0, 0, 0, 255}
	FadeOverlay = color.NRGBA{0, 0, 0, 64}
	StartMarker = color.NRGBA{255, 255, 255, 102}
)

const (
	CircleStroke      = 3.0
	PathStroke        = 2.0
	StartMarkerRadius = 8.0
	EndMarkerRadius   = 4.0
)

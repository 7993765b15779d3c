package render

import (
	"image/color"

	"github.com/san-kum/driftpair/internal/motion"
)

// Track is everything needed to draw one entity, live or from a stored run.
type Track struct {
	Name   string
	Color  color.NRGBA
	Radius float64
	Pos    motion.Vec
	Path   []motion.Vec
}

func TracksOf(w *motion.World) []Track {
	es := w.Entities()
	tracks := make([]Track, len(es))
	for i, e := range es {
		tracks[i] = Track{
			Name:   e.Name,
			Color:  e.Color,
			Radius: e.Radius,
			Pos:    e.Pos(),
			Path:   e.Path(),
		}
	}
	return tracks
}

func DrawCircles(c Canvas, tracks []Track) {
	for _, t := range tracks {
		c.StrokeCircle(t.Pos, t.Radius, CircleStroke, t.Color)
	}
}

// DrawTrails clears the surface and draws every path with its start and end
// markers, then every circle on top.
func DrawTrails(c Canvas, tracks []Track) {
	c.Clear(Background)
	for _, t := range tracks {
		if len(t.Path) == 0 {
			continue
		}
		start, end := t.Path[0], t.Path[len(t.Path)-1]
		c.FillCircle(start, StartMarkerRadius, StartMarker)
		c.Polyline(t.Path, PathStroke, t.Color)
		c.FillCircle(end, EndMarkerRadius, t.Color)
	}
	DrawCircles(c, tracks)
}

// Scene binds a world to a canvas and satisfies playback.Stage.
type Scene struct {
	World  *motion.World
	Canvas Canvas
}

func NewScene(w *motion.World, c Canvas) *Scene {
	return &Scene{World: w, Canvas: c}
}

func (s *Scene) Advance() { s.World.Step() }

// DrawFrame only needs current positions; paths are not copied.
func (s *Scene) DrawFrame() {
	s.Canvas.Fade(FadeOverlay)
	for _, e := range s.World.Entities() {
		s.Canvas.StrokeCircle(e.Pos(), e.Radius, CircleStroke, e.Color)
	}
}

func (s *Scene) DrawTrails() { DrawTrails(s.Canvas, TracksOf(s.World)) }

func (s *Scene) ClearFrame() { s.Canvas.Clear(Background) }

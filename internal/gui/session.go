package gui

import (
	"errors"
	"fmt"
	"os"

	"github.com/ncruces/zenity"

	"github.com/san-kum/driftpair/internal/export"
	"github.com/san-kum/driftpair/internal/motion"
	"github.com/san-kum/driftpair/internal/playback"
	"github.com/san-kum/driftpair/internal/render"
)

var ErrUnknownBackend = errors.New("unknown gui backend")

const (
	BackendRaylib = "raylib"
	BackendEbiten = "ebiten"

	iconSize   = 24.0
	iconMargin = 16.0
	fps        = 60
)

// Backends lists the window backends Run accepts.
func Backends() []string { return []string{BackendRaylib, BackendEbiten} }

// Session is the backend-independent part of a window: the world, the scene
// drawing it and the playback controller.
type Session struct {
	World  *motion.World
	Scene  *render.Scene
	Ctrl   *playback.Controller
	Preset string
	// Status is a one-line message shown in the HUD.
	Status string
}

func NewSession(w *motion.World, preset string, c render.Canvas) *Session {
	scene := render.NewScene(w, c)
	s := &Session{World: w, Scene: scene, Ctrl: playback.New(scene), Preset: preset}
	s.Ctrl.OnChange(func(playback.State) { s.Status = "" })
	return s
}

// Frame advances one display frame.
func (s *Session) Frame() { s.Ctrl.Tick() }

func (s *Session) Toggle() playback.State { return s.Ctrl.Toggle() }

// Click handles a pointer release at (x, y); only the control icon reacts.
func (s *Session) Click(x, y float64) bool {
	if !IconHit(s.World.Params().Width, x, y) {
		return false
	}
	s.Toggle()
	return true
}

// IconRect is the play/stop control in the top-right corner of a canvas of
// the given width.
func IconRect(width float64) (x, y, size float64) {
	return width - iconMargin - iconSize, iconMargin, iconSize
}

func IconHit(width, px, py float64) bool {
	x, y, size := IconRect(width)
	return px >= x && px <= x+size && py >= y && py <= y+size
}

func (s *Session) HUD() string {
	preset := s.Preset
	if preset == "" {
		preset = "custom"
	}
	line := fmt.Sprintf("%s  tick %d  seed %d", preset, s.World.Tick(), s.World.Seed())
	if len(s.World.Entities()) == 2 {
		line += fmt.Sprintf("  separation %.1f", s.World.Separation())
	}
	if s.Status != "" {
		line += "  " + s.Status
	}
	return line
}

// WriteTrails renders the trail image of the current world to an SVG file.
func (s *Session) WriteTrails(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	p := s.World.Params()
	export.WriteSVG(f, int(p.Width), int(p.Height), render.TracksOf(s.World))
	return f.Close()
}

// SaveTrails asks for a destination with a native file dialog and writes the
// trail image there. Failures are reported through Status; the animation
// keeps running.
func (s *Session) SaveTrails() {
	path, err := zenity.SelectFileSave(
		zenity.Title("Save trails"),
		zenity.Filename(fmt.Sprintf("trails-%d.svg", s.World.Tick())),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{{
			Name:     "SVG image",
			Patterns: []string{"*.svg"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return
		}
		s.Status = "save failed: " + err.Error()
		return
	}
	s.SaveTrailsTo(path)
}

// SaveTrailsTo writes the trail image to path and reports the outcome in
// Status.
func (s *Session) SaveTrailsTo(path string) {
	if err := s.WriteTrails(path); err != nil {
		s.Status = "save failed: " + err.Error()
		return
	}
	s.Status = "saved " + path
}

// Run opens a window for w on the named backend and blocks until it is closed.
func Run(w *motion.World, preset, backend string) error {
	switch backend {
	case "", BackendRaylib:
		return runRaylib(w, preset)
	case BackendEbiten:
		return runEbiten(w, preset)
	}
	return fmt.Errorf("%w: %s (available: %v)", ErrUnknownBackend, backend, Backends())
}

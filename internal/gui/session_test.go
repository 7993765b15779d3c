package gui

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/san-kum/driftpair/internal/config"
	"github.com/san-kum/driftpair/internal/playback"
	"github.com/san-kum/driftpair/internal/render"
)

func newSession(t *testing.T) (*Session, *render.Recorder) {
	t.Helper()
	cfg := config.DefaultConfig()
	if err := cfg.Apply("unrequited"); err != nil {
		t.Fatal(err)
	}
	cfg.Seed = 9
	w, err := cfg.World()
	if err != nil {
		t.Fatal(err)
	}
	rec := render.NewRecorder(cfg.Width, cfg.Height)
	return NewSession(w, "unrequited", rec), rec
}

func TestSessionFrame(t *testing.T) {
	s, rec := newSession(t)
	s.Frame()
	if want := []string{"fade", "circle", "circle"}; !reflect.DeepEqual(rec.Kinds(), want) {
		t.Fatalf("expected %v, got %v", want, rec.Kinds())
	}
	if s.World.Tick() != 1 {
		t.Fatalf("expected tick 1, got %d", s.World.Tick())
	}
}

func TestSessionClickIcon(t *testing.T) {
	s, _ := newSession(t)
	w := s.World.Params().Width

	if s.Click(w/2, 300) {
		t.Fatal("click outside the icon should be ignored")
	}
	if s.Ctrl.State() != playback.Running {
		t.Fatal("state changed on a miss")
	}

	x, y, size := IconRect(w)
	if !s.Click(x+size/2, y+size/2) {
		t.Fatal("click on the icon should toggle")
	}
	if s.Ctrl.State() != playback.Stopped {
		t.Fatal("expected stopped")
	}
}

func TestIconHit(t *testing.T) {
	x, y, size := IconRect(800)
	tests := []struct {
		name   string
		px, py float64
		want   bool
	}{
		{"center", x + size/2, y + size/2, true},
		{"top-left corner", x, y, true},
		{"left of icon", x - 1, y + 1, false},
		{"below icon", x + 1, y + size + 1, false},
		{"canvas origin", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IconHit(800, tt.px, tt.py); got != tt.want {
				t.Errorf("IconHit(%v, %v) = %v, want %v", tt.px, tt.py, got, tt.want)
			}
		})
	}
}

func TestSessionStatusClearedOnToggle(t *testing.T) {
	s, _ := newSession(t)
	s.Status = "saved x.svg"
	s.Toggle()
	if s.Status != "" {
		t.Fatalf("expected status cleared, got %q", s.Status)
	}
}

func TestSessionHUD(t *testing.T) {
	s, _ := newSession(t)
	s.Frame()
	hud := s.HUD()
	for _, want := range []string{"unrequited", "tick 1", "seed 9", "separation"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD %q missing %q", hud, want)
		}
	}
}

func TestWriteTrails(t *testing.T) {
	s, _ := newSession(t)
	for i := 0; i < 10; i++ {
		s.Frame()
	}
	path := filepath.Join(t.TempDir(), "trails.svg")
	if err := s.WriteTrails(path); err != nil {
		t.Fatalf("write trails: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<polyline") {
		t.Error("expected polylines in trail image")
	}
}

func TestRunUnknownBackend(t *testing.T) {
	s, _ := newSession(t)
	err := Run(s.World, "unrequited", "opengl")
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestSaveTrailsFailureKeepsRunning(t *testing.T) {
	s, _ := newSession(t)
	s.Frame()

	s.SaveTrailsTo(filepath.Join(t.TempDir(), "missing", "trails.svg"))
	if !strings.HasPrefix(s.Status, "save failed") {
		t.Fatalf("expected failure in status, got %q", s.Status)
	}
	if !strings.Contains(s.HUD(), "save failed") {
		t.Errorf("HUD %q does not show the failure", s.HUD())
	}

	s.Frame()
	if s.World.Tick() != 2 {
		t.Fatalf("expected animation to continue, tick %d", s.World.Tick())
	}
	if s.Toggle() != playback.Stopped {
		t.Fatal("expected toggle to still work")
	}
}

func TestSaveTrailsToReportsPath(t *testing.T) {
	s, _ := newSession(t)
	path := filepath.Join(t.TempDir(), "ok.svg")
	s.SaveTrailsTo(path)
	if s.Status != "saved "+path {
		t.Fatalf("unexpected status %q", s.Status)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file not written: %v", err)
	}
}

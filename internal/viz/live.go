package viz

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/driftpair/internal/export"
	"github.com/san-kum/driftpair/internal/motion"
	"github.com/san-kum/driftpair/internal/playback"
	"github.com/san-kum/driftpair/internal/render"
)

const (
	defaultCols = 80
	defaultRows = 24
	// rows taken by the header, footer and canvas border
	chromeRows = 6
	chromeCols = 2
)

type TickMsg time.Time

// Model is the bubbletea program for the live terminal view.
type Model struct {
	world   *motion.World
	canvas  *Canvas
	scene   *render.Scene
	ctrl    *playback.Controller
	preset  string
	fps     int
	message string
}

func NewModel(w *motion.World, preset string, fps int) Model {
	p := w.Params()
	canvas := NewCanvas(defaultCols, defaultRows, p.Width, p.Height)
	scene := render.NewScene(w, canvas)
	if fps <= 0 {
		fps = 60
	}
	return Model{
		world:  w,
		canvas: canvas,
		scene:  scene,
		ctrl:   playback.New(scene),
		preset: preset,
		fps:    fps,
	}
}

func (m Model) Controller() *playback.Controller { return m.ctrl }

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "enter":
			m.ctrl.Toggle()
			m.message = ""
		case "s":
			m.message = m.saveSVG()
		}
	case tea.WindowSizeMsg:
		m.canvas.Resize(msg.Width-chromeCols, msg.Height-chromeRows)
		if m.ctrl.State() == playback.Stopped {
			m.scene.DrawTrails()
		}
	case TickMsg:
		m.ctrl.Tick()
		return m, m.tick()
	}
	return m, nil
}

func (m Model) saveSVG() string {
	p := m.world.Params()
	name := fmt.Sprintf("trails-%d.svg", m.world.Tick())
	f, err := os.Create(name)
	if err != nil {
		return "save failed: " + err.Error()
	}
	defer f.Close()
	export.WriteSVG(f, int(p.Width), int(p.Height), render.TracksOf(m.world))
	return "saved " + name
}

func (m Model) View() string {
	var s strings.Builder

	state := m.ctrl.State()
	status := runningStyle.Render("● RUNNING")
	if state == playback.Stopped {
		status = stoppedStyle.Render("■ STOPPED")
	}
	preset := m.preset
	if preset == "" {
		preset = "custom"
	}
	s.WriteString(headerStyle.Render(strings.ToUpper(preset)) + "  " + status + "\n")
	s.WriteString(canvasStyle.Render(strings.TrimSuffix(m.canvas.String(), "\n")) + "\n")

	s.WriteString(labelStyle.Render("tick ") + valueStyle.Render(fmt.Sprintf("%d", m.world.Tick())))
	s.WriteString(labelStyle.Render("  seed ") + valueStyle.Render(fmt.Sprintf("%d", m.world.Seed())))
	if len(m.world.Entities()) == 2 {
		s.WriteString(labelStyle.Render("  separation ") + valueStyle.Render(fmt.Sprintf("%.1f", m.world.Separation())))
	}
	for _, e := range m.world.Entities() {
		s.WriteString(labelStyle.Render("  "+e.Name+" ") + valueStyle.Render(e.Coordination.String()))
	}
	s.WriteString("\n")

	hint := fmt.Sprintf("space %s · s save svg · q quit", state.Affordance())
	if m.message != "" {
		hint = m.message + " · " + hint
	}
	s.WriteString(helpStyle.Render(hint))
	return s.String()
}

// Run starts the live view and blocks until the user quits.
func Run(w *motion.World, preset string, fps int) error {
	p := tea.NewProgram(NewModel(w, preset, fps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

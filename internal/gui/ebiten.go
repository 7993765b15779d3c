package gui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/san-kum/driftpair/internal/motion"
)

var iconColor = color.NRGBA{255, 255, 255, 200}

// ebCanvas draws into an offscreen image that persists between frames.
type ebCanvas struct {
	img  *ebiten.Image
	w, h float64
}

func (c *ebCanvas) Size() (float64, float64) { return c.w, c.h }

func (c *ebCanvas) Clear(col color.NRGBA) { c.img.Fill(col) }

func (c *ebCanvas) Fade(col color.NRGBA) {
	vector.DrawFilledRect(c.img, 0, 0, float32(c.w), float32(c.h), col, false)
}

func (c *ebCanvas) StrokeCircle(center motion.Vec, radius, width float64, col color.NRGBA) {
	vector.StrokeCircle(c.img, float32(center.X), float32(center.Y), float32(radius), float32(width), col, true)
}

func (c *ebCanvas) FillCircle(center motion.Vec, radius float64, col color.NRGBA) {
	vector.DrawFilledCircle(c.img, float32(center.X), float32(center.Y), float32(radius), col, true)
}

func (c *ebCanvas) Polyline(points []motion.Vec, width float64, col color.NRGBA) {
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		vector.StrokeLine(c.img, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), float32(width), col, true)
	}
}

type game struct {
	session *Session
	canvas  *ebCanvas
	white   *ebiten.Image
}

func (g *game) Update() error {
	if inpututil.IsKeyJustReleased(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustReleased(ebiten.KeySpace) {
		g.session.Toggle()
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.session.Click(float64(x), float64(y))
	}
	if inpututil.IsKeyJustReleased(ebiten.KeyS) {
		g.session.SaveTrails()
	}
	g.session.Frame()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.canvas.img, nil)

	x, y, size := IconRect(g.canvas.w)
	fx, fy, fs := float32(x), float32(y), float32(size)
	if g.session.Ctrl.State().Affordance() == "stop" {
		vector.DrawFilledRect(screen, fx, fy, fs, fs, iconColor, false)
	} else {
		var path vector.Path
		path.MoveTo(fx, fy)
		path.LineTo(fx, fy+fs)
		path.LineTo(fx+fs, fy+fs/2)
		path.Close()
		vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
		for i := range vs {
			vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = 1, 1, 1, float32(iconColor.A)/255
		}
		screen.DrawTriangles(vs, is, g.white, &ebiten.DrawTrianglesOptions{AntiAlias: true})
	}

	ebitenutil.DebugPrintAt(screen, "[SPACE] "+g.session.Ctrl.State().Affordance()+"  [S] SAVE  [Q] QUIT", 16, 16)
	ebitenutil.DebugPrintAt(screen, g.session.HUD(), 16, int(g.canvas.h)-28)
}

func (g *game) Layout(_, _ int) (int, int) {
	return int(g.canvas.w), int(g.canvas.h)
}

func runEbiten(w *motion.World, preset string) error {
	p := w.Params()
	ebiten.SetWindowSize(int(p.Width), int(p.Height))
	ebiten.SetWindowTitle("driftpair")
	ebiten.SetTPS(fps)

	canvas := &ebCanvas{img: ebiten.NewImage(int(p.Width), int(p.Height)), w: p.Width, h: p.Height}
	s := NewSession(w, preset, canvas)
	s.Scene.ClearFrame()

	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)

	return ebiten.RunGame(&game{session: s, canvas: canvas, white: white})
}

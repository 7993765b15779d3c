package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/driftpair/internal/motion"
	"github.com/san-kum/driftpair/internal/playback"
)

var (
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColIcon    = rl.NewColor(255, 255, 255, 200)
)

// rlCanvas draws into a render texture that persists between frames, so
// fades accumulate the way the trail look needs.
type rlCanvas struct {
	target rl.RenderTexture2D
	w, h   float64
}

func newRLCanvas(w, h float64) *rlCanvas {
	return &rlCanvas{target: rl.LoadRenderTexture(int32(w), int32(h)), w: w, h: h}
}

func rlColor(c color.NRGBA) rl.Color { return rl.NewColor(c.R, c.G, c.B, c.A) }

func rlVec(v motion.Vec) rl.Vector2 { return rl.NewVector2(float32(v.X), float32(v.Y)) }

func (c *rlCanvas) Size() (float64, float64) { return c.w, c.h }

func (c *rlCanvas) Clear(col color.NRGBA) { rl.ClearBackground(rlColor(col)) }

func (c *rlCanvas) Fade(col color.NRGBA) {
	rl.DrawRectangle(0, 0, int32(c.w), int32(c.h), rlColor(col))
}

func (c *rlCanvas) StrokeCircle(center motion.Vec, radius, width float64, col color.NRGBA) {
	inner := float32(radius - width/2)
	outer := float32(radius + width/2)
	rl.DrawRing(rlVec(center), inner, outer, 0, 360, 64, rlColor(col))
}

func (c *rlCanvas) FillCircle(center motion.Vec, radius float64, col color.NRGBA) {
	rl.DrawCircleV(rlVec(center), float32(radius), rlColor(col))
}

func (c *rlCanvas) Polyline(points []motion.Vec, width float64, col color.NRGBA) {
	for i := 1; i < len(points); i++ {
		rl.DrawLineEx(rlVec(points[i-1]), rlVec(points[i]), float32(width), rlColor(col))
	}
}

func runRaylib(w *motion.World, preset string) error {
	p := w.Params()
	rl.InitWindow(int32(p.Width), int32(p.Height), "driftpair")
	defer rl.CloseWindow()
	rl.SetTargetFPS(fps)
	rl.SetExitKey(rl.KeyQ)

	canvas := newRLCanvas(p.Width, p.Height)
	defer rl.UnloadRenderTexture(canvas.target)

	s := NewSession(w, preset, canvas)

	rl.BeginTextureMode(canvas.target)
	s.Scene.ClearFrame()
	rl.EndTextureMode()

	for !rl.WindowShouldClose() {
		save := false

		rl.BeginTextureMode(canvas.target)
		if rl.IsKeyReleased(rl.KeySpace) {
			s.Toggle()
		}
		if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
			m := rl.GetMousePosition()
			s.Click(float64(m.X), float64(m.Y))
		}
		if rl.IsKeyReleased(rl.KeyS) {
			save = true
		}
		s.Frame()
		rl.EndTextureMode()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		// render textures are stored upside down
		src := rl.NewRectangle(0, 0, float32(p.Width), -float32(p.Height))
		rl.DrawTextureRec(canvas.target.Texture, src, rl.NewVector2(0, 0), rl.White)
		drawRLIcon(p.Width, s.Ctrl.State())
		rl.DrawText(s.HUD(), 16, int32(p.Height)-28, 14, ColText)
		rl.DrawText("[SPACE] "+s.Ctrl.State().Affordance()+"  [S] SAVE  [Q] QUIT", 16, 16, 14, ColTextDim)
		rl.EndDrawing()

		if save {
			s.SaveTrails()
		}
	}
	return nil
}

func drawRLIcon(width float64, state playback.State) {
	x, y, size := IconRect(width)
	fx, fy, fs := float32(x), float32(y), float32(size)
	if state.Affordance() == "stop" {
		rl.DrawRectangleV(rl.NewVector2(fx, fy), rl.NewVector2(fs, fs), ColIcon)
		return
	}
	// counter-clockwise
	rl.DrawTriangle(
		rl.NewVector2(fx, fy),
		rl.NewVector2(fx, fy+fs),
		rl.NewVector2(fx+fs, fy+fs/2),
		ColIcon,
	)
}

// Package renderer shows the canvas in a raylib window with pan and zoom,
// debug overlays and the creature inspector.
package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/trails/camera"
	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/config"
	"github.com/pthm-cable/trails/game"
	"github.com/pthm-cable/trails/raster"
	"github.com/pthm-cable/trails/ui"
)

const controlsLegend = "Click: spawn | Right click: select | Wheel: zoom | Middle drag: pan | Space: pause | +/-: speed | Tab: controls | Home: reset view"

// selectRadius is the pick radius for right clicks, in window pixels.
const selectRadius = 12

// Window is a game.Display backed by a raylib window. It must be created
// and presented from the main goroutine.
type Window struct {
	game   *game.Game
	cam    *camera.Camera
	tex    rl.Texture2D
	pixels []color.RGBA
	title  string

	overlays  *ui.OverlayRegistry
	hud       *ui.HUD
	perf      *ui.PerfPanel
	inspector *ui.Inspector
	controls  *ui.ControlsPanel

	relayOn bool
	relayID func() string
}

// NewWindow opens the window sized from cfg.Screen and uploads the first
// frame.
func NewWindow(g *game.Game, cfg *config.Config, title string) *Window {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), title)
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	world := g.Bounds()
	img := rl.GenImageColor(int(world.Width), int(world.Height), rl.Black)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	w := &Window{
		game:      g,
		cam:       camera.New(float64(cfg.Screen.Width), float64(cfg.Screen.Height), world),
		tex:       tex,
		pixels:    make([]color.RGBA, int(world.Width)*int(world.Height)),
		title:     title,
		overlays:  ui.NewOverlayRegistry(),
		hud:       ui.NewHUD(),
		perf:      ui.NewPerfPanel(int32(cfg.Screen.Width)-260, 10),
		inspector: ui.NewInspector(int32(cfg.Screen.Width)-250, 170, 240),
		controls:  ui.NewControlsPanel(10, 105, 220),
	}

	w.overlays.SetEnabled(ui.OverlayHUD, cfg.Debug.Info)
	w.overlays.SetEnabled(ui.OverlayInspector, true)
	if cfg.Debug.Visual {
		w.overlays.SetEnabled(ui.OverlayQueryCircles, true)
		w.overlays.SetEnabled(ui.OverlayGridCells, true)
		w.overlays.SetEnabled(ui.OverlayAttraction, true)
	}
	g.SetOverlays(w.overlays.Mask())
	return w
}

// SetRelayStatus makes the HUD report the canvas id returned by id.
func (w *Window) SetRelayStatus(id func() string) {
	w.relayOn = id != nil
	w.relayID = id
}

// Present implements game.Display. It returns game.ErrStopped when the
// window is closed.
func (w *Window) Present(frame *raster.Buffer) error {
	if rl.WindowShouldClose() {
		return game.ErrStopped
	}
	w.handleInput()
	w.upload(frame)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	for _, t := range w.cam.Tiles() {
		rl.DrawTexturePro(w.tex, rect(t.Src), rect(t.Dst), rl.Vector2{}, 0, rl.White)
	}
	w.drawSelection()
	w.drawUI()

	rl.EndDrawing()
	return nil
}

func rect(r camera.Rect) rl.Rectangle {
	return rl.Rectangle{X: float32(r.X), Y: float32(r.Y), Width: float32(r.W), Height: float32(r.H)}
}

// upload copies the frame into the texture.
func (w *Window) upload(frame *raster.Buffer) {
	pix := frame.Pix()
	for i := range w.pixels {
		o := i * 4
		w.pixels[i] = color.RGBA{R: pix[o], G: pix[o+1], B: pix[o+2], A: 255}
	}
	rl.UpdateTexture(w.tex, w.pixels)
}

func (w *Window) handleInput() {
	if rl.IsWindowResized() {
		sw, sh := rl.GetScreenWidth(), rl.GetScreenHeight()
		w.cam.Resize(float64(sw), float64(sh))
		w.perf.SetPosition(int32(sw)-260, 10)
		w.inspector.SetPosition(int32(sw)-250, 170)
	}

	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		switch key {
		case rl.KeySpace:
			w.game.SetPaused(!w.game.Paused())
		case rl.KeyTab:
			w.controls.Toggle()
		case rl.KeyHome:
			w.cam.Reset()
		case rl.KeyEqual, rl.KeyKpAdd:
			w.game.SetStepsPerUpdate(w.game.StepsPerUpdate() + 1)
		case rl.KeyMinus, rl.KeyKpSubtract:
			w.game.SetStepsPerUpdate(w.game.StepsPerUpdate() - 1)
		default:
			if _, _, ok := w.overlays.HandleKeyPress(key); ok {
				w.game.SetOverlays(w.overlays.Mask())
			}
		}
	}

	mouse := rl.GetMousePosition()
	screen := components.V2(float64(mouse.X), float64(mouse.Y))

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		w.cam.ZoomAt(screen, math.Pow(1.1, float64(wheel)))
	}
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		w.cam.Pan(components.V2(-float64(d.X), -float64(d.Y)))
	}

	overPanel := w.controls.IsVisible() && rl.CheckCollisionPointRec(mouse, w.controls.Bounds(w.overlays))
	if overPanel {
		return
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		w.game.SpawnAt(w.cam.ScreenToWorld(screen))
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		id, _ := w.game.CreatureAt(w.cam.ScreenToWorld(screen), selectRadius/w.cam.Zoom)
		w.game.Select(id)
	}
}

func (w *Window) drawSelection() {
	c, ok := w.game.Creature(w.game.Selected())
	if !ok {
		return
	}
	s := w.cam.WorldToScreen(c.Position)
	r := float32(math.Max(6, c.Size*w.cam.Zoom+4))
	rl.DrawCircleLines(int32(s.X), int32(s.Y), r, rl.Magenta)
}

func (w *Window) drawUI() {
	if w.overlays.IsEnabled(ui.OverlayHUD) {
		data := ui.HUDData{
			Title:      w.title,
			Population: w.game.Population(),
			Queued:     w.game.Queued(),
			Tick:       w.game.Tick(),
			Speed:      w.game.StepsPerUpdate(),
			FPS:        rl.GetFPS(),
			Paused:     w.game.Paused(),
			RelayOn:    w.relayOn,
		}
		if w.relayID != nil {
			data.RelayID = w.relayID()
		}
		w.hud.Draw(data)
		w.hud.DrawControls(int32(rl.GetScreenHeight()), controlsLegend)
	}

	if w.overlays.IsEnabled(ui.OverlayPerf) {
		w.perf.Draw(w.game.PerfStats())
	}

	if w.overlays.IsEnabled(ui.OverlayInspector) {
		if c, ok := w.game.Creature(w.game.Selected()); ok {
			w.inspector.Draw(c)
		}
	}

	act := w.controls.Draw(ui.ControlsState{Paused: w.game.Paused(), Steps: w.game.StepsPerUpdate()}, w.overlays)
	w.game.SetPaused(act.Paused)
	w.game.SetStepsPerUpdate(act.Steps)
	if act.Spawn {
		w.game.SpawnAt(w.cam.Center)
	}
	if act.ResetView {
		w.cam.Reset()
	}
	if act.Overlays {
		w.game.SetOverlays(w.overlays.Mask())
	}
}

// Close releases the texture and closes the window.
func (w *Window) Close() {
	rl.UnloadTexture(w.tex)
	rl.CloseWindow()
}

package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsState is the simulation state the controls panel edits.
type ControlsState struct {
	Paused bool
	Steps  int // Ticks per displayed frame
}

// ControlsAction reports what the user asked for this frame.
type ControlsAction struct {
	Paused    bool
	Steps     int
	Spawn     bool // Add a random creature at the view center
	ResetView bool
	Overlays  bool // An overlay toggle changed
}

// ControlsPanel renders the left-side controls panel with simulation
// buttons and overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Bounds returns the panel rectangle for the given registry, used to keep
// clicks on the panel from reaching the canvas.
func (c *ControlsPanel) Bounds(overlays *OverlayRegistry) rl.Rectangle {
	return rl.Rectangle{X: float32(c.x), Y: float32(c.y), Width: float32(c.width), Height: float32(c.height(overlays))}
}

func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	th := c.renderer.Theme
	rows := 0
	for _, cat := range overlays.Categories() {
		rows += len(overlays.ByCategory(cat)) + 1
	}
	return th.Padding*3 + 24 + 3*30 + int32(rows)*24
}

// Draw renders the panel and returns the requested changes.
func (c *ControlsPanel) Draw(state ControlsState, overlays *OverlayRegistry) ControlsAction {
	act := ControlsAction{Paused: state.Paused, Steps: state.Steps}
	if !c.visible {
		return act
	}

	r := c.renderer
	padding := r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, c.height(overlays))

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	w := float32(c.width - padding*2)

	rl.DrawText("Simulation", int32(x), int32(y), 16, rl.White)
	y += 24

	half := (w - 10) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 24}, toggleText(state.Paused, "Resume", "Pause")) {
		act.Paused = !state.Paused
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 24}, "Spawn") {
		act.Spawn = true
	}
	y += 30

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 24}, "Reset View") {
		act.ResetView = true
	}
	y += 30

	steps := gui.SliderBar(
		rl.Rectangle{X: x + 40, Y: y, Width: w - 80, Height: 20},
		"Speed", fmt.Sprintf("%dx", state.Steps),
		float32(state.Steps), 1, 10,
	)
	act.Steps = int(steps + 0.5)
	y += 30

	for _, category := range overlays.Categories() {
		rl.DrawText(category.String(), int32(x), int32(y), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += 24
		for _, desc := range overlays.ByCategory(category) {
			enabled := overlays.IsEnabled(desc.ID)
			label := fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
			if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 20}, toggleText(enabled, "* "+label, label)) {
				overlays.Toggle(desc.ID)
				act.Overlays = true
			}
			y += 24
		}
	}

	return act
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}


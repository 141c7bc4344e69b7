package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/game"
)

// Inspector renders the selected creature's traits.
type Inspector struct {
	renderer    *Renderer
	x, y        int32
	width       int32
	personality []components.FieldDescriptor
	derived     []components.FieldDescriptor
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer:    NewRenderer(),
		x:           x,
		y:           y,
		width:       width,
		personality: components.PersonalityFieldDescriptors(),
		derived:     components.DerivedFieldDescriptors(),
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for c.
func (ins *Inspector) Draw(c game.CreatureSummary) {
	r := ins.renderer
	th := r.Theme
	rows := int32(len(ins.personality)+len(ins.derived)) + 7
	r.DrawPanel(ins.x, ins.y, ins.width, rows*(th.LineHeight+2)+th.Padding*2)

	x := ins.x + th.Padding
	y := ins.y + th.Padding
	w := ins.width - th.Padding*2

	rl.DrawText(fmt.Sprintf("Creature #%d", c.ID), x, y, 16, rl.White)
	y += th.LineHeight + 4
	y = r.DrawLabelValue(x, y, "Origin", fmt.Sprintf("%s @ %d", c.Origin, c.BirthTick))
	y = r.DrawLabelValue(x, y, "Position", fmt.Sprintf("%.0f, %.0f", c.Position.X, c.Position.Y))
	y = r.DrawColorSwatch(x, y, "Color", c.Color)
	y += 4

	y = r.DrawSection(x, y, "Personality", ins.personality, c, w)
	r.DrawSection(x, y, "Derived", ins.derived, c, w)
}

package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/trails/components"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a progress bar for value within [minVal, maxVal].
func (r *Renderer) DrawBar(x, y int32, label, text string, value, minVal, maxVal float64, width int32) int32 {
	ratio := 0.0
	if maxVal > minVal {
		ratio = math.Max(0, math.Min(1, (value-minVal)/(maxVal-minVal)))
	}

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float64(barWidth)*ratio), r.Theme.BarHeight, r.Theme.BarFill)
	rl.DrawText(text, barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawCenteredBar draws a bar centered at 0 for values in [-limit, +limit].
func (r *Renderer) DrawCenteredBar(x, y int32, label, text string, value, limit float64, width int32) int32 {
	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	centerX := barX + barWidth/2
	rl.DrawLine(centerX, y+2, centerX, y+2+r.Theme.BarHeight, rl.Color{R: 80, G: 80, B: 80, A: 255})

	ratio := 0.0
	if limit > 0 {
		ratio = math.Min(1, math.Abs(value)/limit)
	}
	fillWidth := int32(float64(barWidth/2) * ratio)
	fillX := centerX
	barColor := r.Theme.BarFillPositive
	if value < 0 {
		fillX = centerX - fillWidth
		barColor = r.Theme.BarFillNegative
	}
	rl.DrawRectangle(fillX, y+2, fillWidth, r.Theme.BarHeight, barColor)
	rl.DrawText(text, barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawColorSwatch draws a color swatch.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, c components.Color) int32 {
	const swatchSize = 12
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, swatchSize, swatchSize, rl.Color{R: c.R, G: c.G, B: c.B, A: 255})
	rl.DrawRectangleLines(x+r.Theme.LabelWidth, y+1, swatchSize, swatchSize, r.Theme.PanelBorder)
	return y + r.Theme.LineHeight
}

// DrawField renders one descriptor-driven field. Bars spanning zero are
// drawn centered.
func (r *Renderer) DrawField(x, y int32, fd components.FieldDescriptor, src FieldSource, width int32) int32 {
	value, ok := src.FieldValue(fd.ID)
	if !ok {
		return y
	}
	text := fmt.Sprintf(fd.Format, value)

	switch {
	case !fd.IsBar:
		return r.DrawLabelValue(x, y, fd.Label, text)
	case fd.Min < 0 && fd.Max > 0:
		return r.DrawCenteredBar(x, y, fd.Label, text, value, math.Max(-fd.Min, fd.Max), width)
	default:
		return r.DrawBar(x, y, fd.Label, text, value, fd.Min, fd.Max, width)
	}
}

// DrawSection renders a titled group of fields.
func (r *Renderer) DrawSection(x, y int32, title string, fields []components.FieldDescriptor, src FieldSource, width int32) int32 {
	if title != "" {
		y = r.DrawSectionHeader(x, y, title)
	}
	for _, fd := range fields {
		y = r.DrawField(x, y, fd, src, width)
	}
	return y + 4
}

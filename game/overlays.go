package game

import (
	"math"

	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/raster"
)

var (
	overlayCircleColor = components.Color{R: 40, G: 40, B: 40, A: 255}
	overlayCellColor   = components.Color{R: 0, G: 120, B: 255, A: 255}
	overlayLineColor   = components.Color{R: 255, G: 0, B: 0, A: 255}
)

// circleSegments is the polygon resolution of query circle outlines.
const circleSegments = 24

// drawOverlays draws the enabled debug visuals onto the frame using the
// traces recorded during the social pass.
func (g *Game) drawOverlays() {
	if len(g.social) != len(g.creatures) {
		return
	}

	for i, c := range g.creatures {
		tr := g.social[i]
		x, y := c.Position.Ints()

		if g.overlays&OverlayQueryCircles != 0 {
			drawCircleOutline(g.frame, c.Position, tr.radius, overlayCircleColor)
		}
		if g.overlays&OverlayAttraction != 0 && tr.reacted {
			tx, ty := c.Position.Add(tr.target).Ints()
			g.frame.Line(x, y, tx, ty, overlayLineColor)
		}
	}

	if g.overlays&OverlayGridCells != 0 {
		g.drawScannedCells()
	}
}

// drawScannedCells outlines the grid cells searched for the selected
// creature, or the first one when nothing is selected.
func (g *Game) drawScannedCells() {
	idx := 0
	if g.selectedID != 0 {
		idx = -1
		for i, c := range g.creatures {
			if c.ID == g.selectedID {
				idx = i
				break
			}
		}
	}
	if idx < 0 || idx >= len(g.creatures) {
		return
	}

	c := g.creatures[idx]
	g.queryCells = g.grid.QueryCells(g.queryCells[:0], g.positions[idx], g.social[idx].radius)
	for _, cell := range g.queryCells {
		x, y, w, h := g.grid.CellRect(cell)
		x0, y0 := int(x), int(y)
		x1, y1 := int(x+w)-1, int(y+h)-1
		g.frame.Line(x0, y0, x1, y0, overlayCellColor)
		g.frame.Line(x1, y0, x1, y1, overlayCellColor)
		g.frame.Line(x1, y1, x0, y1, overlayCellColor)
		g.frame.Line(x0, y1, x0, y0, overlayCellColor)
	}
	drawCircleOutline(g.frame, c.Position, g.social[idx].radius, overlayCellColor)
}

// drawCircleOutline approximates a circle with line segments.
func drawCircleOutline(b *raster.Buffer, center components.Vec2, r float64, c components.Color) {
	if r <= 0 {
		return
	}
	px, py := center.Add(components.V2(r, 0)).Ints()
	for k := 1; k <= circleSegments; k++ {
		a := 2 * math.Pi * float64(k) / circleSegments
		x, y := center.Add(components.V2(r*math.Cos(a), r*math.Sin(a))).Ints()
		b.Line(px, py, x, y, c)
		px, py = x, y
	}
}

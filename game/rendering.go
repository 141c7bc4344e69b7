package game

import (
	"math"

	"github.com/pthm-cable/trails/creature"
	"github.com/pthm-cable/trails/raster"
)

// savedBlock is the trail content under one footprint, kept in restore mode
// so the footprint can be removed before the next tick paints.
type savedBlock struct {
	x, y  int
	block *raster.Block
}

// paintTrails moves the trail under every creature toward its color.
func (g *Game) paintTrails() {
	// Restore mode keeps last tick's footprints on the trail; take them off
	// in reverse order so overlapping footprints unwind exactly.
	for i := len(g.saved) - 1; i >= 0; i-- {
		s := g.saved[i]
		g.trail.SetBlock(s.x, s.y, s.block)
	}
	g.saved = g.saved[:0]

	fading := g.config().Render.Fading
	for _, c := range g.creatures {
		x, y := c.Position.Ints()
		r := int(math.Round(c.ColoringSpread))
		if fading {
			g.trail.FadingGradientCircle(x, y, r, c.Color, c.ColoringPercentage)
		} else {
			g.trail.GradientCircle(x, y, r, c.Color, c.ColoringPercentage)
		}
	}
}

// compose builds the frame: the trail with every creature's hard footprint
// on top.
func (g *Game) compose() {
	if g.config().Render.Compose == "restore" {
		g.composeRestore()
		return
	}

	g.frame.CopyFrom(g.trail)
	for _, c := range g.creatures {
		drawFootprint(g.frame, c)
	}
	if g.overlays != 0 {
		g.drawOverlays()
	}
}

// composeRestore draws the footprints straight onto the trail after saving
// the pixels beneath them. The frame and the trail share one buffer.
func (g *Game) composeRestore() {
	for i, c := range g.creatures {
		x, y := c.Position.Ints()
		s := footprintSize(c)
		if i >= len(g.blocks) {
			g.blocks = append(g.blocks, &raster.Block{})
		}
		blk := g.trail.Block(g.blocks[i], x, y, s, s)
		g.saved = append(g.saved, savedBlock{x: x, y: y, block: blk})
		drawFootprint(g.trail, c)
	}
}

func footprintSize(c *creature.Creature) int {
	return max(1, int(math.Round(c.Size)))
}

func drawFootprint(b *raster.Buffer, c *creature.Creature) {
	x, y := c.Position.Ints()
	s := footprintSize(c)
	b.Rectangle(x, y, s, s, c.Color)
}

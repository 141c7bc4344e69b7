// Package camera maps between window pixels and the toroidal world.
package camera

import (
	"math"

	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/spatial"
)

// Camera controls the viewport into the simulation world.
// Supports pan and zoom with toroidal world wrapping.
type Camera struct {
	// Center is the world point shown in the middle of the viewport.
	Center components.Vec2

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float64

	// Viewport dimensions (window size)
	ViewportW, ViewportH float64

	World components.World

	// Zoom constraints
	MinZoom, MaxZoom float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Tile pairs a region of the world with where it lands in the viewport.
type Tile struct {
	Src Rect // World pixels
	Dst Rect // Viewport pixels
}

// New creates a camera centered on the world at the smallest zoom that
// still fills the viewport.
func New(viewportW, viewportH float64, world components.World) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		World:     world,
		MaxZoom:   8.0,
	}
	c.MinZoom = c.fillZoom()
	c.Reset()
	return c
}

// fillZoom is the zoom at which the visible area never exceeds the world,
// so no world pixel is shown twice.
func (c *Camera) fillZoom() float64 {
	return math.Max(c.ViewportW/c.World.Width, c.ViewportH/c.World.Height)
}

// WorldToScreen converts world coordinates to viewport coordinates along
// the shortest wrapped path from the camera center.
func (c *Camera) WorldToScreen(p components.Vec2) components.Vec2 {
	d := spatial.ToroidalDelta(c.Center, p, c.World)
	return components.V2(c.ViewportW/2+d.X*c.Zoom, c.ViewportH/2+d.Y*c.Zoom)
}

// ScreenToWorld converts viewport coordinates to a wrapped world point.
func (c *Camera) ScreenToWorld(s components.Vec2) components.Vec2 {
	d := components.V2((s.X-c.ViewportW/2)/c.Zoom, (s.Y-c.ViewportH/2)/c.Zoom)
	return c.World.Wrap(c.Center.Add(d))
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float64) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.fillZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// Pan moves the camera by the given delta in viewport pixels.
// Automatically wraps around world boundaries.
func (c *Camera) Pan(d components.Vec2) {
	c.Center = c.World.Wrap(c.Center.Add(d.Scale(1 / c.Zoom)))
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, zoom))
}

// ZoomAt multiplies the zoom by factor while keeping the world point under
// the viewport position s fixed.
func (c *Camera) ZoomAt(s components.Vec2, factor float64) {
	anchor := c.ScreenToWorld(s)
	c.SetZoom(c.Zoom * factor)
	after := c.ScreenToWorld(s)
	c.Center = c.World.Wrap(c.Center.Add(spatial.ToroidalDelta(after, anchor, c.World)))
}

// Reset returns the camera to the world center at the fill zoom.
func (c *Camera) Reset() {
	c.Center = components.V2(c.World.Width/2, c.World.Height/2)
	c.Zoom = c.MinZoom
}

// Tiles splits the visible area at the world's wrap seams. Drawing every
// tile's Src region of the world into its Dst rectangle covers the
// viewport exactly once. At most four tiles are returned.
func (c *Camera) Tiles() []Tile {
	xs := spans(c.Center.X-c.ViewportW/(2*c.Zoom), c.ViewportW/c.Zoom, c.World.Width)
	ys := spans(c.Center.Y-c.ViewportH/(2*c.Zoom), c.ViewportH/c.Zoom, c.World.Height)

	tiles := make([]Tile, 0, len(xs)*len(ys))
	for _, y := range ys {
		for _, x := range xs {
			tiles = append(tiles, Tile{
				Src: Rect{X: x.start, Y: y.start, W: x.length, H: y.length},
				Dst: Rect{X: x.offset * c.Zoom, Y: y.offset * c.Zoom, W: x.length * c.Zoom, H: y.length * c.Zoom},
			})
		}
	}
	return tiles
}

type span struct {
	start, length, offset float64
}

// spans cuts the interval [from, from+length) on a circle of the given
// size into at most two pieces that do not cross the seam.
func spans(from, length, size float64) []span {
	length = math.Min(length, size)
	start := components.Mod(from, size)
	if start+length <= size {
		return []span{{start: start, length: length}}
	}
	first := size - start
	return []span{
		{start: start, length: first},
		{start: 0, length: length - first, offset: first},
	}
}

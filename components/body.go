package components

import (
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a straight (non-premultiplied) RGBA color.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// Channels returns the color as a 4-element array in RGBA order.
func (c Color) Channels() [4]uint8 {
	return [4]uint8{c.R, c.G, c.B, c.A}
}

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = uint32(c.A)
	a |= a << 8
	return
}

// Blend mixes c and o halfway in RGB space. Alpha is averaged.
func (c Color) Blend(o Color) Color {
	a := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	b := colorful.Color{R: float64(o.R) / 255, G: float64(o.G) / 255, B: float64(o.B) / 255}
	r, g, bl := a.BlendRgb(b, 0.5).Clamped().RGB255()
	return Color{R: r, G: g, B: bl, A: uint8((int(c.A) + int(o.A)) / 2)}
}

// RandomColor draws a saturated, reasonably bright opaque color.
func RandomColor(rng *rand.Rand) Color {
	h := rng.Float64() * 360
	s := 0.55 + 0.45*rng.Float64()
	v := 0.6 + 0.4*rng.Float64()
	r, g, b := colorful.Hsv(h, s, v).Clamped().RGB255()
	return RGB(r, g, b)
}

// Package raster paints soft gradient shapes and lines into an RGBA pixel
// buffer. The buffer is the world surface, so every coordinate wraps
// toroidally.
package raster

import (
	"fmt"
	"image"
	"math"

	"github.com/pthm-cable/trails/components"
)

// MaxCoordinate bounds line endpoints and every point Line visits.
const MaxCoordinate = 100000

// Buffer is a row-major RGBA pixel buffer, 4 bytes per pixel.
type Buffer struct {
	img *image.RGBA
	w   int
	h   int
}

// New allocates a transparent black buffer.
func New(w, h int) *Buffer {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("raster: size must be positive, got %dx%d", w, h))
	}
	return &Buffer{img: image.NewRGBA(image.Rect(0, 0, w, h)), w: w, h: h}
}

// Width returns the width in pixels.
func (b *Buffer) Width() int { return b.w }

// Height returns the height in pixels.
func (b *Buffer) Height() int { return b.h }

// Image exposes the backing image. Writes through it are visible to b.
func (b *Buffer) Image() *image.RGBA { return b.img }

// Pix returns the raw pixel bytes.
func (b *Buffer) Pix() []uint8 { return b.img.Pix }

func (b *Buffer) offset(x, y int) int {
	x = components.ModInt(x, b.w)
	y = components.ModInt(y, b.h)
	return y*b.img.Stride + x*4
}

// Pixel returns the color at (x, y).
func (b *Buffer) Pixel(x, y int) components.Color {
	o := b.offset(x, y)
	p := b.img.Pix[o : o+4 : o+4]
	return components.Color{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// SetPixel overwrites the pixel at (x, y).
func (b *Buffer) SetPixel(x, y int, c components.Color) {
	o := b.offset(x, y)
	p := b.img.Pix[o : o+4 : o+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c components.Color) {
	pix := b.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
}

// Rectangle overwrites the dx by dy block at (x, y) with c.
func (b *Buffer) Rectangle(x, y, dx, dy int, c components.Color) {
	for j := 0; j < dy; j++ {
		for i := 0; i < dx; i++ {
			b.SetPixel(x+i, y+j, c)
		}
	}
}

// approach moves v one gradient step toward target. The step is the
// fraction p of the remaining distance, at least one unit so the
// distance always shrinks, and never past the target.
func approach(v, target uint8, p float64) uint8 {
	d := int(target) - int(v)
	if d == 0 || p <= 0 {
		return v
	}
	ad := d
	if ad < 0 {
		ad = -ad
	}
	step := int(math.Round(float64(ad) * p))
	if step < 1 {
		step = 1
	}
	if step > ad {
		step = ad
	}
	if d < 0 {
		return v - uint8(step)
	}
	return v + uint8(step)
}

func (b *Buffer) gradientPixel(x, y int, c components.Color, p float64) {
	o := b.offset(x, y)
	px := b.img.Pix[o : o+4 : o+4]
	px[0] = approach(px[0], c.R, p)
	px[1] = approach(px[1], c.G, p)
	px[2] = approach(px[2], c.B, p)
	px[3] = approach(px[3], c.A, p)
}

// GradientHorizontalLine moves length pixels starting at (x, y) one
// gradient step toward c.
func (b *Buffer) GradientHorizontalLine(x, y, length int, c components.Color, p float64) {
	for i := 0; i < length; i++ {
		b.gradientPixel(x+i, y, c, p)
	}
}

// GradientRectangle moves the dx by dy block at (x, y) one gradient step
// toward c.
func (b *Buffer) GradientRectangle(x, y, dx, dy int, c components.Color, p float64) {
	for j := 0; j < dy; j++ {
		b.GradientHorizontalLine(x, y+j, dx, c, p)
	}
}

// circleSpans returns the half-width of the disc of radius r for every
// scanline offset 0..r, using the integer midpoint circle algorithm.
func circleSpans(r int, dst []int) []int {
	dst = dst[:0]
	for i := 0; i <= r; i++ {
		dst = append(dst, 0)
	}
	x, y := r, 0
	d := 1 - r
	for x >= y {
		if x > dst[y] {
			dst[y] = x
		}
		if y > dst[x] {
			dst[x] = y
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
	return dst
}

// GradientCircle moves every pixel of the disc at (cx, cy) one gradient
// step toward c.
func (b *Buffer) GradientCircle(cx, cy, r int, c components.Color, p float64) {
	if r < 0 {
		return
	}
	var buf [64]int
	spans := circleSpans(r, buf[:0])
	for dy, hw := range spans {
		b.GradientHorizontalLine(cx-hw, cy+dy, 2*hw+1, c, p)
		if dy != 0 {
			b.GradientHorizontalLine(cx-hw, cy-dy, 2*hw+1, c, p)
		}
	}
}

// FadingGradientCircle is GradientCircle with the step fraction falling
// off toward the rim, both per scanline and along each span.
func (b *Buffer) FadingGradientCircle(cx, cy, r int, c components.Color, p float64) {
	if r < 0 {
		return
	}
	var buf [64]int
	spans := circleSpans(r, buf[:0])
	for dy, hw := range spans {
		row := p * float64(r+1-dy) / float64(r+1)
		b.fadingSpan(cx, cy+dy, hw, c, row)
		if dy != 0 {
			b.fadingSpan(cx, cy-dy, hw, c, row)
		}
	}
}

func (b *Buffer) fadingSpan(cx, y, hw int, c components.Color, p float64) {
	mid := float64(hw + 1)
	for dx := -hw; dx <= hw; dx++ {
		f := 1 - math.Abs(float64(dx))/mid
		b.gradientPixel(cx+dx, y, c, p*f)
	}
}

// Line draws a one pixel Bresenham line. It panics if any coordinate on
// the way exceeds MaxCoordinate in magnitude.
func (b *Buffer) Line(x0, y0, x1, y1 int, c components.Color) {
	checkCoordinate(x1, y1)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		checkCoordinate(x0, y0)
		b.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func checkCoordinate(x, y int) {
	if abs(x) > MaxCoordinate || abs(y) > MaxCoordinate {
		panic(fmt.Sprintf("raster: line coordinate (%d, %d) exceeds %d", x, y, MaxCoordinate))
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Block is a saved rectangle of pixels.
type Block struct {
	W, H int
	Pix  []uint8
}

// Block copies the w by h rectangle at (x, y) into dst, reusing its
// storage when large enough, and returns it.
func (b *Buffer) Block(dst *Block, x, y, w, h int) *Block {
	if dst == nil {
		dst = &Block{}
	}
	n := w * h * 4
	if cap(dst.Pix) < n {
		dst.Pix = make([]uint8, n)
	}
	dst.W, dst.H, dst.Pix = w, h, dst.Pix[:n]
	k := 0
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			o := b.offset(x+i, y+j)
			copy(dst.Pix[k:k+4], b.img.Pix[o:o+4])
			k += 4
		}
	}
	return dst
}

// SetBlock writes blk back with its top-left corner at (x, y).
func (b *Buffer) SetBlock(x, y int, blk *Block) {
	k := 0
	for j := 0; j < blk.H; j++ {
		for i := 0; i < blk.W; i++ {
			o := b.offset(x+i, y+j)
			copy(b.img.Pix[o:o+4], blk.Pix[k:k+4])
			k += 4
		}
	}
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	c := New(b.w, b.h)
	copy(c.img.Pix, b.img.Pix)
	return c
}

// CopyFrom overwrites b with src, which must have the same size.
func (b *Buffer) CopyFrom(src *Buffer) {
	if src.w != b.w || src.h != b.h {
		panic(fmt.Sprintf("raster: copy from %dx%d into %dx%d", src.w, src.h, b.w, b.h))
	}
	copy(b.img.Pix, src.img.Pix)
}

// Downsample box-filters b onto a w by h grid and returns the cell colors
// row-major, reusing dst. Every cell averages at least one source pixel, so
// grids larger than b repeat pixels.
func (b *Buffer) Downsample(dst []components.Color, w, h int) []components.Color {
	dst = dst[:0]
	for j := 0; j < h; j++ {
		y0, y1 := cellRange(j, h, b.h)
		for i := 0; i < w; i++ {
			x0, x1 := cellRange(i, w, b.w)

			var r, g, bl, a, n int
			for y := y0; y < y1; y++ {
				o := y*b.img.Stride + x0*4
				for x := x0; x < x1; x++ {
					p := b.img.Pix[o : o+4 : o+4]
					r += int(p[0])
					g += int(p[1])
					bl += int(p[2])
					a += int(p[3])
					n++
					o += 4
				}
			}
			dst = append(dst, components.Color{
				R: uint8(r / n), G: uint8(g / n), B: uint8(bl / n), A: uint8(a / n),
			})
		}
	}
	return dst
}

// cellRange returns the source span [lo, hi) covered by cell i of n over
// size pixels.
func cellRange(i, n, size int) (int, int) {
	lo := i * size / n
	hi := (i + 1) * size / n
	if hi <= lo {
		hi = lo + 1
	}
	if hi > size {
		lo, hi = size-1, size
	}
	return lo, hi
}

package components

import "math"

// Vec2 is a 2-D vector value. All methods return new values and never
// modify the receiver.
type Vec2 struct {
	X, Y float64
}

// V2 is shorthand for Vec2{x, y}.
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Mag2 returns the squared magnitude.
func (v Vec2) Mag2() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Norm returns the unit vector in the direction of v, or v itself when v is zero.
func (v Vec2) Norm() Vec2 {
	m2 := v.Mag2()
	if m2 == 0 {
		return v
	}
	return v.Scale(1 / math.Sqrt(m2))
}

// Round rounds both components to the nearest integer.
func (v Vec2) Round() Vec2 {
	return Vec2{math.Round(v.X), math.Round(v.Y)}
}

// Ints returns the rounded integer coordinates.
func (v Vec2) Ints() (int, int) {
	r := v.Round()
	return int(r.X), int(r.Y)
}

// World describes the toroidal plane the creatures live on.
// Width and Height are in pixels and must both be positive.
type World struct {
	Width, Height float64
}

// Wrap maps p into [0,Width) x [0,Height), independently per axis.
func (w World) Wrap(p Vec2) Vec2 {
	return Vec2{Mod(p.X, w.Width), Mod(p.Y, w.Height)}
}

// Contains reports whether p already lies inside the world bounds.
func (w World) Contains(p Vec2) bool {
	return p.X >= 0 && p.X < w.Width && p.Y >= 0 && p.Y < w.Height
}

// Mod returns ((x % m) + m) % m for floats. A result that rounds up to m
// is reported as 0 so the value always lies in [0,m).
func Mod(x, m float64) float64 {
	r := math.Mod(math.Mod(x, m)+m, m)
	if r >= m {
		return 0
	}
	return r
}

// ModInt is Mod for integers.
func ModInt(x, m int) int {
	return ((x % m) + m) % m
}

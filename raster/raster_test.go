package raster

import (
	"testing"

	"github.com/pthm-cable/trails/components"
)

func channelDistance(a, b components.Color) [4]int {
	ac, bc := a.Channels(), b.Channels()
	var d [4]int
	for i := range d {
		d[i] = abs(int(ac[i]) - int(bc[i]))
	}
	return d
}

func TestGradientConverges(t *testing.T) {
	tests := []struct {
		name   string
		start  components.Color
		target components.Color
		p      float64
	}{
		{"darken", components.RGB(255, 255, 255), components.RGB(10, 200, 0), 0.02},
		{"brighten", components.RGB(0, 0, 0), components.RGB(255, 128, 7), 0.3},
		{"tiny fraction", components.Color{R: 100, G: 100, B: 100, A: 0}, components.RGB(103, 90, 100), 0.0001},
		{"full step", components.RGB(0, 50, 250), components.RGB(250, 50, 0), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(4, 1)
			b.Fill(tt.start)

			prev := channelDistance(b.Pixel(1, 0), tt.target)
			for call := 0; call < 2000; call++ {
				b.GradientHorizontalLine(0, 0, 4, tt.target, tt.p)
				px := b.Pixel(1, 0)
				cur := channelDistance(px, tt.target)
				for ch := range cur {
					if prev[ch] > 0 && cur[ch] >= prev[ch] {
						t.Fatalf("call %d channel %d: distance %d did not shrink from %d", call, ch, cur[ch], prev[ch])
					}
					if prev[ch] == 0 && cur[ch] != 0 {
						t.Fatalf("call %d channel %d: moved away from the target", call, ch)
					}
				}
				// Overshoot would flip the sign of the difference.
				pc, tc, sc := px.Channels(), tt.target.Channels(), tt.start.Channels()
				for ch := range pc {
					if (int(sc[ch])-int(tc[ch]))*(int(pc[ch])-int(tc[ch])) < 0 {
						t.Fatalf("call %d channel %d overshot: %d past %d", call, ch, pc[ch], tc[ch])
					}
				}
				prev = cur
			}
			if got := b.Pixel(3, 0); got != tt.target {
				t.Errorf("after many calls pixel = %v, want %v", got, tt.target)
			}
		})
	}
}

func TestGradientZeroFraction(t *testing.T) {
	b := New(2, 2)
	b.Fill(components.RGB(1, 2, 3))
	b.GradientRectangle(0, 0, 2, 2, components.RGB(200, 200, 200), 0)
	if got := b.Pixel(0, 0); got != components.RGB(1, 2, 3) {
		t.Errorf("pixel = %v, want unchanged", got)
	}
}

func TestRectangleWraps(t *testing.T) {
	b := New(10, 10)
	red := components.RGB(255, 0, 0)
	b.Rectangle(8, 8, 4, 4, red)

	for _, p := range [][2]int{{8, 8}, {9, 9}, {0, 0}, {1, 1}, {9, 0}, {0, 9}} {
		if got := b.Pixel(p[0], p[1]); got != red {
			t.Errorf("Pixel(%d,%d) = %v, want red", p[0], p[1], got)
		}
	}
	if got := b.Pixel(2, 2); got == red {
		t.Errorf("Pixel(2,2) painted outside the rectangle")
	}
}

func TestGradientCircleShape(t *testing.T) {
	b := New(40, 40)
	c := components.RGB(0, 0, 255)
	b.GradientCircle(20, 20, 5, c, 1)

	painted := func(x, y int) bool { return b.Pixel(x, y) == c }
	for _, p := range [][2]int{{20, 20}, {25, 20}, {15, 20}, {20, 25}, {20, 15}} {
		if !painted(p[0], p[1]) {
			t.Errorf("(%d,%d) should be inside the disc", p[0], p[1])
		}
	}
	for _, p := range [][2]int{{26, 20}, {20, 26}, {25, 25}, {15, 15}} {
		if painted(p[0], p[1]) {
			t.Errorf("(%d,%d) should be outside the disc", p[0], p[1])
		}
	}
	// Symmetric about the center.
	for dy := -5; dy <= 5; dy++ {
		for dx := -5; dx <= 5; dx++ {
			if painted(20+dx, 20+dy) != painted(20-dx, 20-dy) || painted(20+dx, 20+dy) != painted(20+dy, 20+dx) {
				t.Fatalf("disc not symmetric at offset (%d,%d)", dx, dy)
			}
		}
	}
}

func TestFadingCircleFallsOff(t *testing.T) {
	b := New(40, 40)
	b.Fill(components.RGB(255, 255, 255))
	b.FadingGradientCircle(20, 20, 8, components.RGB(0, 0, 0), 0.5)

	center := b.Pixel(20, 20).R
	mid := b.Pixel(24, 20).R
	rim := b.Pixel(28, 20).R
	if !(center < mid && mid < rim) {
		t.Errorf("fading brush should darken most at the center: center %d, mid %d, rim %d", center, mid, rim)
	}
	if rim == 255 {
		t.Errorf("rim pixel untouched")
	}
	if b.Pixel(29, 20).R != 255 {
		t.Errorf("pixel beyond the radius was painted")
	}
}

func TestCircleWrapsAcrossEdge(t *testing.T) {
	b := New(20, 20)
	c := components.RGB(0, 255, 0)
	b.GradientCircle(0, 0, 2, c, 1)
	for _, p := range [][2]int{{19, 0}, {0, 19}, {18, 0}, {1, 1}} {
		if got := b.Pixel(p[0], p[1]); got != c {
			t.Errorf("Pixel(%d,%d) = %v, want wrapped paint", p[0], p[1], got)
		}
	}
}

func TestLine(t *testing.T) {
	b := New(20, 20)
	c := components.RGB(9, 9, 9)
	b.Line(2, 3, 12, 8, c)

	if b.Pixel(2, 3) != c || b.Pixel(12, 8) != c {
		t.Error("endpoints not drawn")
	}
	count := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if b.Pixel(x, y) == c {
				count++
			}
		}
	}
	if count != 11 {
		t.Errorf("line covered %d pixels, want 11", count)
	}
}

func TestLinePanicsOutOfBounds(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
	}{
		{"far endpoint", 0, 0, MaxCoordinate + 1, 0},
		{"far start", -MaxCoordinate - 5, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			New(8, 8).Line(tt.x0, tt.y0, tt.x1, tt.y1, components.RGB(1, 1, 1))
		})
	}
}

func TestBlockRoundtrip(t *testing.T) {
	b := New(16, 16)
	b.Fill(components.RGB(10, 20, 30))
	b.Rectangle(14, 14, 3, 3, components.RGB(200, 0, 0))

	saved := b.Block(nil, 14, 14, 3, 3)
	b.Rectangle(14, 14, 3, 3, components.RGB(0, 0, 200))
	b.SetBlock(14, 14, saved)

	for _, p := range [][2]int{{14, 14}, {15, 15}, {0, 0}} {
		if got := b.Pixel(p[0], p[1]); got != components.RGB(200, 0, 0) {
			t.Errorf("Pixel(%d,%d) = %v after restore, want red", p[0], p[1], got)
		}
	}

	reused := b.Block(saved, 0, 0, 1, 1)
	if reused != saved || len(reused.Pix) != 4 {
		t.Errorf("Block should reuse dst storage")
	}
}

func TestCloneIndependent(t *testing.T) {
	b := New(4, 4)
	b.Fill(components.RGB(1, 1, 1))
	c := b.Clone()
	c.SetPixel(0, 0, components.RGB(99, 99, 99))
	if b.Pixel(0, 0) != components.RGB(1, 1, 1) {
		t.Error("writing the clone changed the original")
	}

	b.CopyFrom(c)
	if b.Pixel(0, 0) != components.RGB(99, 99, 99) {
		t.Error("CopyFrom did not copy")
	}
}

func TestDownsample(t *testing.T) {
	b := New(4, 2)
	b.Fill(components.Color{R: 0, G: 0, B: 0, A: 255})
	b.Rectangle(0, 0, 2, 2, components.Color{R: 200, G: 100, B: 0, A: 255})
	b.SetPixel(2, 0, components.Color{R: 100, G: 0, B: 0, A: 255})

	tests := []struct {
		name string
		w, h int
		want []components.Color
	}{
		{"halves", 2, 1, []components.Color{
			{R: 200, G: 100, B: 0, A: 255},
			{R: 25, G: 0, B: 0, A: 255},
		}},
		{"identity row", 4, 1, []components.Color{
			{R: 200, G: 100, B: 0, A: 255},
			{R: 200, G: 100, B: 0, A: 255},
			{R: 50, G: 0, B: 0, A: 255},
			{R: 0, G: 0, B: 0, A: 255},
		}},
		{"upsampled", 8, 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Downsample(nil, tt.w, tt.h)
			if len(got) != tt.w*tt.h {
				t.Fatalf("got %d cells, want %d", len(got), tt.w*tt.h)
			}
			for i, want := range tt.want {
				if got[i] != want {
					t.Errorf("cell %d = %+v, want %+v", i, got[i], want)
				}
			}
		})
	}
}

package camera

import (
	"math"
	"testing"

	"github.com/pthm-cable/trails/components"
)

func near(a, b components.Vec2) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6
}

func TestNew(t *testing.T) {
	cam := New(1280, 720, components.World{Width: 2560, Height: 1440})

	if cam.Center != components.V2(1280, 720) {
		t.Errorf("expected camera at (1280, 720), got %v", cam.Center)
	}
	if cam.Zoom != 0.5 || cam.MinZoom != 0.5 {
		t.Errorf("expected fill zoom 0.5, got zoom=%v min=%v", cam.Zoom, cam.MinZoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, components.World{Width: 1280, Height: 720})

	s := cam.WorldToScreen(components.V2(640, 360))
	if !near(s, components.V2(640, 360)) {
		t.Errorf("expected screen center (640, 360), got %v", s)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, components.World{Width: 2560, Height: 1440})
	cam.SetZoom(1.5)

	testCases := []components.Vec2{
		{X: 640, Y: 360},  // center
		{X: 100, Y: 100},  // top-left
		{X: 1200, Y: 600}, // near bottom-right
	}

	for _, tc := range testCases {
		w := cam.ScreenToWorld(tc)
		s := cam.WorldToScreen(w)
		if !near(s, tc) {
			t.Errorf("roundtrip failed: %v -> %v -> %v", tc, w, s)
		}
	}
}

func TestToroidalWrap(t *testing.T) {
	cam := New(1280, 720, components.World{Width: 2560, Height: 1440})
	cam.SetZoom(1)
	cam.Center = components.V2(100, 720)

	// A point at the far right edge is closer across the seam.
	s := cam.WorldToScreen(components.V2(2500, 720))
	if s.X >= 640 {
		t.Errorf("expected point on left of screen, got x=%v", s.X)
	}

	w := cam.ScreenToWorld(components.V2(0, 360))
	if w.X < 0 || w.X >= 2560 {
		t.Errorf("screen edge mapped outside the world: %v", w)
	}
}

func TestPanWraps(t *testing.T) {
	cam := New(100, 100, components.World{Width: 200, Height: 200})
	cam.SetZoom(2)
	cam.Center = components.V2(10, 190)

	cam.Pan(components.V2(-40, 40))
	if !near(cam.Center, components.V2(190, 10)) {
		t.Errorf("pan did not wrap, center %v", cam.Center)
	}
}

func TestZoomClamped(t *testing.T) {
	cam := New(1280, 720, components.World{Width: 1280, Height: 720})

	cam.SetZoom(0.1)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("zoom %v below min %v", cam.Zoom, cam.MinZoom)
	}
	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("zoom %v above max %v", cam.Zoom, cam.MaxZoom)
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	cam := New(400, 300, components.World{Width: 400, Height: 300})
	s := components.V2(350, 40)
	before := cam.ScreenToWorld(s)

	cam.ZoomAt(s, 3)

	after := cam.ScreenToWorld(s)
	if !near(before, after) {
		t.Errorf("anchor moved from %v to %v", before, after)
	}
}

func TestResizeRaisesMinZoom(t *testing.T) {
	cam := New(640, 360, components.World{Width: 1280, Height: 720})
	if cam.Zoom != 0.5 {
		t.Fatalf("initial zoom = %v, want 0.5", cam.Zoom)
	}

	cam.Resize(1280, 1440)
	if cam.MinZoom != 2 || cam.Zoom != 2 {
		t.Errorf("after resize min=%v zoom=%v, want 2", cam.MinZoom, cam.Zoom)
	}
}

func TestTilesCoverViewport(t *testing.T) {
	world := components.World{Width: 400, Height: 300}

	tests := []struct {
		name   string
		center components.Vec2
		zoom   float64
		tiles  int
	}{
		{"centered fill", components.V2(200, 150), 1, 1},
		{"across x seam", components.V2(10, 150), 2, 2},
		{"across corner", components.V2(395, 5), 2, 4},
		{"inside", components.V2(200, 150), 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(400, 300, world)
			cam.SetZoom(tt.zoom)
			cam.Center = tt.center

			tiles := cam.Tiles()
			if len(tiles) != tt.tiles {
				t.Fatalf("got %d tiles, want %d", len(tiles), tt.tiles)
			}

			var area float64
			for _, tile := range tiles {
				area += tile.Dst.W * tile.Dst.H
				if tile.Src.X < 0 || tile.Src.X+tile.Src.W > world.Width+1e-9 ||
					tile.Src.Y < 0 || tile.Src.Y+tile.Src.H > world.Height+1e-9 {
					t.Errorf("tile source %+v leaves the world", tile.Src)
				}
				if math.Abs(tile.Dst.W-tile.Src.W*cam.Zoom) > 1e-9 {
					t.Errorf("tile %+v not scaled by zoom", tile)
				}
			}
			if math.Abs(area-400*300) > 1e-6 {
				t.Errorf("tiles cover %v viewport pixels, want %v", area, 400*300)
			}
		})
	}
}

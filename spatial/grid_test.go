package spatial

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/pthm-cable/trails/components"
)

func randomPositions(rng *rand.Rand, n int, world components.World) []components.Vec2 {
	out := make([]components.Vec2, n)
	for i := range out {
		out[i] = components.V2(rng.Float64()*world.Width, rng.Float64()*world.Height)
	}
	return out
}

func TestGridBucketSum(t *testing.T) {
	tests := []struct {
		name    string
		world   components.World
		spacing float64
		n       int
	}{
		{"multiple of spacing", components.World{Width: 500, Height: 500}, 50, 1000},
		{"partial last cell", components.World{Width: 510, Height: 333}, 50, 777},
		{"single cell", components.World{Width: 40, Height: 40}, 50, 25},
		{"empty", components.World{Width: 200, Height: 100}, 10, 0},
	}

	rng := rand.New(rand.NewSource(1))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(tt.world, tt.spacing)
			positions := randomPositions(rng, tt.n, tt.world)
			g.Update(positions)

			seen := make([]bool, tt.n)
			total := 0
			for c := 0; c < g.Cells(); c++ {
				total += g.CellCount(c)
				for _, i := range g.CellEntries(c) {
					if seen[i] {
						t.Fatalf("agent %d bucketed twice", i)
					}
					seen[i] = true
					if got := g.Index(positions[i]); got != c {
						t.Errorf("agent %d in cell %d, Index says %d", i, c, got)
					}
				}
			}
			if total != tt.n {
				t.Errorf("bucket sum = %d, want %d", total, tt.n)
			}
		})
	}
}

func TestGridRebuildShrinks(t *testing.T) {
	world := components.World{Width: 300, Height: 300}
	g := NewGrid(world, 30)
	rng := rand.New(rand.NewSource(2))

	g.Update(randomPositions(rng, 500, world))
	g.Update(randomPositions(rng, 10, world))

	total := 0
	for c := 0; c < g.Cells(); c++ {
		total += g.CellCount(c)
	}
	if total != 10 {
		t.Errorf("bucket sum after shrink = %d, want 10", total)
	}
}

func TestCellWraps(t *testing.T) {
	g := NewGrid(components.World{Width: 500, Height: 500}, 50)
	tests := []struct {
		i, j int
		want int
	}{
		{0, 0, 0},
		{-1, 0, 9},
		{10, 0, 0},
		{0, -1, 90},
		{-1, -1, 99},
		{23, 12, 3 + 2*10},
	}
	for _, tt := range tests {
		if got := g.Cell(tt.i, tt.j); got != tt.want {
			t.Errorf("Cell(%d, %d) = %d, want %d", tt.i, tt.j, got, tt.want)
		}
	}
}

func TestIndexWrapsPositions(t *testing.T) {
	g := NewGrid(components.World{Width: 500, Height: 500}, 50)
	if got, want := g.Index(components.V2(-10, -10)), g.Index(components.V2(490, 490)); got != want {
		t.Errorf("Index(-10,-10) = %d, want %d", got, want)
	}
	if got := g.Index(components.V2(500, 0)); got != 0 {
		t.Errorf("Index(500,0) = %d, want 0", got)
	}
}

func bruteForce(positions []components.Vec2, i int, d float64, world components.World) map[int]float64 {
	out := make(map[int]float64)
	for j, p := range positions {
		if j == i {
			continue
		}
		dd := ToroidalDelta(positions[i], p, world)
		if dd.Mag2() <= d*d {
			out[j] = dd.Mag2()
		}
	}
	return out
}

func TestNearestNeighborsMatchesBruteForce(t *testing.T) {
	tests := []struct {
		name    string
		world   components.World
		spacing float64
		n       int
		radii   []float64
	}{
		{"square", components.World{Width: 500, Height: 500}, 50, 400, []float64{5, 30, 60, 149, 249}},
		{"wide", components.World{Width: 800, Height: 300}, 40, 300, []float64{10, 75, 149}},
		{"uneven cells", components.World{Width: 517, Height: 389}, 50, 300, []float64{20, 100, 194}},
		{"large radius vs spacing", components.World{Width: 200, Height: 200}, 7, 200, []float64{99}},
	}

	rng := rand.New(rand.NewSource(3))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(tt.world, tt.spacing)
			positions := randomPositions(rng, tt.n, tt.world)
			g.Update(positions)

			for _, d := range tt.radii {
				for i := range positions {
					want := bruteForce(positions, i, d, tt.world)
					got := make(map[int]float64)
					it := g.NearestNeighbors(i, d)
					for it.Next() {
						nb := it.Get()
						if _, dup := got[nb.Index]; dup {
							t.Fatalf("d=%v agent %d: neighbor %d yielded twice", d, i, nb.Index)
						}
						got[nb.Index] = nb.DistSq
					}

					if len(got) != len(want) {
						t.Fatalf("d=%v agent %d: got %d neighbors, want %d", d, i, len(got), len(want))
					}
					for j, w := range want {
						gd, ok := got[j]
						if !ok {
							t.Fatalf("d=%v agent %d: missing neighbor %d", d, i, j)
						}
						if gd != w {
							t.Errorf("d=%v agent %d neighbor %d: DistSq = %v, want %v", d, i, j, gd, w)
						}
					}
				}
			}
		})
	}
}

func TestNearestNeighborsAcrossCorner(t *testing.T) {
	world := components.World{Width: 500, Height: 500}
	g := NewGrid(world, 50)
	g.Update([]components.Vec2{
		components.V2(10, 10),
		components.V2(495, 495),
	})

	it := g.NearestNeighbors(0, 60)
	if !it.Next() {
		t.Fatal("B not reported as a neighbor of A")
	}
	nb := it.Get()
	if nb.Index != 1 {
		t.Errorf("neighbor index = %d, want 1", nb.Index)
	}
	if nb.DistSq >= 60*60 {
		t.Errorf("DistSq = %v, want < 3600", nb.DistSq)
	}
	if nb.Dir != components.V2(-15, -15) {
		t.Errorf("Dir = %v, want (-15,-15)", nb.Dir)
	}
	if it.Next() {
		t.Error("iterator yielded more than one neighbor")
	}
}

func TestNearestNeighborsAcrossOneEdge(t *testing.T) {
	world := components.World{Width: 500, Height: 500}
	g := NewGrid(world, 50)
	// Opposite x edges, both in the lower half: only x may be corrected.
	g.Update([]components.Vec2{
		components.V2(5, 300),
		components.V2(490, 280),
	})

	it := g.NearestNeighbors(0, 40)
	if !it.Next() {
		t.Fatal("expected a neighbor across the x edge")
	}
	if got := it.Get().Dir; got != components.V2(-15, -20) {
		t.Errorf("Dir = %v, want (-15,-20)", got)
	}
}

func TestNearestNeighborsFromGridExcludesSelf(t *testing.T) {
	world := components.World{Width: 100, Height: 100}
	g := NewGrid(world, 10)
	positions := []components.Vec2{{X: 5, Y: 5}, {X: 6, Y: 6}, {X: 7, Y: 7}, {X: 95, Y: 95}}
	g.Update(positions)

	ids := append([]int(nil), g.NearestNeighborsFromGrid(0, 8)...)
	sort.Ints(ids)
	want := []int{1, 2, 3}
	if len(ids) != len(want) {
		t.Fatalf("candidates = %v, want %v", ids, want)
	}
	for k := range want {
		if ids[k] != want[k] {
			t.Fatalf("candidates = %v, want %v", ids, want)
		}
	}
}

func TestQueryCellsUnique(t *testing.T) {
	world := components.World{Width: 130, Height: 70}
	g := NewGrid(world, 20)
	for _, d := range []float64{0, 5, 19, 45, 64, 200} {
		cells := g.QueryCells(nil, components.V2(3, 66), d)
		seen := make(map[int]bool)
		for _, c := range cells {
			if seen[c] {
				t.Errorf("d=%v: cell %d visited twice", d, c)
			}
			seen[c] = true
		}
	}
}

func TestCorrectSameQuadrantPanics(t *testing.T) {
	g := NewGrid(components.World{Width: 100, Height: 100}, 10)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for same-quadrant correction")
		}
	}()
	a, b := components.V2(1, 1), components.V2(2, 2)
	g.correct(a, b, b.Sub(a))
}

func BenchmarkNearestNeighbors(b *testing.B) {
	world := components.World{Width: 1280, Height: 720}
	g := NewGrid(world, 50)
	rng := rand.New(rand.NewSource(4))
	positions := randomPositions(rng, 2000, world)
	g.Update(positions)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		i := n % len(positions)
		g.NearestNeighbors(i, 60).Count()
	}
}

func BenchmarkUpdate(b *testing.B) {
	world := components.World{Width: 1280, Height: 720}
	g := NewGrid(world, 50)
	rng := rand.New(rand.NewSource(5))
	positions := randomPositions(rng, 2000, world)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		g.Update(positions)
	}
}

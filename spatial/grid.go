// Package spatial provides a uniform hash grid for neighbor queries on a
// toroidal world.
package spatial

import (
	"fmt"
	"math"

	"github.com/pthm-cable/trails/components"
)

// Grid buckets agent indices by cell with a counting sort. It is rebuilt
// from scratch on every Update; there is no incremental insert or remove.
type Grid struct {
	world   components.World
	spacing float64

	rowLength    int // cells per row (x axis)
	columnLength int // cells per column (y axis)

	// cellStart[c] is the first slot of cell c in cellEntries, and
	// cellStart[c+1] its end. The trailing entry is a sentinel.
	cellStart   []int
	cellEntries []int
	cellOf      []int
	queryIDs    []int
	queryCells  []int

	positions []components.Vec2

	// wrapOffset[a][b] moves a point in quadrant b next to quadrant a.
	wrapOffset [4][4]components.Vec2

	iter NeighborIter
}

// NewGrid creates a grid covering world with square cells of the given edge.
// A world size that is not a multiple of spacing leaves a narrower last
// row and column.
func NewGrid(world components.World, spacing float64) *Grid {
	if world.Width <= 0 || world.Height <= 0 {
		panic(fmt.Sprintf("spatial: world size must be positive, got %vx%v", world.Width, world.Height))
	}
	if spacing <= 0 {
		panic(fmt.Sprintf("spatial: spacing must be positive, got %v", spacing))
	}

	g := &Grid{
		world:        world,
		spacing:      spacing,
		rowLength:    int(math.Ceil(world.Width / spacing)),
		columnLength: int(math.Ceil(world.Height / spacing)),
	}
	g.cellStart = make([]int, g.rowLength*g.columnLength+1)

	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			dx := float64(a&1 - b&1)
			dy := float64(a>>1 - b>>1)
			g.wrapOffset[a][b] = components.V2(dx*world.Width, dy*world.Height)
		}
	}
	return g
}

// World returns the world the grid covers.
func (g *Grid) World() components.World { return g.world }

// Spacing returns the cell edge length.
func (g *Grid) Spacing() float64 { return g.spacing }

// Dims returns the number of cells along x and y.
func (g *Grid) Dims() (cols, rows int) { return g.rowLength, g.columnLength }

// Cells returns the total number of cells.
func (g *Grid) Cells() int { return g.rowLength * g.columnLength }

// Len returns the number of positions indexed by the last Update.
func (g *Grid) Len() int { return len(g.positions) }

// Update rebuilds the grid from positions, which must lie inside the world.
// The slice is retained and must not change until the next Update.
func (g *Grid) Update(positions []components.Vec2) {
	n := len(positions)
	g.positions = positions
	if cap(g.cellEntries) < n {
		g.cellEntries = make([]int, n)
		g.cellOf = make([]int, n)
		g.queryIDs = make([]int, n)
	}
	g.cellEntries = g.cellEntries[:n]
	g.cellOf = g.cellOf[:n]

	for c := range g.cellStart {
		g.cellStart[c] = 0
	}

	// Pass 1: count.
	for i, p := range positions {
		c := g.Index(p)
		g.cellOf[i] = c
		g.cellStart[c]++
	}

	// Running end offsets; the sentinel ends up holding n.
	end := 0
	for c := 0; c < len(g.cellStart)-1; c++ {
		end += g.cellStart[c]
		g.cellStart[c] = end
	}
	g.cellStart[len(g.cellStart)-1] = end

	// Pass 2: fill each bucket from its end, leaving cellStart at the start.
	for i := range positions {
		c := g.cellOf[i]
		g.cellStart[c]--
		g.cellEntries[g.cellStart[c]] = i
	}
}

// Index returns the cell holding p. Positions outside the world are wrapped.
func (g *Grid) Index(p components.Vec2) int {
	p = g.world.Wrap(p)
	return g.column(p.X) + g.row(p.Y)*g.rowLength
}

// Cell returns the index of the cell at column i and row j, both wrapped.
func (g *Grid) Cell(i, j int) int {
	return components.ModInt(i, g.rowLength) + components.ModInt(j, g.columnLength)*g.rowLength
}

// CellCount returns the number of agents bucketed in cell c.
func (g *Grid) CellCount(c int) int {
	return g.cellStart[c+1] - g.cellStart[c]
}

// CellEntries returns the agent indices in cell c. The slice aliases
// grid storage.
func (g *Grid) CellEntries(c int) []int {
	return g.cellEntries[g.cellStart[c]:g.cellStart[c+1]]
}

// CellRect returns the world-space rectangle covered by cell c.
func (g *Grid) CellRect(c int) (x, y, w, h float64) {
	col := c % g.rowLength
	row := c / g.rowLength
	x = float64(col) * g.spacing
	y = float64(row) * g.spacing
	w = math.Min(g.spacing, g.world.Width-x)
	h = math.Min(g.spacing, g.world.Height-y)
	return x, y, w, h
}

func (g *Grid) column(x float64) int {
	c := int(x / g.spacing)
	if c >= g.rowLength {
		c = g.rowLength - 1
	}
	return c
}

func (g *Grid) row(y float64) int {
	r := int(y / g.spacing)
	if r >= g.columnLength {
		r = g.columnLength - 1
	}
	return r
}

// span is an inclusive range of cell coordinates along one axis.
type span struct{ lo, hi int }

// axisSpans returns the cells along one axis covering [v-d, v+d], wrapped.
// A range that crosses the world edge splits into two spans; one wider than
// the world covers every cell once.
func axisSpans(v, d, size float64, cells int, cellOf func(float64) int, dst []span) []span {
	dst = dst[:0]
	if 2*d >= size {
		return append(dst, span{0, cells - 1})
	}
	lo := cellOf(components.Mod(v-d, size))
	hi := cellOf(components.Mod(v+d, size))
	if components.Mod(v-d, size) <= components.Mod(v+d, size) {
		return append(dst, span{lo, hi})
	}
	dst = append(dst, span{lo, cells - 1})
	// Both halves can meet when the range barely wraps inside one cell.
	if hi >= lo {
		return append(dst[:0], span{0, cells - 1})
	}
	return append(dst, span{0, hi})
}

// QueryCells appends to dst every cell intersecting the square of half-size
// distance around p, each cell at most once.
func (g *Grid) QueryCells(dst []int, p components.Vec2, distance float64) []int {
	p = g.world.Wrap(p)
	var xs, ys [2]span
	cols := axisSpans(p.X, distance, g.world.Width, g.rowLength, g.column, xs[:0])
	rows := axisSpans(p.Y, distance, g.world.Height, g.columnLength, g.row, ys[:0])
	for _, r := range rows {
		for j := r.lo; j <= r.hi; j++ {
			for _, c := range cols {
				for i := c.lo; i <= c.hi; i++ {
					dst = append(dst, g.Cell(i, j))
				}
			}
		}
	}
	return dst
}

// NearestNeighborsFromGrid returns the indices of all agents sharing a cell
// with the query box around agent i, excluding i itself. The result aliases
// a reusable buffer and is overwritten by the next query.
func (g *Grid) NearestNeighborsFromGrid(i int, distance float64) []int {
	g.queryCells = g.QueryCells(g.queryCells[:0], g.positions[i], distance)
	ids := g.queryIDs[:0]
	for _, c := range g.queryCells {
		for _, j := range g.CellEntries(c) {
			if j != i {
				ids = append(ids, j)
			}
		}
	}
	g.queryIDs = ids
	return ids
}

// Neighbor is one result of a neighbor query.
type Neighbor struct {
	Index  int             // Agent index in the slice passed to Update
	Dir    components.Vec2 // Shortest toroidal offset from the query agent
	DistSq float64
}

// NearestNeighbors returns a lazy iterator over agents within distance of
// agent i. The iterator is single pass and cannot be restarted. It is
// invalidated by the next call to NearestNeighbors, NearestNeighborsFromGrid
// or Update, so consume it before issuing another query.
func (g *Grid) NearestNeighbors(i int, distance float64) *NeighborIter {
	candidates := g.NearestNeighborsFromGrid(i, distance)

	// Below this squared distance no axis can be wrapped.
	half := 0.5 * math.Min(g.world.Width, g.world.Height)
	wrap := math.Min((distance+3*g.spacing)*(distance+3*g.spacing), half*half)

	g.iter = NeighborIter{
		grid:       g,
		self:       g.positions[i],
		candidates: candidates,
		maxSq:      distance * distance,
		wrapSq:     wrap,
	}
	return &g.iter
}

// NeighborIter yields neighbors one at a time. Call Next before each Get.
type NeighborIter struct {
	grid       *Grid
	self       components.Vec2
	candidates []int
	next       int
	maxSq      float64
	wrapSq     float64
	cur        Neighbor
}

// Next advances to the next neighbor within range, reporting false when
// the candidates are exhausted.
func (it *NeighborIter) Next() bool {
	g := it.grid
	for it.next < len(it.candidates) {
		j := it.candidates[it.next]
		it.next++

		other := g.positions[j]
		dir := other.Sub(it.self)
		d2 := dir.Mag2()
		if d2 > it.wrapSq && (math.Abs(dir.X) > g.world.Width/2 || math.Abs(dir.Y) > g.world.Height/2) {
			dir = g.correct(it.self, other, dir)
			d2 = dir.Mag2()
		}
		if d2 > it.maxSq {
			continue
		}
		it.cur = Neighbor{Index: j, Dir: dir, DistSq: d2}
		return true
	}
	return false
}

// Get returns the current neighbor.
func (it *NeighborIter) Get() Neighbor {
	return it.cur
}

// Count drains the iterator and returns how many neighbors it yielded.
func (it *NeighborIter) Count() int {
	n := 0
	for it.Next() {
		n++
	}
	return n
}

func (g *Grid) quadrant(p components.Vec2) int {
	q := 0
	if p.X >= g.world.Width/2 {
		q |= 1
	}
	if p.Y >= g.world.Height/2 {
		q |= 2
	}
	return q
}

// correct applies the wrap offset for the quadrant pair of self and other
// on each axis whose raw offset exceeds half the world.
func (g *Grid) correct(self, other, dir components.Vec2) components.Vec2 {
	qs, qo := g.quadrant(self), g.quadrant(other)
	if qs == qo {
		panic(fmt.Sprintf("spatial: wrap correction for same quadrant %d (self %v, other %v)", qs, self, other))
	}
	off := g.wrapOffset[qs][qo]
	if math.Abs(dir.X) > g.world.Width/2 {
		dir.X += off.X
	}
	if math.Abs(dir.Y) > g.world.Height/2 {
		dir.Y += off.Y
	}
	return dir
}

// ToroidalDelta returns the shortest offset from a to b on the world.
func ToroidalDelta(a, b components.Vec2, world components.World) components.Vec2 {
	d := b.Sub(a)
	if d.X > world.Width/2 {
		d.X -= world.Width
	} else if d.X < -world.Width/2 {
		d.X += world.Width
	}
	if d.Y > world.Height/2 {
		d.Y -= world.Height
	} else if d.Y < -world.Height/2 {
		d.Y += world.Height
	}
	return d
}

// Package game runs the simulation loop: it owns the creature population,
// the spatial grid and the trail buffer, and advances them one tick at a time.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/config"
	"github.com/pthm-cable/trails/creature"
	"github.com/pthm-cable/trails/raster"
	"github.com/pthm-cable/trails/spatial"
	"github.com/pthm-cable/trails/telemetry"
)

// Game holds the complete simulation state. Apart from Enqueue and SpawnAt,
// its methods must be called from the goroutine running the loop.
type Game struct {
	cfg    *config.Config
	world  *ecs.World
	rng    *rand.Rand
	seed   int64
	params creature.Params
	bounds components.World

	// One entity per creature. Entities are only created at tick
	// boundaries, so component pointers stay valid for a whole tick.
	creatureMapper *ecs.Map2[creature.Creature, components.Birth]
	creatureFilter *ecs.Filter2[creature.Creature, components.Birth]
	creatureMap    *ecs.Map[creature.Creature]
	entities       map[uint64]ecs.Entity

	// Dense per-tick view of the population, in grid index order
	creatures []*creature.Creature
	positions []components.Vec2

	grid *spatial.Grid

	// Rendering
	trail  *raster.Buffer // persistent trail layer
	frame  *raster.Buffer // composited output
	saved  []savedBlock   // restore mode: pixels under the footprints
	blocks []*raster.Block

	// Spawn queue, filled from any goroutine and drained at tick boundaries
	queueMu   sync.Mutex
	queue     []SpawnCommand
	offspring []creature.Spec // loop goroutine only

	// State
	tick           int32
	nextID         uint64
	paused         bool
	stepsPerUpdate int
	maxTicks       int

	// Debug visuals
	overlays   Overlay
	selectedID uint64
	social     []socialTrace
	queryCells []int

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	sample           telemetry.PopulationSample
	spawnRecords     []telemetry.SpawnRecord
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
}

// NewGame creates a game, seeds the initial population and opens the
// output directory if one is configured.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	world := ecs.NewWorld()
	bounds := components.World{
		Width:  float64(cfg.Derived.WorldW),
		Height: float64(cfg.Derived.WorldH),
	}

	g := &Game{
		cfg:            cfg,
		world:          world,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		seed:           opts.Seed,
		params:         creature.ParamsFromConfig(cfg),
		bounds:         bounds,
		creatureMapper: ecs.NewMap2[creature.Creature, components.Birth](world),
		creatureFilter: ecs.NewFilter2[creature.Creature, components.Birth](world),
		creatureMap:    ecs.NewMap[creature.Creature](world),
		entities:       make(map[uint64]ecs.Entity),
		grid:           spatial.NewGrid(bounds, cfg.Grid.Spacing),
		trail:          raster.New(cfg.Derived.WorldW, cfg.Derived.WorldH),
		stepsPerUpdate: opts.StepsPerUpdate,
		maxTicks:       opts.MaxTicks,
		nextID:         1,

		collector:        telemetry.NewCollector(int32(cfg.Telemetry.StatsWindow)),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
	}
	if g.stepsPerUpdate < 1 {
		g.stepsPerUpdate = cfg.Schedule.StepsPerUpdate
	}
	if cfg.Debug.Visual {
		g.overlays = OverlayAll
	}

	// Initialize the trail with the background, looks better on borders
	bg := cfg.Render.Background
	g.trail.Fill(components.Color{R: bg[0], G: bg[1], B: bg[2], A: bg[3]})
	if cfg.Render.Compose == "restore" {
		g.frame = g.trail
	} else {
		g.frame = g.trail.Clone()
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	g.seedPopulation()

	slog.Debug("game created",
		"world_w", cfg.Derived.WorldW,
		"world_h", cfg.Derived.WorldH,
		"grid_cells", g.grid.Cells(),
		"seed", opts.Seed,
		"queued", g.Queued(),
	)

	return g, nil
}

// config returns the configuration the game was built with.
func (g *Game) config() *config.Config {
	return g.cfg
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Seed returns the RNG seed.
func (g *Game) Seed() int64 {
	return g.seed
}

// Bounds returns the toroidal world.
func (g *Game) Bounds() components.World {
	return g.bounds
}

// Population returns the number of live creatures.
func (g *Game) Population() int {
	return len(g.entities)
}

// Frame returns the most recently composited buffer. It is overwritten by
// the next tick.
func (g *Game) Frame() *raster.Buffer {
	return g.frame
}

// Paused reports whether Update is currently a no-op.
func (g *Game) Paused() bool {
	return g.paused
}

// SetPaused pauses or resumes the simulation.
func (g *Game) SetPaused(p bool) {
	g.paused = p
}

// StepsPerUpdate returns how many ticks each Update runs.
func (g *Game) StepsPerUpdate() int {
	return g.stepsPerUpdate
}

// SetStepsPerUpdate changes the simulation speed, clamped to 1..10.
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = max(1, min(n, 10))
}

// Overlays returns the enabled debug visuals.
func (g *Game) Overlays() Overlay {
	return g.overlays
}

// SetOverlays enables exactly the given debug visuals. They are drawn in
// clone compose mode only.
func (g *Game) SetOverlays(o Overlay) {
	g.overlays = o
}

// Select marks a creature for the per-creature debug visuals (0 clears).
func (g *Game) Select(id uint64) {
	g.selectedID = id
}

// Selected returns the selected creature id, or 0.
func (g *Game) Selected() uint64 {
	return g.selectedID
}

// Done reports whether the configured tick limit has been reached.
func (g *Game) Done() bool {
	return g.maxTicks > 0 && int(g.tick) >= g.maxTicks
}

// PerfStats returns timing statistics over the recent ticks.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// RecordFrame notes that a display surface presented a frame.
func (g *Game) RecordFrame() {
	g.perfCollector.RecordFrame()
}

// Close flushes pending spawn records and closes the output files.
func (g *Game) Close() error {
	if err := g.outputManager.WriteSpawns(g.spawnRecords); err != nil {
		slog.Error("failed to write spawns", "error", err)
	}
	g.spawnRecords = g.spawnRecords[:0]
	return g.outputManager.Close()
}

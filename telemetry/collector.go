package telemetry

import (
	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/traits"
)

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	spawns         [4]int // indexed by components.Origin
	collisions     int
	births         int
	lineageBlocked int
	chanceFailed   int
	dropped        int
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowDurationTicks: windowTicks}
}

// Record counts an event in the current window.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventSpawn:
		if int(ev.Origin) < len(c.spawns) {
			c.spawns[ev.Origin]++
		}
	case EventCollision:
		c.collisions++
	case EventBirth:
		c.births++
	case EventLineageBlocked:
		c.lineageBlocked++
	case EventChanceFailed:
		c.chanceFailed++
	case EventDropped:
		c.dropped++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// PopulationSample holds per-creature values sampled at window end.
type PopulationSample struct {
	Personalities []traits.Personality
	Speeds        []float64
	Attractions   []float64
	Lineages      []float64
}

// Reset empties the sample, keeping its storage.
func (s *PopulationSample) Reset() {
	s.Personalities = s.Personalities[:0]
	s.Speeds = s.Speeds[:0]
	s.Attractions = s.Attractions[:0]
	s.Lineages = s.Lineages[:0]
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller provides the current tick, the number of spawns still queued
// and a sample of the live population.
func (c *Collector) Flush(currentTick int32, queued int, sample *PopulationSample) WindowStats {
	var breedRate float64
	if c.collisions > 0 {
		breedRate = float64(c.births) / float64(c.collisions)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Population: len(sample.Personalities),
		Queued:     queued,

		SeedSpawns:      c.spawns[components.OriginSeed],
		InputSpawns:     c.spawns[components.OriginInput],
		NetworkSpawns:   c.spawns[components.OriginNetwork],
		OffspringSpawns: c.spawns[components.OriginOffspring],
		Dropped:         c.dropped,

		Collisions:     c.collisions,
		Births:         c.births,
		LineageBlocked: c.lineageBlocked,
		ChanceFailed:   c.chanceFailed,
		BreedRate:      breedRate,
	}

	stats.SpeedMean, _ = MeanStd(sample.Speeds)
	stats.AttractionMean, stats.AttractionP10, stats.AttractionP50, stats.AttractionP90 = ComputeDistribution(sample.Attractions)
	stats.LineageMean, stats.LineageP10, stats.LineageP50, stats.LineageP90 = ComputeDistribution(sample.Lineages)
	stats.TraitStats = ComputeTraitStats(sample.Personalities)

	// Reset for next window
	c.windowStartTick = currentTick
	c.spawns = [4]int{}
	c.collisions = 0
	c.births = 0
	c.lineageBlocked = 0
	c.chanceFailed = 0
	c.dropped = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}

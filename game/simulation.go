package game

import (
	"math"

	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/creature"
	"github.com/pthm-cable/trails/telemetry"
)

// socialTrace records what a creature reacted to this tick, for the debug
// visuals.
type socialTrace struct {
	radius  float64
	target  components.Vec2 // offset to the neighbor driving the walk
	reacted bool
}

// Update runs one or more simulation ticks based on the speed setting.
func (g *Game) Update() {
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		if g.Done() {
			return
		}
		g.step()
	}
}

// step runs a single tick.
func (g *Game) step() {
	g.perfCollector.StartTick()

	// 0. Tick boundary: creatures queued since the last tick join now
	g.perfCollector.StartPhase(telemetry.PhaseSpawnQueue)
	g.drainSpawnQueue()

	// 1. Snapshot the population and rebuild the grid
	g.perfCollector.StartPhase(telemetry.PhaseSpatialGrid)
	g.updateSpatialGrid()

	// 2. Neighbor reactions and procreation
	g.perfCollector.StartPhase(telemetry.PhaseSocial)
	g.updateSocial()

	// 3. Walk
	g.perfCollector.StartPhase(telemetry.PhaseStep)
	g.updateSteps()

	// 4. Trails
	g.perfCollector.StartPhase(telemetry.PhaseTrail)
	g.paintTrails()

	// 5. Composite
	g.perfCollector.StartPhase(telemetry.PhaseCompose)
	g.compose()

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// updateSpatialGrid collects the live creatures into the dense slice and
// rebuilds the grid from their positions.
func (g *Game) updateSpatialGrid() {
	g.creatures = g.creatures[:0]
	g.positions = g.positions[:0]

	query := g.creatureFilter.Query()
	for query.Next() {
		c, _ := query.Get()
		g.creatures = append(g.creatures, c)
		g.positions = append(g.positions, c.Position)
	}

	g.grid.Update(g.positions)
}

// updateSocial lets every creature react to its nearest neighbor and
// breed with the ones it touches. Offspring are queued for the next tick.
func (g *Game) updateSocial() {
	cfg := g.config()
	viewDistance := cfg.Creature.ViewDistance
	maxDistance := cfg.Derived.MaxQueryDistance
	collisionFactor := cfg.Creature.CollisionFactor

	tracing := g.overlays != 0 && cfg.Render.Compose == "clone"
	if tracing {
		g.social = g.social[:0]
	}

	for i, c := range g.creatures {
		radius := math.Min(c.ViewDistance(viewDistance), maxDistance)

		nearest := -1
		var nearestDir components.Vec2
		nearestSq := math.Inf(1)

		it := g.grid.NearestNeighbors(i, radius)
		for it.Next() {
			n := it.Get()
			// A coincident neighbor has no bearing; it can still collide
			if n.DistSq > 0 && n.DistSq < nearestSq {
				nearest, nearestDir, nearestSq = n.Index, n.Dir, n.DistSq
			}

			// Each pair is tested once, from its lower index
			if n.Index <= i {
				continue
			}
			other := g.creatures[n.Index]
			touch := collisionFactor * (c.Size + other.Size) / 2
			if n.DistSq < touch*touch {
				g.collide(c, other)
			}
		}

		if nearest >= 0 {
			c.UpdateWalk(nearestDir)
		} else {
			c.ResetWalk()
		}

		if tracing {
			g.social = append(g.social, socialTrace{radius: radius, target: nearestDir, reacted: nearest >= 0})
		}
	}
}

// collide attempts procreation between two touching creatures.
func (g *Game) collide(a, b *creature.Creature) {
	g.collector.Record(telemetry.NewCollisionEvent(g.tick, a.ID, b.ID))

	spec, outcome := a.Procreate(b, g.rng)
	switch outcome {
	case creature.Offspring:
		g.offspring = append(g.offspring, spec)
		g.collector.Record(telemetry.NewBirthEvent(g.tick, a.ID, b.ID, spec.Ancestors.Len()))
	case creature.LineageBlocked:
		g.collector.Record(telemetry.NewRejectedEvent(telemetry.EventLineageBlocked, g.tick, a.ID, b.ID))
	case creature.ChanceFailed:
		g.collector.Record(telemetry.NewRejectedEvent(telemetry.EventChanceFailed, g.tick, a.ID, b.ID))
	}
}

// updateSteps moves every creature and wraps it back into the world.
func (g *Game) updateSteps() {
	for _, c := range g.creatures {
		c.Step(g.rng)
		c.Position = g.bounds.Wrap(c.Position)
	}
}

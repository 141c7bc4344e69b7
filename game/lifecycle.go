package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/creature"
	"github.com/pthm-cable/trails/telemetry"
	"github.com/pthm-cable/trails/traits"
)

// SpawnCommand asks for a new creature at the next tick boundary.
type SpawnCommand struct {
	Position components.Vec2  // Wrapped into the world
	Color    components.Color // Zero alpha draws a random color
	Size     float64          // 0 uses creature.size

	// Personality derives every parameter; nil draws a random one.
	Personality *traits.Personality
	// Raw, when set, is used as is and takes precedence over Personality.
	Raw *creature.RawSpec

	Origin components.Origin
}

// Enqueue queues cmd for the next tick boundary. Safe for concurrent use.
func (g *Game) Enqueue(cmd SpawnCommand) {
	g.queueMu.Lock()
	g.queue = append(g.queue, cmd)
	g.queueMu.Unlock()
}

// SpawnAt queues a randomized creature at p. Safe for concurrent use.
func (g *Game) SpawnAt(p components.Vec2) {
	g.Enqueue(SpawnCommand{Position: p, Origin: components.OriginInput})
}

// Queued returns the number of spawns waiting for the next tick boundary.
func (g *Game) Queued() int {
	g.queueMu.Lock()
	n := len(g.queue)
	g.queueMu.Unlock()
	return n + len(g.offspring)
}

// drainSpawnQueue applies queued commands, then offspring from the previous
// tick, dropping whatever exceeds population.max.
func (g *Game) drainSpawnQueue() {
	g.queueMu.Lock()
	cmds := g.queue
	g.queue = nil
	g.queueMu.Unlock()

	for _, cmd := range cmds {
		if g.atCapacity() {
			g.collector.Record(telemetry.NewDroppedEvent(g.tick, cmd.Origin))
			continue
		}
		c, err := g.buildCreature(cmd)
		if err != nil {
			slog.Warn("spawn rejected", "origin", cmd.Origin.String(), "error", err)
			continue
		}
		g.addCreature(c, cmd.Origin)
	}

	for _, spec := range g.offspring {
		if g.atCapacity() {
			g.collector.Record(telemetry.NewDroppedEvent(g.tick, components.OriginOffspring))
			continue
		}
		c := creature.FromPersonality(g.nextID, spec, g.rng, g.params)
		g.nextID++
		g.addCreature(c, components.OriginOffspring)
	}
	g.offspring = g.offspring[:0]
}

func (g *Game) atCapacity() bool {
	limit := g.config().Population.Max
	return limit > 0 && len(g.entities) >= limit
}

// buildCreature turns a command into a creature using the constructor the
// command asks for.
func (g *Game) buildCreature(cmd SpawnCommand) (*creature.Creature, error) {
	pos := g.bounds.Wrap(cmd.Position)

	if cmd.Raw != nil {
		raw := *cmd.Raw
		raw.Position = pos
		c, err := creature.FromRawParameters(g.nextID, raw, g.params)
		if err != nil {
			return nil, fmt.Errorf("raw parameters: %w", err)
		}
		g.nextID++
		return c, nil
	}

	spec := creature.Spec{
		Position: pos,
		Size:     cmd.Size,
		Color:    cmd.Color,
	}
	if cmd.Color.A == 0 {
		spec.Color = components.RandomColor(g.rng)
	}
	if cmd.Personality != nil {
		spec.Personality = *cmd.Personality
	} else {
		spec.Personality = traits.RandomPersonality(g.rng)
	}

	c := creature.FromPersonality(g.nextID, spec, g.rng, g.params)
	g.nextID++
	return c, nil
}

// addCreature stores c as a new entity and records the spawn.
func (g *Game) addCreature(c *creature.Creature, origin components.Origin) {
	birth := components.Birth{Tick: g.tick, Origin: origin}
	e := g.creatureMapper.NewEntity(c, &birth)
	g.entities[c.ID] = e

	g.collector.Record(telemetry.NewSpawnEvent(g.tick, c.ID, origin, c.Ancestors.Len()))

	if g.outputManager != nil {
		rec := telemetry.SpawnRecord{
			Tick:       g.tick,
			ID:         c.ID,
			Origin:     origin.String(),
			Lineage:    c.Ancestors.Len(),
			X:          c.Position.X,
			Y:          c.Position.Y,
			Speed:      c.Speed,
			Attraction: c.Attraction,
		}
		rec.SetPersonality(c.Personality)
		g.spawnRecords = append(g.spawnRecords, rec)
	}
}

// seedPopulation queues the initial creatures at positions drawn by a
// Seeder.
func (g *Game) seedPopulation() {
	pop := g.config().Population
	seeder := NewSeeder(g.bounds, pop, g.seed)

	for i := 0; i < pop.Initial; i++ {
		spec := creature.RandomSpec(g.bounds, g.rng, g.params)
		if seeder.Clustered() {
			spec.Position = seeder.Position(g.rng)
		}
		personality := spec.Personality
		g.Enqueue(SpawnCommand{
			Position:    spec.Position,
			Color:       spec.Color,
			Size:        spec.Size,
			Personality: &personality,
			Origin:      components.OriginSeed,
		})
	}
}

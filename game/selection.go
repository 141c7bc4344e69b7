package game

import (
	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/creature"
	"github.com/pthm-cable/trails/spatial"
	"github.com/pthm-cable/trails/traits"
)

// CreatureSummary is a read-only view of one creature.
type CreatureSummary struct {
	ID          uint64             `json:"id"`
	Position    components.Vec2    `json:"position"`
	Size        float64            `json:"size"`
	Color       components.Color   `json:"color"`
	Personality traits.Personality `json:"personality"`
	Speed       int                `json:"speed"`
	Spread      float64            `json:"coloring_spread"`
	Coloring    float64            `json:"coloring_percentage"`
	Attraction  float64            `json:"attraction"`
	Viewport    float64            `json:"viewport"`
	Ancestors   int                `json:"ancestors"`
	Origin      string             `json:"origin"`
	BirthTick   int32              `json:"birth_tick"`
}

// FieldValue returns the value shown for a components.FieldDescriptor id.
func (s CreatureSummary) FieldValue(id string) (float64, bool) {
	switch id {
	case "openness":
		return s.Personality.Openness, true
	case "conscientiousness":
		return s.Personality.Conscientiousness, true
	case "extraversion":
		return s.Personality.Extraversion, true
	case "agreeableness":
		return s.Personality.Agreeableness, true
	case "neuroticism":
		return s.Personality.Neuroticism, true
	case "speed":
		return float64(s.Speed), true
	case "attraction":
		return s.Attraction, true
	case "viewport":
		return s.Viewport, true
	case "spread":
		return s.Spread, true
	case "coloring":
		return s.Coloring, true
	case "ancestors":
		return float64(s.Ancestors), true
	}
	return 0, false
}

// Snapshot is the inspection view of the whole simulation.
type Snapshot struct {
	Tick       int32             `json:"tick"`
	Population int               `json:"population"`
	Queued     int               `json:"queued"`
	Creatures  []CreatureSummary `json:"creatures"`
}

func summarize(c *creature.Creature, b *components.Birth) CreatureSummary {
	return CreatureSummary{
		ID:          c.ID,
		Position:    c.Position,
		Size:        c.Size,
		Color:       c.Color,
		Personality: c.Personality,
		Speed:       c.Speed,
		Spread:      c.ColoringSpread,
		Coloring:    c.ColoringPercentage,
		Attraction:  c.Attraction,
		Viewport:    c.Viewport,
		Ancestors:   c.Ancestors.Len(),
		Origin:      b.Origin.String(),
		BirthTick:   b.Tick,
	}
}

// Snapshot returns the current state of every creature, in creation order.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:      g.tick,
		Queued:    g.Queued(),
		Creatures: make([]CreatureSummary, 0, len(g.entities)),
	}

	query := g.creatureFilter.Query()
	for query.Next() {
		c, b := query.Get()
		s.Creatures = append(s.Creatures, summarize(c, b))
	}
	s.Population = len(s.Creatures)
	return s
}

// Creature returns the summary of the creature with the given id.
func (g *Game) Creature(id uint64) (CreatureSummary, bool) {
	e, ok := g.entities[id]
	if !ok {
		return CreatureSummary{}, false
	}
	c, b := g.creatureMapper.Get(e)
	return summarize(c, b), true
}

// CreatureAt returns the id of the creature closest to p within radius,
// measuring across the world's wrapped edges.
func (g *Game) CreatureAt(p components.Vec2, radius float64) (uint64, bool) {
	var found uint64
	best := radius * radius

	query := g.creatureFilter.Query()
	for query.Next() {
		c, _ := query.Get()
		d := spatial.ToroidalDelta(p, c.Position, g.bounds).Mag2()
		if d <= best {
			best = d
			found = c.ID
		}
	}
	return found, found != 0
}

// Lineage returns the ancestor ids of a creature.
func (g *Game) Lineage(id uint64) (creature.Lineage, bool) {
	e, ok := g.entities[id]
	if !ok {
		return nil, false
	}
	return g.creatureMap.Get(e).Ancestors.Clone(), true
}

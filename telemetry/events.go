// Package telemetry provides population tracking, window statistics,
// bookmarks and performance timing.
package telemetry

import (
	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/traits"
)

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSpawn EventType = iota
	EventCollision
	EventBirth
	EventLineageBlocked
	EventChanceFailed
	EventDropped
)

// Event represents a single telemetry event.
type Event struct {
	Type       EventType
	Tick       int32
	CreatureID uint64
	Origin     components.Origin

	// Optional fields depending on event type
	PartnerID uint64 // second parent for births, other creature for collisions
	Lineage   int    // ancestor count of the new creature
}

// NewSpawnEvent creates an event for a creature that joined the population.
func NewSpawnEvent(tick int32, id uint64, origin components.Origin, lineage int) Event {
	return Event{
		Type:       EventSpawn,
		Tick:       tick,
		CreatureID: id,
		Origin:     origin,
		Lineage:    lineage,
	}
}

// NewCollisionEvent creates an event for a pair close enough to breed.
func NewCollisionEvent(tick int32, id, otherID uint64) Event {
	return Event{
		Type:       EventCollision,
		Tick:       tick,
		CreatureID: id,
		PartnerID:  otherID,
	}
}

// NewBirthEvent creates a birth event. The child is queued, so only the
// parents are known here; its spawn event follows at the next tick.
func NewBirthEvent(tick int32, parentID, partnerID uint64, lineage int) Event {
	return Event{
		Type:       EventBirth,
		Tick:       tick,
		CreatureID: parentID,
		PartnerID:  partnerID,
		Origin:     components.OriginOffspring,
		Lineage:    lineage,
	}
}

// NewRejectedEvent creates a lineage-blocked or chance-failed event.
func NewRejectedEvent(typ EventType, tick int32, id, otherID uint64) Event {
	return Event{
		Type:       typ,
		Tick:       tick,
		CreatureID: id,
		PartnerID:  otherID,
	}
}

// NewDroppedEvent records a queued spawn discarded at the population cap.
func NewDroppedEvent(tick int32, origin components.Origin) Event {
	return Event{
		Type:   EventDropped,
		Tick:   tick,
		Origin: origin,
	}
}

// SpawnRecord is one row of spawns.csv.
type SpawnRecord struct {
	Tick              int32   `csv:"tick"`
	ID                uint64  `csv:"id"`
	Origin            string  `csv:"origin"`
	Lineage           int     `csv:"lineage"`
	X                 float64 `csv:"x"`
	Y                 float64 `csv:"y"`
	Speed             int     `csv:"speed"`
	Attraction        float64 `csv:"attraction"`
	Openness          float64 `csv:"openness"`
	Conscientiousness float64 `csv:"conscientiousness"`
	Extraversion      float64 `csv:"extraversion"`
	Agreeableness     float64 `csv:"agreeableness"`
	Neuroticism       float64 `csv:"neuroticism"`
}

// SetPersonality copies the traits of p into the record.
func (r *SpawnRecord) SetPersonality(p traits.Personality) {
	r.Openness = p.Openness
	r.Conscientiousness = p.Conscientiousness
	r.Extraversion = p.Extraversion
	r.Agreeableness = p.Agreeableness
	r.Neuroticism = p.Neuroticism
}

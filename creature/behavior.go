package creature

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/random"
)

// displacement maps a walk outcome to a unit step. Outcome 0 stays put;
// outcome 1+k heads along angle k*pi/4.
var displacement = func() [9]components.Vec2 {
	var d [9]components.Vec2
	for k := 0; k < 8; k++ {
		a := float64(k) * math.Pi / 4
		d[1+k] = components.V2(math.Cos(a), math.Sin(a))
	}
	return d
}()

// Displacement returns the unit step for walk outcome i.
func Displacement(i int) components.Vec2 {
	return displacement[i]
}

// Sector returns the compass sector 0..7 containing the bearing of dir.
// Sector k is centered on angle k*pi/4, so boundaries sit at odd
// multiples of pi/8.
func Sector(dir components.Vec2) int {
	theta := math.Atan2(dir.Y, dir.X)
	s := int(components.Mod(theta+math.Pi/8, 2*math.Pi) / (math.Pi / 4))
	return s % 8
}

// sectorDistance is the circular distance between two sectors, 0..4.
func sectorDistance(a, b int) int {
	d := components.ModInt(a-b, 8)
	if d > 4 {
		d = 8 - d
	}
	return d
}

// UpdateWalk biases the walk toward dir, or away from it when attraction
// is negative, and mixes the result with the innate preference. A zero
// dir has no bearing and resets the walk instead.
func (c *Creature) UpdateWalk(dir components.Vec2) {
	if dir.X == 0 && dir.Y == 0 {
		c.ResetWalk()
		return
	}
	target := Sector(dir)
	if c.Attraction < 0 {
		target = (target + 4) % 8
	}

	a := math.Abs(c.Attraction)
	near := math.Max(1, 1+c.params.AttractionGain[0]*a)
	adjacent := math.Max(1, 1+c.params.AttractionGain[1]*a)

	w := c.Preference.Weights()
	for k := 0; k < 8; k++ {
		switch sectorDistance(k, target) {
		case 0:
			w[1+k] *= near
		case 1:
			w[1+k] *= adjacent
		case 2:
			w[1+k] *= c.params.SideFraction
		}
	}

	// Validated params keep every weight non-negative
	social, err := random.CDFFromWeights(w)
	if err != nil {
		panic(fmt.Sprintf("creature %d: social weights %v: %v", c.ID, w, err))
	}
	walk, err := c.Preference.Blend(social)
	if err != nil {
		panic(fmt.Sprintf("creature %d: blend walk: %v", c.ID, err))
	}
	c.Walk = walk
}

// ResetWalk restores the walk to the innate preference.
func (c *Creature) ResetWalk() {
	c.Walk = c.Preference.Clone()
}

// Step moves the creature by one draw from its walk, scaled by speed.
// The caller wraps the position into the world.
func (c *Creature) Step(rng *rand.Rand) int {
	i := c.Walk.Draw(rng)
	c.Position = c.Position.Add(displacement[i].Scale(float64(c.Speed)))
	return i
}

// Outcome is the result of a procreation attempt.
type Outcome uint8

const (
	Offspring      Outcome = iota // A child spec was produced
	LineageBlocked                // One partner descends from the other
	ChanceFailed                  // The agreeableness roll failed
)

// String returns the display name for an Outcome.
func (o Outcome) String() string {
	switch o {
	case Offspring:
		return "offspring"
	case LineageBlocked:
		return "lineage_blocked"
	case ChanceFailed:
		return "chance_failed"
	}
	return "unknown"
}

// Procreate attempts to breed c with other. The chance of success is
// c's agreeableness on the 0-100 scale. On success both parents lose some
// attraction and the returned spec describes the child, placed at c.
func (c *Creature) Procreate(other *Creature, rng *rand.Rand) (Spec, Outcome) {
	if c.Ancestors.Has(other.ID) || other.Ancestors.Has(c.ID) {
		return Spec{}, LineageBlocked
	}
	if rng.Float64() >= c.Personality.Breeding() {
		return Spec{}, ChanceFailed
	}

	c.Attraction *= c.params.BreedingDecay
	other.Attraction *= other.params.BreedingDecay

	return Spec{
		Position:    c.Position,
		Size:        (c.Size + other.Size) / 2,
		Color:       c.Color.Blend(other.Color),
		Personality: c.Personality.Average(other.Personality),
		Ancestors:   c.Ancestors.Union(other.Ancestors, c.ID, other.ID),
	}, Offspring
}

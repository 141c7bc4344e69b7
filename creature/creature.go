// Package creature implements the wandering agents: construction from a
// personality or raw parameters, the per-tick walk update, stepping and
// procreation.
package creature

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/config"
	"github.com/pthm-cable/trails/random"
	"github.com/pthm-cable/trails/traits"
)

// Params holds the behavior constants shared by all creatures.
type Params struct {
	Size             float64
	ViewportBaseline float64
	AttractionGain   [2]float64
	SideFraction     float64
	BreedingDecay    float64
}

// ParamsFromConfig extracts creature parameters from cfg.
func ParamsFromConfig(cfg *config.Config) Params {
	c := cfg.Creature
	return Params{
		Size:             c.Size,
		ViewportBaseline: c.ViewportBaseline,
		AttractionGain:   c.AttractionGain,
		SideFraction:     c.SideFraction,
		BreedingDecay:    c.BreedingDecay,
	}
}

// DefaultParams returns the parameters from the embedded configuration.
func DefaultParams() Params {
	return ParamsFromConfig(config.Default())
}

// Creature is a single agent. Creatures are never destroyed.
type Creature struct {
	ID          uint64
	Position    components.Vec2
	Size        float64
	Color       components.Color
	Personality traits.Personality

	Speed              int
	ColoringSpread     float64
	ColoringPercentage float64
	Attraction         float64
	Viewport           float64

	// Preference is the innate walking bias and never changes.
	Preference *random.CDF
	// Walk is the distribution drawn from on the next Step.
	Walk *random.CDF

	Ancestors Lineage

	params Params
}

// Spec describes a creature to be built from a personality.
type Spec struct {
	Position    components.Vec2
	Size        float64 // 0 uses Params.Size
	Color       components.Color
	Personality traits.Personality
	Ancestors   Lineage
}

// RawSpec describes a creature whose derived parameters are given directly.
type RawSpec struct {
	Position           components.Vec2
	Size               float64
	Color              components.Color
	Personality        traits.Personality
	Speed              int
	ColoringSpread     float64
	ColoringPercentage float64
	Attraction         float64
	Viewport           float64
	Preference         *random.CDF
	Ancestors          Lineage
}

var (
	// ErrInvalidSpeed is returned for raw parameters with speed below 1.
	ErrInvalidSpeed = errors.New("creature: speed must be at least 1")
	// ErrInvalidPreference is returned for a missing or wrongly sized preference.
	ErrInvalidPreference = errors.New("creature: preference must cover 9 outcomes")
)

// FromPersonality builds a creature, deriving every parameter from
// spec.Personality. The preference is sampled from rng.
func FromPersonality(id uint64, spec Spec, rng *rand.Rand, p Params) *Creature {
	pers := spec.Personality.Clamp()
	d := traits.Derive(pers, p.ViewportBaseline)

	pref, err := random.CDFFromWeights(traits.PreferenceWeights(pers, rng))
	if err != nil {
		panic(fmt.Sprintf("creature %d: preference weights: %v", id, err))
	}

	size := spec.Size
	if size <= 0 {
		size = p.Size
	}
	ancestors := spec.Ancestors
	if ancestors == nil {
		ancestors = NewLineage()
	}

	return &Creature{
		ID:                 id,
		Position:           spec.Position,
		Size:               size,
		Color:              spec.Color,
		Personality:        pers,
		Speed:              d.Speed,
		ColoringSpread:     d.ColoringSpread,
		ColoringPercentage: d.ColoringPercentage,
		Attraction:         d.Attraction,
		Viewport:           d.Viewport,
		Preference:         pref,
		Walk:               pref.Clone(),
		Ancestors:          ancestors,
		params:             p,
	}
}

// FromRawParameters builds a creature from explicit parameters.
func FromRawParameters(id uint64, spec RawSpec, p Params) (*Creature, error) {
	if spec.Speed < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSpeed, spec.Speed)
	}
	if spec.Preference == nil || spec.Preference.Len() != traits.Directions {
		return nil, ErrInvalidPreference
	}

	size := spec.Size
	if size <= 0 {
		size = p.Size
	}
	ancestors := spec.Ancestors
	if ancestors == nil {
		ancestors = NewLineage()
	}

	return &Creature{
		ID:                 id,
		Position:           spec.Position,
		Size:               size,
		Color:              spec.Color,
		Personality:        spec.Personality.Clamp(),
		Speed:              spec.Speed,
		ColoringSpread:     spec.ColoringSpread,
		ColoringPercentage: spec.ColoringPercentage,
		Attraction:         traits.ClampUnit(spec.Attraction),
		Viewport:           math.Max(0, spec.Viewport),
		Preference:         spec.Preference.Clone(),
		Walk:               spec.Preference.Clone(),
		Ancestors:          ancestors,
		params:             p,
	}, nil
}

// RandomSpec returns a spec with a random position inside world, a random
// color and a random personality.
func RandomSpec(world components.World, rng *rand.Rand, p Params) Spec {
	return Spec{
		Position:    components.V2(rng.Float64()*world.Width, rng.Float64()*world.Height),
		Size:        p.Size,
		Color:       components.RandomColor(rng),
		Personality: traits.RandomPersonality(rng),
	}
}

// Random builds a fully randomized creature.
func Random(id uint64, world components.World, rng *rand.Rand, p Params) *Creature {
	return FromPersonality(id, RandomSpec(world, rng, p), rng, p)
}

// ViewDistance returns the neighbor query radius for a base view distance.
func (c *Creature) ViewDistance(base float64) float64 {
	return c.Viewport * base
}

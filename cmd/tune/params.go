package main

import (
	"github.com/pthm-cable/trails/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Steering
			{Name: "attraction_gain_bearing", Path: "creature.attraction_gain[0]", Min: 1.0, Max: 6.0, Default: 3.0},
			{Name: "attraction_gain_adjacent", Path: "creature.attraction_gain[1]", Min: 0.5, Max: 3.0, Default: 1.5},
			{Name: "side_fraction", Path: "creature.side_fraction", Min: 0.0, Max: 0.6, Default: 0.25},
			// Perception
			{Name: "view_distance", Path: "creature.view_distance", Min: 20, Max: 200, Default: 100},
			{Name: "viewport_baseline", Path: "creature.viewport_baseline", Min: 0.0, Max: 0.5, Default: 0.1},
			// Breeding
			{Name: "collision_factor", Path: "creature.collision_factor", Min: 0.5, Max: 3.0, Default: 1.0},
			{Name: "breeding_decay", Path: "creature.breeding_decay", Min: 0.5, Max: 1.0, Default: 0.9},
			// Seeding
			{Name: "clustering", Path: "population.clustering", Min: 0.0, Max: 1.0, Default: 0.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	i := 0

	cfg.Creature.AttractionGain[0] = clamped[i]; i++
	cfg.Creature.AttractionGain[1] = clamped[i]; i++
	cfg.Creature.SideFraction = clamped[i]; i++

	cfg.Creature.ViewDistance = clamped[i]; i++
	cfg.Creature.ViewportBaseline = clamped[i]; i++

	cfg.Creature.CollisionFactor = clamped[i]; i++
	cfg.Creature.BreedingDecay = clamped[i]; i++

	cfg.Population.Clustering = clamped[i]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Creature.AttractionGain[0],
		cfg.Creature.AttractionGain[1],
		cfg.Creature.SideFraction,
		cfg.Creature.ViewDistance,
		cfg.Creature.ViewportBaseline,
		cfg.Creature.CollisionFactor,
		cfg.Creature.BreedingDecay,
		cfg.Population.Clustering,
	}
}

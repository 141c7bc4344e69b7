package game

import (
	"math"
	"math/rand"

	perlin "github.com/aquilax/go-perlin"

	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/config"
)

// seedAttempts bounds the rejection sampling in Seeder.Position.
const seedAttempts = 32

// Seeder places the initial population. With clustering above zero,
// positions are rejection sampled against a perlin field so the population
// starts in loose clumps.
type Seeder struct {
	world      components.World
	clustering float64
	scale      float64
	noise      *perlin.Perlin
}

// NewSeeder builds a seeder for pop.Clustering and pop.NoiseScale. The noise
// field is derived from seed.
func NewSeeder(world components.World, pop config.PopulationConfig, seed int64) *Seeder {
	s := &Seeder{
		world:      world,
		clustering: math.Max(0, math.Min(1, pop.Clustering)),
		scale:      pop.NoiseScale,
	}
	if s.clustering > 0 {
		s.noise = perlin.NewPerlin(2, 2, 3, seed)
	}
	return s
}

// Clustered reports whether positions follow the noise field.
func (s *Seeder) Clustered() bool {
	return s.noise != nil
}

// Density is the noise value at p mapped to [0,1]; 1 everywhere when
// seeding is uniform.
func (s *Seeder) Density(p components.Vec2) float64 {
	if s.noise == nil {
		return 1
	}
	return math.Max(0, math.Min(1, s.noise.Noise2D(p.X*s.scale, p.Y*s.scale)+0.5))
}

// Acceptance is the probability a candidate at p is kept:
// 1 - clustering*(1-density).
func (s *Seeder) Acceptance(p components.Vec2) float64 {
	return 1 - s.clustering*(1-s.Density(p))
}

// Position draws candidates until one is accepted, returning the last
// candidate after seedAttempts tries.
func (s *Seeder) Position(rng *rand.Rand) components.Vec2 {
	var p components.Vec2
	for attempt := 0; attempt < seedAttempts; attempt++ {
		p = components.V2(rng.Float64()*s.world.Width, rng.Float64()*s.world.Height)
		if s.noise == nil || rng.Float64() < s.Acceptance(p) {
			break
		}
	}
	return p
}

package game

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/config"
)

func TestSeederUniform(t *testing.T) {
	world := components.World{Width: 200, Height: 150}
	s := NewSeeder(world, config.PopulationConfig{Clustering: 0, NoiseScale: 0.05}, 1)

	if s.Clustered() {
		t.Fatal("zero clustering should seed uniformly")
	}
	if d := s.Density(components.V2(10, 10)); d != 1 {
		t.Errorf("uniform density = %v, want 1", d)
	}
}

func TestSeederPrefersDenseRegions(t *testing.T) {
	world := components.World{Width: 200, Height: 150}
	pop := config.PopulationConfig{Clustering: 1, NoiseScale: 0.05}
	s := NewSeeder(world, pop, 5)
	rng := rand.New(rand.NewSource(9))

	const n = 4000
	var seeded, uniform float64
	for i := 0; i < n; i++ {
		p := s.Position(rng)
		if !world.Contains(p) {
			t.Fatalf("seeded position %v outside world", p)
		}
		if a := s.Acceptance(p); a < 0 || a > 1 {
			t.Fatalf("acceptance %v outside [0,1]", a)
		}
		seeded += s.Density(p)
		uniform += s.Density(components.V2(rng.Float64()*world.Width, rng.Float64()*world.Height))
	}

	if seeded <= uniform {
		t.Errorf("mean density of seeded positions %v not above uniform %v", seeded/n, uniform/n)
	}
}

// Package traits defines creature personalities and the motion and visual
// parameters derived from them.
package traits

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// Scale is the upper bound of every personality trait. Traits are expressed
// on a 0-100 scale throughout, so Agreeableness/Scale is a probability.
const Scale = 100.0

// Directions is the number of walk outcomes: index 0 is "stay",
// indices 1-8 are the eight compass directions.
const Directions = 9

// Personality is the five-factor descriptor a creature is built from.
// Each trait lies in [0, Scale].
type Personality struct {
	Openness          float64 `json:"openness"`
	Conscientiousness float64 `json:"conscientiousness"`
	Extraversion      float64 `json:"extraversion"`
	Agreeableness     float64 `json:"agreeableness"`
	Neuroticism       float64 `json:"neuroticism"`
}

// Characteristics is the older three-slider form accepted from creator UIs.
type Characteristics struct {
	Curiosity    float64 `json:"curiosity"`
	Dominance    float64 `json:"dominance"`
	Friendliness float64 `json:"friendliness"`
}

// Personality maps characteristics onto the five-factor model. Curiosity
// becomes openness, dominance extraversion and friendliness agreeableness;
// the remaining traits take the neutral midpoint.
func (c Characteristics) Personality() Personality {
	return Personality{
		Openness:          c.Curiosity,
		Conscientiousness: Scale / 2,
		Extraversion:      c.Dominance,
		Agreeableness:     c.Friendliness,
		Neuroticism:       Scale / 2,
	}.Clamp()
}

// RandomPersonality draws every trait uniformly from [0, Scale).
func RandomPersonality(rng *rand.Rand) Personality {
	return Personality{
		Openness:          rng.Float64() * Scale,
		Conscientiousness: rng.Float64() * Scale,
		Extraversion:      rng.Float64() * Scale,
		Agreeableness:     rng.Float64() * Scale,
		Neuroticism:       rng.Float64() * Scale,
	}
}

// Clamp limits every trait to [0, Scale].
func (p Personality) Clamp() Personality {
	c := func(v float64) float64 {
		if math.IsNaN(v) || v < 0 {
			return 0
		}
		if v > Scale {
			return Scale
		}
		return v
	}
	return Personality{
		Openness:          c(p.Openness),
		Conscientiousness: c(p.Conscientiousness),
		Extraversion:      c(p.Extraversion),
		Agreeableness:     c(p.Agreeableness),
		Neuroticism:       c(p.Neuroticism),
	}
}

// Average returns the per-trait mean of p and o.
func (p Personality) Average(o Personality) Personality {
	return Personality{
		Openness:          (p.Openness + o.Openness) / 2,
		Conscientiousness: (p.Conscientiousness + o.Conscientiousness) / 2,
		Extraversion:      (p.Extraversion + o.Extraversion) / 2,
		Agreeableness:     (p.Agreeableness + o.Agreeableness) / 2,
		Neuroticism:       (p.Neuroticism + o.Neuroticism) / 2,
	}
}

// Values returns the traits in canonical order.
func (p Personality) Values() [5]float64 {
	return [5]float64{p.Openness, p.Conscientiousness, p.Extraversion, p.Agreeableness, p.Neuroticism}
}

// Weights holds each trait as a proportion of the trait sum.
type Weights struct {
	Openness          float64
	Conscientiousness float64
	Extraversion      float64
	Agreeableness     float64
	Neuroticism       float64
}

// Weights divides every trait by the sum of all five. A personality with
// all traits at zero is treated as perfectly balanced.
func (p Personality) Weights() Weights {
	sum := p.Openness + p.Conscientiousness + p.Extraversion + p.Agreeableness + p.Neuroticism
	if sum <= 0 {
		return Weights{0.2, 0.2, 0.2, 0.2, 0.2}
	}
	return Weights{
		Openness:          p.Openness / sum,
		Conscientiousness: p.Conscientiousness / sum,
		Extraversion:      p.Extraversion / sum,
		Agreeableness:     p.Agreeableness / sum,
		Neuroticism:       p.Neuroticism / sum,
	}
}

// Derived holds the motion and visual parameters computed from a personality.
type Derived struct {
	Speed              int
	ColoringSpread     float64
	ColoringPercentage float64
	Attraction         float64
	Viewport           float64
}

// Derive computes the parameters of a creature with personality p.
// viewportBaseline is added to the extraversion weight.
func Derive(p Personality, viewportBaseline float64) Derived {
	w := p.Weights()

	speed := 1 + int(math.Round(4*w.Extraversion+2*w.Openness))
	if speed < 1 {
		speed = 1
	}

	return Derived{
		Speed:              speed,
		ColoringSpread:     10 + math.Round(10*w.Agreeableness),
		ColoringPercentage: RoundFourDec(0.015 + 0.05*w.Neuroticism),
		Attraction:         ClampUnit(2*p.Conscientiousness/Scale - 1),
		Viewport:           w.Extraversion + viewportBaseline,
	}
}

// PreferenceWeights samples the raw, unnormalized walking bias for p.
// Nine uniform weights are stretched away from their mean by a stubbornness
// factor that grows with neuroticism and shrinks with conscientiousness; the
// stay weight is then damped by openness.
func PreferenceWeights(p Personality, rng *rand.Rand) []float64 {
	w := p.Weights()

	u := make([]float64, Directions)
	for i := range u {
		u[i] = rng.Float64()
	}
	mean := stat.Mean(u, nil)

	stubbornness := 1 + (1 - w.Conscientiousness) + w.Neuroticism
	floor := 0.01 * mean
	for i, v := range u {
		s := mean + (v-mean)*stubbornness
		if s < floor {
			s = floor
		}
		u[i] = s
	}
	u[0] *= 1.5 - w.Openness

	// All nine draws at exactly zero leave nothing to normalize.
	if mean == 0 {
		for i := range u {
			u[i] = 1
		}
	}
	return u
}

// Breeding returns the per-collision procreation probability.
func (p Personality) Breeding() float64 {
	return p.Agreeableness / Scale
}

// RoundFourDec rounds v to four decimal places.
func RoundFourDec(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// ClampUnit limits v to [-1, 1].
func ClampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

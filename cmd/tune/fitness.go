package main

import (
	"math"
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/trails/config"
	"github.com/pthm-cable/trails/game"
	"github.com/pthm-cable/trails/raster"
	"github.com/pthm-cable/trails/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int
	seeds       []int64
	baseConfig  *config.Config
	fillTarget  float64 // desired final population as a fraction of population.max
	coverTarget float64 // desired fraction of painted canvas

	mu          sync.Mutex
	lastQuality Quality
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		fillTarget:  0.5,
		coverTarget: 0.7,
	}
}

// Quality breaks a run's score into its components, each in [0, 1].
type Quality struct {
	Coverage  float64 // painted fraction against the target
	Growth    float64 // final population against the fill target
	Stability float64 // low variation of the population growth rate
	Diversity float64 // personality spread kept through breeding
	Total     float64
}

// Quality component weights.
const (
	qualityWeightCoverage  = 0.35
	qualityWeightGrowth    = 0.25
	qualityWeightStability = 0.20
	qualityWeightDiversity = 0.20

	qualityWarmupWindows = 1 // skip first N windows (seeding burst)

	// Standard deviation of a uniform draw over [0, 100].
	uniformTraitStd = 28.87

	// Minimum per-channel distance for a pixel to count as painted.
	paintedDistance = 0.05
)

// LastQuality returns the quality from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() Quality {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	windowStats []telemetry.WindowStats // collected via StatsCallback each window
	population  int
	maxPop      int
	coverage    float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run in parallel; the fitness is the negated mean quality.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]Quality, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.computeQuality(fe.runSimulation(x, s))
		}(i, seed)
	}
	wg.Wait()

	var mean Quality
	for _, q := range results {
		mean.Coverage += q.Coverage
		mean.Growth += q.Growth
		mean.Stability += q.Stability
		mean.Diversity += q.Diversity
		mean.Total += q.Total
	}
	n := float64(len(results))
	mean.Coverage /= n
	mean.Growth /= n
	mean.Stability /= n
	mean.Diversity /= n
	mean.Total /= n

	fe.mu.Lock()
	fe.lastQuality = mean
	fe.mu.Unlock()

	return -mean.Total
}

// runSimulation executes a single headless simulation run to maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{maxPop: cfg.Population.Max}

	g, err := game.NewGame(game.Options{
		Config:         cfg,
		Seed:           seed,
		StepsPerUpdate: 1,
		MaxTicks:       fe.maxTicks,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return result
	}
	defer g.Close()

	for !g.Done() {
		g.Update()
	}

	bg := cfg.Render.Background
	result.population = g.Population()
	result.coverage = paintedFraction(g.Frame(), colorful.Color{
		R: float64(bg[0]) / 255,
		G: float64(bg[1]) / 255,
		B: float64(bg[2]) / 255,
	})
	return result
}

// copyConfig returns a copy of the base config. Config holds no slices or
// maps, so a value copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Telemetry.StatsWindow = statsWindowTicks(fe.maxTicks)
	return &cfg
}

// statsWindowTicks splits a run into about ten telemetry windows.
func statsWindowTicks(maxTicks int) int {
	w := maxTicks / 10
	if w < 1 {
		w = 1
	}
	return w
}

// paintedFraction returns the share of pixels that differ visibly from bg.
func paintedFraction(b *raster.Buffer, bg colorful.Color) float64 {
	w, h := b.Width(), b.Height()
	if w == 0 || h == 0 {
		return 0
	}
	painted := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := b.Pixel(x, y)
			c := colorful.Color{R: float64(p.R) / 255, G: float64(p.G) / 255, B: float64(p.B) / 255}
			if c.DistanceRgb(bg) > paintedDistance {
				painted++
			}
		}
	}
	return float64(painted) / float64(w*h)
}

// computeQuality scores a run in [0, 1].
func (fe *FitnessEvaluator) computeQuality(r *runResult) Quality {
	var q Quality

	// 1. Coverage: Gaussian around the target fraction
	q.Coverage = gaussian(r.coverage, fe.coverTarget, 0.2)

	// 2. Growth: final population relative to the cap
	if r.maxPop > 0 {
		q.Growth = gaussian(float64(r.population)/float64(r.maxPop), fe.fillTarget, 0.25)
	} else if r.population > 0 {
		q.Growth = 1
	}

	// 3. Stability and 4. Diversity over windows past warmup
	if len(r.windowStats) > qualityWarmupWindows {
		valid := r.windowStats[qualityWarmupWindows:]
		births := make([]float64, 0, len(valid))
		var spread float64
		for _, w := range valid {
			births = append(births, float64(w.Births))
			spread += (w.OpennessStd + w.ConscientiousnessStd + w.ExtraversionStd +
				w.AgreeablenessStd + w.NeuroticismStd) / 5
		}
		if len(births) >= 2 {
			c := cv(births)
			q.Stability = math.Exp(-c * c)
		}
		q.Diversity = clamp01(spread / float64(len(valid)) / uniformTraitStd)
	}

	q.Total = clamp01(qualityWeightCoverage*q.Coverage +
		qualityWeightGrowth*q.Growth +
		qualityWeightStability*q.Stability +
		qualityWeightDiversity*q.Diversity)
	return q
}

func gaussian(x, mu, sigma float64) float64 {
	d := (x - mu) / sigma
	return math.Exp(-d * d)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	n := float64(len(values))
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if mean == 0 {
		return 0
	}
	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	return math.Sqrt(sqDiff/n) / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/trails/traits"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population at window end
	Population int `csv:"population"`
	Queued     int `csv:"queued"`

	// Spawns during window, by origin
	SeedSpawns      int `csv:"seed_spawns"`
	InputSpawns     int `csv:"input_spawns"`
	NetworkSpawns   int `csv:"network_spawns"`
	OffspringSpawns int `csv:"offspring_spawns"`
	Dropped         int `csv:"dropped"`

	// Breeding
	Collisions     int     `csv:"collisions"`
	Births         int     `csv:"births"`
	LineageBlocked int     `csv:"lineage_blocked"`
	ChanceFailed   int     `csv:"chance_failed"`
	BreedRate      float64 `csv:"breed_rate"`

	// Motion (sampled at window end)
	SpeedMean      float64 `csv:"speed_mean"`
	AttractionMean float64 `csv:"attraction_mean"`
	AttractionP10  float64 `csv:"attraction_p10"`
	AttractionP50  float64 `csv:"attraction_p50"`
	AttractionP90  float64 `csv:"attraction_p90"`

	// Ancestor set sizes
	LineageMean float64 `csv:"lineage_mean"`
	LineageP10  float64 `csv:"lineage_p10"`
	LineageP50  float64 `csv:"lineage_p50"`
	LineageP90  float64 `csv:"lineage_p90"`

	// Personality drift
	TraitStats
}

// TraitStats holds the mean and standard deviation of each personality trait.
type TraitStats struct {
	OpennessMean          float64 `csv:"openness_mean"`
	OpennessStd           float64 `csv:"openness_std"`
	ConscientiousnessMean float64 `csv:"conscientiousness_mean"`
	ConscientiousnessStd  float64 `csv:"conscientiousness_std"`
	ExtraversionMean      float64 `csv:"extraversion_mean"`
	ExtraversionStd       float64 `csv:"extraversion_std"`
	AgreeablenessMean     float64 `csv:"agreeableness_mean"`
	AgreeablenessStd      float64 `csv:"agreeableness_std"`
	NeuroticismMean       float64 `csv:"neuroticism_mean"`
	NeuroticismStd        float64 `csv:"neuroticism_std"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// MeanStd returns the mean and population standard deviation of values,
// or zeros for an empty slice.
func MeanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	return mean, math.Sqrt(variance)
}

// ComputeDistribution calculates mean and percentiles of values.
func ComputeDistribution(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// ComputeTraitStats calculates per-trait mean and standard deviation.
func ComputeTraitStats(ps []traits.Personality) TraitStats {
	if len(ps) == 0 {
		return TraitStats{}
	}

	var cols [5][]float64
	for i := range cols {
		cols[i] = make([]float64, len(ps))
	}
	for j, p := range ps {
		for i, v := range p.Values() {
			cols[i][j] = v
		}
	}

	var out TraitStats
	out.OpennessMean, out.OpennessStd = MeanStd(cols[0])
	out.ConscientiousnessMean, out.ConscientiousnessStd = MeanStd(cols[1])
	out.ExtraversionMean, out.ExtraversionStd = MeanStd(cols[2])
	out.AgreeablenessMean, out.AgreeablenessStd = MeanStd(cols[3])
	out.NeuroticismMean, out.NeuroticismStd = MeanStd(cols[4])
	return out
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("population", s.Population),
		slog.Int("queued", s.Queued),
		slog.Int("seed_spawns", s.SeedSpawns),
		slog.Int("input_spawns", s.InputSpawns),
		slog.Int("network_spawns", s.NetworkSpawns),
		slog.Int("offspring_spawns", s.OffspringSpawns),
		slog.Int("dropped", s.Dropped),
		slog.Int("collisions", s.Collisions),
		slog.Int("births", s.Births),
		slog.Int("lineage_blocked", s.LineageBlocked),
		slog.Int("chance_failed", s.ChanceFailed),
		slog.Float64("breed_rate", s.BreedRate),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("attraction_mean", s.AttractionMean),
		slog.Float64("attraction_p50", s.AttractionP50),
		slog.Float64("lineage_mean", s.LineageMean),
		slog.Float64("lineage_p90", s.LineageP90),
		slog.Float64("agreeableness_mean", s.TraitStats.AgreeablenessMean),
		slog.Float64("conscientiousness_mean", s.TraitStats.ConscientiousnessMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"population", s.Population,
		"queued", s.Queued,
		"seed_spawns", s.SeedSpawns,
		"input_spawns", s.InputSpawns,
		"network_spawns", s.NetworkSpawns,
		"offspring_spawns", s.OffspringSpawns,
		"dropped", s.Dropped,
		"collisions", s.Collisions,
		"births", s.Births,
		"lineage_blocked", s.LineageBlocked,
		"chance_failed", s.ChanceFailed,
		"breed_rate", s.BreedRate,
		"speed_mean", s.SpeedMean,
		"attraction_mean", s.AttractionMean,
		"attraction_p10", s.AttractionP10,
		"attraction_p50", s.AttractionP50,
		"attraction_p90", s.AttractionP90,
		"lineage_mean", s.LineageMean,
		"lineage_p50", s.LineageP50,
		"lineage_p90", s.LineageP90,
		"openness_mean", s.TraitStats.OpennessMean,
		"conscientiousness_mean", s.TraitStats.ConscientiousnessMean,
		"extraversion_mean", s.TraitStats.ExtraversionMean,
		"agreeableness_mean", s.TraitStats.AgreeablenessMean,
		"neuroticism_mean", s.TraitStats.NeuroticismMean,
	)
}

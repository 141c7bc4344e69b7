package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase identifies one stage of a simulation tick.
type Phase int

const (
	PhaseSpawnQueue Phase = iota
	PhaseSpatialGrid
	PhaseSocial
	PhaseStep
	PhaseTrail
	PhaseCompose
	PhaseTelemetry

	numPhases
)

var phaseNames = [numPhases]string{
	PhaseSpawnQueue:  "spawn_queue",
	PhaseSpatialGrid: "spatial_grid",
	PhaseSocial:      "social",
	PhaseStep:        "step",
	PhaseTrail:       "trail",
	PhaseCompose:     "compose",
	PhaseTelemetry:   "telemetry",
}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases lists the tick phases in execution order.
var Phases = []Phase{
	PhaseSpawnQueue, PhaseSpatialGrid, PhaseSocial,
	PhaseStep, PhaseTrail, PhaseCompose, PhaseTelemetry,
}

// PhaseDurations holds one duration per phase.
type PhaseDurations [numPhases]time.Duration

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       PhaseDurations
}

// PerfCollector tracks tick and frame timing over a rolling window. It is
// owned by the loop goroutine.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	current    PerfSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	// Presented frames, independent of ticks
	frames        []time.Duration
	frameIndex    int
	frameCount    int
	lastFrameTime time.Time

	scratch []float64
}

// NewPerfCollector creates a collector averaging over windowSize ticks
// and frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]PerfSample, windowSize),
		frames:     make([]time.Duration, windowSize),
		scratch:    make([]float64, 0, windowSize),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = PerfSample{}
	p.inPhase = false
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.phase >= 0 && p.phase < numPhases {
		p.current.Phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.current.TickDuration = now.Sub(p.tickStart)

	p.samples[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame notes that a frame was presented.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frames[p.frameIndex] = now.Sub(p.lastFrameTime)
		p.frameIndex = (p.frameIndex + 1) % p.windowSize
		if p.frameCount < p.windowSize {
			p.frameCount++
		}
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Phase breakdown: average duration and share of the average tick
	PhaseAvg PhaseDurations
	PhasePct [numPhases]float64

	TicksPerSecond float64

	// Presented frames
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats

	if p.frameCount > 0 {
		p.scratch = p.scratch[:0]
		for _, d := range p.frames[:p.frameCount] {
			p.scratch = append(p.scratch, float64(d))
		}
		s.FrameDuration = time.Duration(stat.Mean(p.scratch, nil))
		if s.FrameDuration > 0 {
			s.FPS = float64(time.Second) / float64(s.FrameDuration)
		}
	}

	if p.sampleCount == 0 {
		return s
	}

	p.scratch = p.scratch[:0]
	var phaseSum PhaseDurations
	for _, sample := range p.samples[:p.sampleCount] {
		p.scratch = append(p.scratch, float64(sample.TickDuration))
		for i, d := range sample.Phases {
			phaseSum[i] += d
		}
	}
	sort.Float64s(p.scratch)

	n := time.Duration(p.sampleCount)
	s.AvgTickDuration = time.Duration(stat.Mean(p.scratch, nil))
	s.MinTickDuration = time.Duration(p.scratch[0])
	s.MaxTickDuration = time.Duration(p.scratch[len(p.scratch)-1])
	s.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, p.scratch, nil))

	for i, sum := range phaseSum {
		s.PhaseAvg[i] = sum / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[i] = float64(s.PhaseAvg[i]) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	P95TickUS      int64   `csv:"p95_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	SpawnQueuePct  float64 `csv:"spawn_queue_pct"`
	SpatialGridPct float64 `csv:"spatial_grid_pct"`
	SocialPct      float64 `csv:"social_pct"`
	StepPct        float64 `csv:"step_pct"`
	TrailPct       float64 `csv:"trail_pct"`
	ComposePct     float64 `csv:"compose_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		P95TickUS:      s.P95TickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		SpawnQueuePct:  s.PhasePct[PhaseSpawnQueue],
		SpatialGridPct: s.PhasePct[PhaseSpatialGrid],
		SocialPct:      s.PhasePct[PhaseSocial],
		StepPct:        s.PhasePct[PhaseStep],
		TrailPct:       s.PhasePct[PhaseTrail],
		ComposePct:     s.PhasePct[PhaseCompose],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}

package telemetry

import (
	"testing"
	"time"
)

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseSpawnQueue, "spawn_queue"},
		{PhaseCompose, "compose"},
		{PhaseTelemetry, "telemetry"},
		{Phase(-1), "unknown"},
		{numPhases, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.phase.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
	if len(Phases) != int(numPhases) {
		t.Errorf("Phases lists %d phases, want %d", len(Phases), numPhases)
	}
}

func TestPerfCollectorPhases(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSocial)
		time.Sleep(50 * time.Microsecond)
		pc.StartPhase(PhaseTrail)
		time.Sleep(500 * time.Microsecond)
		pc.EndTick()
	}

	s := pc.Stats()
	if s.AvgTickDuration <= 0 || s.TicksPerSecond <= 0 {
		t.Fatalf("avg tick %v, %v tps", s.AvgTickDuration, s.TicksPerSecond)
	}
	if s.PhaseAvg[PhaseSocial] <= 0 || s.PhaseAvg[PhaseTrail] <= 0 {
		t.Errorf("phase averages = %v", s.PhaseAvg)
	}
	if s.PhaseAvg[PhaseStep] != 0 {
		t.Errorf("untimed phase has %v", s.PhaseAvg[PhaseStep])
	}
	if s.PhasePct[PhaseTrail] <= s.PhasePct[PhaseSocial] {
		t.Errorf("trail %v%% not above social %v%%", s.PhasePct[PhaseTrail], s.PhasePct[PhaseSocial])
	}
	if s.MinTickDuration > s.P95TickDuration || s.P95TickDuration > s.MaxTickDuration {
		t.Errorf("min %v, p95 %v, max %v out of order", s.MinTickDuration, s.P95TickDuration, s.MaxTickDuration)
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseStep)
		time.Sleep(2 * time.Millisecond)
		pc.EndTick()
	}
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseStep)
		pc.EndTick()
	}

	// The slow ticks have rotated out of the window
	if s := pc.Stats(); s.MaxTickDuration >= 2*time.Millisecond {
		t.Errorf("max tick %v still includes evicted samples", s.MaxTickDuration)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	s := NewPerfCollector(10).Stats()
	if s.AvgTickDuration != 0 || s.FPS != 0 || s.TicksPerSecond != 0 {
		t.Errorf("empty stats = %+v", s)
	}
}

func TestPerfCollectorFrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	if s := pc.Stats(); s.FPS != 0 {
		t.Errorf("FPS after a single frame = %v", s.FPS)
	}

	for i := 0; i < 3; i++ {
		time.Sleep(16 * time.Millisecond)
		pc.RecordFrame()
	}

	s := pc.Stats()
	if s.FrameDuration < 15*time.Millisecond {
		t.Errorf("frame duration = %v, want >= 15ms", s.FrameDuration)
	}
	if s.FPS <= 0 || s.FPS > 70 {
		t.Errorf("FPS = %v with 16ms frames", s.FPS)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	var s PerfStats
	s.AvgTickDuration = 1500 * time.Microsecond
	s.P95TickDuration = 2500 * time.Microsecond
	s.PhasePct[PhaseSocial] = 40
	s.PhasePct[PhaseTrail] = 25

	row := s.ToCSV(600)
	if row.WindowEnd != 600 || row.AvgTickUS != 1500 || row.P95TickUS != 2500 {
		t.Errorf("row = %+v", row)
	}
	if row.SocialPct != 40 || row.TrailPct != 25 || row.StepPct != 0 {
		t.Errorf("phase columns = social %v trail %v step %v", row.SocialPct, row.TrailPct, row.StepPct)
	}
}

package game

import (
	"log/slog"

	"github.com/pthm-cable/trails/telemetry"
)

// flushTelemetry closes the stats window once it has run its length and
// hands the result to the callback, the log and the CSV outputs.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	g.samplePopulation()
	stats := g.collector.Flush(g.tick, g.Queued(), &g.sample)
	perf := g.perfCollector.Stats()
	marks := g.bookmarkDetector.Check(stats)

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perf.LogStats()
		for _, bm := range marks {
			bm.LogBookmark()
		}
	}

	g.writeWindow(stats, perf, marks)
}

// writeWindow appends one window to the CSV outputs. Failures are logged
// and the run continues.
func (g *Game) writeWindow(stats telemetry.WindowStats, perf telemetry.PerfStats, marks []telemetry.Bookmark) {
	if g.outputManager == nil {
		return
	}

	logErr := func(what string, err error) {
		if err != nil {
			slog.Error("failed to write "+what, "tick", g.tick, "error", err)
		}
	}

	logErr("telemetry", g.outputManager.WriteTelemetry(stats))
	logErr("perf", g.outputManager.WritePerf(perf, stats.WindowEndTick))
	logErr("spawns", g.outputManager.WriteSpawns(g.spawnRecords))
	g.spawnRecords = g.spawnRecords[:0]
	for _, bm := range marks {
		logErr("bookmark", g.outputManager.WriteBookmark(bm))
	}
}

// samplePopulation gathers the per-creature distributions summarized at
// the end of each window.
func (g *Game) samplePopulation() {
	s := &g.sample
	s.Reset()

	query := g.creatureFilter.Query()
	for query.Next() {
		c, _ := query.Get()
		s.Personalities = append(s.Personalities, c.Personality)
		s.Speeds = append(s.Speeds, float64(c.Speed))
		s.Attractions = append(s.Attractions, c.Attraction)
		s.Lineages = append(s.Lineages, float64(c.Ancestors.Len()))
	}
}

package game

import (
	"github.com/pthm-cable/trails/config"
	"github.com/pthm-cable/trails/telemetry"
)

// Options holds configuration for game initialization.
type Options struct {
	Config         *config.Config // nil uses config.Cfg()
	Seed           int64
	LogStats       bool
	OutputDir      string // CSV logs and config snapshot ("" = disabled)
	StepsPerUpdate int    // 0 uses schedule.steps_per_update
	MaxTicks       int    // 0 = unlimited

	// StatsCallback is called with each flushed telemetry window.
	StatsCallback func(telemetry.WindowStats)
}

// Overlay is a set of debug visuals drawn over the composited frame.
type Overlay uint8

const (
	OverlayQueryCircles Overlay = 1 << iota // Neighbor query radius of every creature
	OverlayGridCells                        // Grid cells scanned for the selected creature
	OverlayAttraction                       // Line from each creature to the neighbor it reacts to

	OverlayAll = OverlayQueryCircles | OverlayGridCells | OverlayAttraction
)

package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pthm-cable/trails/config"
	"github.com/pthm-cable/trails/game"
	"github.com/pthm-cable/trails/recorder"
	"github.com/pthm-cable/trails/relay"
	"github.com/pthm-cable/trails/renderer"
	"github.com/pthm-cable/trails/terminal"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	display := flag.String("display", "window", "Display surface: window, terminal or none")
	headless := flag.Bool("headless", false, "Run without a display (same as -display=none)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 0, "Simulation ticks per displayed frame (0 = use config)")
	syncURL := flag.String("sync", "", "Broadcaster websocket URL to join as a canvas (empty = relay.sync_url)")
	record := flag.String("record", "", "Write an MJPEG .avi of the canvas (empty = recorder.path)")
	flag.Parse()

	// Terminal output would corrupt the tcell screen, so logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *syncURL != "" {
		cfg.Relay.SyncURL = *syncURL
	}
	if *record != "" {
		cfg.Recorder.Path = *record
	}
	if *headless {
		*display = "none"
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	g, err := game.NewGame(game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
		MaxTicks:       *maxTicks,
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}

	if err := run(g, cfg, *display); err != nil {
		slog.Error("simulation failed", "error", err)
		g.Close()
		os.Exit(1)
	}
	if err := g.Close(); err != nil {
		slog.Error("failed to close outputs", "error", err)
		os.Exit(1)
	}
}

func run(g *game.Game, cfg *config.Config, display string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var client *relay.Client
	if cfg.Relay.SyncURL != "" {
		client = relay.NewClient(cfg.Relay, g.Bounds(), g)
		go client.Run(ctx)
	}

	var displays game.Displays

	rec, err := recorder.New(cfg.Recorder, g.Frame().Width(), g.Frame().Height())
	if err != nil {
		return err
	}
	if rec != nil {
		defer rec.Close()
		displays = append(displays, rec)
	}

	switch display {
	case "window":
		w := renderer.NewWindow(g, cfg, "Trails")
		defer w.Close()
		if client != nil {
			w.SetRelayStatus(client.ID)
		}
		displays = append(displays, w)
	case "terminal":
		t, err := terminal.New(g)
		if err != nil {
			return err
		}
		defer t.Close()
		displays = append(displays, t)
	case "none":
	default:
		return errors.New("unknown display " + display)
	}

	interval := cfg.TickInterval(display == "window")
	slog.Info("starting simulation",
		"seed", g.Seed(),
		"display", display,
		"world", g.Bounds(),
		"interval", interval,
		"steps_per_update", g.StepsPerUpdate(),
		"sync", cfg.Relay.SyncURL,
	)

	err = g.Run(ctx, displays, interval)
	slog.Info("simulation stopped", "tick", g.Tick(), "population", g.Population())
	return err
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

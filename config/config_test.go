package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Derived.WorldW != cfg.Screen.Width || cfg.Derived.WorldH != cfg.Screen.Height {
		t.Errorf("world = %dx%d, want screen size %dx%d",
			cfg.Derived.WorldW, cfg.Derived.WorldH, cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Grid.Spacing != 50 {
		t.Errorf("grid spacing = %v, want 50", cfg.Grid.Spacing)
	}
	if cfg.Render.Compose != "clone" {
		t.Errorf("compose = %q, want clone", cfg.Render.Compose)
	}
	half := float64(cfg.Screen.Height) / 2
	if cfg.Derived.MaxQueryDistance >= half {
		t.Errorf("max query distance %v should be below %v", cfg.Derived.MaxQueryDistance, half)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	overlay := []byte("world:\n  width: 500\n  height: 400\npopulation:\n  initial: 7\n")
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Derived.WorldW != 500 || cfg.Derived.WorldH != 400 {
		t.Errorf("world = %dx%d, want 500x400", cfg.Derived.WorldW, cfg.Derived.WorldH)
	}
	if cfg.Population.Initial != 7 {
		t.Errorf("initial = %d, want 7", cfg.Population.Initial)
	}
	// Untouched fields keep defaults
	if cfg.Creature.BreedingDecay != 0.9 {
		t.Errorf("breeding decay = %v, want default 0.9", cfg.Creature.BreedingDecay)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
	}{
		{"zero spacing", "grid:\n  spacing: 0\n"},
		{"unknown compose", "render:\n  compose: blit\n"},
		{"negative world", "world:\n  width: -1\n"},
		{"zero size", "creature:\n  size: 0\n"},
		{"zero collision factor", "creature:\n  collision_factor: 0\n"},
		{"negative side fraction", "creature:\n  side_fraction: -1\n"},
		{"negative attraction gain", "creature:\n  attraction_gain: [3, -1]\n"},
		{"breeding decay above one", "creature:\n  breeding_decay: 1.5\n"},
		{"negative breeding decay", "creature:\n  breeding_decay: -0.1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.overlay), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("Load(%q) succeeded, want error", tt.overlay)
			}
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.Population.Initial = 42

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Population.Initial != 42 {
		t.Errorf("initial = %d, want 42", loaded.Population.Initial)
	}
}

func TestInitSetsGlobal(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if Cfg().Grid.Spacing <= 0 {
		t.Errorf("global config has grid spacing %v", Cfg().Grid.Spacing)
	}
}

func TestTickInterval(t *testing.T) {
	tests := []struct {
		name      string
		interval  float64
		fps       int
		selfPaced bool
		want      time.Duration
	}{
		{"explicit interval", 0.5, 60, false, 500 * time.Millisecond},
		{"explicit interval with window", 0.5, 60, true, 500 * time.Millisecond},
		{"window paces itself", 0, 60, true, 0},
		{"unpaced display follows fps", 0, 50, false, 20 * time.Millisecond},
		{"no fps runs free", 0, 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Schedule.Interval = tt.interval
			cfg.Screen.TargetFPS = tt.fps
			if got := cfg.TickInterval(tt.selfPaced); got != tt.want {
				t.Errorf("TickInterval(%v) = %v, want %v", tt.selfPaced, got, tt.want)
			}
		})
	}
}

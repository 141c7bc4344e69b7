// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Grid       GridConfig       `yaml:"grid"`
	Population PopulationConfig `yaml:"population"`
	Creature   CreatureConfig   `yaml:"creature"`
	Render     RenderConfig     `yaml:"render"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Relay      RelayConfig      `yaml:"relay"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Recorder   RecorderConfig   `yaml:"recorder"`
	Debug      DebugConfig      `yaml:"debug"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds simulation world dimensions in pixels.
// The world is the pixel surface; zero means "use the screen size".
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// GridConfig holds spatial hash grid parameters.
type GridConfig struct {
	Spacing float64 `yaml:"spacing"` // Cell edge length in pixels
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	Initial    int     `yaml:"initial"`    // Randomized creatures created at start
	Max        int     `yaml:"max"`        // Hard cap; queued spawns beyond it are dropped (0 = unlimited)
	Clustering float64 `yaml:"clustering"` // 0 = uniform seeding, 1 = strongly noise-clustered
	NoiseScale float64 `yaml:"noise_scale"`
}

// CreatureConfig holds agent behavior parameters.
type CreatureConfig struct {
	Size             float64    `yaml:"size"`              // Default footprint edge in pixels
	ViewDistance     float64    `yaml:"view_distance"`     // Query radius at viewport = 1
	ViewportBaseline float64    `yaml:"viewport_baseline"` // Added to the extraversion weight
	CollisionFactor  float64    `yaml:"collision_factor"`  // Collision radius as a multiple of size
	AttractionGain   [2]float64 `yaml:"attraction_gain"`   // Multiplier gain for bearing sector, then its neighbors
	SideFraction     float64    `yaml:"side_fraction"`     // Weight scale for sectors two steps from the bearing
	BreedingDecay    float64    `yaml:"breeding_decay"`    // Attraction multiplier applied to parents after a birth
}

// RenderConfig holds trail and compositing parameters.
type RenderConfig struct {
	Background [4]uint8 `yaml:"background"` // Initial trail fill (RGBA)
	Fading     bool     `yaml:"fading"`     // Soft radial brush instead of a flat gradient disc
	Compose    string   `yaml:"compose"`    // "clone" or "restore"
}

// ScheduleConfig holds tick scheduling parameters.
type ScheduleConfig struct {
	Interval       float64 `yaml:"interval"`         // Seconds between ticks in timer mode (0 = free running)
	StepsPerUpdate int     `yaml:"steps_per_update"` // Ticks per display refresh
}

// RelayConfig holds network channel parameters.
type RelayConfig struct {
	SyncURL      string  `yaml:"sync_url"`      // Broadcaster to dial as a canvas ("" = disabled)
	Listen       string  `yaml:"listen"`        // Address for the standalone broadcaster
	PingInterval float64 `yaml:"ping_interval"` // Seconds between keepalive pings
	DialTimeout  float64 `yaml:"dial_timeout"`  // Seconds before a connection attempt is abandoned
	RetryDelay   float64 `yaml:"retry_delay"`   // Seconds between reconnect attempts
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// RecorderConfig holds MJPEG recording parameters.
type RecorderConfig struct {
	Path       string `yaml:"path"`        // Output .avi file ("" = disabled)
	FPS        int    `yaml:"fps"`         // Playback frame rate written to the header
	FrameEvery int    `yaml:"frame_every"` // Record one frame every N ticks
	Quality    int    `yaml:"quality"`     // JPEG quality 1-100
}

// DebugConfig holds debug visualisation toggles.
type DebugConfig struct {
	Visual bool `yaml:"visual"` // Query circles, scanned cells and attraction lines
	Info   bool `yaml:"info"`   // HUD text
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW int // Effective world width
	WorldH int // Effective world height

	// MaxQueryDistance keeps neighbor queries below half the smaller world
	// dimension, where the grid's wrap correction is exact.
	MaxQueryDistance float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Default returns the embedded defaults. Panics if they fail to parse.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

func (c *Config) validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.World.Width < 0 || c.World.Height < 0 {
		return fmt.Errorf("world size must not be negative, got %dx%d", c.World.Width, c.World.Height)
	}
	if c.Grid.Spacing <= 0 {
		return fmt.Errorf("grid spacing must be positive, got %v", c.Grid.Spacing)
	}
	if c.Creature.Size <= 0 {
		return fmt.Errorf("creature size must be positive, got %v", c.Creature.Size)
	}
	if c.Creature.CollisionFactor <= 0 {
		return fmt.Errorf("collision factor must be positive, got %v", c.Creature.CollisionFactor)
	}
	if c.Creature.SideFraction < 0 {
		return fmt.Errorf("side fraction must not be negative, got %v", c.Creature.SideFraction)
	}
	for i, g := range c.Creature.AttractionGain {
		if g < 0 {
			return fmt.Errorf("attraction gain %d must not be negative, got %v", i, g)
		}
	}
	if c.Creature.BreedingDecay < 0 || c.Creature.BreedingDecay > 1 {
		return fmt.Errorf("breeding decay must be within [0, 1], got %v", c.Creature.BreedingDecay)
	}
	switch c.Render.Compose {
	case "clone", "restore":
	default:
		return fmt.Errorf("unknown compose mode %q", c.Render.Compose)
	}
	return nil
}

// TickInterval returns the wait between ticks. A zero schedule interval
// leaves pacing to the display when it blocks on refresh (selfPaced);
// otherwise ticks follow the screen's target frame rate.
func (c *Config) TickInterval(selfPaced bool) time.Duration {
	interval := time.Duration(c.Schedule.Interval * float64(time.Second))
	if interval > 0 || selfPaced || c.Screen.TargetFPS <= 0 {
		return interval
	}
	return time.Second / time.Duration(c.Screen.TargetFPS)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// World dimensions default to screen size if not specified
	c.Derived.WorldW = c.World.Width
	if c.Derived.WorldW == 0 {
		c.Derived.WorldW = c.Screen.Width
	}
	c.Derived.WorldH = c.World.Height
	if c.Derived.WorldH == 0 {
		c.Derived.WorldH = c.Screen.Height
	}

	half := 0.5 * math.Min(float64(c.Derived.WorldW), float64(c.Derived.WorldH))
	c.Derived.MaxQueryDistance = math.Nextafter(half, 0)

	if c.Schedule.StepsPerUpdate < 1 {
		c.Schedule.StepsPerUpdate = 1
	}
	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 600
	}
	if c.Recorder.FrameEvery < 1 {
		c.Recorder.FrameEvery = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

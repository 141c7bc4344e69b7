package game

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/config"
	"github.com/pthm-cable/trails/raster"
	"github.com/pthm-cable/trails/telemetry"
	"github.com/pthm-cable/trails/traits"
)

// baseSections are the config overlay sections every test starts from.
var baseSections = []string{
	"world:\n  width: 200\n  height: 150\n",
	"grid:\n  spacing: 25\n",
	"population:\n  initial: 20\n  max: 0\n",
	"telemetry:\n  stats_window: 1\n",
}

// testConfig loads the embedded defaults overlaid with baseSections. Each
// override replaces the base section with the same top-level key.
func testConfig(t *testing.T, overrides ...string) *config.Config {
	t.Helper()

	sections := append([]string(nil), baseSections...)
	for _, o := range overrides {
		key, _, _ := strings.Cut(o, ":")
		replaced := false
		for i, s := range sections {
			if strings.HasPrefix(s, key+":") {
				sections[i] = o
				replaced = true
			}
		}
		if !replaced {
			sections = append(sections, o)
		}
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(strings.Join(sections, "")), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config, opts Options) *Game {
	t.Helper()
	opts.Config = cfg
	if opts.Seed == 0 {
		opts.Seed = 7
	}
	g, err := NewGame(opts)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func agreeable() *traits.Personality {
	return &traits.Personality{
		Openness:          50,
		Conscientiousness: 50,
		Extraversion:      50,
		Agreeableness:     100,
		Neuroticism:       50,
	}
}

func TestSeedPopulationJoinsAtFirstTick(t *testing.T) {
	g := newTestGame(t, testConfig(t), Options{})

	if got := g.Population(); got != 0 {
		t.Fatalf("population before first tick = %d, want 0", got)
	}
	if got := g.Queued(); got != 20 {
		t.Fatalf("queued before first tick = %d, want 20", got)
	}

	g.Update()

	if got := g.Population(); got != 20 {
		t.Errorf("population after first tick = %d, want 20", got)
	}
	if got := g.Tick(); got != 1 {
		t.Errorf("tick = %d, want 1", got)
	}
}

func TestPositionsStayInWorld(t *testing.T) {
	g := newTestGame(t, testConfig(t), Options{})
	w := g.Bounds()

	for i := 0; i < 300; i++ {
		g.Update()
		for _, c := range g.Snapshot().Creatures {
			if !w.Contains(c.Position) {
				t.Fatalf("tick %d: creature %d at %v outside %vx%v", g.Tick(), c.ID, c.Position, w.Width, w.Height)
			}
		}
	}
}

func TestEnqueueDeferredToTickBoundary(t *testing.T) {
	cfg := testConfig(t, "population:\n  initial: 0\n  max: 0\n")
	g := newTestGame(t, cfg, Options{})

	g.Enqueue(SpawnCommand{
		Position:    components.V2(-5, 160),
		Color:       components.RGB(10, 20, 30),
		Personality: agreeable(),
		Origin:      components.OriginNetwork,
	})
	if g.Population() != 0 || g.Queued() != 1 {
		t.Fatalf("population/queued = %d/%d before tick, want 0/1", g.Population(), g.Queued())
	}

	g.Update()

	snap := g.Snapshot()
	if snap.Population != 1 {
		t.Fatalf("population = %d, want 1", snap.Population)
	}
	c := snap.Creatures[0]
	if c.Origin != "network" || c.BirthTick != 0 {
		t.Errorf("origin/birth = %s/%d, want network/0", c.Origin, c.BirthTick)
	}
	if c.Color != components.RGB(10, 20, 30) {
		t.Errorf("color = %v, want the requested color", c.Color)
	}
	if c.Personality.Agreeableness != 100 {
		t.Errorf("agreeableness = %v, want 100", c.Personality.Agreeableness)
	}
}

func TestPopulationCapDropsExcess(t *testing.T) {
	cfg := testConfig(t, "population:\n  initial: 10\n  max: 4\n")

	var windows []telemetry.WindowStats
	g := newTestGame(t, cfg, Options{
		StatsCallback: func(s telemetry.WindowStats) { windows = append(windows, s) },
	})

	g.Update()

	if got := g.Population(); got != 4 {
		t.Errorf("population = %d, want 4", got)
	}
	if len(windows) != 1 {
		t.Fatalf("got %d stats windows, want 1", len(windows))
	}
	if windows[0].Dropped != 6 || windows[0].SeedSpawns != 4 {
		t.Errorf("dropped/seed spawns = %d/%d, want 6/4", windows[0].Dropped, windows[0].SeedSpawns)
	}
}

func TestOffspringJoinNextTick(t *testing.T) {
	cfg := testConfig(t, "population:\n  initial: 0\n  max: 0\n")
	g := newTestGame(t, cfg, Options{})

	for i := 0; i < 2; i++ {
		g.Enqueue(SpawnCommand{
			Position:    components.V2(100, 75),
			Color:       components.RGB(200, 0, 0),
			Personality: agreeable(),
			Origin:      components.OriginInput,
		})
	}

	g.Update()
	if g.Population() != 2 {
		t.Fatalf("population after collision tick = %d, want 2", g.Population())
	}
	if g.Queued() != 1 {
		t.Fatalf("queued offspring = %d, want 1", g.Queued())
	}

	g.Update()
	var child *CreatureSummary
	for _, c := range g.Snapshot().Creatures {
		if c.Origin == "offspring" {
			c := c
			child = &c
			break
		}
	}
	if child == nil {
		t.Fatal("offspring did not join at the next tick")
	}
	if child.Ancestors != 2 || child.BirthTick != 1 {
		t.Errorf("child ancestors/birth = %d/%d, want 2/1", child.Ancestors, child.BirthTick)
	}
	lineage, ok := g.Lineage(child.ID)
	if !ok || !lineage.Has(1) || !lineage.Has(2) {
		t.Errorf("child lineage = %v, want both parents", lineage)
	}
}

func TestCoincidentNeighborCollidesWithoutSteering(t *testing.T) {
	cfg := testConfig(t, "population:\n  initial: 0\n  max: 0\n")
	g := newTestGame(t, cfg, Options{})

	for i := 0; i < 2; i++ {
		g.Enqueue(SpawnCommand{
			Position:    components.V2(100, 75),
			Personality: agreeable(),
			Origin:      components.OriginInput,
		})
	}
	g.drainSpawnQueue()
	g.updateSpatialGrid()
	g.updateSocial()

	if g.Queued() != 1 {
		t.Errorf("queued offspring = %d, want 1", g.Queued())
	}
	for _, c := range g.creatures {
		pref := c.Preference.Values()
		for i, v := range c.Walk.Values() {
			if v != pref[i] {
				t.Fatalf("creature %d walk = %v, want preference %v", c.ID, c.Walk.Values(), pref)
			}
		}
	}
}

func TestRestoreComposeMatchesClone(t *testing.T) {
	clone := newTestGame(t, testConfig(t, "render:\n  compose: clone\n"), Options{Seed: 11})
	restore := newTestGame(t, testConfig(t, "render:\n  compose: restore\n"), Options{Seed: 11})

	for i := 0; i < 40; i++ {
		clone.Update()
		restore.Update()
		if !bytes.Equal(clone.Frame().Pix(), restore.Frame().Pix()) {
			t.Fatalf("frames differ at tick %d", clone.Tick())
		}
	}
}

func TestOverlaysChangeFrame(t *testing.T) {
	plain := newTestGame(t, testConfig(t), Options{Seed: 3})
	debug := newTestGame(t, testConfig(t), Options{Seed: 3})
	debug.SetOverlays(OverlayAll)

	plain.Update()
	debug.Update()

	if bytes.Equal(plain.Frame().Pix(), debug.Frame().Pix()) {
		t.Error("debug overlays left the frame unchanged")
	}
}

func TestSnapshotAndCreature(t *testing.T) {
	g := newTestGame(t, testConfig(t), Options{})
	g.Update()

	snap := g.Snapshot()
	if snap.Tick != 1 || snap.Population != 20 || len(snap.Creatures) != 20 {
		t.Fatalf("snapshot tick/population/len = %d/%d/%d", snap.Tick, snap.Population, len(snap.Creatures))
	}

	want := snap.Creatures[5]
	got, ok := g.Creature(want.ID)
	if !ok || got.ID != want.ID || got.Position != want.Position {
		t.Errorf("Creature(%d) = %+v, %v; want %+v", want.ID, got, ok, want)
	}
	if _, ok := g.Creature(9999); ok {
		t.Error("Creature(9999) found a creature")
	}

	id, ok := g.CreatureAt(want.Position, 1)
	if !ok {
		t.Fatalf("CreatureAt(%v) found nothing", want.Position)
	}
	if at, _ := g.Creature(id); spatialDistSq(at.Position, want.Position) > 1 {
		t.Errorf("CreatureAt returned creature %d at %v", id, at.Position)
	}
}

func spatialDistSq(a, b components.Vec2) float64 {
	return a.Sub(b).Mag2()
}

func TestPausedUpdateIsNoop(t *testing.T) {
	g := newTestGame(t, testConfig(t), Options{})
	g.SetPaused(true)
	g.Update()
	if g.Tick() != 0 || g.Population() != 0 {
		t.Errorf("paused update advanced to tick %d with %d creatures", g.Tick(), g.Population())
	}
}

type countingDisplay struct {
	frames int
	stopAt int
}

func (d *countingDisplay) Present(frame *raster.Buffer) error {
	d.frames++
	if d.stopAt > 0 && d.frames >= d.stopAt {
		return ErrStopped
	}
	return nil
}

func TestRunStopsAtMaxTicks(t *testing.T) {
	g := newTestGame(t, testConfig(t), Options{MaxTicks: 5})
	d := &countingDisplay{}

	if err := g.Run(context.Background(), d, 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if g.Tick() != 5 || d.frames != 5 {
		t.Errorf("tick/frames = %d/%d, want 5/5", g.Tick(), d.frames)
	}
}

func TestRunStoppedByDisplay(t *testing.T) {
	g := newTestGame(t, testConfig(t), Options{})
	d := &countingDisplay{stopAt: 3}

	if err := g.Run(context.Background(), Displays{d}, 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if g.Tick() != 3 {
		t.Errorf("tick = %d, want 3", g.Tick())
	}
}

func TestRunCancelled(t *testing.T) {
	g := newTestGame(t, testConfig(t), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := g.Run(ctx, &countingDisplay{}, 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if g.Tick() != 0 {
		t.Errorf("cancelled run advanced to tick %d", g.Tick())
	}
}

func TestOutputDirReceivesCSV(t *testing.T) {
	dir := t.TempDir()
	g := newTestGame(t, testConfig(t), Options{OutputDir: dir})
	for i := 0; i < 3; i++ {
		g.Update()
	}
	if err := g.Close(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv", "spawns.csv"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestCreatureSummaryFieldValues(t *testing.T) {
	g := newTestGame(t, testConfig(t), Options{})
	g.Update()
	c := g.Snapshot().Creatures[0]

	fields := append(components.PersonalityFieldDescriptors(), components.DerivedFieldDescriptors()...)
	for _, f := range fields {
		if _, ok := c.FieldValue(f.ID); !ok {
			t.Errorf("no value for field %q", f.ID)
		}
	}
	if v, _ := c.FieldValue("agreeableness"); v != c.Personality.Agreeableness {
		t.Errorf("agreeableness field = %v, want %v", v, c.Personality.Agreeableness)
	}
	if _, ok := c.FieldValue("energy"); ok {
		t.Error("unknown field reported a value")
	}
}

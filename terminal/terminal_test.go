package terminal

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/game"
	"github.com/pthm-cable/trails/raster"
)

type fakeControls struct {
	mu     sync.Mutex
	spawns []components.Vec2
	paused bool
	steps  int
}

func (f *fakeControls) SpawnAt(p components.Vec2) {
	f.mu.Lock()
	f.spawns = append(f.spawns, p)
	f.mu.Unlock()
}
func (f *fakeControls) Paused() bool            { return f.paused }
func (f *fakeControls) SetPaused(p bool)        { f.paused = p }
func (f *fakeControls) StepsPerUpdate() int     { return f.steps }
func (f *fakeControls) SetStepsPerUpdate(n int) { f.steps = n }
func (f *fakeControls) Tick() int32             { return 42 }
func (f *fakeControls) Population() int         { return 7 }

func newSimDisplay(t *testing.T, cols, rows int) (*Display, tcell.SimulationScreen, *fakeControls) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	controls := &fakeControls{steps: 1}
	d, err := NewWithScreen(screen, controls)
	if err != nil {
		t.Fatalf("NewWithScreen: %v", err)
	}
	screen.SetSize(cols, rows)
	t.Cleanup(d.Close)
	return d, screen, controls
}

// presentUntil presents frames until cond holds or a second passes.
func presentUntil(t *testing.T, d *Display, frame *raster.Buffer, cond func(error) bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for {
		err := d.Present(frame)
		if cond(err) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not reached, last error %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPresentDrawsHalfBlocks(t *testing.T) {
	d, screen, _ := newSimDisplay(t, 4, 2)
	d.status = false

	frame := raster.New(4, 4)
	frame.Fill(components.RGB(255, 0, 0))
	if err := d.Present(frame); err != nil {
		t.Fatal(err)
	}

	cells, w, h := screen.GetContents()
	if w != 4 || h != 2 {
		t.Fatalf("screen is %dx%d, want 4x2", w, h)
	}
	for i, c := range cells {
		if len(c.Runes) == 0 || c.Runes[0] != upperHalf {
			t.Errorf("cell %d = %q, want half block", i, c.Runes)
		}
	}
}

func TestStatusLine(t *testing.T) {
	d, screen, _ := newSimDisplay(t, 40, 3)

	if err := d.Present(raster.New(40, 6)); err != nil {
		t.Fatal(err)
	}

	cells, w, _ := screen.GetContents()
	var line []rune
	for _, c := range cells[2*w : 2*w+10] {
		line = append(line, c.Runes...)
	}
	if got := string(line); got != " tick 42 |" {
		t.Errorf("status line starts %q", got)
	}
}

func TestMouseClickSpawns(t *testing.T) {
	d, screen, controls := newSimDisplay(t, 4, 2)
	frame := raster.New(40, 20)

	screen.InjectMouse(1, 0, tcell.Button1, tcell.ModNone)
	presentUntil(t, d, frame, func(error) bool {
		controls.mu.Lock()
		defer controls.mu.Unlock()
		return len(controls.spawns) > 0
	})

	if got := controls.spawns[0]; got != components.V2(15, 5) {
		t.Errorf("spawned at %v, want (15, 5)", got)
	}
}

func TestKeys(t *testing.T) {
	d, screen, controls := newSimDisplay(t, 4, 2)
	frame := raster.New(8, 8)

	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	presentUntil(t, d, frame, func(error) bool { return controls.Paused() })

	screen.InjectKey(tcell.KeyRune, '+', tcell.ModNone)
	presentUntil(t, d, frame, func(error) bool { return controls.StepsPerUpdate() == 2 })

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	presentUntil(t, d, frame, func(err error) bool { return errors.Is(err, game.ErrStopped) })
}

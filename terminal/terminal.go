// Package terminal shows the canvas in a text terminal using half-block
// characters, two canvas rows per terminal row.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/game"
	"github.com/pthm-cable/trails/raster"
)

// upperHalf draws the top pixel in the foreground and the bottom one in the
// background.
const upperHalf = '▀'

// Controls is the part of the simulation the terminal drives.
type Controls interface {
	SpawnAt(p components.Vec2)
	Paused() bool
	SetPaused(paused bool)
	StepsPerUpdate() int
	SetStepsPerUpdate(n int)
	Tick() int32
	Population() int
}

// Display presents frames on a tcell screen and feeds its keyboard and
// mouse input back to the simulation.
type Display struct {
	screen   tcell.Screen
	controls Controls
	events   chan tcell.Event
	cells    []components.Color
	status   bool
	quit     bool
}

// New initializes the terminal. The caller must Close it to restore the
// terminal state.
func New(controls Controls) (*Display, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	return NewWithScreen(screen, controls)
}

// NewWithScreen initializes the given screen, which may be a simulation
// screen.
func NewWithScreen(screen tcell.Screen, controls Controls) (*Display, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()

	d := &Display{
		screen:   screen,
		controls: controls,
		events:   make(chan tcell.Event, 100),
		status:   true,
	}
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(d.events)
				return
			}
			d.events <- ev
		}
	}()
	return d, nil
}

// Present implements game.Display. It returns game.ErrStopped once the user
// quits.
func (d *Display) Present(frame *raster.Buffer) error {
	d.drainEvents(frame)
	if d.quit {
		return game.ErrStopped
	}

	cols, rows := d.screen.Size()
	if cols <= 0 || rows <= 0 {
		return nil
	}
	d.cells = frame.Downsample(d.cells, cols, rows*2)
	for y := 0; y < rows; y++ {
		top := d.cells[2*y*cols : (2*y+1)*cols]
		bottom := d.cells[(2*y+1)*cols : (2*y+2)*cols]
		for x := 0; x < cols; x++ {
			style := tcell.StyleDefault.Foreground(rgb(top[x])).Background(rgb(bottom[x]))
			d.screen.SetContent(x, y, upperHalf, nil, style)
		}
	}
	if d.status {
		d.drawStatus(rows - 1)
	}
	d.screen.Show()
	return nil
}

func rgb(c components.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (d *Display) drawStatus(row int) {
	text := fmt.Sprintf(" tick %d | creatures %d | %dx ", d.controls.Tick(), d.controls.Population(), d.controls.StepsPerUpdate())
	if d.controls.Paused() {
		text += "| paused "
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for i, r := range text {
		d.screen.SetContent(i, row, r, nil, style)
	}
}

func (d *Display) drainEvents(frame *raster.Buffer) {
	for {
		select {
		case ev, ok := <-d.events:
			if !ok {
				d.quit = true
				return
			}
			d.handle(ev, frame)
		default:
			return
		}
	}
}

func (d *Display) handle(ev tcell.Event, frame *raster.Buffer) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			d.quit = true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				d.quit = true
			case ' ':
				d.controls.SetPaused(!d.controls.Paused())
			case '+', '=':
				d.controls.SetStepsPerUpdate(d.controls.StepsPerUpdate() + 1)
			case '-':
				d.controls.SetStepsPerUpdate(d.controls.StepsPerUpdate() - 1)
			case 'i':
				d.status = !d.status
			}
		}

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 == 0 {
			return
		}
		cols, rows := d.screen.Size()
		if cols <= 0 || rows <= 0 {
			return
		}
		x, y := ev.Position()
		d.controls.SpawnAt(components.V2(
			(float64(x)+0.5)*float64(frame.Width())/float64(cols),
			(float64(y)+0.5)*float64(frame.Height())/float64(rows),
		))

	case *tcell.EventResize:
		d.screen.Sync()
	}
}

// Close restores the terminal.
func (d *Display) Close() {
	d.screen.Fini()
}

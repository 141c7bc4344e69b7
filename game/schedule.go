package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pthm-cable/trails/raster"
)

// Display consumes composited frames. The buffer is only valid for the
// duration of the call.
type Display interface {
	Present(frame *raster.Buffer) error
}

// Displays presents each frame to several surfaces in order.
type Displays []Display

// Present implements Display, stopping at the first error.
func (ds Displays) Present(frame *raster.Buffer) error {
	for _, d := range ds {
		if err := d.Present(frame); err != nil {
			return err
		}
	}
	return nil
}

// ErrStopped is returned by a Display to end the loop without error.
var ErrStopped = errors.New("game: display stopped")

// Run advances the simulation and hands every frame to d until ctx is
// cancelled, the tick limit is reached or d returns an error. An interval
// of zero runs ticks back to back; otherwise one Update happens per
// interval. A paused game keeps presenting its last frame.
func (g *Game) Run(ctx context.Context, d Display, interval time.Duration) error {
	var ticker *time.Ticker
	if interval > 0 {
		ticker = time.NewTicker(interval)
		defer ticker.Stop()
	}

	for !g.Done() {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			return nil
		}

		g.Update()
		if err := d.Present(g.frame); err != nil {
			if errors.Is(err, ErrStopped) {
				return nil
			}
			return fmt.Errorf("presenting tick %d: %w", g.tick, err)
		}
		g.RecordFrame()
	}
	return nil
}

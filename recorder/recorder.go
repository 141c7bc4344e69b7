// Package recorder writes presented frames to an MJPEG AVI file.
package recorder

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"log/slog"

	"github.com/icza/mjpeg"

	"github.com/pthm-cable/trails/config"
	"github.com/pthm-cable/trails/raster"
)

// Recorder is a game.Display that encodes every Nth frame as JPEG and
// appends it to an AVI stream.
type Recorder struct {
	path   string
	writer mjpeg.AviWriter
	every  int
	opts   jpeg.Options
	buf    bytes.Buffer

	presented int
	frames    int
}

// New creates the output file for frames of the given size. It returns
// nil, nil when cfg.Path is empty.
func New(cfg config.RecorderConfig, width, height int) (*Recorder, error) {
	if cfg.Path == "" {
		return nil, nil
	}
	fps := cfg.FPS
	if fps <= 0 {
		fps = 30
	}
	w, err := mjpeg.New(cfg.Path, int32(width), int32(height), int32(fps))
	if err != nil {
		return nil, fmt.Errorf("creating recording %s: %w", cfg.Path, err)
	}

	quality := cfg.Quality
	if quality < 1 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	every := cfg.FrameEvery
	if every < 1 {
		every = 1
	}

	return &Recorder{
		path:   cfg.Path,
		writer: w,
		every:  every,
		opts:   jpeg.Options{Quality: quality},
	}, nil
}

// Present implements game.Display.
func (r *Recorder) Present(frame *raster.Buffer) error {
	r.presented++
	if (r.presented-1)%r.every != 0 {
		return nil
	}

	r.buf.Reset()
	if err := jpeg.Encode(&r.buf, frame.Image(), &r.opts); err != nil {
		return fmt.Errorf("encoding frame %d: %w", r.frames, err)
	}
	if err := r.writer.AddFrame(r.buf.Bytes()); err != nil {
		return fmt.Errorf("writing frame %d: %w", r.frames, err)
	}
	r.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (r *Recorder) Frames() int {
	return r.frames
}

// Close finalizes the AVI index and header.
func (r *Recorder) Close() error {
	if err := r.writer.Close(); err != nil {
		return fmt.Errorf("closing recording %s: %w", r.path, err)
	}
	slog.Info("recording written", "path", r.path, "frames", r.frames)
	return nil
}

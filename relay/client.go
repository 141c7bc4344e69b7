package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/config"
	"github.com/pthm-cable/trails/game"
)

// Spawner accepts spawn commands from another goroutine.
type Spawner interface {
	Enqueue(cmd game.SpawnCommand)
}

// Client keeps a canvas session with a broadcaster alive and feeds the
// create commands it receives into a Spawner.
type Client struct {
	url     string
	world   components.World
	spawner Spawner

	dialTimeout  time.Duration
	retryDelay   time.Duration
	pingInterval time.Duration

	mu sync.Mutex
	id string
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// NewClient returns a client for cfg.SyncURL announcing world as the
// canvas size.
func NewClient(cfg config.RelayConfig, world components.World, spawner Spawner) *Client {
	return &Client{
		url:          cfg.SyncURL,
		world:        world,
		spawner:      spawner,
		dialTimeout:  seconds(cfg.DialTimeout),
		retryDelay:   seconds(cfg.RetryDelay),
		pingInterval: seconds(cfg.PingInterval),
	}
}

// ID returns the canvas id of the current session, or "" when disconnected.
func (c *Client) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

func (c *Client) setID(id string) {
	c.mu.Lock()
	c.id = id
	c.mu.Unlock()
}

// Run connects and reconnects until ctx is cancelled. It always returns
// ctx.Err().
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.session(ctx)
		c.setID("")
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Warn("relay session ended", "url", c.url, "error", err, "retry_in", c.retryDelay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
}

func (c *Client) session(ctx context.Context) error {
	dialCtx := ctx
	if c.dialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, c.dialTimeout)
		defer cancel()
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.dialTimeout}
	ws, _, err := dialer.DialContext(dialCtx, c.url, nil)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", c.url, err)
	}
	conn := &conn{ws: ws}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		ws.Close()
	}()

	if err := conn.send(InitCanvas()); err != nil {
		return fmt.Errorf("sending init: %w", err)
	}
	if err := conn.send(ConfigMessage(int(c.world.Width), int(c.world.Height))); err != nil {
		return fmt.Errorf("sending config: %w", err)
	}

	reply, err := conn.read()
	if err != nil {
		return fmt.Errorf("waiting for id: %w", err)
	}
	switch reply.Type {
	case TypeID:
	case TypeError:
		return fmt.Errorf("broadcaster refused canvas: %s", reply.Message)
	default:
		return fmt.Errorf("expected id, got %q", reply.Type)
	}
	c.setID(reply.ID)
	slog.Info("relay connected", "url", c.url, "id", reply.ID)

	if c.pingInterval > 0 {
		go c.ping(conn, done)
	}

	for {
		m, err := conn.read()
		if err != nil {
			return err
		}
		switch m.Type {
		case TypeCreate:
			cmd, err := m.SpawnCommand()
			if err != nil {
				slog.Warn("ignoring create", "error", err)
				continue
			}
			c.spawner.Enqueue(cmd)
		case TypeError:
			slog.Warn("relay error", "message", m.Message)
		}
	}
}

func (c *Client) ping(conn *conn, done <-chan struct{}) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.send(Message{Type: TypePing}); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					slog.Debug("ping failed", "error", err)
				}
				return
			}
		}
	}
}

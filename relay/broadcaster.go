package relay

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// conn serializes writes to a websocket; gorilla allows one concurrent writer.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(m Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(m)
}

func (c *conn) read() (Message, error) {
	var m Message
	err := c.ws.ReadJSON(&m)
	return m, err
}

type canvas struct {
	conn   *conn
	config Message
}

// Broadcaster routes create commands from controllers to canvases. It is
// an http.Handler; mount it on the websocket path.
type Broadcaster struct {
	mu       sync.Mutex
	canvases map[string]*canvas
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{canvases: make(map[string]*canvas)}
}

// Canvases returns the ids of the connected canvases, sorted.
func (b *Broadcaster) Canvases() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]string, 0, len(b.canvases))
	for id := range b.canvases {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer ws.Close()

	c := &conn{ws: ws}
	if err := b.serve(c); err != nil && !closedNormally(err) {
		slog.Info("closing session", "remote", r.RemoteAddr, "error", err)
	}
}

func (b *Broadcaster) serve(c *conn) error {
	hello, err := c.read()
	if err != nil {
		return fmt.Errorf("reading init: %w", err)
	}
	if hello.Type != TypeInit {
		_ = c.send(ErrorMessage("expected init"))
		return fmt.Errorf("no init given, got %q", hello.Type)
	}

	switch hello.ConnectionType {
	case ConnCanvas:
		return b.serveCanvas(c)
	case ConnController:
		return b.serveController(c, hello.ID)
	default:
		_ = c.send(ErrorMessage("unknown connection type %q", hello.ConnectionType))
		return fmt.Errorf("unknown connection type %q", hello.ConnectionType)
	}
}

func (b *Broadcaster) serveCanvas(c *conn) error {
	cfg, err := c.read()
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if cfg.Type != TypeConfig {
		_ = c.send(ErrorMessage("expected config"))
		return errors.New("expected config")
	}

	id := uuid.NewString()
	b.mu.Lock()
	b.canvases[id] = &canvas{conn: c, config: cfg}
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		delete(b.canvases, id)
		b.mu.Unlock()
		slog.Info("canvas disconnected", "id", id)
	}()

	if err := c.send(IDMessage(id)); err != nil {
		return fmt.Errorf("sending id: %w", err)
	}
	slog.Info("canvas connected", "id", id, "width", cfg.Width, "height", cfg.Height)

	for {
		m, err := c.read()
		if err != nil {
			return fmt.Errorf("canvas %s: %w", id, err)
		}
		if m.Type == TypeConfig {
			b.mu.Lock()
			b.canvases[id].config = m
			b.mu.Unlock()
		}
	}
}

func (b *Broadcaster) lookup(id string) (*canvas, Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cv, ok := b.canvases[id]
	if !ok {
		return nil, Message{}, false
	}
	return cv, cv.config, true
}

func (b *Broadcaster) serveController(c *conn, id string) error {
	cv, cfg, ok := b.lookup(id)
	if !ok {
		_ = c.send(ErrorMessage("canvas '%s' not found", id))
		return fmt.Errorf("canvas %q not found", id)
	}
	if err := c.send(cfg); err != nil {
		return fmt.Errorf("sending config: %w", err)
	}

	for {
		m, err := c.read()
		if err != nil {
			return fmt.Errorf("controller for %s: %w", id, err)
		}
		if m.Type != TypeCreate {
			continue
		}
		if _, _, ok := b.lookup(id); !ok {
			_ = c.send(ErrorMessage("canvas '%s' disconnected", id))
			return fmt.Errorf("canvas %q disconnected", id)
		}
		if err := cv.conn.send(m); err != nil {
			slog.Warn("forwarding create failed", "canvas", id, "error", err)
		}
	}
}

func closedNormally(err error) bool {
	var ce *websocket.CloseError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Code == websocket.CloseNormalClosure || ce.Code == websocket.CloseGoingAway
}

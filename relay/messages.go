// Package relay carries creature commands between creator clients and
// running canvases over websockets.
//
// A canvas connects, announces its world size and receives an id. A
// controller connects naming that id and its create commands are forwarded
// to the canvas, which turns them into spawn commands.
package relay

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/game"
	"github.com/pthm-cable/trails/traits"
)

// Message types.
const (
	TypeInit   = "init"
	TypeID     = "id"
	TypeConfig = "config"
	TypeCreate = "create"
	TypePing   = "ping"
	TypeError  = "error"
)

// Connection types carried by init messages.
const (
	ConnCanvas     = "canvas"
	ConnController = "controller"
)

// ErrMalformed is returned for create messages that cannot become a spawn.
var ErrMalformed = errors.New("relay: malformed create message")

// Message is the JSON envelope for every frame. Type selects which of the
// other fields are meaningful.
type Message struct {
	Type string `json:"type"`

	// init
	ConnectionType string `json:"connection_type,omitempty"`
	// init (controller) and id
	ID string `json:"id,omitempty"`

	// config
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// create
	Position        []float64               `json:"position,omitempty"`
	Color           []float64               `json:"color,omitempty"`
	Personality     *traits.Personality     `json:"personality,omitempty"`
	Characteristics *traits.Characteristics `json:"characteristics,omitempty"`
	Size            float64                 `json:"size,omitempty"`

	// error
	Message string `json:"message,omitempty"`
}

func InitCanvas() Message {
	return Message{Type: TypeInit, ConnectionType: ConnCanvas}
}

func InitController(id string) Message {
	return Message{Type: TypeInit, ConnectionType: ConnController, ID: id}
}

func ConfigMessage(width, height int) Message {
	return Message{Type: TypeConfig, Width: width, Height: height}
}

func IDMessage(id string) Message {
	return Message{Type: TypeID, ID: id}
}

func ErrorMessage(format string, args ...any) Message {
	return Message{Type: TypeError, Message: fmt.Sprintf(format, args...)}
}

// CreateMessage builds a create command for a personality at p.
func CreateMessage(p components.Vec2, c components.Color, pers traits.Personality) Message {
	return Message{
		Type:        TypeCreate,
		Position:    []float64{p.X, p.Y},
		Color:       []float64{float64(c.R), float64(c.G), float64(c.B), float64(c.A)},
		Personality: &pers,
	}
}

// SpawnCommand converts a create message into a network spawn.
//
// A missing color draws a random one and a color without alpha is opaque.
// A personality takes precedence over characteristics; with neither the
// personality is random.
func (m Message) SpawnCommand() (game.SpawnCommand, error) {
	if m.Type != TypeCreate {
		return game.SpawnCommand{}, fmt.Errorf("%w: type %q", ErrMalformed, m.Type)
	}
	if len(m.Position) != 2 || !finite(m.Position...) {
		return game.SpawnCommand{}, fmt.Errorf("%w: position %v", ErrMalformed, m.Position)
	}
	if m.Size < 0 || !finite(m.Size) {
		return game.SpawnCommand{}, fmt.Errorf("%w: size %v", ErrMalformed, m.Size)
	}

	cmd := game.SpawnCommand{
		Position: components.V2(m.Position[0], m.Position[1]),
		Size:     m.Size,
		Origin:   components.OriginNetwork,
	}

	switch len(m.Color) {
	case 0:
	case 3, 4:
		if !finite(m.Color...) {
			return game.SpawnCommand{}, fmt.Errorf("%w: color %v", ErrMalformed, m.Color)
		}
		cmd.Color = components.Color{
			R: channel(m.Color[0]),
			G: channel(m.Color[1]),
			B: channel(m.Color[2]),
			A: 255,
		}
		if len(m.Color) == 4 {
			cmd.Color.A = channel(m.Color[3])
		}
	default:
		return game.SpawnCommand{}, fmt.Errorf("%w: color needs 3 or 4 channels, got %d", ErrMalformed, len(m.Color))
	}

	switch {
	case m.Personality != nil:
		p := m.Personality.Clamp()
		cmd.Personality = &p
	case m.Characteristics != nil:
		p := m.Characteristics.Personality()
		cmd.Personality = &p
	}
	return cmd, nil
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

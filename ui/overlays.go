package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/trails/game"
)

// OverlayID names a toggleable layer.
type OverlayID string

const (
	OverlayQueryCircles OverlayID = "query_circles"
	OverlayGridCells    OverlayID = "grid_cells"
	OverlayAttraction   OverlayID = "attraction"
	OverlayHUD          OverlayID = "hud"
	OverlayPerf         OverlayID = "perf"
	OverlayInspector    OverlayID = "inspector"
)

// Category groups overlays in the controls panel.
type Category int

const (
	// CategoryFrame overlays are drawn into the composited frame by the
	// simulation.
	CategoryFrame Category = iota
	// CategoryWindow overlays are window chrome drawn by raylib.
	CategoryWindow
)

func (c Category) String() string {
	if c == CategoryFrame {
		return "Frame"
	}
	return "Window"
}

// OverlayDescriptor describes one overlay and how to toggle it.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32  // 0 = no shortcut
	KeyLabel string // shown next to the name
	Category Category
	Bits     game.Overlay // simulation overlays switched with this one
}

var defaultOverlays = []OverlayDescriptor{
	{ID: OverlayQueryCircles, Name: "Query Circles", Key: rl.KeyQ, KeyLabel: "Q", Category: CategoryFrame, Bits: game.OverlayQueryCircles},
	{ID: OverlayGridCells, Name: "Grid Cells", Key: rl.KeyG, KeyLabel: "G", Category: CategoryFrame, Bits: game.OverlayGridCells},
	{ID: OverlayAttraction, Name: "Attraction", Key: rl.KeyA, KeyLabel: "A", Category: CategoryFrame, Bits: game.OverlayAttraction},
	{ID: OverlayHUD, Name: "HUD", Key: rl.KeyI, KeyLabel: "I", Category: CategoryWindow},
	{ID: OverlayPerf, Name: "Performance", Key: rl.KeyP, KeyLabel: "P", Category: CategoryWindow},
	{ID: OverlayInspector, Name: "Inspector", Key: rl.KeyN, KeyLabel: "N", Category: CategoryWindow},
}

// OverlayRegistry holds the on/off state of every overlay.
type OverlayRegistry struct {
	overlays []OverlayDescriptor
	enabled  []bool
	index    map[OverlayID]int
}

// NewOverlayRegistry returns a registry with every overlay off.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{index: make(map[OverlayID]int)}
	for _, d := range defaultOverlays {
		r.Register(d)
	}
	return r
}

// Register adds an overlay, initially off. Registering an existing ID
// replaces its descriptor.
func (r *OverlayRegistry) Register(d OverlayDescriptor) {
	if i, ok := r.index[d.ID]; ok {
		r.overlays[i] = d
		return
	}
	r.index[d.ID] = len(r.overlays)
	r.overlays = append(r.overlays, d)
	r.enabled = append(r.enabled, false)
}

// Toggle flips an overlay and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	on := !r.IsEnabled(id)
	r.SetEnabled(id, on)
	return on
}

// SetEnabled sets an overlay's state. Unknown IDs are ignored.
func (r *OverlayRegistry) SetEnabled(id OverlayID, on bool) {
	if i, ok := r.index[id]; ok {
		r.enabled[i] = on
	}
}

func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	i, ok := r.index[id]
	return ok && r.enabled[i]
}

// ByCategory returns the overlays in c in registration order.
func (r *OverlayRegistry) ByCategory(c Category) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, d := range r.overlays {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}

// Categories returns the categories that have overlays, in first-seen order.
func (r *OverlayRegistry) Categories() []Category {
	var cats []Category
	for _, d := range r.overlays {
		seen := false
		for _, c := range cats {
			seen = seen || c == d.Category
		}
		if !seen {
			cats = append(cats, d.Category)
		}
	}
	return cats
}

// HandleKeyPress toggles the overlay bound to key. It reports the overlay,
// its new state and whether the key was bound at all.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	if key == 0 {
		return "", false, false
	}
	for _, d := range r.overlays {
		if d.Key == key {
			return d.ID, r.Toggle(d.ID), true
		}
	}
	return "", false, false
}

// Mask combines the simulation bits of every enabled overlay.
func (r *OverlayRegistry) Mask() game.Overlay {
	var m game.Overlay
	for i, d := range r.overlays {
		if r.enabled[i] {
			m |= d.Bits
		}
	}
	return m
}

// Package selection owns the region selection state machine and the live
// application state: the current selection phase, the selected client
// rectangle, the active color settings, and the pin state. All mutation
// goes through the Controller; nothing here is package-level.
package selection

import (
	"fmt"
	"log"

	"github.com/example/regionshade/internal/colormat"
	"github.com/example/regionshade/internal/geometry"
	"github.com/example/regionshade/internal/shortcuts"
	"github.com/example/regionshade/internal/slots"
)

// State is the selection phase.
type State int

const (
	// StateNone means no point has been captured yet.
	StateNone State = iota
	// StateFirstPoint means one corner is captured and the second click
	// will complete the region.
	StateFirstPoint
	// StateComplete means a region is selected and the filter is active.
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateFirstPoint:
		return "first-point"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Host is the window-system collaborator the controller drives. The
// implementation lives in the platform backend; the controller never talks
// to X directly.
type Host interface {
	SetOuterWindowBounds(geometry.OuterRect) error
	SetClickThrough(enabled bool) error
	// ApplyColorMatrix hands the transform to the display layer and
	// reports whether it was accepted.
	ApplyColorMatrix(colormat.Matrix) bool
	FrameMetrics() geometry.FrameMetrics
	CurrentOuterRect() (geometry.OuterRect, error)
}

// Messenger publishes user-visible status text. Summary text persists until
// replaced; Flash text auto-reverts to the last summary after a fixed
// interval. The reverting is the surrounding layer's job, not the
// controller's.
type Messenger interface {
	Summary(message string)
	Flash(message string)
}

// Controller is the single owner of the live selection and color state.
type Controller struct {
	host  Host
	store *slots.Store
	msgr  Messenger
	keys  shortcuts.Config

	state      State
	firstPoint geometry.Point
	clientRect geometry.ClientRect
	settings   colormat.Settings
	pinned     bool
	cycleSlot  int
}

// New creates a controller in StateNone. The store is expected to be
// loaded already.
func New(host Host, store *slots.Store, msgr Messenger, keys shortcuts.Config) *Controller {
	return &Controller{
		host:      host,
		store:     store,
		msgr:      msgr,
		keys:      keys,
		cycleSlot: 1,
	}
}

func (c *Controller) State() State                    { return c.state }
func (c *Controller) Settings() colormat.Settings     { return c.settings }
func (c *Controller) ClientRect() geometry.ClientRect { return c.clientRect }
func (c *Controller) Pinned() bool                    { return c.pinned }

// HandleClick consumes one selection click in screen coordinates. The
// first click captures a corner, the second completes the region with
// default settings. Clicks after completion are ignored.
func (c *Controller) HandleClick(p geometry.Point) {
	switch c.state {
	case StateNone:
		c.firstPoint = p
		c.state = StateFirstPoint
		c.msgr.Summary("Click second point")

	case StateFirstPoint:
		client := geometry.FromCorners(c.firstPoint, p)
		c.complete(client, colormat.DefaultSettings())

	case StateComplete:
		// No transition defined.
	}
}

// LoadSlot applies a saved slot. Valid from any state; afterwards the
// system is indistinguishable from having selected that rectangle
// interactively with those settings. An invalid slot changes nothing.
func (c *Controller) LoadSlot(slot int) {
	if !c.store.IsValid(slot) {
		c.msgr.Flash(fmt.Sprintf("Slot %d is empty", slot))
		return
	}
	entry := c.store.Get(slot)
	client := geometry.ToClient(entry.Rect, c.host.FrameMetrics())
	c.complete(client, entry.Settings)
}

// LoadSlotIfIdle loads a slot only when no selection is in progress or
// active. The digit keys share the window with the click workflow, so a
// stray keypress must not replace a selection already under way.
func (c *Controller) LoadSlotIfIdle(slot int) {
	if c.state != StateNone {
		return
	}
	c.LoadSlot(slot)
}

// SaveSlot stores the current outer window rect and settings into slot
// 1-9 and persists with merge-on-save. Silent no-op outside StateComplete,
// for slot 0, and for out-of-range slots.
func (c *Controller) SaveSlot(slot int) {
	if slot <= 0 || slot >= slots.NumSlots || c.state != StateComplete {
		return
	}
	outer, err := c.host.CurrentOuterRect()
	if err != nil {
		log.Printf("save slot %d: failed to read window rect: %v", slot, err)
		return
	}
	c.store.Set(slot, slots.Slot{Rect: outer, Settings: c.settings, Valid: true})
	if err := c.store.SavePreservingExisting(); err != nil {
		log.Printf("save slot %d: %v", slot, err)
		return
	}
	c.msgr.Flash(fmt.Sprintf("Rectangle saved to slot %d", slot))
}

// Cycle advances to the next saved slot, skipping slot 0, and loads it.
func (c *Controller) Cycle() {
	next, ok := c.store.CycleFrom(c.cycleSlot)
	if !ok {
		c.msgr.Flash("No saved rectangles found (save with Ctrl+1-9)")
		return
	}
	c.cycleSlot = next
	entry := c.store.Get(next)
	client := geometry.ToClient(entry.Rect, c.host.FrameMetrics())
	c.complete(client, entry.Settings)
	c.msgr.Flash(fmt.Sprintf("Loaded slot %d (press 0 to cycle)", next))
}

// ToggleInvert flips inversion. Ignored before completion.
func (c *Controller) ToggleInvert() {
	if c.state != StateComplete {
		return
	}
	c.settings.InvertEnabled = !c.settings.InvertEnabled
	c.applyColor()
	c.msgr.Summary(c.summary())
}

// ToggleGrayscale flips grayscale. Ignored before completion.
func (c *Controller) ToggleGrayscale() {
	if c.state != StateComplete {
		return
	}
	c.settings.GrayscaleEnabled = !c.settings.GrayscaleEnabled
	c.applyColor()
	c.msgr.Summary(c.summary())
}

// CycleWhiteLevel steps the brightness to the next level, wrapping after
// the dimmest. Ignored before completion.
func (c *Controller) CycleWhiteLevel() {
	if c.state != StateComplete {
		return
	}
	c.settings.GrayLevel = (c.settings.GrayLevel + 1) % colormat.GrayLevels
	c.applyColor()
	c.msgr.Summary(c.summary())
}

// TogglePin flips click-through mode. Ignored before completion.
func (c *Controller) TogglePin() {
	if c.state != StateComplete {
		return
	}
	c.pinned = !c.pinned
	if err := c.host.SetClickThrough(c.pinned); err != nil {
		log.Printf("toggle pin: %v", err)
	}
	c.msgr.Summary(c.summary())
}

// Reset clears the selection and returns to StateNone so a new region can
// be chosen. The applied transform is removed.
func (c *Controller) Reset() {
	c.state = StateNone
	c.clientRect = geometry.ClientRect{}
	c.settings = colormat.Settings{}
	if c.pinned {
		c.pinned = false
		if err := c.host.SetClickThrough(false); err != nil {
			log.Printf("reset: %v", err)
		}
	}
	c.host.ApplyColorMatrix(colormat.Identity())
	c.msgr.Summary(InitialSummary)
}

// InitialSummary is the status text shown before any region is selected.
const InitialSummary = "Click two points to select area (0=cycle saved, 1-9=load saved)"

// complete is the one path into StateComplete. Both the two-click flow and
// slot loading end up here, which is what keeps the two indistinguishable:
// same geometry conversion, same window placement, same click-through and
// color side effects.
func (c *Controller) complete(client geometry.ClientRect, settings colormat.Settings) {
	c.clientRect = client
	c.settings = settings
	c.state = StateComplete

	outer := geometry.ToOuter(client, c.host.FrameMetrics())
	if err := c.host.SetOuterWindowBounds(outer); err != nil {
		log.Printf("set window bounds: %v", err)
	}
	if err := c.host.SetClickThrough(c.pinned); err != nil {
		log.Printf("set click-through: %v", err)
	}
	c.applyColor()
	c.msgr.Summary(c.summary())
}

// applyColor recalculates and applies the matrix for the current settings.
// A rejected apply is not rolled back: the settings stay as requested, so
// the next toggle retries from the intended state.
func (c *Controller) applyColor() {
	if !c.host.ApplyColorMatrix(colormat.Calculate(c.settings)) {
		log.Printf("display layer rejected color matrix (settings %+v)", c.settings)
	}
}

func (c *Controller) summary() string {
	if c.pinned {
		return fmt.Sprintf("Pinned - %s to unpin", c.keys.HotkeyLabel())
	}

	inverted := ""
	if c.settings.InvertEnabled {
		inverted = "Inverted "
	}
	color := "Color"
	if c.settings.GrayscaleEnabled {
		color = "Grayscale"
	}
	return fmt.Sprintf("%s%s Gray:%d%% (%c=Invert, %c=Grayscale, %c=White level, Ctrl+1-9=Save)",
		inverted, color, c.settings.BrightnessPercent(),
		c.keys.ToggleInvertKey, c.keys.ToggleGrayscaleKey, c.keys.CycleWhiteLevelKey)
}

package hotkeys

import (
	"fmt"
	"strconv"
	"sync"
	"unicode"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/example/regionshade/internal/platform"
	"github.com/example/regionshade/internal/shortcuts"
)

// Filter is the set of filter operations driven by the keyboard.
type Filter interface {
	ToggleInvert()
	ToggleGrayscale()
	CycleWhiteLevel()
	TogglePin()
	Reset()
	LoadSlotIfIdle(slot int)
	SaveSlot(slot int)
	Cycle()
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
}

// Handler wires keyboard shortcuts to filter operations. Callbacks are
// forwarded through dispatch so they run on the daemon's event turn.
type Handler struct {
	backend  platform.Backend
	filter   Filter
	dispatch func(fn func())
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, filter Filter, dispatch func(fn func())) *Handler {
	if accessor, ok := backend.(x11Accessor); ok {
		ignoreModsOnce.Do(func() {
			configureIgnoreMods(accessor.XUtil())
		})
	}

	return &Handler{
		backend:  backend,
		filter:   filter,
		dispatch: dispatch,
	}
}

// RegisterAll binds every shortcut from the configuration: the filter
// toggles and slot keys on the filter window, and the pin hotkey globally.
func (h *Handler) RegisterAll(cfg *shortcuts.Config) error {
	local := map[string]func(){
		keyName(cfg.ToggleInvertKey):    h.filter.ToggleInvert,
		keyName(cfg.ToggleGrayscaleKey): h.filter.ToggleGrayscale,
		keyName(cfg.CycleWhiteLevelKey): h.filter.CycleWhiteLevel,
		"Escape":                        h.filter.Reset,
		"0":                             h.filter.Cycle,
	}

	for n := 1; n <= 9; n++ {
		slot := n
		local[strconv.Itoa(n)] = func() { h.filter.LoadSlotIfIdle(slot) }
		local["control-"+strconv.Itoa(n)] = func() { h.filter.SaveSlot(slot) }
	}

	for sequence, action := range local {
		if err := h.register(sequence, false, action); err != nil {
			return fmt.Errorf("failed to bind %s: %w", sequence, err)
		}
	}

	if err := h.register(cfg.HotkeySequence(), true, h.filter.TogglePin); err != nil {
		return fmt.Errorf("failed to grab %s: %w", cfg.HotkeySequence(), err)
	}

	return nil
}

func (h *Handler) register(sequence string, grab bool, action func()) error {
	return h.backend.BindKey(sequence, grab, func() {
		h.dispatch(action)
	})
}

func keyName(r rune) string {
	return string(unicode.ToLower(r))
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}

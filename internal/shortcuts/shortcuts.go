// Package shortcuts loads the keyboard shortcut configuration from a plain
// key=value text file. The file format is shared with older releases and is
// kept stable; the richer application settings live in the YAML config.
package shortcuts

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// DefaultFileName is the shortcuts file name under the config directory.
const DefaultFileName = "shortcuts.txt"

// Modifier is a bitmask of hotkey modifier keys.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModShift
	ModAlt
	ModSuper
)

// String renders the modifier set as a "Ctrl+Shift+" style prefix for
// status text.
func (m Modifier) String() string {
	var b strings.Builder
	if m&ModCtrl != 0 {
		b.WriteString("Ctrl+")
	}
	if m&ModShift != 0 {
		b.WriteString("Shift+")
	}
	if m&ModAlt != 0 {
		b.WriteString("Alt+")
	}
	if m&ModSuper != 0 {
		b.WriteString("Super+")
	}
	return b.String()
}

// Config holds the configurable key bindings. Keys are single characters;
// the digit and click bindings are fixed and not configurable.
type Config struct {
	ToggleInvertKey    rune
	ToggleGrayscaleKey rune
	CycleWhiteLevelKey rune

	GlobalHotkeyKey       rune
	GlobalHotkeyModifiers Modifier
}

// Default returns the stock bindings: I invert, C grayscale, W white level,
// Ctrl+Shift+P pin toggle.
func Default() Config {
	return Config{
		ToggleInvertKey:       'I',
		ToggleGrayscaleKey:    'C',
		CycleWhiteLevelKey:    'W',
		GlobalHotkeyKey:       'P',
		GlobalHotkeyModifiers: ModCtrl | ModShift,
	}
}

// Load reads the shortcut file at path. A missing file is not an error: the
// defaults are written to path so the user has something to edit, and the
// defaults are returned. Unknown keys and malformed lines are skipped.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			if werr := WriteDefault(path); werr != nil {
				return Default(), fmt.Errorf("failed to write default shortcuts: %w", werr)
			}
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to open shortcuts file: %w", err)
	}
	defer f.Close()

	cfg := Default()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		applyValue(&cfg, strings.TrimSpace(key), strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return Default(), fmt.Errorf("failed to read shortcuts file: %w", err)
	}
	return cfg, nil
}

func applyValue(cfg *Config, key, value string) {
	switch key {
	case "ToggleInvertKey":
		if r, ok := firstRune(value); ok {
			cfg.ToggleInvertKey = r
		}
	case "ToggleGrayscaleKey":
		if r, ok := firstRune(value); ok {
			cfg.ToggleGrayscaleKey = r
		}
	case "CycleWhiteLevelKey":
		if r, ok := firstRune(value); ok {
			cfg.CycleWhiteLevelKey = r
		}
	case "GlobalHotkeyKey":
		if r, ok := firstRune(value); ok {
			cfg.GlobalHotkeyKey = r
		}
	case "GlobalHotkeyModifiers":
		cfg.GlobalHotkeyModifiers = ParseModifiers(value)
	}
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

// ParseModifiers reads a modifier list by substring presence: any string
// containing CTRL, SHIFT, ALT or WIN contributes that modifier. Separators
// are not part of the grammar, so "CTRL+SHIFT" and "ctrl shift" both work.
func ParseModifiers(s string) Modifier {
	s = strings.ToUpper(s)
	var m Modifier
	if strings.Contains(s, "CTRL") {
		m |= ModCtrl
	}
	if strings.Contains(s, "SHIFT") {
		m |= ModShift
	}
	if strings.Contains(s, "ALT") {
		m |= ModAlt
	}
	if strings.Contains(s, "WIN") {
		m |= ModSuper
	}
	return m
}

// HotkeySequence renders the global hotkey in the modifier-key sequence
// form the X11 keybind layer expects, e.g. "control-shift-p".
func (c Config) HotkeySequence() string {
	var parts []string
	if c.GlobalHotkeyModifiers&ModCtrl != 0 {
		parts = append(parts, "control")
	}
	if c.GlobalHotkeyModifiers&ModShift != 0 {
		parts = append(parts, "shift")
	}
	if c.GlobalHotkeyModifiers&ModAlt != 0 {
		parts = append(parts, "mod1")
	}
	if c.GlobalHotkeyModifiers&ModSuper != 0 {
		parts = append(parts, "mod4")
	}
	parts = append(parts, string(unicode.ToLower(c.GlobalHotkeyKey)))
	return strings.Join(parts, "-")
}

// HotkeyLabel renders the global hotkey for status text, e.g. "Ctrl+Shift+P".
func (c Config) HotkeyLabel() string {
	return c.GlobalHotkeyModifiers.String() + string(unicode.ToUpper(c.GlobalHotkeyKey))
}

// WriteDefault creates a commented default shortcuts file at path.
func WriteDefault(path string) error {
	content := `# Region Shade Shortcut Configuration
# Edit these values to customize keyboard shortcuts
# Use single characters for keys (case sensitive)

# Toggle color inversion on/off
ToggleInvertKey=I

# Toggle between grayscale and color
ToggleGrayscaleKey=C

# Cycle through white/brightness levels
CycleWhiteLevelKey=W

# Global hotkey to toggle pin/click-through mode
GlobalHotkeyKey=P
# Modifier keys: CTRL, SHIFT, ALT, WIN (combine with +)
GlobalHotkeyModifiers=CTRL+SHIFT

# Note: Restart the daemon after changing these settings
# Rectangle Save/Load: 0=cycle through saved, 1-9=load saved, Ctrl+1-9=save current (Ctrl+0 disabled)
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write shortcuts file: %w", err)
	}
	return nil
}

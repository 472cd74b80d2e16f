package shortcuts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shortcuts.txt")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}

	// The default file must now exist and round-trip back to the defaults.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default file not written: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("Load() after write error: %v", err)
	}
	if again != Default() {
		t.Fatalf("default file did not round-trip: %+v", again)
	}
}

func TestLoad_OverridesAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shortcuts.txt")
	data := strings.Join([]string{
		"# comment",
		"; another comment",
		"ToggleInvertKey=X",
		"CycleWhiteLevelKey = B",
		"GlobalHotkeyKey=Q",
		"GlobalHotkeyModifiers=ALT+WIN",
		"UnknownKey=Z",
		"garbage line without equals",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ToggleInvertKey != 'X' {
		t.Fatalf("ToggleInvertKey = %q", cfg.ToggleInvertKey)
	}
	if cfg.CycleWhiteLevelKey != 'B' {
		t.Fatalf("CycleWhiteLevelKey = %q", cfg.CycleWhiteLevelKey)
	}
	// Unset keys keep their defaults.
	if cfg.ToggleGrayscaleKey != 'C' {
		t.Fatalf("ToggleGrayscaleKey = %q", cfg.ToggleGrayscaleKey)
	}
	if cfg.GlobalHotkeyKey != 'Q' {
		t.Fatalf("GlobalHotkeyKey = %q", cfg.GlobalHotkeyKey)
	}
	if cfg.GlobalHotkeyModifiers != ModAlt|ModSuper {
		t.Fatalf("GlobalHotkeyModifiers = %v", cfg.GlobalHotkeyModifiers)
	}
}

func TestParseModifiers_SubstringPresenceNotGrammar(t *testing.T) {
	cases := []struct {
		in   string
		want Modifier
	}{
		{"CTRL+SHIFT", ModCtrl | ModShift},
		{"ctrl shift", ModCtrl | ModShift},
		{"SHIFTCTRL", ModCtrl | ModShift},
		{"WIN", ModSuper},
		{"ALT", ModAlt},
		{"", 0},
		{"META", 0},
	}
	for _, tc := range cases {
		if got := ParseModifiers(tc.in); got != tc.want {
			t.Fatalf("ParseModifiers(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestHotkeySequence(t *testing.T) {
	cfg := Default()
	if got := cfg.HotkeySequence(); got != "control-shift-p" {
		t.Fatalf("HotkeySequence() = %q", got)
	}

	cfg.GlobalHotkeyModifiers = ModAlt | ModSuper
	cfg.GlobalHotkeyKey = 'F'
	if got := cfg.HotkeySequence(); got != "mod1-mod4-f" {
		t.Fatalf("HotkeySequence() = %q", got)
	}
}

func TestHotkeyLabel(t *testing.T) {
	if got := Default().HotkeyLabel(); got != "Ctrl+Shift+P" {
		t.Fatalf("HotkeyLabel() = %q", got)
	}
}

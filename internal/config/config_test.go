//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/llehouerou/rebind/internal/code"
	"github.com/llehouerou/rebind/internal/device"
	"github.com/llehouerou/rebind/internal/keymap"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tilde expands to home", "~/rebind", filepath.Join(home, "rebind")},
		{"absolute path unchanged", "/var/lib/rebind", "/var/lib/rebind"},
		{"relative path unchanged", "lang", "lang"},
		{"empty string unchanged", "", ""},
		{"tilde only", "~", home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) == 0 {
		t.Fatal("getConfigPaths() returned empty slice")
	}

	lastPath := paths[len(paths)-1]
	if lastPath != "config.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "config.toml")
	}
}

func TestLoadFrom_MissingFilesAreSkipped(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Input.Actions != nil {
		t.Errorf("Input.Actions = %v, want nil", cfg.Input.Actions)
	}
}

func TestLoadFrom_InvalidToml(t *testing.T) {
	path := writeConfig(t, "invalid = [[[")
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() should fail on invalid TOML")
	}
}

func TestLoadFrom_LaterFilesWin(t *testing.T) {
	first := writeConfig(t, "[input]\nmax_simultaneous = 2\n")
	second := writeConfig(t, "[input]\nmax_simultaneous = 7\n")

	cfg, err := LoadFrom(first, second)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Input.MaxSimultaneous != 7 {
		t.Errorf("MaxSimultaneous = %d, want 7", cfg.Input.MaxSimultaneous)
	}
}

func TestInputSettings_Defaults(t *testing.T) {
	cfg := &Config{}

	in, err := cfg.InputSettings()
	if err != nil {
		t.Fatalf("InputSettings() error = %v", err)
	}
	if in.MaxSimultaneous != 5 {
		t.Errorf("MaxSimultaneous = %d, want 5", in.MaxSimultaneous)
	}
	if len(in.Actions) != len(keymap.All()) {
		t.Errorf("len(Actions) = %d, want %d", len(in.Actions), len(keymap.All()))
	}
	if in.KeyAliases[code.RightShift] != code.LeftShift {
		t.Errorf("RightShift alias = %v, want LeftShift", in.KeyAliases[code.RightShift])
	}
}

func TestInputSettings_Actions(t *testing.T) {
	path := writeConfig(t, `
[input]
max_simultaneous = 3

[[input.actions]]
name = "up"
allow_repeats = true
repeat_delay = [{ at = 0, delay = 0.5 }, { at = 2, delay = 0.1 }]

[[input.actions]]
name = "pause"
allow_rebinding = false

[[input.actions]]
name = "jump"
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	in, err := cfg.InputSettings()
	if err == nil {
		t.Error("InputSettings() should report the unknown action")
	}
	if in.MaxSimultaneous != 3 {
		t.Errorf("MaxSimultaneous = %d, want 3", in.MaxSimultaneous)
	}
	if len(in.Actions) != 2 {
		t.Fatalf("len(Actions) = %d, want 2", len(in.Actions))
	}

	up := in.Actions[0]
	if up.Action != keymap.ActionUp || !up.AllowRepeats || !up.AllowRebinding {
		t.Errorf("up = %+v", up)
	}
	if got := up.RepeatDelay.Evaluate(1); got < 0.299 || got > 0.301 {
		t.Errorf("RepeatDelay(1) = %v, want 0.3", got)
	}
	if in.Actions[1].AllowRebinding {
		t.Error("pause should not be rebindable")
	}
}

func TestInputSettings_InvalidRepeatDelay(t *testing.T) {
	path := writeConfig(t, `
[[input.actions]]
name = "up"
allow_repeats = true

[[input.actions]]
name = "down"
allow_repeats = true
repeat_delay = [{ at = 0, delay = 0.4 }, { at = 3, delay = 0 }]

[[input.actions]]
name = "left"
allow_repeats = true
repeat_delay = [{ at = 0, delay = 0.2 }]
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	in, err := cfg.InputSettings()
	if err == nil {
		t.Fatal("InputSettings() should report the invalid curves")
	}
	if len(in.Actions) != 3 {
		t.Fatalf("len(Actions) = %d, want 3", len(in.Actions))
	}
	for _, ac := range in.Actions[:2] {
		if ac.AllowRepeats {
			t.Errorf("%s: repeats should be disabled by an invalid curve", ac.Action)
		}
	}
	if !in.Actions[2].AllowRepeats {
		t.Error("left should keep repeating")
	}
}

func TestInputSettings_EmptyActions(t *testing.T) {
	path := writeConfig(t, "[input]\nactions = []\n")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	in, err := cfg.InputSettings()
	if err != nil {
		t.Fatalf("InputSettings() error = %v", err)
	}
	if in.Actions == nil || len(in.Actions) != 0 {
		t.Errorf("Actions = %v, want empty non-nil", in.Actions)
	}
}

func TestInputSettings_AliasesAndDisabled(t *testing.T) {
	path := writeConfig(t, `
[input]
disabled_keys = ["Tab", "Nope"]

[input.key_aliases]
KeypadEnter = "Return"
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	in, err := cfg.InputSettings()
	if err == nil {
		t.Error("InputSettings() should report the unknown key")
	}
	if len(in.DisabledKeys) != 1 || in.DisabledKeys[0] != code.Tab {
		t.Errorf("DisabledKeys = %v, want [Tab]", in.DisabledKeys)
	}
	if len(in.KeyAliases) != 1 || in.KeyAliases[code.KeypadEnter] != code.Return {
		t.Errorf("KeyAliases = %v", in.KeyAliases)
	}
}

func TestDefaultBindings_Override(t *testing.T) {
	path := writeConfig(t, `
[[input.bindings]]
action = "interact"
keys = ["Space"]
buttons = ["FaceButtonRight"]
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	defaults, err := cfg.DefaultBindings()
	if err != nil {
		t.Fatalf("DefaultBindings() error = %v", err)
	}
	b, ok := defaults.Lookup(keymap.ActionInteract)
	if !ok {
		t.Fatal("interact binding missing")
	}
	if len(b.Keys) != 1 || b.Keys[0] != code.Space {
		t.Errorf("Keys = %v, want [Space]", b.Keys)
	}
	if len(b.Buttons) != 1 || b.Buttons[0] != code.FaceButtonRight {
		t.Errorf("Buttons = %v, want [FaceButtonRight]", b.Buttons)
	}
	if b.Description != "Interact" {
		t.Errorf("Description = %q, want default kept", b.Description)
	}
	if len(defaults) != len(keymap.Bindings) {
		t.Errorf("len(defaults) = %d, want %d", len(defaults), len(keymap.Bindings))
	}
}

func TestControllerSet(t *testing.T) {
	t.Run("builtin when none configured", func(t *testing.T) {
		cfg := &Config{}
		configs, fallback, err := cfg.ControllerSet()
		if err != nil {
			t.Fatalf("ControllerSet() error = %v", err)
		}
		if len(configs) != len(device.Builtin()) {
			t.Errorf("len(configs) = %d", len(configs))
		}
		if fallback != configs[0] {
			t.Error("fallback should be the first profile")
		}
	})

	t.Run("configured controller", func(t *testing.T) {
		path := writeConfig(t, `
default_controller = "Pad"

[[controllers]]
name = "Pad"
search_terms = ["Generic Pad"]

[[controllers.keys]]
code = "FaceButtonDown"
button = 1
glyph = "pad_a"

[[controllers.axes]]
code = "DPadUp"
axis = "Axis7"
dir = "negative"
glyph = "pad_up"
`)
		cfg, err := LoadFrom(path)
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}
		configs, fallback, err := cfg.ControllerSet()
		if err != nil {
			t.Fatalf("ControllerSet() error = %v", err)
		}
		if len(configs) != 1 || fallback != configs[0] {
			t.Fatalf("configs = %v, fallback = %v", configs, fallback)
		}
		pad := configs[0]
		if !pad.Matches("USB Generic Pad v2") {
			t.Error("search term should match")
		}
		if len(pad.Keys) != 1 || pad.Keys[0].Key != code.JoystickButton(1) {
			t.Errorf("Keys = %+v", pad.Keys)
		}
		if len(pad.Axes) != 1 || pad.Axes[0].Dir != device.Negative {
			t.Errorf("Axes = %+v", pad.Axes)
		}
	})

	t.Run("unknown default controller", func(t *testing.T) {
		cfg := &Config{DefaultController: "Missing"}
		if _, _, err := cfg.ControllerSet(); err == nil {
			t.Error("ControllerSet() should report the unknown default controller")
		}
	})
}

func TestRebindSettings(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &Config{}
		rc, err := cfg.RebindSettings()
		if err != nil {
			t.Fatalf("RebindSettings() error = %v", err)
		}
		if rc.MaxBindings != 8 {
			t.Errorf("MaxBindings = %d, want 8", rc.MaxBindings)
		}
		if rc.InvalidDuration != time.Second {
			t.Errorf("InvalidDuration = %v, want 1s", rc.InvalidDuration)
		}
		if len(rc.CancelKeys) != 1 || rc.CancelKeys[0] != code.Escape {
			t.Errorf("CancelKeys = %v", rc.CancelKeys)
		}
		if len(rc.CancelActions) != 1 || rc.CancelActions[0] != keymap.ActionPause {
			t.Errorf("CancelActions = %v", rc.CancelActions)
		}
	})

	t.Run("custom", func(t *testing.T) {
		path := writeConfig(t, `
[rebind]
max_bindings = 4
invalid_message_duration = "250ms"
cancel_keys = ["Backspace"]
cancel_actions = []
`)
		cfg, err := LoadFrom(path)
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}
		rc, err := cfg.RebindSettings()
		if err != nil {
			t.Fatalf("RebindSettings() error = %v", err)
		}
		if rc.MaxBindings != 4 || rc.InvalidDuration != 250*time.Millisecond {
			t.Errorf("rc = %+v", rc)
		}
		if len(rc.CancelKeys) != 1 || rc.CancelKeys[0] != code.Backspace {
			t.Errorf("CancelKeys = %v", rc.CancelKeys)
		}
		if len(rc.CancelActions) != 0 {
			t.Errorf("CancelActions = %v, want none", rc.CancelActions)
		}
	})
}

func TestKeyboardGlyphMap(t *testing.T) {
	cfg := &Config{KeyboardGlyphs: map[string]string{"Escape": "key_esc", "Bogus": "x"}}

	glyphs, err := cfg.KeyboardGlyphMap()
	if err == nil {
		t.Error("KeyboardGlyphMap() should report the unknown key")
	}
	if glyphs[code.Escape] != "key_esc" {
		t.Errorf("Escape glyph = %q", glyphs[code.Escape])
	}
}

func TestGetLocalizationConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	lc := cfg.GetLocalizationConfig()
	if lc.Language != "en" {
		t.Errorf("Language = %q, want en", lc.Language)
	}
	if !cfg.LocalizationEnabled() {
		t.Error("localization should be enabled by default")
	}

	disabled := false
	cfg.Localization.Enabled = &disabled
	if cfg.LocalizationEnabled() {
		t.Error("localization should be disabled")
	}
}

func TestRumbleProfiles(t *testing.T) {
	cfg := &Config{}
	if len(cfg.RumbleProfiles()) != len(device.DefaultRumbleProfiles()) {
		t.Error("expected default rumble profiles")
	}

	cfg.Rumble = []RumbleProfileConfig{{Name: "hit", Intensity: 100, Duration: time.Second}}
	ps := cfg.RumbleProfiles()
	if len(ps) != 1 || ps[0].Name != "hit" || ps[0].Duration != time.Second {
		t.Errorf("profiles = %+v", ps)
	}
}

func TestGetStateConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetStateConfig().SaveDelay; got != time.Second {
		t.Errorf("SaveDelay = %v, want 1s", got)
	}
	if got := cfg.GetLogConfig().Level; got != "info" {
		t.Errorf("Level = %q, want info", got)
	}
}

func TestGetUIConfig(t *testing.T) {
	cfg := &Config{}
	ui := cfg.GetUIConfig()
	if ui.TickRate != 60 || ui.KeyHold != 80*time.Millisecond {
		t.Errorf("defaults = %+v", ui)
	}

	path := writeConfig(t, "[ui]\ntick_rate = 30\nkey_hold = \"120ms\"\n")
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	ui = loaded.GetUIConfig()
	if ui.TickRate != 30 || ui.KeyHold != 120*time.Millisecond {
		t.Errorf("loaded = %+v", ui)
	}
}

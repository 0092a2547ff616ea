package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/rebind/internal/curve"
)

type Config struct {
	Input InputConfig `koanf:"input"`

	// Controller families. The built-in Xbox/PlayStation/Switch profiles
	// are used when none are configured.
	Controllers       []ControllerConfig `koanf:"controllers"`
	DefaultController string             `koanf:"default_controller"` // glyph set shown before any controller is detected

	// Sprite overrides for keyboard keys, by key name (e.g. Escape = "key_esc")
	KeyboardGlyphs map[string]string `koanf:"keyboard_glyphs"`

	Rebind       RebindConfig          `koanf:"rebind"`
	Localization LocalizationConfig    `koanf:"localization"`
	Rumble       []RumbleProfileConfig `koanf:"rumble_profiles"`
	State        StateConfig           `koanf:"state"`
	Log          LogConfig             `koanf:"log"`
	UI           UIConfig              `koanf:"ui"`
}

// InputConfig holds the action state machine configuration.
type InputConfig struct {
	MaxSimultaneous int               `koanf:"max_simultaneous"` // default: 5
	MixedInput      bool              `koanf:"mixed_input"`      // show keyboard and controller bindings together
	Actions         []ActionConfig    `koanf:"actions"`          // absent: built-in defaults; empty: no actions
	KeyAliases      map[string]string `koanf:"key_aliases"`      // e.g. RightShift = "LeftShift"
	DisabledKeys    []string          `koanf:"disabled_keys"`    // keys that can never be bound
	Bindings        []BindingConfig   `koanf:"bindings"`         // default binding overrides
	MovementActions []string          `koanf:"movement_actions"` // actions covered by sticks/D-pad
}

// ActionConfig configures one abstract action.
type ActionConfig struct {
	Name           string           `koanf:"name"`
	AllowRepeats   bool             `koanf:"allow_repeats"`
	AllowRebinding *bool            `koanf:"allow_rebinding"` // default: true
	RepeatDelay    []curve.Keyframe `koanf:"repeat_delay"`
}

// BindingConfig overrides the default bindings of an action.
type BindingConfig struct {
	Action      string   `koanf:"action"`
	Keys        []string `koanf:"keys"`
	Buttons     []string `koanf:"buttons"`
	Description string   `koanf:"description"`
}

// ControllerConfig describes a controller family.
type ControllerConfig struct {
	Name            string                 `koanf:"name"`
	NameKey         string                 `koanf:"name_key"`
	SearchTerms     []string               `koanf:"search_terms"`
	Keys            []ControllerKeyConfig  `koanf:"keys"`
	Axes            []ControllerAxisConfig `koanf:"axes"`
	DPadGlyph       string                 `koanf:"dpad_glyph"`
	LeftStickGlyph  string                 `koanf:"left_stick_glyph"`
	RightStickGlyph string                 `koanf:"right_stick_glyph"`
}

// ControllerKeyConfig maps a controller code to a joystick button.
type ControllerKeyConfig struct {
	Code   string `koanf:"code"`
	Button int    `koanf:"button"`
	Glyph  string `koanf:"glyph"`
}

// ControllerAxisConfig maps a controller code to an axis half.
type ControllerAxisConfig struct {
	Code  string `koanf:"code"`
	Axis  string `koanf:"axis"`
	Dir   string `koanf:"dir"` // "positive" or "negative"
	Glyph string `koanf:"glyph"`
}

// RebindConfig holds the rebinding screen configuration.
type RebindConfig struct {
	MaxBindings            int           `koanf:"max_bindings"`             // default: 8
	InvalidMessageDuration time.Duration `koanf:"invalid_message_duration"` // default: 1s
	CancelKeys             []string      `koanf:"cancel_keys"`              // default: Escape
	CancelActions          []string      `koanf:"cancel_actions"`           // default: pause
}

// LocalizationConfig holds the translation settings.
type LocalizationConfig struct {
	Enabled  *bool  `koanf:"enabled"`  // default: true
	Dir      string `koanf:"dir"`      // directory of <code>.toml translations
	Language string `koanf:"language"` // default language code (default: "en")
}

// RumbleProfileConfig is a named vibration preset.
type RumbleProfileConfig struct {
	Name      string        `koanf:"name"`
	Intensity uint16        `koanf:"intensity"`
	Duration  time.Duration `koanf:"duration"`
}

// StateConfig holds persistence settings.
type StateConfig struct {
	Path      string        `koanf:"path"`       // default: XDG data dir
	SaveDelay time.Duration `koanf:"save_delay"` // debounce of persisted writes (default: 1s)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `koanf:"level"` // default: "info"
	File  string `koanf:"file"`  // default: XDG state dir
}

// UIConfig holds the terminal front end settings.
type UIConfig struct {
	TickRate int           `koanf:"tick_rate"` // updates per second (default: 60)
	KeyHold  time.Duration `koanf:"key_hold"`  // how long a key reads as held after its last repeat (default: 80ms)
}

func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom loads the given config files in order; later files win.
// Missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// An explicit empty list is distinct from an absent one: it disables
	// the feature instead of applying the defaults.
	if k.Exists("input.actions") && cfg.Input.Actions == nil {
		cfg.Input.Actions = []ActionConfig{}
	}
	if k.Exists("rebind.cancel_keys") && cfg.Rebind.CancelKeys == nil {
		cfg.Rebind.CancelKeys = []string{}
	}
	if k.Exists("rebind.cancel_actions") && cfg.Rebind.CancelActions == nil {
		cfg.Rebind.CancelActions = []string{}
	}
	if k.Exists("input.disabled_keys") && cfg.Input.DisabledKeys == nil {
		cfg.Input.DisabledKeys = []string{}
	}

	cfg.State.Path = expandPath(cfg.State.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Localization.Dir = expandPath(cfg.Localization.Dir)

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/rebind/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "rebind", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetRebindConfig returns the rebinding configuration with defaults applied.
func (c *Config) GetRebindConfig() RebindConfig {
	cfg := c.Rebind
	if cfg.MaxBindings <= 0 {
		cfg.MaxBindings = 8
	}
	if cfg.InvalidMessageDuration <= 0 {
		cfg.InvalidMessageDuration = time.Second
	}
	if cfg.CancelKeys == nil {
		cfg.CancelKeys = []string{"Escape"}
	}
	if cfg.CancelActions == nil {
		cfg.CancelActions = []string{"pause"}
	}
	return cfg
}

// GetLocalizationConfig returns the localization configuration with
// defaults applied.
func (c *Config) GetLocalizationConfig() LocalizationConfig {
	cfg := c.Localization
	if cfg.Enabled == nil {
		enabled := true
		cfg.Enabled = &enabled
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	return cfg
}

// LocalizationEnabled reports whether translations should be loaded.
func (c *Config) LocalizationEnabled() bool {
	return *c.GetLocalizationConfig().Enabled
}

// GetUIConfig returns the front end configuration with defaults applied.
func (c *Config) GetUIConfig() UIConfig {
	cfg := c.UI
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if cfg.KeyHold <= 0 {
		cfg.KeyHold = 80 * time.Millisecond
	}
	return cfg
}

// GetStateConfig returns the persistence configuration with defaults applied.
func (c *Config) GetStateConfig() StateConfig {
	cfg := c.State
	if cfg.SaveDelay <= 0 {
		cfg.SaveDelay = time.Second
	}
	return cfg
}

// GetLogConfig returns the logging configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

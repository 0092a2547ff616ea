package config

import (
	"errors"
	"fmt"

	"github.com/llehouerou/rebind/internal/code"
	"github.com/llehouerou/rebind/internal/curve"
	"github.com/llehouerou/rebind/internal/device"
	"github.com/llehouerou/rebind/internal/input"
	"github.com/llehouerou/rebind/internal/keymap"
	"github.com/llehouerou/rebind/internal/rebind"
)

// InputSettings resolves the [input] section into the action state machine
// configuration. Unknown names are reported and skipped.
func (c *Config) InputSettings() (input.Config, error) {
	cfg := input.DefaultConfig()
	var errs []error

	if c.Input.MaxSimultaneous > 0 {
		cfg.MaxSimultaneous = c.Input.MaxSimultaneous
	}
	cfg.MixedInput = c.Input.MixedInput

	if c.Input.Actions != nil {
		cfg.Actions = make([]input.ActionConfig, 0, len(c.Input.Actions))
		for _, ac := range c.Input.Actions {
			action, ok := keymap.ParseAction(ac.Name)
			if !ok {
				errs = append(errs, fmt.Errorf("input.actions: unknown action %q", ac.Name))
				continue
			}
			rebindable := true
			if ac.AllowRebinding != nil {
				rebindable = *ac.AllowRebinding
			}
			repeats := ac.AllowRepeats
			if repeats {
				if err := validateRepeatDelay(ac.RepeatDelay); err != nil {
					errs = append(errs, fmt.Errorf("input.actions.%s.repeat_delay: %w", ac.Name, err))
					repeats = false
				}
			}
			cfg.Actions = append(cfg.Actions, input.ActionConfig{
				Action:         action,
				AllowRepeats:   repeats,
				AllowRebinding: rebindable,
				RepeatDelay:    curve.New(ac.RepeatDelay...),
			})
		}
	}

	if c.Input.KeyAliases != nil {
		cfg.KeyAliases = make(map[code.KeyCode]code.KeyCode, len(c.Input.KeyAliases))
		for from, to := range c.Input.KeyAliases {
			f, ok1 := code.ParseKeyCode(from)
			t, ok2 := code.ParseKeyCode(to)
			if !ok1 || !ok2 {
				errs = append(errs, fmt.Errorf("input.key_aliases: unknown key in %s = %q", from, to))
				continue
			}
			cfg.KeyAliases[f] = t
		}
	}

	if c.Input.DisabledKeys != nil {
		keys, err := parseKeys("input.disabled_keys", c.Input.DisabledKeys)
		if err != nil {
			errs = append(errs, err)
		}
		cfg.DisabledKeys = keys
	}

	return cfg, errors.Join(errs...)
}

// DefaultBindings returns the built-in default bindings with the
// [[input.bindings]] overrides applied.
func (c *Config) DefaultBindings() (keymap.Defaults, error) {
	var (
		overrides keymap.Defaults
		errs      []error
	)
	for _, bc := range c.Input.Bindings {
		action, ok := keymap.ParseAction(bc.Action)
		if !ok {
			errs = append(errs, fmt.Errorf("input.bindings: unknown action %q", bc.Action))
			continue
		}
		keys, err := parseKeys("input.bindings."+bc.Action+".keys", bc.Keys)
		if err != nil {
			errs = append(errs, err)
		}
		var buttons []code.ControllerCode
		for _, name := range bc.Buttons {
			cc, ok := code.ParseControllerCode(name)
			if !ok {
				errs = append(errs, fmt.Errorf("input.bindings.%s.buttons: unknown controller code %q", bc.Action, name))
				continue
			}
			buttons = append(buttons, cc)
		}
		overrides = append(overrides, keymap.Binding{
			Action:      action,
			Keys:        keys,
			Buttons:     buttons,
			Description: bc.Description,
		})
	}
	return keymap.Bindings.Override(overrides), errors.Join(errs...)
}

// MovementActions returns the actions whose stick/D-pad coverage is
// tracked. Defaults to up/left/down/right.
func (c *Config) MovementActions() ([]keymap.Action, error) {
	if c.Input.MovementActions == nil {
		return keymap.Movement, nil
	}
	var (
		out  []keymap.Action
		errs []error
	)
	for _, name := range c.Input.MovementActions {
		a, ok := keymap.ParseAction(name)
		if !ok {
			errs = append(errs, fmt.Errorf("input.movement_actions: unknown action %q", name))
			continue
		}
		out = append(out, a)
	}
	return out, errors.Join(errs...)
}

// ControllerSet resolves the configured controller families. The second
// result is the family whose glyphs are shown while none is connected.
func (c *Config) ControllerSet() ([]*device.ControllerConfig, *device.ControllerConfig, error) {
	var (
		configs []*device.ControllerConfig
		errs    []error
	)
	if len(c.Controllers) == 0 {
		configs = device.Builtin()
	}
	for _, cc := range c.Controllers {
		dc := &device.ControllerConfig{
			Name:            cc.Name,
			NameKey:         cc.NameKey,
			SearchTerms:     cc.SearchTerms,
			DPadGlyph:       cc.DPadGlyph,
			LeftStickGlyph:  cc.LeftStickGlyph,
			RightStickGlyph: cc.RightStickGlyph,
		}
		for _, k := range cc.Keys {
			kc, ok := code.ParseControllerCode(k.Code)
			if !ok {
				errs = append(errs, fmt.Errorf("controllers.%s.keys: unknown controller code %q", cc.Name, k.Code))
				continue
			}
			if k.Button < 0 || k.Button >= code.JoystickStride {
				errs = append(errs, fmt.Errorf("controllers.%s.keys: button %d out of range", cc.Name, k.Button))
				continue
			}
			dc.Keys = append(dc.Keys, device.KeyMapping{Code: kc, Key: code.JoystickButton(k.Button), Glyph: k.Glyph})
		}
		for _, a := range cc.Axes {
			ac, ok := code.ParseControllerCode(a.Code)
			if !ok {
				errs = append(errs, fmt.Errorf("controllers.%s.axes: unknown controller code %q", cc.Name, a.Code))
				continue
			}
			dir, ok := device.ParseAxisDir(a.Dir)
			if !ok {
				errs = append(errs, fmt.Errorf("controllers.%s.axes: invalid direction %q", cc.Name, a.Dir))
				continue
			}
			dc.Axes = append(dc.Axes, device.AxisMapping{Code: ac, Axis: a.Axis, Dir: dir, Glyph: a.Glyph})
		}
		configs = append(configs, dc)
	}

	var fallback *device.ControllerConfig
	if len(configs) > 0 {
		fallback = configs[0]
	}
	if c.DefaultController != "" {
		found := false
		for _, dc := range configs {
			if dc.Name == c.DefaultController {
				fallback, found = dc, true
				break
			}
		}
		if !found {
			errs = append(errs, fmt.Errorf("default_controller: unknown controller %q", c.DefaultController))
		}
	}
	return configs, fallback, errors.Join(errs...)
}

// KeyboardGlyphMap resolves keyboard sprite overrides by key code.
func (c *Config) KeyboardGlyphMap() (map[code.KeyCode]string, error) {
	out := make(map[code.KeyCode]string, len(c.KeyboardGlyphs))
	var errs []error
	for name, sprite := range c.KeyboardGlyphs {
		k, ok := code.ParseKeyCode(name)
		if !ok {
			errs = append(errs, fmt.Errorf("keyboard_glyphs: unknown key %q", name))
			continue
		}
		out[k] = sprite
	}
	return out, errors.Join(errs...)
}

// RebindSettings resolves the [rebind] section.
func (c *Config) RebindSettings() (rebind.Config, error) {
	rc := c.GetRebindConfig()
	keys, err := parseKeys("rebind.cancel_keys", rc.CancelKeys)
	errs := []error{err}

	var actions []keymap.Action
	for _, name := range rc.CancelActions {
		a, ok := keymap.ParseAction(name)
		if !ok {
			errs = append(errs, fmt.Errorf("rebind.cancel_actions: unknown action %q", name))
			continue
		}
		actions = append(actions, a)
	}

	return rebind.Config{
		MaxBindings:     rc.MaxBindings,
		InvalidDuration: rc.InvalidMessageDuration,
		CancelKeys:      keys,
		CancelActions:   actions,
	}, errors.Join(errs...)
}

// RumbleProfiles returns the configured vibration presets, or the
// built-in ones when none are configured.
func (c *Config) RumbleProfiles() []device.RumbleProfile {
	if len(c.Rumble) == 0 {
		return device.DefaultRumbleProfiles()
	}
	out := make([]device.RumbleProfile, len(c.Rumble))
	for i, p := range c.Rumble {
		out[i] = device.RumbleProfile{Name: p.Name, Intensity: p.Intensity, Duration: p.Duration}
	}
	return out
}

func parseKeys(field string, names []string) ([]code.KeyCode, error) {
	keys := make([]code.KeyCode, 0, len(names))
	var errs []error
	for _, name := range names {
		k, ok := code.ParseKeyCode(name)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: unknown key %q", field, name))
			continue
		}
		keys = append(keys, k)
	}
	return keys, errors.Join(errs...)
}

// validateRepeatDelay rejects curves that would repeat on every tick once
// sampled past their last keyframe.
func validateRepeatDelay(keys []curve.Keyframe) error {
	if len(keys) == 0 {
		return errors.New("no keyframes")
	}
	for _, k := range keys {
		if k.At < 0 {
			return fmt.Errorf("negative repeat index %v", k.At)
		}
		if k.Delay <= 0 {
			return fmt.Errorf("delay at %v must be positive", k.At)
		}
	}
	return nil
}

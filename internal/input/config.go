package input

import (
	"github.com/llehouerou/rebind/internal/code"
	"github.com/llehouerou/rebind/internal/curve"
	"github.com/llehouerou/rebind/internal/keymap"
)

// ActionConfig is the static configuration of an action.
type ActionConfig struct {
	Action         keymap.Action
	AllowRepeats   bool
	RepeatDelay    curve.Curve // seconds, sampled by repeat count
	AllowRebinding bool
}

// Config configures a Manager.
type Config struct {
	// Actions are evaluated in this order, which also decides priority
	// under the MaxSimultaneous cap.
	Actions         []ActionConfig
	MaxSimultaneous int

	// MixedInput makes Bindings return codes of both families instead of
	// only those of the primary input type.
	MixedInput bool

	KeyAliases   map[code.KeyCode]code.KeyCode
	DisabledKeys []code.KeyCode
}

// DefaultActions returns the built-in action configuration: movement
// repeats while held, menu actions fire once per press.
func DefaultActions() []ActionConfig {
	movement := curve.New(
		curve.Keyframe{At: 1, Delay: 0.4},
		curve.Keyframe{At: 2, Delay: 0.15},
		curve.Keyframe{At: 6, Delay: 0.08},
	)
	return []ActionConfig{
		{Action: keymap.ActionUp, AllowRepeats: true, RepeatDelay: movement, AllowRebinding: true},
		{Action: keymap.ActionLeft, AllowRepeats: true, RepeatDelay: movement, AllowRebinding: true},
		{Action: keymap.ActionDown, AllowRepeats: true, RepeatDelay: movement, AllowRebinding: true},
		{Action: keymap.ActionRight, AllowRepeats: true, RepeatDelay: movement, AllowRebinding: true},
		{Action: keymap.ActionInteract, AllowRebinding: true},
		{Action: keymap.ActionPause, AllowRebinding: true},
	}
}

// DefaultKeyAliases folds right-hand modifiers onto their left-hand key.
func DefaultKeyAliases() map[code.KeyCode]code.KeyCode {
	return map[code.KeyCode]code.KeyCode{
		code.RightShift:   code.LeftShift,
		code.RightAlt:     code.LeftAlt,
		code.RightControl: code.LeftControl,
		code.RightMeta:    code.LeftMeta,
		code.KeypadPeriod: code.Period,
	}
}

// DefaultDisabledKeys lists the keys that cannot be bound.
func DefaultDisabledKeys() []code.KeyCode {
	return []code.KeyCode{
		code.Escape,
		code.Mouse0,
		code.Mouse1,
		code.KeyNone,
		code.LeftWindows,
		code.LeftMeta,
	}
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Actions:         DefaultActions(),
		MaxSimultaneous: 5,
		KeyAliases:      DefaultKeyAliases(),
		DisabledKeys:    DefaultDisabledKeys(),
	}
}

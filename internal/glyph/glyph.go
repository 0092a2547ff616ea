// Package glyph picks the sprite or text used to show an input code.
package glyph

import (
	"strings"

	"github.com/llehouerou/rebind/internal/code"
	"github.com/llehouerou/rebind/internal/device"
)

// PrimarySource reports the controller whose glyphs are shown.
type PrimarySource interface {
	PrimaryController() *device.ControllerConfig
}

// Resolver maps codes to sprite names.
type Resolver struct {
	keyboard map[code.KeyCode]string
	primary  PrimarySource
}

// New creates a resolver with keyboard sprite overrides. primary may be nil
// when only keyboard glyphs are needed.
func New(keyboard map[code.KeyCode]string, primary PrimarySource) *Resolver {
	return &Resolver{keyboard: keyboard, primary: primary}
}

// TryGetGlyph returns the sprite of c: the keyboard override for keys, or
// the key/axis sprite of the primary controller for controller codes.
func (r *Resolver) TryGetGlyph(c code.Code) (string, bool) {
	if k, ok := c.KeyCode(); ok {
		s, ok := r.keyboard[k]
		return s, ok && s != ""
	}
	cc, _ := c.ControllerCode()
	if r.primary == nil {
		return "", false
	}
	ctrl := r.primary.PrimaryController()
	if ctrl == nil {
		return "", false
	}
	s, ok := ctrl.Glyph(cc)
	return s, ok && s != ""
}

// Label returns the text shown for a key without a sprite. Controller
// codes have no text label.
func Label(c code.Code) string {
	k, ok := c.KeyCode()
	if !ok || k == code.KeyNone {
		return ""
	}
	name := k.String()
	name = strings.ReplaceAll(name, "Alpha", "")
	name = strings.ReplaceAll(name, "Keypad", "")
	return name
}

// Background is the backdrop drawn behind a sprite.
type Background int

const (
	BackgroundNone Background = iota
	BackgroundRound
	BackgroundSmallRect
	BackgroundSquare
	BackgroundDPad
	BackgroundStick
	BackgroundLeftTrigger
	BackgroundRightTrigger
)

func (b Background) String() string {
	switch b {
	case BackgroundRound:
		return "round"
	case BackgroundSmallRect:
		return "small_rect"
	case BackgroundSquare:
		return "square"
	case BackgroundDPad:
		return "dpad"
	case BackgroundStick:
		return "stick"
	case BackgroundLeftTrigger:
		return "trigger_l"
	case BackgroundRightTrigger:
		return "trigger_r"
	default:
		return "none"
	}
}

// Wide keyboard keys drawn on a small rectangle.
var smallRectNames = []string{
	"_shift", "_alt", "_ctrl", "_space", "_enter",
	"_backspace", "_delete", "_tab", "_esc", "_capslock",
}

// BackgroundFor guesses the backdrop of a sprite from its name.
func BackgroundFor(sprite string) Background {
	switch {
	case sprite == "":
		return BackgroundNone
	case strings.Contains(sprite, "_button_"):
		return BackgroundRound
	case containsAny(sprite, smallRectNames):
		return BackgroundSmallRect
	case strings.Contains(sprite, "keyboard_"):
		return BackgroundSquare
	case strings.Contains(sprite, "dpad_"):
		return BackgroundDPad
	case strings.Contains(sprite, "stick_"):
		return BackgroundStick
	case strings.Contains(sprite, "trigger_l"):
		return BackgroundLeftTrigger
	case strings.Contains(sprite, "trigger_r"):
		return BackgroundRightTrigger
	}
	return BackgroundNone
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

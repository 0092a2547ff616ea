// Package device detects connected controllers and resolves controller
// codes against the raw input of every connected instance.
package device

import (
	"strings"

	"github.com/llehouerou/rebind/internal/code"
)

// AxisDir is the polarity of an analog axis half.
type AxisDir int

const (
	Positive AxisDir = iota
	Negative
)

// ParseAxisDir parses "positive"/"negative" (or "+"/"-").
func ParseAxisDir(s string) (AxisDir, bool) {
	switch strings.ToLower(s) {
	case "positive", "+", "":
		return Positive, true
	case "negative", "-":
		return Negative, true
	}
	return Positive, false
}

// KeyMapping maps a controller code to a raw joystick button.
type KeyMapping struct {
	Code  code.ControllerCode
	Key   code.KeyCode
	Glyph string
}

// AxisMapping maps a controller code to one half of a named analog axis.
type AxisMapping struct {
	Code  code.ControllerCode
	Axis  string
	Dir   AxisDir
	Glyph string
}

// Value returns the axis value read from src, flipped for negative axes.
func (a AxisMapping) Value(src Source) float64 {
	v := src.Axis(a.Axis)
	if a.Dir == Negative {
		v = -v
	}
	return v
}

// Pressed reports whether the axis half is past zero in its direction.
func (a AxisMapping) Pressed(src Source) bool {
	return a.Value(src) > 0
}

// ControllerConfig describes one controller family.
type ControllerConfig struct {
	Name        string
	NameKey     string // localization key of the display name
	SearchTerms []string
	Keys        []KeyMapping
	Axes        []AxisMapping

	DPadGlyph       string
	LeftStickGlyph  string
	RightStickGlyph string
}

// Matches reports whether a device name contains one of the search terms.
func (c *ControllerConfig) Matches(deviceName string) bool {
	for _, term := range c.SearchTerms {
		if term != "" && strings.Contains(deviceName, term) {
			return true
		}
	}
	return false
}

// Glyph returns the sprite of a controller code for this controller.
func (c *ControllerConfig) Glyph(cc code.ControllerCode) (string, bool) {
	for _, k := range c.Keys {
		if k.Code == cc {
			return k.Glyph, true
		}
	}
	for _, a := range c.Axes {
		if a.Code == cc {
			return a.Glyph, true
		}
	}
	return "", false
}

// CodeForKey returns the controller code mapped to a raw button, after
// folding the button back to the "any joystick" block.
func (c *ControllerConfig) CodeForKey(k code.KeyCode) (code.ControllerCode, bool) {
	k = k.Normalize()
	for _, m := range c.Keys {
		if m.Key.Normalize() == k {
			return m.Code, true
		}
	}
	return 0, false
}

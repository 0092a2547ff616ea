// Package code defines the physical input codes that can be bound to actions.
//
// A Code is either a keyboard key or a controller input. The signed integer
// form returned by Int is the save format: non-negative values are keyboard
// keys, negative values are controller codes.
package code

import "strconv"

// Family is the input device family a code belongs to.
type Family int

const (
	Keyboard Family = iota
	Controller
)

func (f Family) String() string {
	if f == Controller {
		return "controller"
	}
	return "keyboard"
}

// Code is a keyboard key or a controller input.
// The zero value is the keyboard key KeyNone.
type Code struct {
	family Family
	value  int32
}

// Key returns the code for a keyboard key.
func Key(k KeyCode) Code {
	return Code{family: Keyboard, value: int32(k)}
}

// Button returns the code for a controller input.
func Button(c ControllerCode) Code {
	return Code{family: Controller, value: int32(c)}
}

// FromInt decodes the signed save-format representation.
func FromInt(v int) Code {
	if v < 0 {
		return Button(ControllerCode(v))
	}
	return Key(KeyCode(v))
}

// Int returns the signed save-format representation.
func (c Code) Int() int {
	return int(c.value)
}

// Family returns the device family of the code.
func (c Code) Family() Family {
	return c.family
}

// IsKeyboard reports whether the code is a keyboard key.
func (c Code) IsKeyboard() bool {
	return c.family == Keyboard
}

// IsZero reports whether the code is KeyNone.
func (c Code) IsZero() bool {
	return c == Code{}
}

// KeyCode returns the keyboard key and true if c is a keyboard code.
func (c Code) KeyCode() (KeyCode, bool) {
	if c.family != Keyboard {
		return KeyNone, false
	}
	return KeyCode(c.value), true
}

// ControllerCode returns the controller input and true if c is a controller code.
func (c Code) ControllerCode() (ControllerCode, bool) {
	if c.family != Controller {
		return 0, false
	}
	return ControllerCode(c.value), true
}

func (c Code) String() string {
	if k, ok := c.KeyCode(); ok {
		return k.String()
	}
	if cc, ok := c.ControllerCode(); ok {
		return cc.String()
	}
	return strconv.Itoa(c.Int())
}

// Parse resolves a key or controller name (as returned by String) or a
// signed integer into a Code.
func Parse(s string) (Code, bool) {
	if k, ok := ParseKeyCode(s); ok {
		return Key(k), true
	}
	if cc, ok := ParseControllerCode(s); ok {
		return Button(cc), true
	}
	if v, err := strconv.Atoi(s); err == nil {
		return FromInt(v), true
	}
	return Code{}, false
}

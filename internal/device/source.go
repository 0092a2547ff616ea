package device

import "github.com/llehouerou/rebind/internal/code"

// Source is the raw per-tick input of the platform.
type Source interface {
	// DeviceNames lists the names of currently attached controllers,
	// in enumeration order.
	DeviceNames() []string
	// KeyHeld reports whether a raw key (or joystick button) is down.
	KeyHeld(k code.KeyCode) bool
	// PressedKeys lists the raw keys that went down this tick, in
	// ascending key order.
	PressedKeys() []code.KeyCode
	// Axis returns the value of a named analog axis in [-1, 1].
	Axis(name string) float64
}

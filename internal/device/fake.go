// internal/device/fake.go
package device

import (
	"slices"

	"github.com/llehouerou/rebind/internal/code"
)

// Fake is a test double for Source. Keys pressed with Press stay held
// until Release; PressedKeys reports them only on the tick they went down.
type Fake struct {
	Names   []string
	held    map[code.KeyCode]bool
	pressed []code.KeyCode
	axes    map[string]float64
}

// NewFake creates an idle fake source.
func NewFake(names ...string) *Fake {
	return &Fake{
		Names: names,
		held:  make(map[code.KeyCode]bool),
		axes:  make(map[string]float64),
	}
}

func (f *Fake) DeviceNames() []string { return f.Names }

func (f *Fake) KeyHeld(k code.KeyCode) bool { return f.held[k] }

func (f *Fake) PressedKeys() []code.KeyCode { return slices.Clone(f.pressed) }

func (f *Fake) Axis(name string) float64 { return f.axes[name] }

// Test helpers

// Press puts keys down.
func (f *Fake) Press(keys ...code.KeyCode) {
	for _, k := range keys {
		if !f.held[k] {
			f.pressed = append(f.pressed, k)
		}
		f.held[k] = true
	}
	slices.Sort(f.pressed)
}

// Release lets keys up.
func (f *Fake) Release(keys ...code.KeyCode) {
	for _, k := range keys {
		delete(f.held, k)
	}
}

// SetAxis sets an axis value.
func (f *Fake) SetAxis(name string, v float64) { f.axes[name] = v }

// EndTick forgets which keys went down this tick. Call it after every
// simulated tick.
func (f *Fake) EndTick() { f.pressed = f.pressed[:0] }

// Verify Fake implements Source at compile time.
var _ Source = (*Fake)(nil)

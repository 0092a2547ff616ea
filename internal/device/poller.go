package device

import (
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/rebind/internal/code"
	"github.com/llehouerou/rebind/internal/observer"
)

// InputType is the device family that most recently produced input.
type InputType int

const (
	InputUnknown InputType = iota
	InputKeyboard
	InputController
)

func (t InputType) String() string {
	switch t {
	case InputKeyboard:
		return "keyboard"
	case InputController:
		return "controller"
	default:
		return "unknown"
	}
}

type entry[T any] struct {
	data   T
	config *ControllerConfig
}

// Poller tracks connected controllers and the primary input device.
type Poller struct {
	configs  []*ControllerConfig
	fallback *ControllerConfig
	log      logrus.FieldLogger

	connected []*ControllerConfig
	primary   *ControllerConfig
	inputType InputType

	keys      map[code.ControllerCode][]entry[code.KeyCode]
	axes      map[code.ControllerCode][]entry[AxisMapping]
	rawToCode map[code.KeyCode]code.ControllerCode

	onConnected    observer.List[[]*ControllerConfig]
	onDisconnected observer.List[[]*ControllerConfig]
	onInputType    observer.List[InputType]
}

// NewPoller creates a poller for the given controller families. fallback
// is used for glyphs while no controller has been detected; it may be nil.
func NewPoller(configs []*ControllerConfig, fallback *ControllerConfig, log logrus.FieldLogger) *Poller {
	return &Poller{
		configs:   configs,
		fallback:  fallback,
		log:       log,
		keys:      make(map[code.ControllerCode][]entry[code.KeyCode]),
		axes:      make(map[code.ControllerCode][]entry[AxisMapping]),
		rawToCode: make(map[code.KeyCode]code.ControllerCode),
	}
}

// OnConnected subscribes to controller connections. The callback receives
// the newly connected controllers.
func (p *Poller) OnConnected(fn func([]*ControllerConfig)) func() {
	return p.onConnected.Subscribe(fn)
}

// OnDisconnected subscribes to controller disconnections. The callback
// receives the controllers assumed to be gone.
func (p *Poller) OnDisconnected(fn func([]*ControllerConfig)) func() {
	return p.onDisconnected.Subscribe(fn)
}

// OnInputTypeChanged subscribes to primary input type changes.
func (p *Poller) OnInputTypeChanged(fn func(InputType)) func() {
	return p.onInputType.Subscribe(fn)
}

// Connected returns the connected controllers in device order.
func (p *Poller) Connected() []*ControllerConfig {
	out := make([]*ControllerConfig, len(p.connected))
	copy(out, p.connected)
	return out
}

// PrimaryController returns the controller that last produced input, the
// first detected one if none has yet, or the fallback.
func (p *Poller) PrimaryController() *ControllerConfig {
	if p.primary != nil {
		return p.primary
	}
	return p.fallback
}

// PrimaryInputType returns the device family that last produced input.
func (p *Poller) PrimaryInputType() InputType {
	return p.inputType
}

// SetPrimaryInputType records which device family produced input.
func (p *Poller) SetPrimaryInputType(t InputType) {
	if p.inputType == t {
		return
	}
	p.inputType = t
	p.onInputType.Notify(t)
}

// Poll matches the attached device names against the controller configs,
// fires connection events and rebuilds the per-instance lookup tables.
//
// When a connection change cannot be attributed to a specific controller
// family (for example one of two identical controllers was unplugged),
// the last instance in the list is reported as the one that changed. This
// is a best-effort heuristic.
func (p *Poller) Poll(names []string) {
	matched := make([]*ControllerConfig, 0, len(names))
	for _, name := range names {
		for _, c := range p.configs {
			if c.Matches(name) {
				matched = append(matched, c)
				if p.primary == nil {
					p.primary = c
				}
				break
			}
		}
	}

	switch {
	case len(matched) < len(p.connected):
		if len(matched) == 0 {
			p.SetPrimaryInputType(InputKeyboard)
		}
		gone := missingFrom(p.connected, matched)
		p.log.WithField("count", len(gone)).Info("controller disconnected")
		p.onDisconnected.Notify(gone)
	case len(matched) > len(p.connected):
		if p.inputType == InputUnknown {
			p.SetPrimaryInputType(InputController)
		}
		added := missingFrom(matched, p.connected)
		for _, c := range added {
			p.log.WithField("controller", c.Name).Info("controller connected")
		}
		p.onConnected.Notify(added)
	}

	p.connected = matched
	p.rebuild()
}

// missingFrom returns the configs of a that are not in b, or the last
// element of a when every config of a is also in b.
func missingFrom(a, b []*ControllerConfig) []*ControllerConfig {
	var out []*ControllerConfig
	for _, c := range a {
		if !contains(b, c) && !contains(out, c) {
			out = append(out, c)
		}
	}
	if len(out) == 0 && len(a) > 0 {
		out = append(out, a[len(a)-1])
	}
	return out
}

func contains(list []*ControllerConfig, c *ControllerConfig) bool {
	for _, o := range list {
		if o == c {
			return true
		}
	}
	return false
}

func (p *Poller) rebuild() {
	clear(p.keys)
	clear(p.axes)
	clear(p.rawToCode)
	for i, c := range p.connected {
		for _, m := range c.Keys {
			raw := m.Key.ForInstance(i)
			p.keys[m.Code] = append(p.keys[m.Code], entry[code.KeyCode]{data: raw, config: c})
			p.rawToCode[raw] = m.Code
		}
		for _, a := range c.Axes {
			p.axes[a.Code] = append(p.axes[a.Code], entry[AxisMapping]{data: a, config: c})
		}
	}
}

// RawKeys returns the raw buttons mapped to a controller code across all
// connected instances.
func (p *Poller) RawKeys(cc code.ControllerCode) []code.KeyCode {
	es := p.keys[cc]
	out := make([]code.KeyCode, len(es))
	for i, e := range es {
		out[i] = e.data
	}
	return out
}

// ControllerActive reports whether any connected instance currently
// produces the controller code, through a button or an axis half. The
// instance that does becomes the primary controller.
func (p *Poller) ControllerActive(cc code.ControllerCode, src Source) bool {
	for _, e := range p.keys[cc] {
		if src.KeyHeld(e.data) {
			p.markController(e.config)
			return true
		}
	}
	for _, e := range p.axes[cc] {
		if e.data.Pressed(src) {
			p.markController(e.config)
			return true
		}
	}
	return false
}

func (p *Poller) markController(c *ControllerConfig) {
	p.primary = c
	p.SetPrimaryInputType(InputController)
}

// Canonical maps a raw joystick button of a connected instance back to its
// controller code. Other codes are returned unchanged.
func (p *Poller) Canonical(c code.Code) code.Code {
	k, ok := c.KeyCode()
	if !ok || !k.IsJoystick() {
		return c
	}
	if cc, ok := p.rawToCode[k]; ok {
		return code.Button(cc)
	}
	if cc, ok := p.rawToCode[k.Normalize()]; ok {
		return code.Button(cc)
	}
	return c
}

// ControllerCodeForKey maps a raw joystick button back to a controller code
// using the mappings of the connected controllers.
func (p *Poller) ControllerCodeForKey(k code.KeyCode) (code.ControllerCode, bool) {
	for _, c := range p.connected {
		if cc, ok := c.CodeForKey(k); ok {
			return cc, true
		}
	}
	return 0, false
}

// ActiveAxis returns the first axis half of any connected controller that
// is currently pressed.
func (p *Poller) ActiveAxis(src Source) (AxisMapping, bool) {
	for _, c := range p.connected {
		for _, a := range c.Axes {
			if a.Pressed(src) {
				return a, true
			}
		}
	}
	return AxisMapping{}, false
}

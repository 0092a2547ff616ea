// Package input turns raw device state into per-action press, hold,
// release and repeat events.
package input

import (
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/rebind/internal/bindings"
	"github.com/llehouerou/rebind/internal/code"
	"github.com/llehouerou/rebind/internal/device"
	"github.com/llehouerou/rebind/internal/glyph"
	"github.com/llehouerou/rebind/internal/keymap"
)

// repeatEpsilon absorbs floating point drift in the repeat countdown.
const repeatEpsilon = 1e-6

// State is the per-action input state for the current tick.
type State struct {
	Action   keymap.Action
	Held     bool
	Pressed  bool // went down, or repeated, this tick
	Released bool // went up this tick
	Repeats  uint // presses since the action went down, the first included

	// NextRepeat is the time in seconds until the next repeat press.
	NextRepeat float64
}

type actionState struct {
	cfg ActionConfig
	State
}

func (s *actionState) reset() {
	s.Held = false
	s.Pressed = false
	s.Released = false
	s.Repeats = 0
	s.NextRepeat = 0
}

// Manager owns the action state machine. Call Update once per tick.
type Manager struct {
	cfg    Config
	store  *bindings.Store
	poller *device.Poller
	src    device.Source
	log    logrus.FieldLogger

	glyphs *glyph.Resolver
	rumble *device.Rumble

	states   []*actionState
	byAction map[keymap.Action]*actionState
	manual   map[keymap.Action]bool
	missing  map[keymap.Action]bool
	enabled  bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithGlyphs sets the resolver used by TryGetGlyph.
func WithGlyphs(r *glyph.Resolver) Option {
	return func(m *Manager) { m.glyphs = r }
}

// WithRumble sets the rumble driver advanced by Update.
func WithRumble(r *device.Rumble) Option {
	return func(m *Manager) { m.rumble = r }
}

// New creates an enabled manager.
func New(cfg Config, store *bindings.Store, poller *device.Poller, src device.Source, log logrus.FieldLogger, opts ...Option) *Manager {
	m := &Manager{
		cfg:      cfg,
		store:    store,
		poller:   poller,
		src:      src,
		log:      log,
		byAction: make(map[keymap.Action]*actionState),
		manual:   make(map[keymap.Action]bool),
		missing:  make(map[keymap.Action]bool),
		enabled:  true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cfg.MaxSimultaneous <= 0 {
		m.cfg.MaxSimultaneous = DefaultConfig().MaxSimultaneous
	}

	for _, ac := range cfg.Actions {
		if _, dup := m.byAction[ac.Action]; dup {
			log.WithField("action", ac.Action).Warn("duplicate action config ignored")
			continue
		}
		s := &actionState{cfg: ac, State: State{Action: ac.Action}}
		m.states = append(m.states, s)
		m.byAction[ac.Action] = s
	}
	if len(m.states) == 0 {
		log.Error("no input actions configured, no input events will fire")
	}
	if m.glyphs == nil {
		m.glyphs = glyph.New(nil, poller)
	}
	return m
}

// Store returns the binding store.
func (m *Manager) Store() *bindings.Store { return m.store }

// Poller returns the device poller.
func (m *Manager) Poller() *device.Poller { return m.poller }

// Source returns the raw input source.
func (m *Manager) Source() device.Source { return m.src }

// Update polls devices and advances every action by one tick of length dt.
func (m *Manager) Update(dt time.Duration) {
	m.poller.Poll(m.src.DeviceNames())
	if m.rumble != nil {
		m.rumble.Update(dt)
	}

	secs := dt.Seconds()
	active := 0
	for _, s := range m.states {
		in := m.manual[s.Action]
		if !in && (s.Held || active < m.cfg.MaxSimultaneous) {
			in = m.triggered(s.Action)
		}
		if in {
			active++
		}
		step(s, in, secs)
	}
	clear(m.manual)
}

// triggered reports whether any code bound to action is active.
func (m *Manager) triggered(action keymap.Action) bool {
	for _, c := range m.store.Bindings(action) {
		if k, ok := c.KeyCode(); ok {
			if m.src.KeyHeld(k) {
				m.poller.SetPrimaryInputType(device.InputKeyboard)
				return true
			}
			continue
		}
		cc, _ := c.ControllerCode()
		if m.poller.ControllerActive(cc, m.src) {
			return true
		}
	}
	return false
}

// step advances one action. A constant repeat delay d held for T ticks of
// dt yields floor(T*dt/d) repeats after the first press: the press tick
// counts towards the first delay.
func step(s *actionState, in bool, dt float64) {
	switch {
	case in && !s.Held:
		s.Held = true
		s.Released = false
		s.press(dt)
	case in:
		s.Released = false
		s.Pressed = false
		if !s.cfg.AllowRepeats {
			return
		}
		s.NextRepeat -= dt
		if s.NextRepeat <= repeatEpsilon {
			s.Pressed = true
			s.Repeats++
			s.NextRepeat += s.cfg.RepeatDelay.Evaluate(float64(s.Repeats))
		}
	case s.Held:
		s.reset()
		s.Released = true
	default:
		s.Pressed = false
		s.Released = false
	}
}

func (s *actionState) press(dt float64) {
	s.Pressed = true
	s.Repeats++
	s.NextRepeat = s.cfg.RepeatDelay.Evaluate(float64(s.Repeats)) - dt
}

// QueryOption modifies a state query.
type QueryOption func(*query)

type query struct {
	allowDisabled bool
	maxRepeats    uint
}

// AllowWhenDisabled reads the state even while the manager is disabled.
func AllowWhenDisabled() QueryOption {
	return func(q *query) { q.allowDisabled = true }
}

// MaxRepeats limits GetKeyDown to the first n presses of a hold.
func MaxRepeats(n uint) QueryOption {
	return func(q *query) { q.maxRepeats = n }
}

func (m *Manager) lookup(action keymap.Action, opts []QueryOption) (*actionState, query, bool) {
	q := query{maxRepeats: ^uint(0)}
	for _, opt := range opts {
		opt(&q)
	}
	if !m.enabled && !q.allowDisabled {
		return nil, q, false
	}
	s, ok := m.byAction[action]
	if !ok {
		if !m.missing[action] {
			m.missing[action] = true
			m.log.WithField("action", action).Error("no configuration for action")
		}
		return nil, q, false
	}
	return s, q, true
}

// GetKey reports whether the action is held.
func (m *Manager) GetKey(action keymap.Action, opts ...QueryOption) bool {
	s, _, ok := m.lookup(action, opts)
	return ok && s.Held
}

// GetKeyDown reports whether the action was pressed or repeated this tick.
func (m *Manager) GetKeyDown(action keymap.Action, opts ...QueryOption) bool {
	s, q, ok := m.lookup(action, opts)
	return ok && s.Pressed && s.Repeats <= q.maxRepeats
}

// GetKeyUp reports whether the action was released this tick.
func (m *Manager) GetKeyUp(action keymap.Action, opts ...QueryOption) bool {
	s, _, ok := m.lookup(action, opts)
	return ok && s.Released
}

// GetState returns a copy of the action's state.
func (m *Manager) GetState(action keymap.Action, opts ...QueryOption) (State, bool) {
	s, _, ok := m.lookup(action, opts)
	if !ok {
		return State{}, false
	}
	return s.State, true
}

// ActionConfig returns the static configuration of an action.
func (m *Manager) ActionConfig(action keymap.Action) (ActionConfig, bool) {
	s, ok := m.byAction[action]
	if !ok {
		return ActionConfig{}, false
	}
	return s.cfg, true
}

// Actions returns the configured actions in evaluation order.
func (m *Manager) Actions() []ActionConfig {
	out := make([]ActionConfig, len(m.states))
	for i, s := range m.states {
		out[i] = s.cfg
	}
	return out
}

// QueueManual makes the action active on the next Update, as if one of
// its codes was held.
func (m *Manager) QueueManual(action keymap.Action) {
	m.manual[action] = true
}

// Enabled reports whether queries without AllowWhenDisabled see input.
func (m *Manager) Enabled() bool { return m.enabled }

// SetEnabled enables or disables the manager. Changing the state clears
// every action's transient state so that a key held across the change is
// not seen as a new press.
func (m *Manager) SetEnabled(enabled bool) {
	if m.enabled != enabled {
		for _, s := range m.states {
			s.reset()
		}
	}
	m.enabled = enabled
}

// Bindings returns the codes bound to an action. Unless the manager is in
// mixed input mode, only codes of the primary input type are returned.
func (m *Manager) Bindings(action keymap.Action) []code.Code {
	if m.cfg.MixedInput {
		return m.store.Bindings(action)
	}
	if m.poller.PrimaryInputType() == device.InputController {
		return m.store.BindingsFor(action, code.Controller)
	}
	return m.store.BindingsFor(action, code.Keyboard)
}

// CodeFromRawKey converts a raw key into a bindable code. Keyboard keys
// go through the alias table and are rejected when disabled; joystick
// buttons map to the controller code of the connected controllers.
func (m *Manager) CodeFromRawKey(k code.KeyCode) (code.Code, bool) {
	if k < code.JoystickButton0 {
		if alias, ok := m.cfg.KeyAliases[k]; ok {
			k = alias
		}
		if k == code.KeyNone || slices.Contains(m.cfg.DisabledKeys, k) {
			return code.Code{}, false
		}
		return code.Key(k), true
	}
	cc, ok := m.poller.ControllerCodeForKey(k)
	if !ok {
		return code.Code{}, false
	}
	return code.Button(cc), true
}

// TryGetGlyph returns the sprite of a code for the current primary device.
func (m *Manager) TryGetGlyph(c code.Code) (string, bool) {
	return m.glyphs.TryGetGlyph(c)
}

// Rumble vibrates the primary controller. It is a no-op without a rumble
// driver.
func (m *Manager) Rumble(intensity uint16, d time.Duration) {
	if m.rumble != nil {
		m.rumble.Start(intensity, d)
	}
}

// PlayRumble starts a named rumble profile.
func (m *Manager) PlayRumble(name string) {
	if m.rumble != nil {
		m.rumble.Play(name)
	}
}

// StopRumble stops any running vibration.
func (m *Manager) StopRumble() {
	if m.rumble != nil {
		m.rumble.Stop()
	}
}

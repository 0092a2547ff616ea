// Package bindings stores the physical codes bound to each action and
// persists them.
package bindings

import (
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/rebind/internal/code"
	"github.com/llehouerou/rebind/internal/keymap"
	"github.com/llehouerou/rebind/internal/observer"
)

// Persister is the key-value storage the store saves to. SetString is
// expected to debounce writes.
type Persister interface {
	GetString(key string) (string, bool, error)
	SetString(key, value string)
}

// Canonicalizer maps a raw per-instance joystick key to the controller
// code it stands for. Other codes are returned unchanged.
type Canonicalizer interface {
	Canonical(c code.Code) code.Code
}

// Entry is the ordered list of codes bound to an action.
type Entry struct {
	Action keymap.Action
	Codes  []code.Code
}

// Coverage reports which directional controls fully cover the movement
// actions.
type Coverage struct {
	LeftStick  bool
	RightStick bool
	DPad       bool
}

// Store holds the current bindings. It is not safe for concurrent use.
type Store struct {
	defaults keymap.Defaults
	codes    map[keymap.Action][]code.Code

	canon     Canonicalizer
	persister Persister
	log       logrus.FieldLogger

	movement []keymap.Action
	coverage Coverage

	changed observer.List[[]keymap.Action]
}

// Option configures a Store.
type Option func(*Store)

// WithCanonicalizer sets how raw joystick keys are folded to controller
// codes before the uniqueness check.
func WithCanonicalizer(c Canonicalizer) Option {
	return func(s *Store) { s.canon = c }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}

// WithMovement sets the actions checked by Coverage.
func WithMovement(actions []keymap.Action) Option {
	return func(s *Store) { s.movement = slices.Clone(actions) }
}

// New creates a store holding the given defaults. Nothing is persisted
// until Load attaches a Persister.
func New(defaults keymap.Defaults, opts ...Option) *Store {
	s := &Store{
		defaults: defaults,
		codes:    make(map[keymap.Action][]code.Code),
		movement: keymap.Movement,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		s.log = l
	}
	s.fillDefaults(false)
	s.coverage = s.MovementCoverage(s.movement)
	return s
}

// fillDefaults adds the default codes of every action that has none.
// With force, existing entries are replaced.
func (s *Store) fillDefaults(force bool) {
	for _, b := range s.defaults {
		if _, ok := s.codes[b.Action]; ok && !force {
			continue
		}
		s.codes[b.Action] = dedupe(b.Codes())
	}
}

// Subscribe registers fn to be called with the actions whose bindings
// changed.
func (s *Store) Subscribe(fn func([]keymap.Action)) (unsubscribe func()) {
	return s.changed.Subscribe(fn)
}

// Bindings returns a copy of the codes bound to an action.
func (s *Store) Bindings(action keymap.Action) []code.Code {
	return slices.Clone(s.codes[action])
}

// BindingsFor returns the codes of one family bound to an action.
func (s *Store) BindingsFor(action keymap.Action, family code.Family) []code.Code {
	var out []code.Code
	for _, c := range s.codes[action] {
		if c.Family() == family {
			out = append(out, c)
		}
	}
	return out
}

// Defaults returns the default codes of an action.
func (s *Store) Defaults(action keymap.Action) []code.Code {
	b, ok := s.defaults.Lookup(action)
	if !ok {
		return nil
	}
	return b.Codes()
}

// All returns every bound action in enumeration order.
func (s *Store) All() []Entry {
	out := make([]Entry, 0, len(s.codes))
	for _, a := range s.actions() {
		out = append(out, Entry{Action: a, Codes: slices.Clone(s.codes[a])})
	}
	return out
}

func (s *Store) actions() []keymap.Action {
	out := make([]keymap.Action, 0, len(s.codes))
	for _, a := range keymap.All() {
		if _, ok := s.codes[a]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Add appends c to the bindings of action. It returns false when c is
// already bound to that action. Uniqueness across actions is checked by
// CanAssign, not here.
func (s *Store) Add(action keymap.Action, c code.Code) bool {
	if !action.Valid() || slices.Contains(s.codes[action], c) {
		return false
	}
	s.codes[action] = append(s.codes[action], c)
	s.commit(action)
	return true
}

// ActionFor returns the action a code is bound to.
func (s *Store) ActionFor(c code.Code) (keymap.Action, bool) {
	r := keymap.NewResolver(s.actions(), func(a keymap.Action) []code.Code { return s.codes[a] })
	return r.Resolve(s.canonical(c))
}

// CanAssign reports whether c is free, after folding raw joystick keys
// to their controller code.
func (s *Store) CanAssign(c code.Code) bool {
	_, taken := s.ActionFor(c)
	return !taken
}

func (s *Store) canonical(c code.Code) code.Code {
	if s.canon == nil {
		return c
	}
	return s.canon.Canonical(c)
}

// CanRemove reports whether c can be unbound from action: it must be
// bound, and another code of the same family must remain.
func (s *Store) CanRemove(action keymap.Action, c code.Code) bool {
	codes := s.codes[action]
	if !slices.Contains(codes, c) {
		return false
	}
	n := 0
	for _, o := range codes {
		if o.Family() == c.Family() {
			n++
		}
	}
	return n > 1
}

// Remove unbinds c from action when CanRemove allows it.
func (s *Store) Remove(action keymap.Action, c code.Code) bool {
	if !s.CanRemove(action, c) {
		return false
	}
	i := slices.Index(s.codes[action], c)
	s.codes[action] = slices.Delete(s.codes[action], i, i+1)
	s.commit(action)
	return true
}

// Modified reports whether any action's bindings differ from its
// defaults, order included.
func (s *Store) Modified() bool {
	for a, codes := range s.codes {
		b, ok := s.defaults.Lookup(a)
		if !ok || !slices.Equal(codes, dedupe(b.Codes())) {
			return true
		}
	}
	return false
}

// ResetAll restores the default bindings of every action.
func (s *Store) ResetAll() {
	clear(s.codes)
	s.fillDefaults(true)
	s.commit(s.actions()...)
}

func (s *Store) commit(actions ...keymap.Action) {
	s.coverage = s.MovementCoverage(s.movement)
	s.save()
	s.changed.Notify(actions)
}

// Coverage returns the movement coverage of the configured movement
// actions, as of the last change.
func (s *Store) Coverage() Coverage {
	return s.coverage
}

// MovementCoverage reports, for each directional control, whether every
// given action has at least one of its directions bound.
func (s *Store) MovementCoverage(actions []keymap.Action) Coverage {
	covered := func(group []code.ControllerCode) bool {
		for _, a := range actions {
			if !slices.ContainsFunc(group, func(cc code.ControllerCode) bool {
				return slices.Contains(s.codes[a], code.Button(cc))
			}) {
				return false
			}
		}
		return true
	}
	return Coverage{
		LeftStick:  covered(code.LeftStick),
		RightStick: covered(code.RightStick),
		DPad:       covered(code.DPad),
	}
}

func dedupe(s []code.Code) []code.Code {
	out := make([]code.Code, 0, len(s))
	for _, c := range s {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

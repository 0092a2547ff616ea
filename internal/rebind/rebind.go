// Package rebind captures the next physical input and binds it to an
// action.
package rebind

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/rebind/internal/code"
	"github.com/llehouerou/rebind/internal/device"
	"github.com/llehouerou/rebind/internal/input"
	"github.com/llehouerou/rebind/internal/keymap"
	"github.com/llehouerou/rebind/internal/observer"
)

var (
	ErrBusy          = errors.New("rebinding already in progress")
	ErrUnknownAction = errors.New("action is not configured")
	ErrNotRebindable = errors.New("action cannot be rebound")
	ErrMaxBindings   = errors.New("action has the maximum number of bindings")
)

// Phase is the state of a Controller.
type Phase int

const (
	Idle Phase = iota
	Listening
	AwaitRelease
)

func (p Phase) String() string {
	switch p {
	case Listening:
		return "listening"
	case AwaitRelease:
		return "await_release"
	default:
		return "idle"
	}
}

// EventKind identifies an Event.
type EventKind int

const (
	Started EventKind = iota
	Bound
	Invalid
	Cancelled
	Finished
)

func (k EventKind) String() string {
	return [...]string{"started", "bound", "invalid", "cancelled", "finished"}[k]
}

// Event reports progress of a rebinding session.
type Event struct {
	Kind   EventKind
	Action keymap.Action
	Code   code.Code // Bound, and Invalid when the input mapped to a code
}

// Config configures a Controller.
type Config struct {
	MaxBindings     int
	InvalidDuration time.Duration
	CancelKeys      []code.KeyCode
	CancelActions   []keymap.Action
}

// Controller runs rebinding sessions against an input manager. Call
// Update once per tick, after the manager's Update.
type Controller struct {
	cfg Config
	in  *input.Manager
	log logrus.FieldLogger

	phase       Phase
	action      keymap.Action
	justEntered bool
	invalidLeft time.Duration

	heldKey  code.KeyCode
	heldAxis *device.AxisMapping

	cancelHeld map[code.KeyCode]bool

	events observer.List[Event]
}

// New creates an idle controller.
func New(cfg Config, in *input.Manager, log logrus.FieldLogger) *Controller {
	return &Controller{
		cfg:        cfg,
		in:         in,
		log:        log,
		cancelHeld: make(map[code.KeyCode]bool),
	}
}

// Subscribe registers fn for session events.
func (c *Controller) Subscribe(fn func(Event)) (unsubscribe func()) {
	return c.events.Subscribe(fn)
}

// Config returns the controller configuration.
func (c *Controller) Config() Config { return c.cfg }

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phase }

// Action returns the action of the current session.
func (c *Controller) Action() keymap.Action { return c.action }

// Invalid reports whether the invalid-input message is showing.
func (c *Controller) Invalid() bool { return c.invalidLeft > 0 }

// InvalidFraction returns how much of the invalid-input message time is
// left, from 1 down to 0.
func (c *Controller) InvalidFraction() float64 {
	if c.invalidLeft <= 0 || c.cfg.InvalidDuration <= 0 {
		return 0
	}
	return float64(c.invalidLeft) / float64(c.cfg.InvalidDuration)
}

// CanAdd reports whether a session can be started for action.
func (c *Controller) CanAdd(action keymap.Action) bool {
	return c.check(action) == nil
}

func (c *Controller) check(action keymap.Action) error {
	return c.cfg.Check(action, c.in.Actions(), len(c.in.Store().Bindings(action)))
}

// Check reports whether one more binding may be added to action, given the
// configured actions and the number of codes already bound to it.
func (cfg Config) Check(action keymap.Action, actions []input.ActionConfig, bound int) error {
	i := slices.IndexFunc(actions, func(ac input.ActionConfig) bool { return ac.Action == action })
	switch {
	case i < 0:
		return ErrUnknownAction
	case !actions[i].AllowRebinding:
		return ErrNotRebindable
	case cfg.MaxBindings > 0 && bound >= cfg.MaxBindings:
		return ErrMaxBindings
	}
	return nil
}

// Begin starts listening for a new binding of action. The manager is
// disabled until the session ends. Input of the current tick is ignored.
func (c *Controller) Begin(action keymap.Action) error {
	if c.phase != Idle {
		return ErrBusy
	}
	if err := c.check(action); err != nil {
		return fmt.Errorf("rebind %s: %w", action, err)
	}

	c.phase = Listening
	c.action = action
	c.justEntered = true
	c.invalidLeft = 0
	c.heldKey = code.KeyNone
	c.heldAxis = nil
	c.in.SetEnabled(false)

	c.log.WithField("action", action).Debug("rebinding started")
	c.events.Notify(Event{Kind: Started, Action: action})
	return nil
}

// Cancel ends the current session without further changes.
func (c *Controller) Cancel() {
	if c.phase == Idle {
		return
	}
	c.end(Cancelled)
}

func (c *Controller) end(kind EventKind) {
	action := c.action
	c.phase = Idle
	c.invalidLeft = 0
	c.heldKey = code.KeyNone
	c.heldAxis = nil
	c.in.SetEnabled(true)

	c.log.WithFields(logrus.Fields{"action": action, "result": kind}).Debug("rebinding ended")
	c.events.Notify(Event{Kind: kind, Action: action})
}

// Update advances the session by one tick.
func (c *Controller) Update(dt time.Duration) {
	src := c.in.Source()
	cancelUp := c.trackCancelKeys(src)

	if c.invalidLeft > 0 {
		c.invalidLeft = max(c.invalidLeft-dt, 0)
	}

	switch c.phase {
	case Listening:
		c.listen(src, cancelUp)
	case AwaitRelease:
		if c.heldKey != code.KeyNone && src.KeyHeld(c.heldKey) {
			return
		}
		if c.heldAxis != nil && c.heldAxis.Pressed(src) {
			return
		}
		c.end(Finished)
	}
}

// trackCancelKeys updates the held state of the cancel keys and reports
// whether one of them went up this tick.
func (c *Controller) trackCancelKeys(src device.Source) bool {
	up := false
	for _, k := range c.cfg.CancelKeys {
		held := src.KeyHeld(k)
		if c.cancelHeld[k] && !held {
			up = true
		}
		c.cancelHeld[k] = held
	}
	return up
}

func (c *Controller) cancelActive() bool {
	for _, k := range c.cfg.CancelKeys {
		if c.cancelHeld[k] {
			return true
		}
	}
	return slices.ContainsFunc(c.cfg.CancelActions, func(a keymap.Action) bool {
		return c.in.GetKey(a, input.AllowWhenDisabled())
	})
}

func (c *Controller) cancelReleased(keyUp bool) bool {
	return keyUp || slices.ContainsFunc(c.cfg.CancelActions, func(a keymap.Action) bool {
		return c.in.GetKeyUp(a, input.AllowWhenDisabled())
	})
}

func (c *Controller) listen(src device.Source, cancelUp bool) {
	if c.justEntered {
		c.justEntered = false
		return
	}
	if c.cancelReleased(cancelUp) {
		c.end(Cancelled)
		return
	}
	if c.invalidLeft > 0 || c.cancelActive() {
		return
	}

	store := c.in.Store()
	pressed := src.PressedKeys()
	if len(pressed) > 0 {
		// Modifiers pressed along with another key only qualify it, so the
		// other key alone is bound or rejected.
		if keys := slices.DeleteFunc(slices.Clone(pressed), code.KeyCode.IsModifier); len(keys) > 0 {
			pressed = keys
		}
		c.scan(pressed)
		return
	}

	axis, ok := c.in.Poller().ActiveAxis(src)
	if !ok {
		return
	}
	cd := code.Button(axis.Code)
	if !store.CanAssign(cd) {
		c.reject(cd)
		return
	}
	c.bind(cd)
	c.heldAxis = &axis
}

// scan binds the first pressed key that can be assigned, or flashes the
// invalid message for the first one that cannot.
func (c *Controller) scan(pressed []code.KeyCode) {
	store := c.in.Store()
	var rejected code.Code
	for _, k := range pressed {
		cd, ok := c.in.CodeFromRawKey(k)
		if ok && store.CanAssign(cd) {
			c.bind(cd)
			c.heldKey = k
			return
		}
		if ok && rejected.IsZero() {
			rejected = cd
		}
	}
	c.reject(rejected)
}

func (c *Controller) bind(cd code.Code) {
	c.in.Store().Add(c.action, cd)
	c.phase = AwaitRelease
	c.log.WithFields(logrus.Fields{"action": c.action, "code": cd}).Info("binding added")
	c.events.Notify(Event{Kind: Bound, Action: c.action, Code: cd})
}

func (c *Controller) reject(cd code.Code) {
	c.invalidLeft = c.cfg.InvalidDuration
	c.events.Notify(Event{Kind: Invalid, Action: c.action, Code: cd})
}

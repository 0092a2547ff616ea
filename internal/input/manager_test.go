package input

import (
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/rebind/internal/bindings"
	"github.com/llehouerou/rebind/internal/code"
	"github.com/llehouerou/rebind/internal/curve"
	"github.com/llehouerou/rebind/internal/device"
	"github.com/llehouerou/rebind/internal/keymap"
)

const tick = 100 * time.Millisecond

type harness struct {
	m    *Manager
	src  *device.Fake
	hook *logtest.Hook
}

func newHarness(t *testing.T, cfg Config, devices ...string) *harness {
	t.Helper()
	log, hook := logtest.NewNullLogger()
	configs := device.Builtin()
	poller := device.NewPoller(configs, configs[0], log)
	store := bindings.New(keymap.Bindings, bindings.WithLogger(log), bindings.WithCanonicalizer(poller))
	src := device.NewFake(devices...)
	return &harness{m: New(cfg, store, poller, src, log), src: src, hook: hook}
}

func (h *harness) tick() {
	h.m.Update(tick)
	h.src.EndTick()
}

func TestPauseEscapeScenario(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	h.src.Press(code.Escape)
	h.tick()

	st, ok := h.m.GetState(keymap.ActionPause)
	require.True(t, ok)
	assert.True(t, st.Pressed)
	assert.True(t, st.Held)
	assert.False(t, st.Released)
	assert.True(t, h.m.GetKeyDown(keymap.ActionPause))

	h.src.Release(code.Escape)
	h.tick()

	st, _ = h.m.GetState(keymap.ActionPause)
	assert.True(t, st.Released)
	assert.False(t, st.Held)
	assert.False(t, st.Pressed)
	assert.True(t, h.m.GetKeyUp(keymap.ActionPause))

	h.tick()
	assert.False(t, h.m.GetKeyUp(keymap.ActionPause), "released lasts exactly one tick")
	assert.Equal(t, device.InputKeyboard, h.m.Poller().PrimaryInputType())
}

func TestHoldWithoutRepeatsPressesOnce(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	h.src.Press(code.E)
	presses := 0
	for range 20 {
		h.tick()
		if h.m.GetKeyDown(keymap.ActionInteract) {
			presses++
		}
		assert.True(t, h.m.GetKey(keymap.ActionInteract))
	}
	assert.Equal(t, 1, presses)
}

func TestRepeatTiming(t *testing.T) {
	// Holding for T ticks of dt with a constant delay d > dt yields
	// floor(T*dt/d) repeats after the first press.
	const dtMs = 100
	for _, dMs := range []int{150, 200, 250, 300, 1000} {
		for T := 1; T <= 15; T++ {
			t.Run(fmt.Sprintf("d=%dms/T=%d", dMs, T), func(t *testing.T) {
				cfg := DefaultConfig()
				cfg.Actions = []ActionConfig{{
					Action:       keymap.ActionDown,
					AllowRepeats: true,
					RepeatDelay:  curve.Constant(float64(dMs) / 1000),
				}}
				h := newHarness(t, cfg)

				h.src.Press(code.S)
				presses := 0
				for range T {
					h.tick()
					if h.m.GetKeyDown(keymap.ActionDown) {
						presses++
					}
				}
				assert.Equal(t, 1+T*dtMs/dMs, presses)

				st, _ := h.m.GetState(keymap.ActionDown)
				assert.Equal(t, uint(presses), st.Repeats)
			})
		}
	}
}

func TestRepeatDelayFollowsCurve(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Actions = []ActionConfig{{
		Action:       keymap.ActionDown,
		AllowRepeats: true,
		RepeatDelay:  curve.New(curve.Keyframe{At: 1, Delay: 0.5}, curve.Keyframe{At: 2, Delay: 0.2}),
	}}
	h := newHarness(t, cfg)

	h.src.Press(code.S)
	var pressTicks []int
	for i := 1; i <= 12; i++ {
		h.tick()
		if h.m.GetKeyDown(keymap.ActionDown) {
			pressTicks = append(pressTicks, i)
		}
	}
	// First delay 0.5s, then 0.2s.
	assert.Equal(t, []int{1, 5, 7, 9, 11}, pressTicks)
}

func TestMaxRepeats(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Actions = []ActionConfig{{Action: keymap.ActionDown, AllowRepeats: true, RepeatDelay: curve.Constant(0.2)}}
	h := newHarness(t, cfg)

	h.src.Press(code.S)
	limited, all := 0, 0
	for range 10 {
		h.tick()
		if h.m.GetKeyDown(keymap.ActionDown, MaxRepeats(2)) {
			limited++
		}
		if h.m.GetKeyDown(keymap.ActionDown) {
			all++
		}
	}
	assert.Equal(t, 2, limited)
	assert.Equal(t, 6, all)
}

func TestReleaseResetsRepeats(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Actions = []ActionConfig{{Action: keymap.ActionDown, AllowRepeats: true, RepeatDelay: curve.Constant(0.2)}}
	h := newHarness(t, cfg)

	h.src.Press(code.S)
	for range 5 {
		h.tick()
	}
	h.src.Release(code.S)
	h.tick()

	st, _ := h.m.GetState(keymap.ActionDown)
	assert.Zero(t, st.Repeats)
	assert.Zero(t, st.NextRepeat)

	h.src.Press(code.S)
	h.tick()
	assert.True(t, h.m.GetKeyDown(keymap.ActionDown, MaxRepeats(1)))
}

func TestSimultaneousCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSimultaneous = 2
	h := newHarness(t, cfg)

	h.src.Press(code.W, code.A, code.S)
	h.tick()

	assert.True(t, h.m.GetKey(keymap.ActionUp))
	assert.True(t, h.m.GetKey(keymap.ActionLeft))
	assert.False(t, h.m.GetKey(keymap.ActionDown), "beyond the cap")

	h.src.Release(code.W)
	h.tick()
	assert.True(t, h.m.GetKeyDown(keymap.ActionDown), "room freed up")
}

func TestSimultaneousCapKeepsHeldActions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSimultaneous = 1
	h := newHarness(t, cfg)

	h.src.Press(code.S)
	h.tick()
	require.True(t, h.m.GetKey(keymap.ActionDown))

	// Up comes first in evaluation order and takes the free slot, but Down
	// was already held and stays held.
	h.src.Press(code.W)
	h.tick()
	assert.True(t, h.m.GetKey(keymap.ActionUp))
	assert.True(t, h.m.GetKey(keymap.ActionDown))

	// With the cap reached, a new press is ignored.
	h.src.Press(code.D)
	h.tick()
	assert.False(t, h.m.GetKey(keymap.ActionRight))
}

func TestManualInput(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	h.m.QueueManual(keymap.ActionInteract)
	h.tick()
	assert.True(t, h.m.GetKeyDown(keymap.ActionInteract))

	h.tick()
	assert.True(t, h.m.GetKeyUp(keymap.ActionInteract), "manual input lasts one tick")
}

func TestSetEnabledResetsState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Actions = []ActionConfig{{Action: keymap.ActionDown, AllowRepeats: true, RepeatDelay: curve.Constant(0.2)}}
	h := newHarness(t, cfg)

	h.src.Press(code.S)
	for range 3 {
		h.tick()
	}
	require.True(t, h.m.GetKey(keymap.ActionDown))

	h.m.SetEnabled(false)
	assert.False(t, h.m.Enabled())
	assert.False(t, h.m.GetKey(keymap.ActionDown), "queries are gated")

	st, ok := h.m.GetState(keymap.ActionDown, AllowWhenDisabled())
	require.True(t, ok)
	assert.Equal(t, State{Action: keymap.ActionDown}, st)

	// The state machine keeps running while disabled.
	h.tick()
	assert.True(t, h.m.GetKey(keymap.ActionDown, AllowWhenDisabled()))

	h.src.Release(code.S)
	h.tick()
	h.m.SetEnabled(true)
	h.tick()
	assert.False(t, h.m.GetKeyDown(keymap.ActionDown))
	assert.False(t, h.m.GetKeyUp(keymap.ActionDown))
}

func TestMissingActionConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Actions = []ActionConfig{}
	h := newHarness(t, cfg)

	require.NotNil(t, h.hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, h.hook.LastEntry().Level)

	h.src.Press(code.Escape)
	h.tick()
	assert.False(t, h.m.GetKey(keymap.ActionPause))
	assert.False(t, h.m.GetKeyDown(keymap.ActionPause))
	assert.False(t, h.m.GetKeyUp(keymap.ActionPause))
	_, ok := h.m.GetState(keymap.ActionPause)
	assert.False(t, ok)

	// Logged once per action.
	h.hook.Reset()
	h.m.GetKey(keymap.ActionPause)
	h.m.GetKey(keymap.ActionInteract)
	h.m.GetKey(keymap.ActionInteract)
	assert.Len(t, h.hook.Entries, 1)
}

func TestControllerInput(t *testing.T) {
	h := newHarness(t, DefaultConfig(), "Xbox Wireless Controller")

	h.src.SetAxis("LeftStickY", -0.8)
	h.tick()
	assert.True(t, h.m.GetKeyDown(keymap.ActionUp))
	assert.Equal(t, device.InputController, h.m.Poller().PrimaryInputType())

	h.src.SetAxis("LeftStickY", 0)
	h.tick()
	assert.True(t, h.m.GetKeyUp(keymap.ActionUp))
}

func TestTwoIdenticalControllers(t *testing.T) {
	h := newHarness(t, DefaultConfig(), "Xbox Controller", "Xbox Controller")
	h.tick()
	require.Len(t, h.m.Poller().Connected(), 2)

	// Face button down of device #2.
	raw := code.JoystickButton(0).ForInstance(1)
	h.src.Press(raw)
	h.tick()

	assert.True(t, h.m.GetKeyDown(keymap.ActionInteract))

	c, ok := h.m.CodeFromRawKey(raw)
	require.True(t, ok)
	assert.Equal(t, code.Button(code.FaceButtonDown), c)
	assert.False(t, h.m.Store().CanAssign(code.Key(raw)))
}

func TestCodeFromRawKey(t *testing.T) {
	h := newHarness(t, DefaultConfig(), "Xbox Controller")
	h.tick()

	tests := []struct {
		name string
		key  code.KeyCode
		want code.Code
		ok   bool
	}{
		{"plain key", code.Q, code.Key(code.Q), true},
		{"alias", code.RightShift, code.Key(code.LeftShift), true},
		{"keypad period alias", code.KeypadPeriod, code.Key(code.Period), true},
		{"disabled", code.Escape, code.Code{}, false},
		{"alias to disabled", code.RightMeta, code.Code{}, false},
		{"mouse", code.Mouse0, code.Code{}, false},
		{"none", code.KeyNone, code.Code{}, false},
		{"joystick button", code.JoystickButton(7), code.Button(code.Start), true},
		{"unmapped joystick button", code.JoystickButton(15), code.Code{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := h.m.CodeFromRawKey(tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBindingsFollowPrimaryInputType(t *testing.T) {
	h := newHarness(t, DefaultConfig(), "Xbox Controller")

	h.src.Press(code.E)
	h.tick()
	assert.Equal(t, []code.Code{code.Key(code.E), code.Key(code.Return)}, h.m.Bindings(keymap.ActionInteract))

	h.src.Release(code.E)
	h.src.Press(code.JoystickButton(0))
	h.tick()
	assert.Equal(t, []code.Code{code.Button(code.FaceButtonDown)}, h.m.Bindings(keymap.ActionInteract))

	cfg := DefaultConfig()
	cfg.MixedInput = true
	mixed := newHarness(t, cfg)
	assert.Len(t, mixed.m.Bindings(keymap.ActionInteract), 3)
}

func TestTryGetGlyph(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	sprite, ok := h.m.TryGetGlyph(code.Button(code.Start))
	require.True(t, ok, "fallback controller glyphs")
	assert.Equal(t, "xbox_start", sprite)

	_, ok = h.m.TryGetGlyph(code.Key(code.Q))
	assert.False(t, ok)
}

type recordingRumbler struct{ levels []uint16 }

func (r *recordingRumbler) Rumble(intensity uint16) error {
	r.levels = append(r.levels, intensity)
	return nil
}

func TestRumbleAdvancesWithUpdate(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	rec := &recordingRumbler{}
	rumble := device.NewRumble(rec, nil, nil, log)

	configs := device.Builtin()
	poller := device.NewPoller(configs, configs[0], log)
	m := New(DefaultConfig(), bindings.New(keymap.Bindings), poller, device.NewFake(), log, WithRumble(rumble))

	m.Rumble(1000, 250*time.Millisecond)
	m.Update(tick)
	m.Update(tick)
	assert.True(t, rumble.Active())
	m.Update(tick)
	assert.False(t, rumble.Active())
	assert.Equal(t, []uint16{1000, 0}, rec.levels)
}

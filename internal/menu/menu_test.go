package menu

import (
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/rebind/internal/bindings"
	"github.com/llehouerou/rebind/internal/code"
	"github.com/llehouerou/rebind/internal/device"
	"github.com/llehouerou/rebind/internal/input"
	"github.com/llehouerou/rebind/internal/keymap"
	"github.com/llehouerou/rebind/internal/state"
)

type fakeInput struct {
	enabled bool
	down    map[keymap.Action]bool
}

func newFakeInput() *fakeInput {
	return &fakeInput{enabled: true, down: make(map[keymap.Action]bool)}
}

func (f *fakeInput) Enabled() bool { return f.enabled }

func (f *fakeInput) GetKeyDown(a keymap.Action, _ ...input.QueryOption) bool { return f.down[a] }

// press runs one update with only action down.
func (f *fakeInput) press(st *Stack, a keymap.Action) {
	clear(f.down)
	f.down[a] = true
	st.Update()
	clear(f.down)
}

func items(ids ...string) []*Item {
	out := make([]*Item, len(ids))
	for i, id := range ids {
		out[i] = &Item{ID: id}
	}
	return out
}

func TestNavigation_WrapsAndSkipsDisabled(t *testing.T) {
	in := newFakeInput()
	root := &Screen{ID: "root", Items: items("a", "b", "c", "d")}
	off := func() bool { return true }
	root.Items[0].Disabled = off
	root.Items[2].Disabled = off
	st := NewStack(in, root)

	assert.Equal(t, "b", root.FocusedItem().ID)

	in.press(st, keymap.ActionDown)
	assert.Equal(t, "d", root.FocusedItem().ID)
	in.press(st, keymap.ActionDown)
	assert.Equal(t, "b", root.FocusedItem().ID, "wraps past the disabled first item")
	in.press(st, keymap.ActionUp)
	assert.Equal(t, "d", root.FocusedItem().ID)
}

func TestNavigation_AllDisabled(t *testing.T) {
	in := newFakeInput()
	root := &Screen{ID: "root", Items: items("a")}
	root.Items[0].Disabled = func() bool { return true }
	st := NewStack(in, root)

	assert.Equal(t, -1, root.Focused())
	assert.Nil(t, root.FocusedItem())
	in.press(st, keymap.ActionInteract)
	in.press(st, keymap.ActionDown)
	assert.Equal(t, -1, root.Focused())
}

func TestFocusLeavesItemThatBecomesDisabled(t *testing.T) {
	in := newFakeInput()
	disabled := false
	root := &Screen{ID: "root", Items: items("a", "b")}
	root.Items[0].Disabled = func() bool { return disabled }
	st := NewStack(in, root)
	require.Equal(t, "a", root.FocusedItem().ID)

	disabled = true
	st.Update()
	assert.Equal(t, "b", root.FocusedItem().ID)
}

func TestActivateAdjustAndPop(t *testing.T) {
	in := newFakeInput()
	volume := 5
	sub := &Screen{ID: "settings", Items: []*Item{{
		ID:     "volume",
		Adjust: func(d int) { volume += d },
	}}}
	closed := false
	sub.OnClose = func() { closed = true }

	root := &Screen{ID: "root"}
	var st *Stack
	root.Items = []*Item{{ID: "open", Activate: func() { st.Push(sub) }}}
	st = NewStack(in, root)

	var events []EventKind
	st.Subscribe(func(e Event) { events = append(events, e.Kind) })

	in.press(st, keymap.ActionInteract)
	require.Equal(t, sub, st.Top())

	in.press(st, keymap.ActionRight)
	in.press(st, keymap.ActionRight)
	in.press(st, keymap.ActionLeft)
	assert.Equal(t, 6, volume)

	in.press(st, keymap.ActionPause)
	assert.Equal(t, root, st.Top())
	assert.True(t, closed)

	in.press(st, keymap.ActionPause)
	assert.Equal(t, 1, st.Depth(), "root stays")
	assert.Equal(t, []EventKind{Pushed, Popped}, events)
}

func TestSetItemsKeepsFocus(t *testing.T) {
	in := newFakeInput()
	root := &Screen{ID: "root", Items: items("a", "b", "c")}
	st := NewStack(in, root)
	in.press(st, keymap.ActionDown)
	require.Equal(t, "b", root.FocusedItem().ID)

	root.SetItems(items("x", "b"))
	assert.Equal(t, 1, root.Focused())

	root.SetItems(items("y", "z"))
	assert.Equal(t, "y", root.FocusedItem().ID)
}

func TestSuppressedWhileInputDisabled(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	configs := device.Builtin()
	poller := device.NewPoller(configs, configs[0], log)
	store := bindings.New(keymap.Bindings, bindings.WithLogger(log))
	require.NoError(t, store.Load(state.NewMock()))
	src := device.NewFake()
	m := input.New(input.DefaultConfig(), store, poller, src, log)

	root := &Screen{ID: "root", Items: items("a", "b")}
	st := NewStack(m, root)

	tick := func() {
		m.Update(16 * time.Millisecond)
		st.Update()
		src.EndTick()
	}

	src.Press(code.S)
	tick()
	src.Release(code.S)
	tick()
	assert.Equal(t, "b", root.FocusedItem().ID)

	m.SetEnabled(false)
	src.Press(code.W)
	tick()
	assert.Equal(t, "b", root.FocusedItem().ID)
}

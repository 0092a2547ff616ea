package termkeys

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/rebind/internal/code"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func keyMsg(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func newTestSource() (*Source, *clock) {
	c := &clock{t: time.Unix(0, 0)}
	return New(100*time.Millisecond, WithClock(c.now)), c
}

func TestKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want []code.KeyCode
	}{
		{"letter", runes("w"), []code.KeyCode{code.W}},
		{"uppercase adds shift", runes("W"), []code.KeyCode{code.LeftShift, code.W}},
		{"digit", runes("7"), []code.KeyCode{code.Alpha7}},
		{"punctuation", runes("/"), []code.KeyCode{code.Slash}},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, []code.KeyCode{code.Space}},
		{"enter", keyMsg(tea.KeyEnter), []code.KeyCode{code.Return}},
		{"escape", keyMsg(tea.KeyEsc), []code.KeyCode{code.Escape}},
		{"arrow", keyMsg(tea.KeyUp), []code.KeyCode{code.UpArrow}},
		{"shift arrow", keyMsg(tea.KeyShiftLeft), []code.KeyCode{code.LeftShift, code.LeftArrow}},
		{"function key", keyMsg(tea.KeyF5), []code.KeyCode{code.F5}},
		{"ctrl letter", keyMsg(tea.KeyCtrlA), []code.KeyCode{code.LeftControl, code.A}},
		{"alt letter", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true}, []code.KeyCode{code.LeftAlt, code.X}},
		{"unmapped rune", runes("é"), nil},
		{"alt unmapped rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("é"), Alt: true}, nil},
		{"paste", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc"), Paste: true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Keys(tt.msg))
		})
	}
}

func TestSource_PressAndHold(t *testing.T) {
	s, c := newTestSource()

	s.HandleKey(runes("s"))
	assert.Equal(t, []code.KeyCode{code.S}, s.PressedKeys())
	assert.True(t, s.KeyHeld(code.S))
	s.EndTick()
	assert.Empty(t, s.PressedKeys())

	// Auto-repeat inside the hold window keeps the key down without a new
	// press.
	c.advance(60 * time.Millisecond)
	s.HandleKey(runes("s"))
	assert.Empty(t, s.PressedKeys())
	s.EndTick()

	c.advance(60 * time.Millisecond)
	assert.True(t, s.KeyHeld(code.S))
	s.EndTick()

	c.advance(50 * time.Millisecond)
	assert.False(t, s.KeyHeld(code.S))
	s.EndTick()

	s.HandleKey(runes("s"))
	assert.Equal(t, []code.KeyCode{code.S}, s.PressedKeys(), "pressed again after the hold expired")
}

func TestSource_PressedSorted(t *testing.T) {
	s, _ := newTestSource()
	s.HandleKey(runes("z"))
	s.HandleKey(keyMsg(tea.KeyEnter))
	s.HandleKey(runes("a"))

	assert.Equal(t, []code.KeyCode{code.Return, code.A, code.Z}, s.PressedKeys())
}

func TestSource_Reset(t *testing.T) {
	s, _ := newTestSource()
	s.HandleKey(runes("q"))
	s.Reset()

	assert.False(t, s.KeyHeld(code.Q))
	assert.Empty(t, s.PressedKeys())
	assert.Empty(t, s.DeviceNames())
	assert.Zero(t, s.Axis("LeftStickX"))
}

func TestNew_DefaultHold(t *testing.T) {
	s := New(0)
	assert.Equal(t, DefaultHold, s.hold)
}

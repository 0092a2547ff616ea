// Package termkeys turns terminal key messages into a device.Source.
//
// Terminals report key presses and auto-repeats but never key releases,
// so a key counts as held until no message for it arrived for the hold
// duration. With a hold longer than the terminal's repeat interval, a key
// kept down reads as one continuous hold after the first auto-repeat.
package termkeys

import (
	"slices"
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/rebind/internal/code"
	"github.com/llehouerou/rebind/internal/device"
)

// DefaultHold is the hold duration used when none is configured.
const DefaultHold = 80 * time.Millisecond

// Source is a device.Source fed by tea.KeyMsg.
type Source struct {
	hold    time.Duration
	now     func() time.Time
	last    map[code.KeyCode]time.Time
	pressed []code.KeyCode
}

// Option configures a Source.
type Option func(*Source)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Source) { s.now = now }
}

// New creates a source. A non-positive hold uses DefaultHold.
func New(hold time.Duration, opts ...Option) *Source {
	if hold <= 0 {
		hold = DefaultHold
	}
	s := &Source{
		hold: hold,
		now:  time.Now,
		last: make(map[code.KeyCode]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleKey records a key message and returns the keys it maps to.
func (s *Source) HandleKey(msg tea.KeyMsg) []code.KeyCode {
	keys := Keys(msg)
	now := s.now()
	for _, k := range keys {
		if !s.KeyHeld(k) && !slices.Contains(s.pressed, k) {
			s.pressed = append(s.pressed, k)
		}
		s.last[k] = now
	}
	slices.Sort(s.pressed)
	return keys
}

// EndTick forgets the keys that went down this tick and releases the keys
// whose hold expired.
func (s *Source) EndTick() {
	s.pressed = s.pressed[:0]
	now := s.now()
	for k, t := range s.last {
		if now.Sub(t) >= s.hold {
			delete(s.last, k)
		}
	}
}

// Reset releases every key, for instance when the terminal loses focus.
func (s *Source) Reset() {
	s.pressed = s.pressed[:0]
	clear(s.last)
}

func (s *Source) DeviceNames() []string { return nil }

func (s *Source) KeyHeld(k code.KeyCode) bool {
	t, ok := s.last[k]
	return ok && s.now().Sub(t) < s.hold
}

func (s *Source) PressedKeys() []code.KeyCode { return slices.Clone(s.pressed) }

func (s *Source) Axis(string) float64 { return 0 }

var _ device.Source = (*Source)(nil)

var special = map[tea.KeyType][]code.KeyCode{
	tea.KeyEnter:      {code.Return},
	tea.KeyEsc:        {code.Escape},
	tea.KeyBackspace:  {code.Backspace},
	tea.KeyTab:        {code.Tab},
	tea.KeyShiftTab:   {code.LeftShift, code.Tab},
	tea.KeySpace:      {code.Space},
	tea.KeyDelete:     {code.Delete},
	tea.KeyInsert:     {code.Insert},
	tea.KeyHome:       {code.Home},
	tea.KeyEnd:        {code.End},
	tea.KeyPgUp:       {code.PageUp},
	tea.KeyPgDown:     {code.PageDown},
	tea.KeyUp:         {code.UpArrow},
	tea.KeyDown:       {code.DownArrow},
	tea.KeyLeft:       {code.LeftArrow},
	tea.KeyRight:      {code.RightArrow},
	tea.KeyShiftUp:    {code.LeftShift, code.UpArrow},
	tea.KeyShiftDown:  {code.LeftShift, code.DownArrow},
	tea.KeyShiftLeft:  {code.LeftShift, code.LeftArrow},
	tea.KeyShiftRight: {code.LeftShift, code.RightArrow},
	tea.KeyCtrlUp:     {code.LeftControl, code.UpArrow},
	tea.KeyCtrlDown:   {code.LeftControl, code.DownArrow},
	tea.KeyCtrlLeft:   {code.LeftControl, code.LeftArrow},
	tea.KeyCtrlRight:  {code.LeftControl, code.RightArrow},
	tea.KeyF1:         {code.F1},
	tea.KeyF2:         {code.F2},
	tea.KeyF3:         {code.F3},
	tea.KeyF4:         {code.F4},
	tea.KeyF5:         {code.F5},
	tea.KeyF6:         {code.F6},
	tea.KeyF7:         {code.F7},
	tea.KeyF8:         {code.F8},
	tea.KeyF9:         {code.F9},
	tea.KeyF10:        {code.F10},
	tea.KeyF11:        {code.F11},
	tea.KeyF12:        {code.F12},
}

var punctuation = map[rune]code.KeyCode{
	'\'': code.Quote,
	',':  code.Comma,
	'-':  code.Minus,
	'.':  code.Period,
	'/':  code.Slash,
	';':  code.Semicolon,
	'=':  code.Equals,
	'[':  code.LeftBracket,
	'\\': code.Backslash,
	']':  code.RightBracket,
	'`':  code.BackQuote,
}

// Keys maps a key message to raw key codes, modifiers first. Pastes and
// unmapped keys yield nothing.
func Keys(msg tea.KeyMsg) []code.KeyCode {
	if msg.Paste {
		return nil
	}
	var out []code.KeyCode
	if msg.Alt {
		out = append(out, code.LeftAlt)
	}

	if keys, ok := special[msg.Type]; ok {
		return append(out, keys...)
	}
	if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
		return append(out, code.LeftControl, code.A+code.KeyCode(msg.Type-tea.KeyCtrlA))
	}
	if msg.Type != tea.KeyRunes {
		return nil
	}

	for _, r := range msg.Runes {
		switch {
		case r >= 'a' && r <= 'z':
			out = append(out, code.A+code.KeyCode(r-'a'))
		case r >= 'A' && r <= 'Z':
			out = appendOnce(out, code.LeftShift)
			out = append(out, code.A+code.KeyCode(unicode.ToLower(r)-'a'))
		case r >= '0' && r <= '9':
			out = append(out, code.Alpha0+code.KeyCode(r-'0'))
		case r == ' ':
			out = append(out, code.Space)
		default:
			if k, ok := punctuation[r]; ok {
				out = append(out, k)
			}
		}
	}
	if len(out) == 0 || (len(out) == 1 && msg.Alt) {
		return nil
	}
	return out
}

func appendOnce(s []code.KeyCode, k code.KeyCode) []code.KeyCode {
	if slices.Contains(s, k) {
		return s
	}
	return append(s, k)
}

// Package menu implements a stack of screens navigated with the abstract
// menu actions.
package menu

import (
	"slices"

	"github.com/llehouerou/rebind/internal/input"
	"github.com/llehouerou/rebind/internal/keymap"
	"github.com/llehouerou/rebind/internal/observer"
)

// Input is the part of the input manager the menu reads.
type Input interface {
	Enabled() bool
	GetKeyDown(action keymap.Action, opts ...input.QueryOption) bool
}

// Item is a focusable entry of a screen.
type Item struct {
	ID    string
	Label func() string

	// Value, when set, is shown next to the label.
	Value func() string

	// Disabled items are skipped by focus navigation. nil means enabled.
	Disabled func() bool

	// Activate runs on Interact.
	Activate func()

	// Adjust runs on Left (-1) and Right (+1), for value items such as
	// volume sliders.
	Adjust func(delta int)
}

func (it *Item) enabled() bool {
	return it.Disabled == nil || !it.Disabled()
}

// Text returns the item label.
func (it *Item) Text() string {
	if it.Label == nil {
		return it.ID
	}
	return it.Label()
}

// ValueText returns the item value, or "".
func (it *Item) ValueText() string {
	if it.Value == nil {
		return ""
	}
	return it.Value()
}

// Enabled reports whether the item can take focus.
func (it *Item) Enabled() bool { return it.enabled() }

// Screen is one level of the stack.
type Screen struct {
	ID    string
	Title func() string
	Items []*Item

	// OnOpen runs when the screen is pushed, OnClose when it is popped.
	OnOpen  func()
	OnClose func()

	focus int
}

// Focused returns the index of the focused item, or -1.
func (s *Screen) Focused() int { return s.focus }

// FocusedItem returns the focused item, or nil.
func (s *Screen) FocusedItem() *Item {
	if s.focus < 0 || s.focus >= len(s.Items) {
		return nil
	}
	return s.Items[s.focus]
}

// SetItems replaces the items, keeping focus on the same ID when it still
// exists.
func (s *Screen) SetItems(items []*Item) {
	var id string
	if it := s.FocusedItem(); it != nil {
		id = it.ID
	}
	s.Items = items
	s.focus = -1
	for i, it := range items {
		if it.ID == id && it.enabled() {
			s.focus = i
			return
		}
	}
	s.focusFirst()
}

// Focus moves focus to the item with id if it is enabled.
func (s *Screen) Focus(id string) bool {
	for i, it := range s.Items {
		if it.ID == id && it.enabled() {
			s.focus = i
			return true
		}
	}
	return false
}

func (s *Screen) focusFirst() {
	s.focus = -1
	s.move(1)
}

// move steps focus by dir, wrapping around and skipping disabled items.
func (s *Screen) move(dir int) {
	n := len(s.Items)
	if n == 0 {
		s.focus = -1
		return
	}
	start := s.focus
	if start < 0 {
		if dir > 0 {
			start = n - 1
		} else {
			start = 0
		}
	}
	i := start
	for range n {
		i = (i + dir + n) % n
		if s.Items[i].enabled() {
			s.focus = i
			return
		}
	}
	if s.focus >= 0 && !s.Items[s.focus].enabled() {
		s.focus = -1
	}
}

// revalidate moves focus off an item that became disabled.
func (s *Screen) revalidate() {
	if it := s.FocusedItem(); it == nil || !it.enabled() {
		s.move(1)
	}
}

// EventKind identifies a stack change.
type EventKind int

const (
	Pushed EventKind = iota
	Popped
)

// Event reports a stack change.
type Event struct {
	Kind   EventKind
	Screen *Screen
}

// Stack is the menu stack. The bottom screen is the root and cannot be
// popped by the Pause action.
type Stack struct {
	in      Input
	screens []*Screen
	changed observer.List[Event]
}

// NewStack creates a stack with root as its only screen.
func NewStack(in Input, root *Screen) *Stack {
	st := &Stack{in: in}
	st.Push(root)
	return st
}

// Subscribe registers fn for pushes and pops.
func (st *Stack) Subscribe(fn func(Event)) (unsubscribe func()) {
	return st.changed.Subscribe(fn)
}

// Top returns the active screen.
func (st *Stack) Top() *Screen { return st.screens[len(st.screens)-1] }

// Screens returns the open screens, root first.
func (st *Stack) Screens() []*Screen { return slices.Clone(st.screens) }

// Depth returns the number of screens.
func (st *Stack) Depth() int { return len(st.screens) }

// Push opens s on top of the stack with focus on its first enabled item.
func (st *Stack) Push(s *Screen) {
	s.focusFirst()
	st.screens = append(st.screens, s)
	if s.OnOpen != nil {
		s.OnOpen()
	}
	st.changed.Notify(Event{Kind: Pushed, Screen: s})
}

// Pop closes the top screen. The root screen stays.
func (st *Stack) Pop() bool {
	if len(st.screens) <= 1 {
		return false
	}
	s := st.Top()
	st.screens = st.screens[:len(st.screens)-1]
	if s.OnClose != nil {
		s.OnClose()
	}
	st.changed.Notify(Event{Kind: Popped, Screen: s})
	return true
}

// Update handles one tick of menu input. Nothing happens while the input
// manager is disabled.
func (st *Stack) Update() {
	if !st.in.Enabled() {
		return
	}
	s := st.Top()
	s.revalidate()

	switch {
	case st.in.GetKeyDown(keymap.ActionPause):
		st.Pop()
	case st.in.GetKeyDown(keymap.ActionUp):
		s.move(-1)
	case st.in.GetKeyDown(keymap.ActionDown):
		s.move(1)
	case st.in.GetKeyDown(keymap.ActionLeft):
		if it := s.FocusedItem(); it != nil && it.Adjust != nil {
			it.Adjust(-1)
		}
	case st.in.GetKeyDown(keymap.ActionRight):
		if it := s.FocusedItem(); it != nil && it.Adjust != nil {
			it.Adjust(1)
		}
	case st.in.GetKeyDown(keymap.ActionInteract):
		if it := s.FocusedItem(); it != nil && it.Activate != nil {
			it.Activate()
		}
	}
}

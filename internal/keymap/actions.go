// Package keymap defines the abstract game actions and their default bindings.
package keymap

import "strconv"

// Action is an abstract game input, independent of the physical device.
// Values are persisted and must stay stable.
type Action int

const (
	ActionUp       Action = 1
	ActionLeft     Action = 2
	ActionDown     Action = 3
	ActionRight    Action = 4
	ActionInteract Action = 9
	ActionPause    Action = 10
)

var actionNames = []struct {
	action Action
	name   string
}{
	{ActionUp, "up"},
	{ActionLeft, "left"},
	{ActionDown, "down"},
	{ActionRight, "right"},
	{ActionInteract, "interact"},
	{ActionPause, "pause"},
}

// All returns every action in enumeration order.
func All() []Action {
	out := make([]Action, len(actionNames))
	for i, a := range actionNames {
		out[i] = a.action
	}
	return out
}

// Valid reports whether a is a defined action.
func (a Action) Valid() bool {
	for _, n := range actionNames {
		if n.action == a {
			return true
		}
	}
	return false
}

func (a Action) String() string {
	for _, n := range actionNames {
		if n.action == a {
			return n.name
		}
	}
	return "action(" + strconv.Itoa(int(a)) + ")"
}

// ParseAction resolves an action by its name.
func ParseAction(name string) (Action, bool) {
	for _, n := range actionNames {
		if n.name == name {
			return n.action, true
		}
	}
	return 0, false
}

// Movement lists the actions that form directional movement.
var Movement = []Action{ActionUp, ActionLeft, ActionDown, ActionRight}

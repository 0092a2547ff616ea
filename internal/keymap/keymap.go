package keymap

import "github.com/llehouerou/rebind/internal/code"

// Binding describes the default keys and controller inputs of an action.
type Binding struct {
	Action      Action
	Keys        []code.KeyCode
	Buttons     []code.ControllerCode
	Description string
	Context     string // "movement", "menu"
}

// Codes returns the binding's codes, keyboard keys first.
func (b Binding) Codes() []code.Code {
	out := make([]code.Code, 0, len(b.Keys)+len(b.Buttons))
	for _, k := range b.Keys {
		out = append(out, code.Key(k))
	}
	for _, c := range b.Buttons {
		out = append(out, code.Button(c))
	}
	return out
}

// Defaults is an ordered table of default bindings.
type Defaults []Binding

// Lookup returns the default binding of an action.
func (d Defaults) Lookup(a Action) (Binding, bool) {
	for _, b := range d {
		if b.Action == a {
			return b, true
		}
	}
	return Binding{}, false
}

// Override returns a copy of d where each binding present in o replaces
// the one of the same action. Actions only present in o are appended.
func (d Defaults) Override(o Defaults) Defaults {
	out := make(Defaults, len(d))
	copy(out, d)
	for _, b := range o {
		replaced := false
		for i := range out {
			if out[i].Action == b.Action {
				if b.Description == "" {
					b.Description = out[i].Description
				}
				if b.Context == "" {
					b.Context = out[i].Context
				}
				out[i] = b
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, b)
		}
	}
	return out
}

// Bindings contains the built-in default bindings.
var Bindings = Defaults{
	{ActionUp, []code.KeyCode{code.W, code.UpArrow}, []code.ControllerCode{code.DPadUp, code.LeftStickUp}, "Move up", "movement"},
	{ActionLeft, []code.KeyCode{code.A, code.LeftArrow}, []code.ControllerCode{code.DPadLeft, code.LeftStickLeft}, "Move left", "movement"},
	{ActionDown, []code.KeyCode{code.S, code.DownArrow}, []code.ControllerCode{code.DPadDown, code.LeftStickDown}, "Move down", "movement"},
	{ActionRight, []code.KeyCode{code.D, code.RightArrow}, []code.ControllerCode{code.DPadRight, code.LeftStickRight}, "Move right", "movement"},
	{ActionInteract, []code.KeyCode{code.E, code.Return}, []code.ControllerCode{code.FaceButtonDown}, "Interact", "menu"},
	{ActionPause, []code.KeyCode{code.Escape}, []code.ControllerCode{code.Select, code.Start}, "Pause", "menu"},
}

// ByContext returns the bindings of d whose context matches.
func (d Defaults) ByContext(context string) Defaults {
	var result Defaults
	for _, kb := range d {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// ByContext returns the built-in default bindings filtered by context.
func ByContext(context string) []Binding {
	return Bindings.ByContext(context)
}

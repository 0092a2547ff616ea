package keymap

import "github.com/llehouerou/rebind/internal/code"

// Resolver maps codes to actions.
type Resolver struct {
	bindings map[code.Code]Action   // code -> action
	byAction map[Action][]code.Code // action -> codes, in binding order
}

// NewResolver creates a resolver from an ordered action -> codes listing.
// When a code appears under several actions the first one wins.
func NewResolver(actions []Action, codes func(Action) []code.Code) *Resolver {
	r := &Resolver{
		bindings: make(map[code.Code]Action),
		byAction: make(map[Action][]code.Code),
	}
	for _, a := range actions {
		cs := dedupe(codes(a))
		r.byAction[a] = cs
		for _, c := range cs {
			if _, taken := r.bindings[c]; !taken {
				r.bindings[c] = a
			}
		}
	}
	return r
}

// Resolve returns the action bound to a code.
func (r *Resolver) Resolve(c code.Code) (Action, bool) {
	a, ok := r.bindings[c]
	return a, ok
}

// CodesFor returns the codes bound to an action.
func (r *Resolver) CodesFor(action Action) []code.Code {
	return r.byAction[action]
}

// dedupe removes duplicate codes from a slice, keeping first occurrences.
func dedupe(s []code.Code) []code.Code {
	seen := make(map[code.Code]bool)
	result := make([]code.Code, 0, len(s))
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}

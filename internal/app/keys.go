package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/llehouerou/rebind/internal/keymap"
)

// metaKeys are terminal-level keys handled before input reaches the
// input core. They cannot be rebound.
type metaKeys struct {
	Quit       key.Binding
	ToggleHelp key.Binding
}

func defaultMetaKeys() metaKeys {
	return metaKeys{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		ToggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	}
}

// helpKeys describes the current bindings of the menu actions for the
// help line. It is rebuilt on every render so that it follows rebinding
// and the primary input device.
type helpKeys struct {
	move, adjust, sel, back key.Binding
	meta                    metaKeys
}

func (h helpKeys) ShortHelp() []key.Binding {
	return []key.Binding{h.move, h.sel, h.back, h.meta.ToggleHelp}
}

func (h helpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.move, h.adjust},
		{h.sel, h.back},
		{h.meta.ToggleHelp, h.meta.Quit},
	}
}

func (m *Model) helpKeys() helpKeys {
	names := func(actions ...keymap.Action) string {
		var parts []string
		for _, a := range actions {
			for _, c := range m.in.Bindings(a) {
				parts = append(parts, m.glyphText(c))
			}
		}
		return strings.Join(parts, "/")
	}
	binding := func(help, desc string) key.Binding {
		// Display only: the keys themselves reach the input core.
		return key.NewBinding(key.WithKeys(help), key.WithHelp(help, desc))
	}

	meta := m.keys
	meta.Quit.SetHelp("ctrl+c", m.text("help_quit"))
	meta.ToggleHelp.SetHelp("?", m.text("help_help"))

	return helpKeys{
		move:   binding(names(keymap.ActionUp, keymap.ActionDown), m.text("help_move")),
		adjust: binding(names(keymap.ActionLeft, keymap.ActionRight), m.text("help_adjust")),
		sel:    binding(names(keymap.ActionInteract), m.text("help_select")),
		back:   binding(names(keymap.ActionPause), m.text("help_back")),
		meta:   meta,
	}
}

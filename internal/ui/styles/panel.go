package styles

import "github.com/charmbracelet/lipgloss"

// PanelStyle returns the border of a menu panel. Listening panels use the
// focus color.
func PanelStyle(listening bool) lipgloss.Style {
	t := T()
	border := t.Border
	if listening {
		border = t.BorderFocus
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 2)
}

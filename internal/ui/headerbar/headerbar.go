// Package headerbar renders the trail of open menu screens.
package headerbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/rebind/internal/ui/render"
	"github.com/llehouerou/rebind/internal/ui/styles"
)

// Height is the fixed height of the header bar (single line).
const Height = 1

const separator = " › "

// Render returns the header for the open screens, root first. The last
// title is the active screen. Leading titles are replaced by "…" until
// the trail fits in width.
func Render(titles []string, width int) string {
	if width < 20 || len(titles) == 0 {
		return ""
	}
	t := styles.T()
	active := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	inactive := lipgloss.NewStyle().Foreground(t.FgMuted)
	sep := lipgloss.NewStyle().Foreground(t.Border).Render(separator)

	last := len(titles) - 1
	for start := 0; start <= last; start++ {
		var parts []string
		if start > 0 {
			parts = append(parts, inactive.Render("…"))
		}
		for i := start; i < last; i++ {
			parts = append(parts, inactive.Render(render.Sanitize(titles[i])))
		}
		parts = append(parts, active.Render(render.Sanitize(titles[last])))

		content := strings.Join(parts, sep)
		if lipgloss.Width(content) <= width {
			return content
		}
	}
	return active.Render(render.Truncate(titles[last], width))
}

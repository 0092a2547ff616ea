// Package overlay draws a styled box on top of an already rendered view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Place draws box over base with its top-left corner at column x of line
// y. Cells of base outside the box are kept, styling included. Box lines
// that fall below the last line of base are dropped.
func Place(base, box string, x, y, width int) string {
	baseLines := strings.Split(base, "\n")
	for i, line := range strings.Split(box, "\n") {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		w := ansi.StringWidth(line)
		if w == 0 {
			continue
		}

		under := baseLines[row]
		if pad := width - ansi.StringWidth(under); pad > 0 {
			under += strings.Repeat(" ", pad)
		}
		out := ansi.Cut(under, 0, x) + line
		if end := x + w; end < width {
			out += ansi.Cut(under, end, width)
		}
		baseLines[row] = out
	}
	return strings.Join(baseLines, "\n")
}

// Center draws box in the middle of base.
func Center(base, box string, width int) string {
	height := strings.Count(base, "\n") + 1
	boxLines := strings.Split(box, "\n")
	boxWidth := 0
	for _, l := range boxLines {
		boxWidth = max(boxWidth, ansi.StringWidth(l))
	}
	x := max((width-boxWidth)/2, 0)
	y := max((height-len(boxLines))/2, 0)
	return Place(base, box, x, y, width)
}

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/rebind/internal/code"
	"github.com/llehouerou/rebind/internal/device"
	"github.com/llehouerou/rebind/internal/glyph"
	"github.com/llehouerou/rebind/internal/keymap"
	"github.com/llehouerou/rebind/internal/menu"
	"github.com/llehouerou/rebind/internal/rebind"
	"github.com/llehouerou/rebind/internal/ui/headerbar"
	"github.com/llehouerou/rebind/internal/ui/overlay"
	"github.com/llehouerou/rebind/internal/ui/render"
	"github.com/llehouerou/rebind/internal/ui/styles"
)

const (
	maxPanelWidth = 60
	labelWidth    = 22
	barWidth      = 10
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	t := styles.T()
	s := t.S()

	width := maxPanelWidth
	if m.width > 0 {
		width = min(m.width-2, maxPanelWidth)
	}
	inner := max(width-6, 10)

	top := m.stack.Top()
	listening := m.rb.Phase() != rebind.Idle

	var lines []string
	lines = append(lines, s.Title.Render(render.Truncate(top.Title(), inner)), "")
	for i, it := range top.Items {
		lines = append(lines, m.itemView(it, i == top.Focused(), inner))
	}

	panel := styles.PanelStyle(listening).Width(width).Render(strings.Join(lines, "\n"))
	if p := m.promptView(inner - 6); p != "" {
		panel = overlay.Center(panel, styles.PanelStyle(true).Render(p), lipgloss.Width(panel))
	}

	out := []string{styles.Gradient(m.text("title"), t.Primary, t.Secondary)}
	if h := headerbar.Render(m.trail(), width); h != "" && m.stack.Depth() > 1 {
		out = append(out, h)
	}
	out = append(out, panel)
	if m.notice != "" {
		out = append(out, s.Warning.Render(render.Truncate(m.notice, width)))
	}
	out = append(out, m.statusView(width), m.help.View(m.helpKeys()))
	return strings.Join(out, "\n")
}

// trail lists the titles of the open screens.
func (m *Model) trail() []string {
	var titles []string
	for _, s := range m.stack.Screens() {
		titles = append(titles, s.Title())
	}
	return titles
}

func (m *Model) itemView(it *menu.Item, focused bool, width int) string {
	s := styles.T().S()
	prefix := "  "
	if focused {
		prefix = "> "
	}
	label := prefix + it.Text()
	value := it.ValueText()

	var line string
	if value == "" {
		line = render.TruncateAndPad(label, width)
	} else {
		line = render.Row(render.TruncateAndPad(label, labelWidth), value, width)
	}
	switch {
	case !it.Enabled():
		return s.Disabled.Render(line)
	case focused:
		return s.Focused.Render(line)
	}
	return s.Base.Render(line)
}

// promptView is the rebinding prompt, or "" when idle.
func (m *Model) promptView(width int) string {
	if m.rb.Phase() == rebind.Idle {
		return ""
	}
	t := styles.T()
	s := t.S()

	prompt := m.textf("controls_press_key", m.actionLabel(m.rb.Action()))
	if m.rb.Invalid() {
		c := styles.Blend(t.FgBase, t.Error, m.rb.InvalidFraction())
		prompt = lipgloss.NewStyle().Foreground(c).Render(render.Truncate(m.text("controls_invalid"), width))
	} else {
		prompt = s.Title.Render(render.Truncate(prompt, width))
	}

	var cancel []string
	cfg := m.rb.Config()
	for _, k := range cfg.CancelKeys {
		cancel = append(cancel, m.glyphView(code.Key(k)))
	}
	for _, a := range cfg.CancelActions {
		cancel = append(cancel, m.bindingsView(a))
	}
	if len(cancel) == 0 {
		return prompt
	}
	hint := m.textf("controls_cancel_hint", strings.Join(cancel, " "))
	return prompt + "\n" + s.Muted.Render(hint)
}

func (m *Model) statusView(width int) string {
	s := styles.T().S()

	left := m.text("status_input_keyboard")
	if p := m.in.Poller(); p.PrimaryInputType() == device.InputController {
		left = m.text("status_input_controller")
		if c := p.PrimaryController(); c != nil {
			left += " · " + render.Sanitize(c.Name)
		}
	}
	if name := m.catalog.CurrentName(); name != "" {
		left += " · " + render.Sanitize(name)
	}

	saved := m.text("status_never_saved")
	if !m.lastChange.IsZero() {
		saved = m.textf("status_saved", humanize.Time(m.lastChange))
	}
	return s.Muted.Render(render.Row(left, saved, width))
}

// bindingsView renders the glyphs of every binding of action.
func (m *Model) bindingsView(action keymap.Action) string {
	var parts []string
	for _, c := range m.in.Bindings(action) {
		parts = append(parts, m.glyphView(c))
	}
	return strings.Join(parts, " ")
}

// glyphText is the plain name of c.
func (m *Model) glyphText(c code.Code) string {
	if l := glyph.Label(c); l != "" {
		return l
	}
	if sprite, ok := m.in.TryGetGlyph(c); ok {
		return spriteName(sprite)
	}
	return c.String()
}

// glyphView is the styled glyph of c: keys as keycaps, controller codes
// inside a frame following the shape of their sprite.
func (m *Model) glyphView(c code.Code) string {
	s := styles.T().S()
	if _, ok := c.KeyCode(); ok {
		return s.Key.Render(" " + m.glyphText(c) + " ")
	}

	sprite, _ := m.in.TryGetGlyph(c)
	text := m.glyphText(c)
	switch glyph.BackgroundFor(sprite) {
	case glyph.BackgroundRound:
		text = "(" + text + ")"
	case glyph.BackgroundDPad:
		text = "✚ " + text
	case glyph.BackgroundStick:
		text = "◎ " + text
	case glyph.BackgroundLeftTrigger, glyph.BackgroundRightTrigger:
		text = "⌈" + text + "⌉"
	default:
		text = "[" + text + "]"
	}
	return s.Button.Render(text)
}

// spriteName strips the controller prefix from a sprite name, for
// instance "xbox_button_a" becomes "button_a".
func spriteName(sprite string) string {
	if _, rest, ok := strings.Cut(sprite, "_"); ok && rest != "" {
		return rest
	}
	return sprite
}

func volumeBar(v int) string {
	filled := min(max(v*barWidth/100, 0), barWidth)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + " " + padLeft(v, 3) + "%"
}

func padLeft(v int, width int) string {
	s := humanize.Comma(int64(v))
	if n := width - len(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}

package app

import (
	"strconv"

	"github.com/llehouerou/rebind/internal/code"
	"github.com/llehouerou/rebind/internal/errmsg"
	"github.com/llehouerou/rebind/internal/keymap"
	"github.com/llehouerou/rebind/internal/menu"
	"github.com/llehouerou/rebind/internal/rebind"
	"github.com/llehouerou/rebind/internal/settings"
)

// Item IDs.
const (
	itemControls = "controls"
	itemSettings = "settings"
	itemLanguage = "language"
	itemQuit     = "quit"
	itemBack     = "back"
	itemReset    = "reset"
	itemAdd      = "add"

	itemVSync       = "vsync"
	itemDisplayMode = "display_mode"
	itemMusicVolume = "music_volume"
	itemSFXVolume   = "sfx_volume"
	itemMainVolume  = "main_volume"
	itemRumble      = "rumble"
)

const volumeStep = 10

type screens struct {
	main     *menu.Screen
	controls *menu.Screen
	binding  *menu.Screen
	settings *menu.Screen
	language *menu.Screen
}

func (m *Model) label(key string) func() string {
	return func() string { return m.text(key) }
}

func (m *Model) actionLabel(a keymap.Action) string {
	return m.text("action_" + a.String())
}

func actionItemID(a keymap.Action) string { return "action:" + a.String() }

func codeItemID(c code.Code) string { return "code:" + strconv.Itoa(c.Int()) }

func languageItemID(lang string) string { return "lang:" + lang }

func (m *Model) backItem() *menu.Item {
	return &menu.Item{
		ID:       itemBack,
		Label:    m.label("menu_back"),
		Activate: func() { m.stack.Pop() },
	}
}

func (m *Model) buildScreens() {
	m.screens.main = &menu.Screen{
		ID:    "main",
		Title: m.label("title"),
		Items: []*menu.Item{
			{
				ID:       itemControls,
				Label:    m.label("menu_controls"),
				Activate: func() { m.stack.Push(m.screens.controls) },
			},
			{
				ID:       itemSettings,
				Label:    m.label("menu_settings"),
				Activate: func() { m.stack.Push(m.screens.settings) },
			},
			{
				ID:       itemLanguage,
				Label:    m.label("menu_language"),
				Disabled: func() bool { return !m.catalog.Enabled() },
				Activate: func() { m.stack.Push(m.screens.language) },
			},
			{
				ID:       itemQuit,
				Label:    m.label("menu_quit"),
				Activate: func() { m.quitting = true },
			},
		},
	}

	m.screens.controls = &menu.Screen{
		ID:      "controls",
		Title:   m.label("menu_controls"),
		Items:   m.controlItems(),
		OnOpen:  func() { m.resetConfirm = false },
		OnClose: func() { m.resetConfirm = false },
	}

	m.screens.binding = &menu.Screen{
		ID:    "binding",
		Title: func() string { return m.actionLabel(m.action) },
		OnOpen: func() {
			m.notice = ""
			m.refreshBindingScreen()
		},
		OnClose: func() {
			m.rb.Cancel()
			m.notice = ""
		},
	}

	m.screens.settings = &menu.Screen{
		ID:    "settings",
		Title: m.label("menu_settings"),
		Items: m.settingsItems(),
	}

	m.screens.language = &menu.Screen{
		ID:     "language",
		Title:  m.label("menu_language"),
		Items:  m.languageItems(),
		OnOpen: func() { m.screens.language.Focus(languageItemID(m.currentLanguage())) },
	}
}

func (m *Model) controlItems() []*menu.Item {
	var items []*menu.Item
	for _, ac := range m.in.Actions() {
		if !ac.AllowRebinding {
			continue
		}
		action := ac.Action
		items = append(items, &menu.Item{
			ID:       actionItemID(action),
			Label:    func() string { return m.actionLabel(action) },
			Value:    func() string { return m.bindingsView(action) },
			Activate: func() { m.openBinding(action) },
		})
	}
	items = append(items,
		&menu.Item{
			ID: itemReset,
			Label: func() string {
				if m.resetConfirm {
					return m.text("controls_reset_confirm")
				}
				return m.text("controls_reset")
			},
			Disabled: func() bool { return !m.in.Store().Modified() },
			Activate: m.resetBindings,
		},
		m.backItem(),
	)
	return items
}

// resetBindings restores the defaults on the second press.
func (m *Model) resetBindings() {
	if !m.resetConfirm {
		m.resetConfirm = true
		return
	}
	m.resetConfirm = false
	m.in.Store().ResetAll()
	m.in.PlayRumble("confirm")
	m.screens.controls.Focus(m.screens.controls.Items[0].ID)
}

func (m *Model) openBinding(action keymap.Action) {
	m.action = action
	m.stack.Push(m.screens.binding)
}

func (m *Model) bindingItems() []*menu.Item {
	action := m.action
	items := []*menu.Item{{
		ID: itemAdd,
		Label: func() string {
			if m.rb.Phase() != rebind.Idle {
				return "…"
			}
			return m.text("controls_add")
		},
		Disabled: func() bool { return !m.rb.CanAdd(action) },
		Activate: m.beginRebind,
	}}

	for _, c := range m.in.Store().Bindings(action) {
		items = append(items, &menu.Item{
			ID:       codeItemID(c),
			Label:    m.label("controls_remove"),
			Value:    func() string { return m.glyphView(c) },
			Disabled: func() bool { return !m.in.Store().CanRemove(action, c) },
			Activate: func() { m.removeBinding(c) },
		})
	}
	return append(items, m.backItem())
}

// refreshBindingScreen rebuilds the binding screen after the bindings of
// its action changed.
func (m *Model) refreshBindingScreen() {
	if m.screens.binding == nil || !m.action.Valid() {
		return
	}
	m.screens.binding.SetItems(m.bindingItems())
}

func (m *Model) beginRebind() {
	if err := m.rb.Begin(m.action); err != nil {
		m.notice = errmsg.Format(errmsg.OpRebindStart, err)
		m.log.WithError(err).WithField("action", m.action.String()).Warn("rebinding refused")
		return
	}
	m.notice = ""
	m.in.PlayRumble("select")
}

// removeBinding removes c and moves focus to the entry above it.
func (m *Model) removeBinding(c code.Code) {
	s := m.screens.binding
	prev := itemAdd
	for i, it := range s.Items {
		if it.ID == codeItemID(c) && i > 0 {
			prev = s.Items[i-1].ID
			break
		}
	}
	if !m.in.Store().Remove(m.action, c) {
		m.notice = m.text("controls_remove_denied")
		m.in.PlayRumble("error")
		return
	}
	m.notice = ""
	m.refreshBindingScreen()
	if !s.Focus(prev) {
		s.Focus(itemAdd)
	}
}

func (m *Model) settingsItems() []*menu.Item {
	s := m.settings
	onOff := func(on bool) string {
		if on {
			return m.text("settings_on")
		}
		return m.text("settings_off")
	}
	toggleVSync := func() { s.SetVSync(!s.VSync()) }
	toggleDisplay := func() {
		if s.DisplayMode() == settings.Fullscreen {
			s.SetDisplayMode(settings.Windowed)
		} else {
			s.SetDisplayMode(settings.Fullscreen)
		}
	}
	volume := func(id string, get func() int, set func(int)) *menu.Item {
		return &menu.Item{
			ID:     id,
			Label:  m.label("settings_" + id),
			Value:  func() string { return volumeBar(get()) },
			Adjust: func(d int) { set(get() + d*volumeStep) },
		}
	}

	return []*menu.Item{
		{
			ID:       itemVSync,
			Label:    m.label("settings_vsync"),
			Value:    func() string { return onOff(s.VSync()) },
			Activate: toggleVSync,
			Adjust:   func(int) { toggleVSync() },
		},
		{
			ID:    itemDisplayMode,
			Label: m.label("settings_display_mode"),
			Value: func() string {
				return m.text("settings_" + s.DisplayMode().String())
			},
			Activate: toggleDisplay,
			Adjust:   func(int) { toggleDisplay() },
		},
		volume(itemMusicVolume, s.MusicVolume, s.SetMusicVolume),
		volume(itemSFXVolume, s.SFXVolume, s.SetSFXVolume),
		volume(itemMainVolume, s.MainVolume, s.SetMainVolume),
		{
			ID:    itemRumble,
			Label: m.label("settings_rumble"),
			Value: func() string {
				return strconv.Itoa(s.Rumble()) + "/" + strconv.Itoa(settings.MaxRumble)
			},
			Adjust: func(d int) {
				s.SetRumble(s.Rumble() + d)
				m.in.PlayRumble("select")
			},
		},
		m.backItem(),
	}
}

func (m *Model) languageItems() []*menu.Item {
	var items []*menu.Item
	for _, t := range m.catalog.Languages() {
		lang := t.Code
		name := t.Name
		items = append(items, &menu.Item{
			ID:    languageItemID(lang),
			Label: func() string { return name },
			Value: func() string {
				if m.currentLanguage() == lang {
					return "●"
				}
				return ""
			},
			Activate: func() { m.catalog.Load(lang) },
		})
	}
	return append(items, m.backItem())
}

func (m *Model) currentLanguage() string {
	if t := m.catalog.Current(); t != nil {
		return t.Code
	}
	return ""
}

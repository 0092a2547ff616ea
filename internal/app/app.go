// Package app is the terminal front end: a bubbletea model that ticks the
// input core and renders the menus.
package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/rebind/internal/input"
	"github.com/llehouerou/rebind/internal/keymap"
	"github.com/llehouerou/rebind/internal/l10n"
	"github.com/llehouerou/rebind/internal/menu"
	"github.com/llehouerou/rebind/internal/rebind"
	"github.com/llehouerou/rebind/internal/settings"
	"github.com/llehouerou/rebind/internal/termkeys"
	"github.com/llehouerou/rebind/internal/ui/render"
)

// maxStep caps the tick length after a stall, so that a long pause does
// not fire a burst of repeats.
const maxStep = 100 * time.Millisecond

// Deps are the components the front end drives.
type Deps struct {
	Input    *input.Manager
	Rebind   *rebind.Controller
	Catalog  *l10n.Catalog
	Settings *settings.Manager
	Source   *termkeys.Source
	Log      logrus.FieldLogger

	// Fallback provides the text while no language is loaded, for
	// instance with localization disabled. May be nil.
	Fallback *l10n.Translation

	// TickRate is the number of updates per second (default: 60).
	TickRate int
}

// Model is the root application model.
type Model struct {
	in       *input.Manager
	rb       *rebind.Controller
	catalog  *l10n.Catalog
	fallback *l10n.Translation
	settings *settings.Manager
	src      *termkeys.Source
	log      logrus.FieldLogger

	interval time.Duration
	lastTick time.Time

	stack   *menu.Stack
	screens screens

	// action is the action shown on the binding screen.
	action       keymap.Action
	resetConfirm bool
	notice       string
	lastChange   time.Time

	keys     metaKeys
	help     help.Model
	showHelp bool

	width, height int
	quitting      bool

	unsubscribe []func()
}

// New builds the model and its menus.
func New(d Deps) *Model {
	rate := d.TickRate
	if rate <= 0 {
		rate = 60
	}
	m := &Model{
		in:       d.Input,
		rb:       d.Rebind,
		catalog:  d.Catalog,
		fallback: d.Fallback,
		settings: d.Settings,
		src:      d.Source,
		log:      d.Log,
		interval: time.Second / time.Duration(rate),
		keys:     defaultMetaKeys(),
		help:     help.New(),
	}
	m.buildScreens()
	m.stack = menu.NewStack(m.in, m.screens.main)

	m.unsubscribe = append(m.unsubscribe,
		m.in.Store().Subscribe(m.onBindingsChanged),
		m.settings.Subscribe(func(string) { m.lastChange = time.Now() }),
		m.rb.Subscribe(m.onRebindEvent),
	)
	return m
}

// Close detaches the model from the components it subscribed to.
func (m *Model) Close() {
	for _, fn := range m.unsubscribe {
		fn()
	}
	m.unsubscribe = nil
}

// Stack returns the menu stack.
func (m *Model) Stack() *menu.Stack { return m.stack }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return TickCmd(m.interval)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.BlurMsg:
		m.src.Reset()
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.in.StopRumble()
		return m, tea.Quit
	case key.Matches(msg, m.keys.ToggleHelp) && m.rb.Phase() == rebind.Idle:
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	}
	m.src.HandleKey(msg)
	return m, nil
}

// Step advances the input core, the rebinding session and the menus by
// one tick of length dt.
func (m *Model) Step(dt time.Duration) {
	m.in.Update(dt)
	m.rb.Update(dt)
	m.stack.Update()
	m.afterStep()
	m.src.EndTick()
}

func (m *Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := m.interval
	if !m.lastTick.IsZero() {
		dt = min(max(now.Sub(m.lastTick), 0), maxStep)
	}
	m.lastTick = now

	m.Step(dt)
	if m.quitting {
		m.in.StopRumble()
		return m, tea.Quit
	}
	return m, TickCmd(m.interval)
}

// afterStep clears state that only lives while its item is focused.
func (m *Model) afterStep() {
	if !m.resetConfirm {
		return
	}
	top := m.stack.Top()
	if it := top.FocusedItem(); top != m.screens.controls || it == nil || it.ID != itemReset {
		m.resetConfirm = false
	}
}

func (m *Model) onBindingsChanged([]keymap.Action) {
	m.lastChange = time.Now()
	m.refreshBindingScreen()
}

func (m *Model) onRebindEvent(e rebind.Event) {
	switch e.Kind {
	case rebind.Bound:
		m.notice = ""
		m.in.PlayRumble("confirm")
	case rebind.Invalid:
		m.in.PlayRumble("error")
	case rebind.Finished, rebind.Cancelled:
		m.refreshBindingScreen()
	}
}

// Quitting reports whether the user asked to leave.
func (m *Model) Quitting() bool { return m.quitting }

func (m *Model) text(key string) string {
	if m.catalog.Current() == nil && m.fallback != nil {
		return render.Sanitize(m.fallback.Get(key))
	}
	return render.Sanitize(m.catalog.Get(key))
}

func (m *Model) textf(key string, args ...any) string {
	return fmt.Sprintf(m.text(key), args...)
}

package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/rebind/internal/app"
	"github.com/llehouerou/rebind/internal/bindings"
	"github.com/llehouerou/rebind/internal/config"
	"github.com/llehouerou/rebind/internal/device"
	"github.com/llehouerou/rebind/internal/errmsg"
	"github.com/llehouerou/rebind/internal/glyph"
	"github.com/llehouerou/rebind/internal/input"
	"github.com/llehouerou/rebind/internal/l10n"
	"github.com/llehouerou/rebind/internal/logging"
	"github.com/llehouerou/rebind/internal/rebind"
	"github.com/llehouerou/rebind/internal/settings"
	"github.com/llehouerou/rebind/internal/state"
	"github.com/llehouerou/rebind/internal/termkeys"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}

	lc := cfg.GetLogConfig()
	log, logFile, err := logging.New(lc.Level, lc.File)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer logFile.Close()

	sc := cfg.GetStateConfig()
	opts := []state.Option{
		state.WithDebounce(sc.SaveDelay),
		state.WithErrorHandler(func(err error) {
			log.WithError(err).Error("state write failed")
		}),
	}
	var stateMgr *state.Manager
	if sc.Path != "" {
		stateMgr, err = state.OpenPath(sc.Path, opts...)
	} else {
		stateMgr, err = state.Open(opts...)
	}
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpStateOpen, err))
	}
	defer func() {
		if err := stateMgr.Close(); err != nil {
			log.WithError(err).Error("close state")
		}
	}()

	m, err := build(cfg, stateMgr, log)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	return nil
}

// build wires the input core and the menus. Configuration mistakes are
// logged and the affected entries skipped.
func build(cfg *config.Config, persist *state.Manager, log *logrus.Logger) (*app.Model, error) {
	warn := func(section string, err error) {
		if err != nil {
			log.WithError(err).WithField("section", section).Warn("invalid configuration entries skipped")
		}
	}

	sm, err := settings.Load(persist, log)
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpSettingsLoad, err))
	}

	configs, fallback, err := cfg.ControllerSet()
	warn("controllers", err)
	poller := device.NewPoller(configs, fallback, log)

	defaults, err := cfg.DefaultBindings()
	warn("input.bindings", err)
	movement, err := cfg.MovementActions()
	warn("input.movement_actions", err)
	store := bindings.New(defaults,
		bindings.WithCanonicalizer(poller),
		bindings.WithLogger(log),
		bindings.WithMovement(movement),
	)
	if err := store.Load(persist); err != nil {
		log.WithError(err).Error(errmsg.Format(errmsg.OpBindingsLoad, err))
	}

	glyphMap, err := cfg.KeyboardGlyphMap()
	warn("keyboard_glyphs", err)
	inputCfg, err := cfg.InputSettings()
	warn("input", err)
	rebindCfg, err := cfg.RebindSettings()
	warn("rebind", err)

	ui := cfg.GetUIConfig()
	src := termkeys.New(ui.KeyHold)
	rumble := device.NewRumble(device.LogRumbler{Log: log}, cfg.RumbleProfiles(), sm.RumbleScale, log)
	in := input.New(inputCfg, store, poller, src, log,
		input.WithGlyphs(glyph.New(glyphMap, poller)),
		input.WithRumble(rumble),
	)
	rb := rebind.New(rebindCfg, in, log)

	lc := cfg.GetLocalizationConfig()
	langs, err := l10n.Discover(lc.Dir)
	if err != nil {
		log.WithError(err).Warn(errmsg.Format(errmsg.OpLanguageIndex, err))
	}
	catalog := l10n.NewCatalog(cfg.LocalizationEnabled(), langs, sm, log)
	language := lc.Language
	if sm.LanguageSet() {
		language = sm.Language()
	}
	if !catalog.Restore(language) {
		catalog.Restore(lc.Language)
	}

	builtin, err := l10n.Builtin()
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpLanguageLoad, err))
	}

	return app.New(app.Deps{
		Input:    in,
		Rebind:   rb,
		Catalog:  catalog,
		Settings: sm,
		Source:   src,
		Log:      log,
		Fallback: builtin[0],
		TickRate: ui.TickRate,
	}), nil
}

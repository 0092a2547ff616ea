package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llehouerou/rebind/internal/bindings"
	"github.com/llehouerou/rebind/internal/code"
	"github.com/llehouerou/rebind/internal/config"
	"github.com/llehouerou/rebind/internal/device"
	"github.com/llehouerou/rebind/internal/errmsg"
	"github.com/llehouerou/rebind/internal/input"
	"github.com/llehouerou/rebind/internal/keymap"
	"github.com/llehouerou/rebind/internal/logging"
	"github.com/llehouerou/rebind/internal/rebind"
	"github.com/llehouerou/rebind/internal/settings"
	"github.com/llehouerou/rebind/internal/state"
)

// opener opens the state store at path; "" means the default location.
type opener func(path string) (state.Interface, error)

type cli struct {
	open       opener
	out        io.Writer
	configPath string
	dbPath     string
}

func newRootCmd(open opener, out io.Writer) *cobra.Command {
	c := &cli{open: open, out: out}
	root := &cobra.Command{
		Use:   "bindctl",
		Short: "Inspect and edit persisted key bindings",
		Long: `bindctl reads and writes the bindings and settings stored by the rebind menus.

Codes are key names (W, UpArrow, Return), controller names (DPadUp,
FaceButtonDown) or their signed numeric value.

Examples:
  bindctl dump                     # List bindings per action
  bindctl dump --json              # Print the stored JSON
  bindctl dump --context menu      # List the menu actions only
  bindctl add interact Space       # Bind Space to Interact
  bindctl remove up W              # Unbind W from Up
  bindctl reset                    # Restore the defaults
  bindctl settings                 # List settings`,
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Config file (default: standard locations)")
	root.PersistentFlags().StringVar(&c.dbPath, "db", "", "State database (default: from config)")

	root.AddCommand(c.dumpCmd(), c.addCmd(), c.removeCmd(), c.resetCmd(), c.settingsCmd())
	return root
}

// session is an open binding store backed by the state database.
type session struct {
	cfg         *config.Config
	input       input.Config
	rebind      rebind.Config
	controllers []*device.ControllerConfig
	defaults    keymap.Defaults
	store       *bindings.Store
	persist     state.Interface
}

func (c *cli) session() (*session, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFrom(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}

	path := c.dbPath
	if path == "" {
		path = cfg.GetStateConfig().Path
	}
	persist, err := c.open(path)
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpStateOpen, err))
	}

	// Configuration problems are reported by the menus; the CLI applies
	// whatever resolved.
	log := logging.Discard()
	configs, fallback, _ := cfg.ControllerSet()
	defaults, _ := cfg.DefaultBindings()
	inputCfg, _ := cfg.InputSettings()
	rebindCfg, _ := cfg.RebindSettings()

	store := bindings.New(defaults,
		bindings.WithCanonicalizer(device.NewPoller(configs, fallback, log)),
		bindings.WithLogger(log),
	)
	if err := store.Load(persist); err != nil {
		persist.Close()
		return nil, errors.New(errmsg.Format(errmsg.OpBindingsLoad, err))
	}
	return &session{
		cfg:         cfg,
		input:       inputCfg,
		rebind:      rebindCfg,
		controllers: configs,
		defaults:    defaults,
		store:       store,
		persist:     persist,
	}, nil
}

func (s *session) close() error {
	return s.persist.Close()
}

func (c *cli) dumpCmd() *cobra.Command {
	var (
		asJSON  bool
		context string
	)
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "List the bindings of every action",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session()
			if err != nil {
				return err
			}
			defer s.close()

			if asJSON {
				data, err := s.store.Encode()
				if err != nil {
					return err
				}
				fmt.Fprintln(c.out, data)
				return nil
			}
			var only keymap.Defaults
			if context != "" {
				if only = s.defaults.ByContext(context); len(only) == 0 {
					return fmt.Errorf("no actions in context %q", context)
				}
			}
			for _, e := range s.store.All() {
				if only != nil {
					if _, ok := only.Lookup(e.Action); !ok {
						continue
					}
				}
				names := make([]string, len(e.Codes))
				for i, cd := range e.Codes {
					names[i] = cd.String()
				}
				fmt.Fprintf(c.out, "%-10s %s\n", e.Action, strings.Join(names, ", "))
			}
			if !s.store.Modified() {
				fmt.Fprintln(c.out, "(defaults)")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stored JSON")
	cmd.Flags().StringVar(&context, "context", "", "Only list actions of a context (movement, menu)")
	return cmd
}

func parseBinding(args []string) (keymap.Action, code.Code, error) {
	action, ok := keymap.ParseAction(strings.ToLower(args[0]))
	if !ok {
		return 0, code.Code{}, fmt.Errorf("unknown action %q", args[0])
	}
	cd, ok := code.Parse(args[1])
	if !ok {
		return 0, code.Code{}, fmt.Errorf("unknown code %q", args[1])
	}
	return action, cd, nil
}

// normalize applies the key aliases, rejects disabled keys and folds raw
// joystick buttons onto the controller code they are mapped to, as the
// rebinding screen does.
func (s *session) normalize(cd code.Code) (code.Code, error) {
	k, ok := cd.KeyCode()
	if !ok {
		return cd, nil
	}
	if alias, ok := s.input.KeyAliases[k]; ok {
		k = alias
	}
	if slices.Contains(s.input.DisabledKeys, k) {
		return code.Code{}, fmt.Errorf("%s cannot be bound", k)
	}
	if !k.IsJoystick() {
		return code.Key(k), nil
	}
	for _, cc := range s.controllers {
		if button, ok := cc.CodeForKey(k); ok {
			return code.Button(button), nil
		}
	}
	return code.Code{}, fmt.Errorf("%s is not mapped by any controller", k)
}

func (c *cli) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <action> <code>",
		Short: "Bind a code to an action",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, cd, err := parseBinding(args)
			if err != nil {
				return err
			}
			s, err := c.session()
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.rebind.Check(action, s.input.Actions, len(s.store.Bindings(action))); err != nil {
				return errors.New(errmsg.Format(errmsg.OpBindingAdd, fmt.Errorf("%s: %w", action, err)))
			}
			if cd, err = s.normalize(cd); err != nil {
				return errors.New(errmsg.Format(errmsg.OpBindingAdd, err))
			}
			if other, taken := s.store.ActionFor(cd); taken {
				return errors.New(errmsg.Format(errmsg.OpBindingAdd,
					fmt.Errorf("%s is already bound to %s", cd, other)))
			}
			s.store.Add(action, cd)
			fmt.Fprintf(c.out, "%s bound to %s\n", cd, action)
			return nil
		},
	}
}

func (c *cli) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <action> <code>",
		Short: "Unbind a code from an action",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, cd, err := parseBinding(args)
			if err != nil {
				return err
			}
			s, err := c.session()
			if err != nil {
				return err
			}
			defer s.close()

			if !s.store.Remove(action, cd) {
				return errors.New(errmsg.Format(errmsg.OpBindingRemove,
					fmt.Errorf("%s is not bound to %s or is its last %s binding", cd, action, cd.Family())))
			}
			fmt.Fprintf(c.out, "%s unbound from %s\n", cd, action)
			return nil
		},
	}
}

func (c *cli) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default bindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session()
			if err != nil {
				return err
			}
			defer s.close()

			s.store.ResetAll()
			fmt.Fprintln(c.out, "bindings reset to defaults")
			return nil
		},
	}
}

func (c *cli) settingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "List the stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session()
			if err != nil {
				return err
			}
			defer s.close()

			sm, err := settings.Load(s.persist, logging.Discard())
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpSettingsLoad, err))
			}
			for _, key := range settings.IntKeys() {
				fmt.Fprintf(c.out, "%-12s %d\n", key, sm.GetInt(key))
			}
			for _, key := range settings.StringKeys() {
				fmt.Fprintf(c.out, "%-12s %q\n", key, sm.GetString(key))
			}
			return nil
		},
	}
}

// Package cli is the todo command line: the HTTP and MCP servers plus
// direct access to the collection.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/mcpserver"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/todos"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// usageError marks bad invocations: wrong arguments, unknown commands,
// invalid flags or configuration.
type usageError struct {
	err  error
	line string
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usage(cmd *cobra.Command, err error) error {
	return &usageError{err: err, line: cmd.UseLine()}
}

// usageArgs tags positional-argument errors as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usage(cmd, err)
		}
		return nil
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return ExitOK
	}
	return report(stderr, err)
}

// report prints err and picks the exit code for it.
func report(w io.Writer, err error) int {
	var ue *usageError
	switch {
	case errors.As(err, &ue):
		ui.Fail(w, ue.Error())
		fmt.Fprintln(w, "usage: "+ue.line)
		return ExitUsage
	case errors.Is(err, todos.ErrValidation), errors.Is(err, todos.ErrDuplicate), errors.Is(err, todos.ErrNotFound):
		ui.Fail(w, todos.Message(err))
		return ExitUsage
	case errors.Is(err, todos.ErrUnexpected):
		res := todos.Failure(err)
		ui.Fail(w, res.Message+": "+res.Error)
		return ExitFailure
	default:
		ui.Fail(w, err.Error())
		return ExitFailure
	}
}

// app carries what the subcommands share once the root flags are parsed.
type app struct {
	stdout, stderr io.Writer

	configPath string
	theme      string
	overrides  config.Config

	cfg    config.Config
	logger *log.Logger
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "todo",
		Short: "A tiny todo service",
		Long: `todo keeps a list of {id, todo} entries in a JSON file and serves it
over HTTP, over MCP, or straight from the terminal.

Running todo without a subcommand starts the HTTP server.`,
		Version:           mcpserver.Version,
		Args:              usageArgs(cobra.NoArgs),
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runServe,
	}
	root.SetFlagErrorFunc(usage)

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "config file (default tada.toml, tada.yaml or tada.yml in the working directory)")
	f.StringVar(&a.overrides.Server.Addr, "addr", config.DefaultAddr, "HTTP listen address")
	f.StringVar(&a.overrides.Storage.Driver, "storage-driver", config.DriverJSON, "storage driver: json, sqlite or memory")
	f.StringVar(&a.overrides.Storage.Path, "storage-path", "", "data file (default todos.json, or todos.db for sqlite)")
	f.BoolVar(&a.overrides.Storage.DurableWrites, "durable-writes", false, "write through a temp file and rename it into place")
	f.BoolVar(&a.overrides.Storage.SerializeWrites, "serialize-writes", false, "serialize load-modify-save cycles within the process")
	f.StringVar(&a.overrides.Log.Level, "log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
	f.StringVar(&a.overrides.Log.Format, "log-format", config.DefaultLogFormat, "log format: text, json or logfmt")
	f.StringVar(&a.theme, "theme", "classic", "color theme: "+strings.Join(ui.ThemeNames, ", "))

	root.AddCommand(
		a.serveCmd(),
		a.mcpCmd(),
		a.lsCmd(),
		a.addCmd(),
		a.editCmd(),
		a.rmCmd(),
		a.browseCmd(),
	)
	return root
}

// setup resolves the configuration (defaults, file, env, then the flags
// that were set explicitly) and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := ui.SetTheme(a.theme); err != nil {
		return usage(cmd, err)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return usage(cmd, err)
	}

	f := cmd.Flags()
	if f.Changed("addr") {
		cfg.Server.Addr = a.overrides.Server.Addr
	}
	if f.Changed("storage-driver") {
		cfg.Storage.Driver = a.overrides.Storage.Driver
	}
	if f.Changed("storage-path") {
		cfg.Storage.Path = a.overrides.Storage.Path
	}
	if f.Changed("durable-writes") {
		cfg.Storage.DurableWrites = a.overrides.Storage.DurableWrites
	}
	if f.Changed("serialize-writes") {
		cfg.Storage.SerializeWrites = a.overrides.Storage.SerializeWrites
	}
	if f.Changed("log-level") {
		cfg.Log.Level = a.overrides.Log.Level
	}
	if f.Changed("log-format") {
		cfg.Log.Format = a.overrides.Log.Format
	}
	if err := cfg.Validate(); err != nil {
		return usage(cmd, err)
	}

	a.cfg = cfg
	a.logger = logging.New(a.stderr, cfg.Log.Level, cfg.Log.Format)
	return nil
}

// openService opens the configured store and wraps it in the service. The
// returned close func must be called when done.
func (a *app) openService() (*todos.Service, func() error, error) {
	st, closeStore, err := store.Open(a.cfg.Storage, a.logger)
	if err != nil {
		return nil, closeStore, fmt.Errorf("open storage: %w", err)
	}
	svc := todos.NewService(st,
		todos.WithLogger(a.logger),
		todos.WithSerializedWrites(a.cfg.Storage.SerializeWrites),
	)
	return svc, closeStore, nil
}

// Package cli parses the command line and dispatches to registered commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"pomo/internal/commands"
	"pomo/internal/config"
	"pomo/internal/exitcode"
	"pomo/internal/logfields"
	"pomo/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch. If the returned Service is an
// io.Closer it is closed after the command finishes.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A positional arg starting with - should have been parsed as a flag
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	setupLogging(errOut, debug)

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	var svc service.Service
	if cmd.NeedsStore() {
		if err := cfg.Load(); err != nil {
			fmt.Fprintf(errOut, "error: config error: %s\n", err)
			return exitcode.ConfigError
		}
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: store error: no backend configured")
			return exitcode.StoreError
		}
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: store error: %s\n", err)
			return exitcode.StoreError
		}
		if c, ok := svc.(io.Closer); ok {
			defer func() {
				if err := c.Close(); err != nil {
					slog.Warn("Failed to close store", logfields.Error(err))
				}
			}()
		}
	}

	slog.Debug("Dispatching command", slog.String("command", cmd.Name()), logfields.Path(cfg.Dir))
	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	if errors.Is(err, flag.ErrHelp) {
		return "unknown flag: -help (run: pomo help)"
	}
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "flag needs an argument: "):
		return msg
	case strings.HasPrefix(msg, "flag provided but not defined: "):
		return "unknown flag: " + strings.TrimPrefix(msg, "flag provided but not defined: ")
	}
	return msg
}

// setupLogging installs a text handler on errOut: warnings by default,
// everything with --debug.
func setupLogging(errOut io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level})))
}

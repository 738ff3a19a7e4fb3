package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"pomo/internal/config"
	"pomo/internal/exitcode"
	"pomo/internal/service"
)

func init() {
	Register(&ThemeCmd{})
}

// ThemeCmd implements the theme command.
type ThemeCmd struct{}

func (c *ThemeCmd) Name() string      { return "theme" }
func (c *ThemeCmd) Aliases() []string { return nil }
func (c *ThemeCmd) Synopsis() string  { return "Show or set the focus screen theme" }
func (c *ThemeCmd) Usage() string     { return "pomo theme [light|dark|toggle]" }
func (c *ThemeCmd) NeedsStore() bool  { return true }

func (c *ThemeCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ThemeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}

	if len(args) == 0 {
		current, err := svc.Theme(ctx)
		if err != nil {
			return reportError(errOut, err)
		}
		fmt.Fprintln(out, current)
		return exitcode.Success
	}

	var next service.Theme
	if args[0] == "toggle" {
		t, err := svc.ToggleTheme(ctx)
		if err != nil {
			return reportError(errOut, err)
		}
		next = t
	} else {
		t, valid := service.ParseTheme(args[0])
		if !valid {
			fmt.Fprintf(errOut, "error: unknown theme: %s\n", args[0])
			return exitcode.UserError
		}
		if err := svc.SetTheme(ctx, t); err != nil {
			return reportError(errOut, err)
		}
		next = t
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, next)
	}
	return exitcode.Success
}

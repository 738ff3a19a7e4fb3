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
	Register(&ClearCmd{})
}

// ClearCmd implements the clear command. Deleting sessions cannot be undone,
// so a non-empty history needs --force.
type ClearCmd struct {
	force bool
}

// SetForce sets the force flag (for testing).
func (c *ClearCmd) SetForce(force bool) {
	c.force = force
}

func (c *ClearCmd) Name() string      { return "clear" }
func (c *ClearCmd) Aliases() []string { return nil }
func (c *ClearCmd) Synopsis() string  { return "Delete all session records" }
func (c *ClearCmd) Usage() string     { return "pomo clear [--force]" }
func (c *ClearCmd) NeedsStore() bool  { return true }

func (c *ClearCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *ClearCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	if !c.force {
		sessions, err := svc.Sessions(ctx)
		if err != nil {
			return reportError(errOut, err)
		}
		if len(sessions) > 0 {
			fmt.Fprintf(errOut, "error: %d session records would be deleted (use --force)\n", len(sessions))
			return exitcode.UserError
		}
	}

	if _, err := svc.ClearSessions(ctx); err != nil {
		return reportError(errOut, err)
	}
	return ok(out, cfg.Quiet)
}

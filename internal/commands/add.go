package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"pomo/internal/config"
	"pomo/internal/exitcode"
	"pomo/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	target int
}

// SetTarget sets the target pomodoro count (for testing).
func (c *AddCmd) SetTarget(n int) {
	c.target = n
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "pomo add [--target <n>] <title...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.target, "target", service.MinTargetPomodoros, "")
	fs.IntVar(&c.target, "t", service.MinTargetPomodoros, "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	target := c.target
	if target == 0 {
		target = service.MinTargetPomodoros
	}
	if target < service.MinTargetPomodoros || target > service.MaxTargetPomodoros {
		fmt.Fprintf(errOut, "error: target must be between %d and %d: %d\n",
			service.MinTargetPomodoros, service.MaxTargetPomodoros, target)
		return exitcode.UserError
	}

	if _, err := svc.AddTask(ctx, title, target); err != nil {
		return reportError(errOut, err)
	}
	return ok(out, cfg.Quiet)
}

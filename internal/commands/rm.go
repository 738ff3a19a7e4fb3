package commands

import (
	"context"
	"flag"
	"io"

	"pomo/internal/config"
	"pomo/internal/exitcode"
	"pomo/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command. Session records of the task are kept.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return nil }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "pomo rm <n>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	task, code := resolveTask(ctx, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := svc.DeleteTask(ctx, task.ID); err != nil {
		return reportError(errOut, err)
	}
	return ok(out, cfg.Quiet)
}

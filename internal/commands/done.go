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
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. Running it on a done task reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task done/undone" }
func (c *DoneCmd) Usage() string     { return "pomo done <n>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	task, code := resolveTask(ctx, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if _, err := svc.ToggleTask(ctx, task.ID); err != nil {
		return reportError(errOut, err)
	}
	return ok(out, cfg.Quiet)
}

package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"pomo/internal/config"
	"pomo/internal/exitcode"
	"pomo/internal/output"
	"pomo/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `pomo` (no args) and `pomo list`.
type ListCmd struct {
	all bool
}

// SetAll sets the --all flag (for testing).
func (c *ListCmd) SetAll(all bool) {
	c.all = all
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List open tasks (all with --all)" }
func (c *ListCmd) Usage() string     { return "pomo list [--all]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.all, "all", false, "")
	fs.BoolVar(&c.all, "a", false, "")
}

// Run prints tasks numbered by their position in the full list, so numbers
// stay valid for done/rm/focus whether or not done tasks are shown.
func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	shown := 0
	for i, task := range tasks {
		if task.Done && !c.all {
			continue
		}
		output.FormatTask(out, i+1, task)
		shown++
	}

	if shown == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}

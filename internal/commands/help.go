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
	Register(&HelpCmd{registry: DefaultRegistry})
}

// HelpCmd implements the help command. Usage lines come from the registry.
type HelpCmd struct {
	registry *Registry
}

// NewHelpCmd creates a help command listing the commands of r.
func NewHelpCmd(r *Registry) *HelpCmd {
	return &HelpCmd{registry: r}
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "pomo help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	cmds := c.registry.All()

	width := len("pomo")
	for _, cmd := range cmds {
		width = max(width, len(cmd.Usage()))
	}

	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %-*s  %s\n", width, "pomo", "List open tasks (same as pomo list)")
	for _, cmd := range cmds {
		line := cmd.Synopsis()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			line += " (alias: " + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(out, "  %-*s  %s\n", width, cmd.Usage(), line)
	}
	fmt.Fprint(out, commonFlagsText)
	return exitcode.Success
}

const commonFlagsText = `
Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`

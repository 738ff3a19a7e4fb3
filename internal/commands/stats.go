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
	Register(&StatsCmd{})
}

// StatsCmd implements the stats command.
type StatsCmd struct {
	heatmap bool
}

// SetHeatmap sets the --heatmap flag (for testing).
func (c *StatsCmd) SetHeatmap(on bool) {
	c.heatmap = on
}

func (c *StatsCmd) Name() string      { return "stats" }
func (c *StatsCmd) Aliases() []string { return nil }
func (c *StatsCmd) Synopsis() string  { return "Show focus statistics" }
func (c *StatsCmd) Usage() string     { return "pomo stats [--heatmap]" }
func (c *StatsCmd) NeedsStore() bool  { return true }

func (c *StatsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.heatmap, "heatmap", false, "")
}

func (c *StatsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	st, err := svc.Stats(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	output.FormatStats(out, st)
	if c.heatmap {
		fmt.Fprintln(out)
		output.FormatHeatmap(out, st.Heatmap)
	}
	return exitcode.Success
}

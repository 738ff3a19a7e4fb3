package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"pomo/internal/config"
	"pomo/internal/exitcode"
	"pomo/internal/logfields"
	"pomo/internal/metrics"
	"pomo/internal/output"
	"pomo/internal/service"
	"pomo/internal/timer"
	"pomo/internal/tui"
)

func init() {
	Register(&FocusCmd{})
}

// FocusCmd implements the focus command: the interactive focus screen, or a
// single headless focus phase printed as status lines.
type FocusCmd struct {
	taskNum     int
	skip        bool
	headless    bool
	metricsFile string

	scheduler timer.Scheduler
}

// SetTaskNumber sets the --task flag (for testing).
func (c *FocusCmd) SetTaskNumber(n int) { c.taskNum = n }

// SetSkip sets the --skip flag (for testing).
func (c *FocusCmd) SetSkip(skip bool) { c.skip = skip }

// SetHeadless sets the --headless flag (for testing).
func (c *FocusCmd) SetHeadless(headless bool) { c.headless = headless }

// SetMetricsFile sets the --metrics-file flag (for testing).
func (c *FocusCmd) SetMetricsFile(path string) { c.metricsFile = path }

// SetScheduler replaces the gocron tick scheduler (for testing).
func (c *FocusCmd) SetScheduler(s timer.Scheduler) { c.scheduler = s }

func (c *FocusCmd) Name() string      { return "focus" }
func (c *FocusCmd) Aliases() []string { return []string{"start"} }
func (c *FocusCmd) Synopsis() string  { return "Run the focus timer" }
func (c *FocusCmd) Usage() string {
	return "pomo focus [--task <n> | --skip] [--headless] [--metrics-file <path>]"
}
func (c *FocusCmd) NeedsStore() bool { return true }

func (c *FocusCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.taskNum, "task", 0, "")
	fs.BoolVar(&c.skip, "skip", false, "")
	fs.BoolVar(&c.headless, "headless", false, "")
	fs.StringVar(&c.metricsFile, "metrics-file", "", "")
}

func (c *FocusCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if c.taskNum != 0 && c.skip {
		fmt.Fprintln(errOut, "error: cannot use both --task and --skip")
		return exitcode.UserError
	}

	var task service.Task
	if c.taskNum != 0 {
		var code int
		if task, code = taskByNumber(ctx, svc, c.taskNum, errOut); code != exitcode.Success {
			return code
		}
	}

	sched := c.scheduler
	if sched == nil {
		g, err := timer.NewGocronScheduler()
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		defer func() {
			if err := g.Shutdown(); err != nil {
				slog.Warn("Failed to stop scheduler", logfields.Error(err))
			}
		}()
		sched = g
	}

	rec := metrics.NewPrometheusRecorder(nil)
	engine, err := timer.New(timer.Options{
		Focus:       cfg.Timer.Focus,
		Break:       cfg.Timer.Break,
		RequireAck:  cfg.Timer.RequireAck,
		RequireTask: cfg.Timer.RequireTask,
		Scheduler:   sched,
		Metrics:     rec,
		OnFocusComplete: func(ctx context.Context, taskID string, minutes int) error {
			_, err := svc.CompleteFocus(ctx, taskID, minutes)
			return err
		},
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: config error: %v\n", err)
		return exitcode.ConfigError
	}
	defer engine.Close()

	switch {
	case task.ID != "":
		err = engine.Select(task.ID)
	case c.skip:
		err = engine.Skip()
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	stopWatch := watchConfig(ctx, cfg, engine)
	defer stopWatch()

	var code int
	if c.headless {
		code = c.runHeadless(ctx, cfg, engine, task, out, errOut)
	} else {
		code = c.runInteractive(ctx, svc, engine, task, errOut)
	}

	if c.metricsFile != "" {
		if err := rec.WriteTextfile(c.metricsFile); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			if code == exitcode.Success {
				code = exitcode.UserError
			}
		}
	}
	return code
}

// runHeadless runs one focus phase, printing a status line at every state
// change and every full minute.
func (c *FocusCmd) runHeadless(ctx context.Context, cfg *config.Config, engine *timer.Engine, task service.Task, out, errOut io.Writer) int {
	events := make(chan timer.Snapshot, 64)
	quit := make(chan struct{})
	stop := sync.OnceFunc(func() { close(quit) })
	defer stop()

	engine.Subscribe(func(s timer.Snapshot) {
		select {
		case events <- s:
		case <-quit:
		}
	})

	if err := engine.Start(); err != nil {
		if errors.Is(err, timer.ErrNoTaskSelected) {
			fmt.Fprintln(errOut, "error: no task selected (use --task <n> or --skip)")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}

	for {
		select {
		case <-ctx.Done():
			stop()
			_ = engine.Reset()
			fmt.Fprintln(errOut, "error: focus interrupted, no session recorded")
			return exitcode.UserError

		case s := <-events:
			if s.State == timer.StateRunning && s.SecondsRemaining%60 != 0 {
				continue
			}
			if !cfg.Quiet {
				output.FormatTimer(out, s, task.Title)
			}
			if s.State == timer.StateCompleted && s.Phase == timer.PhaseFocus {
				return exitcode.Success
			}
		}
	}
}

func (c *FocusCmd) runInteractive(ctx context.Context, svc service.Service, engine *timer.Engine, task service.Task, errOut io.Writer) int {
	all, err := svc.ListTasks(ctx)
	if err != nil {
		return reportError(errOut, err)
	}
	var open []service.Task
	for _, t := range all {
		if !t.Done || t.ID == task.ID {
			open = append(open, t)
		}
	}

	theme, err := svc.Theme(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	m := tui.New(engine, open, tui.Options{
		Theme:     theme,
		Preselect: task.ID,
		OnTheme: func(t service.Theme) error {
			return svc.SetTheme(ctx, t)
		},
	})
	if err := tui.Run(ctx, m); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

// watchConfig applies duration changes in config.yaml to the running engine.
// It returns a stop function; watching is best effort.
func watchConfig(ctx context.Context, cfg *config.Config, engine *timer.Engine) func() {
	w, err := config.NewWatcher(cfg.FilePath(), 0, func(s config.Settings) {
		if err := engine.SetDurations(s.Timer.Focus, s.Timer.Break); err != nil {
			slog.Warn("Ignoring timer durations from config", logfields.Error(err))
			return
		}
		slog.Info("Timer durations updated",
			slog.Duration("focus", s.Timer.Focus),
			slog.Duration("break", s.Timer.Break))
	})
	if err != nil {
		slog.Debug("Config watcher unavailable", logfields.Error(err))
		return func() {}
	}
	if err := w.Start(ctx); err != nil {
		slog.Debug("Config watcher unavailable", logfields.Error(err))
		_ = w.Stop()
		return func() {}
	}
	return func() {
		if err := w.Stop(); err != nil {
			slog.Debug("Failed to stop config watcher", logfields.Error(err))
		}
	}
}

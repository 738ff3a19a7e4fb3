// Package local implements service.Service on top of the local key-value store.
package local

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"pomo/internal/config"
	"pomo/internal/logfields"
	"pomo/internal/service"
	"pomo/internal/session"
	"pomo/internal/stats"
	"pomo/internal/store"
	"pomo/internal/tasks"
)

// Options tunes a Backend. Zero values select production defaults.
type Options struct {
	Clock     clockwork.Clock
	DailyGoal int
	Location  *time.Location
	// NewID overrides task and session id generation.
	NewID func() string
}

// Backend implements service.Service using a store.Store.
type Backend struct {
	store    store.Store
	tasks    *tasks.Repository
	recorder *session.Recorder
	stats    *stats.Aggregator
	close    func() error
}

var _ service.Service = (*Backend)(nil)

// New creates a Backend over s and hydrates the task list.
func New(ctx context.Context, s store.Store, opts Options) *Backend {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	var taskOpts []tasks.Option
	recOpts := []session.Option{session.WithClock(opts.Clock)}
	if opts.NewID != nil {
		taskOpts = append(taskOpts, tasks.WithIDFunc(opts.NewID))
		recOpts = append(recOpts, session.WithIDFunc(opts.NewID))
	}

	b := &Backend{
		store:    s,
		tasks:    tasks.New(s, taskOpts...),
		recorder: session.NewRecorder(s, recOpts...),
		stats: stats.NewAggregator(s, opts.Clock, stats.Options{
			DailyGoal: opts.DailyGoal,
			Location:  opts.Location,
		}),
		close: func() error { return nil },
	}
	b.tasks.Load(ctx)
	return b
}

// Open opens the SQLite store configured in cfg and creates a Backend over it.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	path := cfg.StorePath()
	if path != config.MemoryStore {
		if err := cfg.EnsureDir(); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("Store opened", logfields.Path(path))

	b := New(ctx, s, Options{DailyGoal: cfg.Stats.DailyGoal})
	b.close = s.Close
	return b, nil
}

// Close releases the underlying store.
func (b *Backend) Close() error {
	return b.close()
}

// ListTasks returns all tasks, newest first.
func (b *Backend) ListTasks(ctx context.Context) ([]service.Task, error) {
	return b.tasks.All(), nil
}

// TaskByNumber returns the task listed at 1-based number n.
func (b *Backend) TaskByNumber(ctx context.Context, n int) (service.Task, error) {
	t, ok := b.tasks.At(n)
	if !ok {
		return service.Task{}, fmt.Errorf("%w: number %d", service.ErrTaskNotFound, n)
	}
	return t, nil
}

// AddTask creates a task.
func (b *Backend) AddTask(ctx context.Context, title string, target int) (service.Task, error) {
	return b.tasks.Add(ctx, title, target)
}

// ToggleTask flips a task's done flag.
func (b *Backend) ToggleTask(ctx context.Context, id string) (service.Task, error) {
	return b.tasks.Toggle(ctx, id)
}

// DeleteTask removes a task. Session records keep their title snapshot.
func (b *Backend) DeleteTask(ctx context.Context, id string) error {
	return b.tasks.Delete(ctx, id)
}

// CompleteFocus increments the selected task's completed count, then records
// the session with the task list as it is after the increment. A task deleted
// in the meantime still gets a session. The task list is reloaded first so
// tasks changed by another process during the focus phase are kept.
func (b *Backend) CompleteFocus(ctx context.Context, taskID string, durationMinutes int) (service.Session, error) {
	b.tasks.Load(ctx)
	if taskID != "" {
		if _, err := b.tasks.IncrementCompleted(ctx, taskID); err != nil {
			if !errors.Is(err, service.ErrTaskNotFound) {
				return service.Session{}, err
			}
			slog.Warn("Focus completed for unknown task", logfields.TaskID(taskID))
		}
	}
	return b.recorder.Record(ctx, taskID, b.tasks.All(), durationMinutes)
}

// Sessions returns all session records, newest first.
func (b *Backend) Sessions(ctx context.Context) ([]service.Session, error) {
	return b.recorder.All(ctx), nil
}

// Stats computes statistics over the stored sessions.
func (b *Backend) Stats(ctx context.Context) (service.Stats, error) {
	return b.stats.Stats(ctx), nil
}

// ClearSessions deletes all session records.
func (b *Backend) ClearSessions(ctx context.Context) (service.Stats, error) {
	return b.stats.Clear(ctx)
}

// Theme returns the stored theme. Missing or unknown values read as light.
func (b *Backend) Theme(ctx context.Context) (service.Theme, error) {
	raw := store.ParseOrDefault(ctx, b.store, store.KeyTheme, string(service.ThemeLight))
	if t, ok := service.ParseTheme(raw); ok {
		return t, nil
	}
	return service.ThemeLight, nil
}

// SetTheme stores the theme.
func (b *Backend) SetTheme(ctx context.Context, theme service.Theme) error {
	t, ok := service.ParseTheme(string(theme))
	if !ok {
		return fmt.Errorf("unknown theme: %q", theme)
	}
	return store.Encode(ctx, b.store, store.KeyTheme, string(t))
}

// ToggleTheme flips the stored theme.
func (b *Backend) ToggleTheme(ctx context.Context) (service.Theme, error) {
	current, err := b.Theme(ctx)
	if err != nil {
		return "", err
	}
	next := current.Toggle()
	if err := b.SetTheme(ctx, next); err != nil {
		return current, err
	}
	return next, nil
}

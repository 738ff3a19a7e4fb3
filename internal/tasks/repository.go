// Package tasks implements the task repository: an ordered, in-memory task
// list hydrated from and flushed to the store.
package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"pomo/internal/logfields"
	"pomo/internal/service"
	"pomo/internal/store"
)

// Repository holds the task collection. Every mutation writes the whole
// collection back to the store.
type Repository struct {
	mu    sync.RWMutex
	store store.Store
	tasks []service.Task
	newID func() string
}

// Option configures a Repository.
type Option func(*Repository)

// WithIDFunc overrides task id generation.
func WithIDFunc(fn func() string) Option {
	return func(r *Repository) { r.newID = fn }
}

// New creates a repository over s. Call Load to hydrate it.
func New(s store.Store, opts ...Option) *Repository {
	r := &Repository{store: s, newID: service.NewID}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load hydrates the repository from the store.
// Missing or malformed data yields an empty list.
func (r *Repository) Load(ctx context.Context) {
	loaded := store.ParseOrDefault(ctx, r.store, store.KeyTasks, []service.Task(nil))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = loaded
	slog.Debug("Tasks loaded", slog.Int("count", len(loaded)))
}

// All returns a copy of every task in stored order.
func (r *Repository) All() []service.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]service.Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// At returns the task at 1-based position n in stored order, which is the
// number shown by the list command.
func (r *Repository) At(n int) (service.Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n < 1 || n > len(r.tasks) {
		return service.Task{}, false
	}
	return r.tasks[n-1], true
}

// Add creates a task with the given title and target and prepends it.
func (r *Repository) Add(ctx context.Context, title string, target int) (service.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return service.Task{}, service.ErrEmptyTitle
	}
	if target < service.MinTargetPomodoros || target > service.MaxTargetPomodoros {
		return service.Task{}, fmt.Errorf("%w: %d", service.ErrInvalidTarget, target)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	task := service.Task{
		ID:              r.newID(),
		Title:           title,
		TargetPomodoros: target,
	}
	if err := r.replace(ctx, append([]service.Task{task}, r.tasks...)); err != nil {
		return service.Task{}, err
	}
	slog.Debug("Task added", logfields.TaskID(task.ID))
	return task, nil
}

// Toggle flips a task's done flag.
func (r *Repository) Toggle(ctx context.Context, id string) (service.Task, error) {
	return r.update(ctx, id, func(t *service.Task) { t.Done = !t.Done })
}

// IncrementCompleted adds one completed pomodoro to a task.
func (r *Repository) IncrementCompleted(ctx context.Context, id string) (service.Task, error) {
	return r.update(ctx, id, func(t *service.Task) { t.CompletedPomodoros++ })
}

// Delete removes a task from the collection and the store.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", service.ErrTaskNotFound, id)
	}
	if err := r.replace(ctx, append(r.tasks[:i:i], r.tasks[i+1:]...)); err != nil {
		return err
	}
	slog.Debug("Task deleted", logfields.TaskID(id))
	return nil
}

func (r *Repository) update(ctx context.Context, id string, fn func(*service.Task)) (service.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return service.Task{}, fmt.Errorf("%w: %s", service.ErrTaskNotFound, id)
	}
	next := slices.Clone(r.tasks)
	fn(&next[i])
	if err := r.replace(ctx, next); err != nil {
		return service.Task{}, err
	}
	return next[i], nil
}

// indexOf must be called with r.mu held.
func (r *Repository) indexOf(id string) int {
	for i, t := range r.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// replace writes tasks to the store and adopts them only when the write
// succeeds, so a failed mutation leaves the list untouched. It must be
// called with r.mu held.
func (r *Repository) replace(ctx context.Context, tasks []service.Task) error {
	if tasks == nil {
		tasks = []service.Task{}
	}
	if err := store.Encode(ctx, r.store, store.KeyTasks, tasks); err != nil {
		return err
	}
	r.tasks = tasks
	return nil
}

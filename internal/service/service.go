// Package service defines the backend-agnostic interface for task and focus operations.
package service

import (
	"context"
	"errors"
)

var (
	// ErrTaskNotFound is returned when a task id does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrEmptyTitle is returned when a task title is empty or whitespace.
	ErrEmptyTitle = errors.New("title required")

	// ErrInvalidTarget is returned when a target pomodoro count is out of range.
	ErrInvalidTarget = errors.New("target pomodoros out of range")
)

// Target pomodoro bounds for new tasks.
const (
	MinTargetPomodoros = 1
	MaxTargetPomodoros = 10
)

// Service defines the interface for pomo backend operations.
// Commands never touch the store directly.
type Service interface {
	// ListTasks returns all tasks, newest first.
	ListTasks(ctx context.Context) ([]Task, error)

	// TaskByNumber returns the task at 1-based position n in ListTasks order.
	TaskByNumber(ctx context.Context, n int) (Task, error)

	// AddTask creates a task and returns it.
	AddTask(ctx context.Context, title string, target int) (Task, error)

	// ToggleTask flips a task's done flag and returns the updated task.
	ToggleTask(ctx context.Context, id string) (Task, error)

	// DeleteTask removes a task. Sessions referencing it are left untouched.
	DeleteTask(ctx context.Context, id string) error

	// CompleteFocus records a completed focus interval.
	// If taskID is non-empty the task's completed count is incremented first.
	CompleteFocus(ctx context.Context, taskID string, durationMinutes int) (Session, error)

	// Sessions returns all session records, newest first.
	Sessions(ctx context.Context) ([]Session, error)

	// Stats computes statistics over the stored sessions.
	Stats(ctx context.Context) (Stats, error)

	// ClearSessions deletes every session record and returns the zeroed stats.
	ClearSessions(ctx context.Context) (Stats, error)

	// Theme returns the stored theme (light when unset).
	Theme(ctx context.Context) (Theme, error)

	// SetTheme stores the theme.
	SetTheme(ctx context.Context, theme Theme) error

	// ToggleTheme flips between light and dark and returns the new theme.
	ToggleTheme(ctx context.Context) (Theme, error)
}

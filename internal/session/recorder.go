// Package session records completed focus intervals.
package session

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"pomo/internal/logfields"
	"pomo/internal/service"
	"pomo/internal/store"
)

// TimestampLayout is the completedAt format: UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Recorder appends session records to the store, newest first.
// It is the only writer of the sessions key.
type Recorder struct {
	store store.Store
	clock clockwork.Clock
	newID func() string
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock sets the clock used for completedAt.
func WithClock(c clockwork.Clock) Option {
	return func(r *Recorder) { r.clock = c }
}

// WithIDFunc overrides session id generation.
func WithIDFunc(fn func() string) Option {
	return func(r *Recorder) { r.newID = fn }
}

// NewRecorder creates a Recorder writing to s.
func NewRecorder(s store.Store, opts ...Option) *Recorder {
	r := &Recorder{
		store: s,
		clock: clockwork.NewRealClock(),
		newID: service.NewID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record creates one session for a completed focus interval and writes the
// full collection back with the new record first.
// The task title is resolved from tasksSnapshot now and never again, so it
// survives later deletion of the task. An empty taskID records no task.
func (r *Recorder) Record(ctx context.Context, taskID string, tasksSnapshot []service.Task, durationMinutes int) (service.Session, error) {
	sess := service.Session{
		ID:              r.newID(),
		DurationMinutes: durationMinutes,
		CompletedAt:     r.clock.Now().UTC().Format(TimestampLayout),
	}
	if taskID != "" {
		id := taskID
		sess.TaskID = &id
		for _, t := range tasksSnapshot {
			if t.ID == taskID {
				sess.TaskTitle = t.Title
				break
			}
		}
	}

	existing := r.All(ctx)
	all := make([]service.Session, 0, len(existing)+1)
	all = append(all, sess)
	all = append(all, existing...)

	if err := store.Encode(ctx, r.store, store.KeySessions, all); err != nil {
		return service.Session{}, err
	}

	slog.Debug("Session recorded",
		logfields.SessionID(sess.ID),
		logfields.TaskID(taskID),
		slog.Int("duration_minutes", durationMinutes))
	return sess, nil
}

// All returns the stored sessions, newest first. Malformed data reads as empty.
func (r *Recorder) All(ctx context.Context) []service.Session {
	return store.ParseOrDefault(ctx, r.store, store.KeySessions, []service.Session(nil))
}

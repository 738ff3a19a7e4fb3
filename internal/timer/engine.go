// Package timer implements the Pomodoro countdown: a focus/break state
// machine ticking once per second.
package timer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"pomo/internal/logfields"
	"pomo/internal/metrics"
)

// Phase is the kind of interval being counted down.
type Phase int

const (
	PhaseFocus Phase = iota
	PhaseBreak
)

func (p Phase) String() string {
	if p == PhaseBreak {
		return "break"
	}
	return "focus"
}

// State is the timer's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	// StateCompleted is transient: listeners see it with zero seconds left
	// right before the phase flips.
	StateCompleted
	// StateAwaitingAck blocks auto-restart until Continue or Dismiss.
	StateAwaitingAck
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	case StateAwaitingAck:
		return "awaiting-ack"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	// ErrInvalidTransition is returned when an operation is not allowed in the current state.
	ErrInvalidTransition = errors.New("invalid timer transition")

	// ErrNoTaskSelected is returned when a focus phase is started without a
	// task selection or an explicit skip.
	ErrNoTaskSelected = errors.New("no task selected")

	// ErrSelectionLocked is returned when the task selection is changed outside Idle.
	ErrSelectionLocked = errors.New("task selection is only allowed while idle")

	// ErrInvalidDuration is returned for durations shorter than one second.
	ErrInvalidDuration = errors.New("duration must be at least one second")
)

// Default phase lengths.
const (
	DefaultFocus = 25 * time.Minute
	DefaultBreak = 5 * time.Minute
)

// FocusCompleteFunc is called once per completed focus phase with the
// selected task id ("" when none) and the phase length in whole minutes.
type FocusCompleteFunc func(ctx context.Context, taskID string, durationMinutes int) error

// Options configures an Engine.
type Options struct {
	Focus time.Duration
	Break time.Duration
	// RequireAck parks the timer in StateAwaitingAck after every phase.
	RequireAck bool
	// RequireTask rejects focus starts without Select or Skip.
	RequireTask bool

	Scheduler       Scheduler
	OnFocusComplete FocusCompleteFunc
	Metrics         metrics.Recorder
}

// Snapshot is a point-in-time view of the timer.
type Snapshot struct {
	Phase            Phase
	State            State
	SecondsRemaining int
	TaskID           string
	Skipped          bool
}

// Engine is the countdown state machine. It is safe for concurrent use;
// listeners and the completion callback run outside the engine lock.
type Engine struct {
	mu sync.Mutex

	focusSecs   int
	breakSecs   int
	requireAck  bool
	requireTask bool
	scheduler   Scheduler
	onFocus     FocusCompleteFunc
	metrics     metrics.Recorder

	phase      Phase
	state      State
	remaining  int
	phaseTotal int
	taskID     string
	skipped    bool

	// handle is the single live tick registration; gen invalidates ticks
	// from cancelled registrations.
	handle Handle
	gen    uint64

	listeners []func(Snapshot)
	pending   []Snapshot
	completed []completion
}

type completion struct {
	taskID  string
	minutes int
}

// New creates an Idle engine in the focus phase.
func New(opts Options) (*Engine, error) {
	if opts.Focus == 0 {
		opts.Focus = DefaultFocus
	}
	if opts.Break == 0 {
		opts.Break = DefaultBreak
	}
	focusSecs, breakSecs, err := seconds(opts.Focus, opts.Break)
	if err != nil {
		return nil, err
	}
	if opts.Scheduler == nil {
		return nil, errors.New("timer: scheduler required")
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoopRecorder{}
	}

	e := &Engine{
		focusSecs:   focusSecs,
		breakSecs:   breakSecs,
		requireAck:  opts.RequireAck,
		requireTask: opts.RequireTask,
		scheduler:   opts.Scheduler,
		onFocus:     opts.OnFocusComplete,
		metrics:     opts.Metrics,
		phase:       PhaseFocus,
		state:       StateIdle,
	}
	e.refill()
	return e, nil
}

func seconds(focus, brk time.Duration) (int, int, error) {
	f, b := int(focus/time.Second), int(brk/time.Second)
	if f < 1 || b < 1 {
		return 0, 0, fmt.Errorf("%w: focus=%s break=%s", ErrInvalidDuration, focus, brk)
	}
	return f, b, nil
}

// Subscribe registers fn to receive a snapshot after every change.
func (e *Engine) Subscribe(fn func(Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Snapshot returns the current timer state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Start begins counting down from Idle or Paused.
func (e *Engine) Start() error {
	return e.do(func() error { return e.startLocked("start") })
}

// Pause stops a running countdown, keeping the remaining time.
func (e *Engine) Pause() error {
	return e.do(func() error {
		if e.state != StateRunning {
			return fmt.Errorf("%w: pause from %s", ErrInvalidTransition, e.state)
		}
		e.cancelLocked()
		e.state = StatePaused
		e.transitioned("pause")
		return nil
	})
}

// Resume continues a paused countdown.
func (e *Engine) Resume() error {
	return e.do(func() error {
		if e.state != StatePaused {
			return fmt.Errorf("%w: resume from %s", ErrInvalidTransition, e.state)
		}
		return e.startLocked("resume")
	})
}

// Reset stops any countdown and refills the current phase. Allowed from any state.
func (e *Engine) Reset() error {
	return e.do(func() error {
		e.cancelLocked()
		e.refill()
		e.state = StateIdle
		e.transitioned("reset")
		return nil
	})
}

// Continue starts the next phase right away after a completion.
func (e *Engine) Continue() error {
	return e.do(func() error {
		if e.state != StateAwaitingAck {
			return fmt.Errorf("%w: continue from %s", ErrInvalidTransition, e.state)
		}
		e.state = StateIdle
		if err := e.startLocked("continue"); err != nil {
			e.state = StateAwaitingAck
			return err
		}
		return nil
	})
}

// Dismiss acknowledges a completion and returns to task selection: an Idle
// focus phase with the full focus duration, skipping any pending break.
func (e *Engine) Dismiss() error {
	return e.do(func() error {
		if e.state != StateAwaitingAck {
			return fmt.Errorf("%w: dismiss from %s", ErrInvalidTransition, e.state)
		}
		e.phase = PhaseFocus
		e.refill()
		e.state = StateIdle
		e.transitioned("dismiss")
		return nil
	})
}

// Select sets the task the next focus phases count toward. An empty id clears it.
func (e *Engine) Select(taskID string) error {
	return e.do(func() error {
		if e.state != StateIdle {
			return fmt.Errorf("%w (state %s)", ErrSelectionLocked, e.state)
		}
		e.taskID = taskID
		e.skipped = false
		e.notify()
		return nil
	})
}

// Skip explicitly chooses to focus without a task.
func (e *Engine) Skip() error {
	return e.do(func() error {
		if e.state != StateIdle {
			return fmt.Errorf("%w (state %s)", ErrSelectionLocked, e.state)
		}
		e.taskID = ""
		e.skipped = true
		e.notify()
		return nil
	})
}

// SetDurations changes the phase lengths. They apply at the next reset or
// phase change; an Idle timer is refilled immediately.
func (e *Engine) SetDurations(focus, brk time.Duration) error {
	focusSecs, breakSecs, err := seconds(focus, brk)
	if err != nil {
		return err
	}
	return e.do(func() error {
		e.focusSecs, e.breakSecs = focusSecs, breakSecs
		if e.state == StateIdle {
			e.refill()
			e.notify()
		}
		return nil
	})
}

// Tick decrements a running countdown by one second. It is a no-op unless
// the timer is running.
func (e *Engine) Tick() {
	_ = e.do(func() error {
		e.tickLocked()
		return nil
	})
}

// Close cancels any live tick registration.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked()
}

func (e *Engine) tickFrom(gen uint64) {
	_ = e.do(func() error {
		if gen != e.gen {
			return nil
		}
		e.tickLocked()
		return nil
	})
}

func (e *Engine) startLocked(name string) error {
	if e.state != StateIdle && e.state != StatePaused {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, name, e.state)
	}
	if e.remaining <= 0 {
		return fmt.Errorf("%w: %s with no time remaining", ErrInvalidTransition, name)
	}
	if e.requireTask && e.phase == PhaseFocus && e.taskID == "" && !e.skipped {
		return ErrNoTaskSelected
	}

	e.cancelLocked()
	gen := e.gen
	handle, err := e.scheduler.Every(time.Second, func() { e.tickFrom(gen) })
	if err != nil {
		return fmt.Errorf("schedule tick: %w", err)
	}
	e.handle = handle
	e.state = StateRunning
	e.transitioned(name)
	return nil
}

func (e *Engine) tickLocked() {
	if e.state != StateRunning || e.remaining <= 0 {
		return
	}
	e.remaining--
	e.metrics.SecondsRemaining(e.remaining)
	if e.remaining > 0 {
		e.notify()
		return
	}

	e.state = StateCompleted
	e.notify()
	e.completeLocked()
}

func (e *Engine) completeLocked() {
	e.cancelLocked()

	done := e.phase
	e.metrics.PhaseCompleted(done.String())
	slog.Info("Phase completed", logfields.Phase(done.String()), logfields.TaskID(e.taskID))

	if done == PhaseFocus {
		e.completed = append(e.completed, completion{taskID: e.taskID, minutes: e.phaseTotal / 60})
		e.phase = PhaseBreak
	} else {
		e.phase = PhaseFocus
	}
	e.refill()

	if e.requireAck {
		e.state = StateAwaitingAck
	} else {
		e.state = StateIdle
	}
	e.notify()
}

// cancelLocked drops the live tick registration and invalidates in-flight ticks.
func (e *Engine) cancelLocked() {
	e.gen++
	if e.handle == nil {
		return
	}
	if err := e.handle.Cancel(); err != nil {
		slog.Warn("Failed to cancel tick", logfields.Error(err))
	}
	e.handle = nil
}

func (e *Engine) refill() {
	if e.phase == PhaseBreak {
		e.remaining = e.breakSecs
	} else {
		e.remaining = e.focusSecs
	}
	e.phaseTotal = e.remaining
}

func (e *Engine) transitioned(name string) {
	e.metrics.Transition(name)
	e.metrics.SecondsRemaining(e.remaining)
	slog.Debug("Timer transition",
		logfields.Transition(name),
		logfields.Phase(e.phase.String()),
		logfields.State(e.state.String()),
		logfields.Remaining(e.remaining))
	e.notify()
}

func (e *Engine) notify() {
	e.pending = append(e.pending, e.snapshotLocked())
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:            e.phase,
		State:            e.state,
		SecondsRemaining: e.remaining,
		TaskID:           e.taskID,
		Skipped:          e.skipped,
	}
}

// do runs fn under the lock, then delivers completions and snapshots
// produced by fn without holding it.
func (e *Engine) do(fn func() error) error {
	e.mu.Lock()
	err := fn()
	snaps := e.pending
	done := e.completed
	e.pending, e.completed = nil, nil
	listeners := slices.Clone(e.listeners)
	onFocus := e.onFocus
	e.mu.Unlock()

	for _, c := range done {
		if onFocus == nil {
			continue
		}
		if cerr := onFocus(context.Background(), c.taskID, c.minutes); cerr != nil {
			slog.Error("Failed to record focus session", logfields.TaskID(c.taskID), logfields.Error(cerr))
			continue
		}
		e.metrics.SessionRecorded()
	}
	for _, s := range snaps {
		for _, l := range listeners {
			l(s)
		}
	}
	return err
}

// FormatClock renders seconds as zero-padded MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Package metrics records timer and session activity.
package metrics

// Recorder receives timer events. Implementations must be safe for concurrent use.
type Recorder interface {
	// Transition counts a timer state transition (start, pause, resume, reset, continue, dismiss).
	Transition(name string)
	// PhaseCompleted counts a completed focus or break phase.
	PhaseCompleted(phase string)
	// SessionRecorded counts a persisted session record.
	SessionRecorded()
	// SecondsRemaining reports the current countdown value.
	SecondsRemaining(seconds int)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) Transition(string)     {}
func (NoopRecorder) PhaseCompleted(string) {}
func (NoopRecorder) SessionRecorded()      {}
func (NoopRecorder) SecondsRemaining(int)  {}

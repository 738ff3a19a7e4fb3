// Package logfields holds the canonical slog attribute keys used across pomo.
package logfields

import "log/slog"

const (
	KeyTaskID     = "task_id"
	KeySessionID  = "session_id"
	KeyPhase      = "phase"
	KeyState      = "state"
	KeyTransition = "transition"
	KeyStoreKey   = "store_key"
	KeyPath       = "path"
	KeyRemaining  = "seconds_remaining"
	KeyError      = "error"
)

func TaskID(id string) slog.Attr       { return slog.String(KeyTaskID, id) }
func SessionID(id string) slog.Attr    { return slog.String(KeySessionID, id) }
func Phase(p string) slog.Attr         { return slog.String(KeyPhase, p) }
func State(s string) slog.Attr         { return slog.String(KeyState, s) }
func Transition(name string) slog.Attr { return slog.String(KeyTransition, name) }
func StoreKey(key string) slog.Attr    { return slog.String(KeyStoreKey, key) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Remaining(seconds int) slog.Attr  { return slog.Int(KeyRemaining, seconds) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

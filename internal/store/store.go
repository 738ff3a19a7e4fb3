// Package store provides the persistent key-value store that holds pomo's
// JSON-encoded collections.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"pomo/internal/logfields"
)

// Store keys. Values are JSON-encoded UTF-8 text.
const (
	KeyTasks    = "tasks"
	KeySessions = "sessions"
	KeyTheme    = "theme"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// Store is a byte-valued key-value store.
// Keys are read and written independently; there are no cross-key transactions
// and the last writer wins.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ParseOrDefault decodes the JSON value stored under key into a T.
// A missing key, a read error, or a decode error all yield def.
// Partially decoded data is never returned.
func ParseOrDefault[T any](ctx context.Context, s Store, key string, def T) T {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		slog.Debug("Store read failed, using default", logfields.StoreKey(key), logfields.Error(err))
		return def
	}
	if !ok {
		return def
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		slog.Debug("Malformed stored value, using default", logfields.StoreKey(key), logfields.Error(err))
		return def
	}
	return v
}

// Encode JSON-encodes v and writes it under key.
func Encode(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

package service

import "github.com/google/uuid"

// NewID returns a unique, time-ordered identifier (UUIDv7).
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// The random source failed; a v4 id is still unique.
		return uuid.NewString()
	}
	return id.String()
}

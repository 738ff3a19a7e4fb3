// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"pomo/internal/store"
)

// FakeStore is an in-memory store.Store with per-key error injection and
// write counting for tests.
type FakeStore struct {
	mu     sync.Mutex
	inner  *store.MemoryStore
	writes map[string]int

	// Error injection, keyed by store key.
	GetErr    map[string]error
	SetErr    map[string]error
	DeleteErr map[string]error
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		inner:     store.NewMemoryStore(),
		writes:    make(map[string]int),
		GetErr:    make(map[string]error),
		SetErr:    make(map[string]error),
		DeleteErr: make(map[string]error),
	}
}

// Seed stores a raw value without counting it as a write.
func (f *FakeStore) Seed(key, raw string) {
	_ = f.inner.Set(context.Background(), key, []byte(raw))
}

// SeedJSON stores v encoded as JSON without counting it as a write.
func (f *FakeStore) SeedJSON(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	f.Seed(key, string(data))
}

// Raw returns the stored value for key, or "" when absent.
func (f *FakeStore) Raw(key string) string {
	v, ok, _ := f.inner.Get(context.Background(), key)
	if !ok {
		return ""
	}
	return string(v)
}

// Has reports whether key is present.
func (f *FakeStore) Has(key string) bool {
	_, ok, _ := f.inner.Get(context.Background(), key)
	return ok
}

// Writes returns how many Set calls succeeded for key.
func (f *FakeStore) Writes(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes[key]
}

// Get implements store.Store.
func (f *FakeStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := f.injected(f.GetErr, key); err != nil {
		return nil, false, err
	}
	return f.inner.Get(ctx, key)
}

// Set implements store.Store.
func (f *FakeStore) Set(ctx context.Context, key string, value []byte) error {
	if err := f.injected(f.SetErr, key); err != nil {
		return err
	}
	if err := f.inner.Set(ctx, key, value); err != nil {
		return err
	}
	f.mu.Lock()
	f.writes[key]++
	f.mu.Unlock()
	return nil
}

// Delete implements store.Store.
func (f *FakeStore) Delete(ctx context.Context, key string) error {
	if err := f.injected(f.DeleteErr, key); err != nil {
		return err
	}
	return f.inner.Delete(ctx, key)
}

func (f *FakeStore) injected(m map[string]error, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return m[key]
}

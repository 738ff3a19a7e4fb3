package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

// storeFactories runs the shared contract against every implementation.
func storeFactories(t *testing.T) map[string]func() Store {
	t.Helper()
	return map[string]func() Store{
		"memory": func() Store { return NewMemoryStore() },
		"sqlite": func() Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "pomo.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()

			_, ok, err := s.Get(ctx, KeyTasks)
			require.NoError(t, err)
			assert.False(t, ok, "missing key should report absent")

			require.NoError(t, s.Set(ctx, KeyTasks, []byte(`[1]`)))
			require.NoError(t, s.Set(ctx, KeyTasks, []byte(`[1,2]`)))

			got, ok, err := s.Get(ctx, KeyTasks)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, `[1,2]`, string(got), "last writer wins")

			require.NoError(t, s.Delete(ctx, KeyTasks))
			require.NoError(t, s.Delete(ctx, KeyTasks), "deleting a missing key is not an error")

			_, ok, err = s.Get(ctx, KeyTasks)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			require.NoError(t, s.Set(ctx, KeyTasks, []byte(`"a"`)))
			require.NoError(t, s.Set(ctx, KeySessions, []byte(`"b"`)))
			require.NoError(t, s.Delete(ctx, KeySessions))

			got, ok, err := s.Get(ctx, KeyTasks)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, `"a"`, string(got))
		})
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pomo.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyTheme, []byte(`"dark"`)))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Get(ctx, KeyTheme)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `"dark"`, string(got))
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	buf := []byte(`"x"`)
	require.NoError(t, s.Set(ctx, KeyTheme, buf))
	buf[1] = 'y'

	got, _, err := s.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(got))
}

func TestMemoryStoreClosed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Close())

	_, _, err := s.Get(ctx, KeyTasks)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Set(ctx, KeyTasks, nil), ErrClosed)
	assert.ErrorIs(t, s.Delete(ctx, KeyTasks), ErrClosed)
}

func TestParseOrDefault(t *testing.T) {
	ctx := context.Background()
	def := []item{{Name: "default"}}

	t.Run("missing key", func(t *testing.T) {
		s := NewMemoryStore()
		assert.Equal(t, def, ParseOrDefault(ctx, s, KeyTasks, def))
	})

	t.Run("malformed json", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set(ctx, KeyTasks, []byte(`[{"name":`)))
		assert.Equal(t, def, ParseOrDefault(ctx, s, KeyTasks, def))
	})

	t.Run("wrong shape", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set(ctx, KeyTasks, []byte(`{"name":"not a list"}`)))
		assert.Equal(t, def, ParseOrDefault(ctx, s, KeyTasks, def))
	})

	t.Run("read error", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Close())
		assert.Equal(t, def, ParseOrDefault(ctx, s, KeyTasks, def))
	})

	t.Run("valid", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, Encode(ctx, s, KeyTasks, []item{{Name: "a"}, {Name: "b"}}))
		assert.Equal(t, []item{{Name: "a"}, {Name: "b"}}, ParseOrDefault(ctx, s, KeyTasks, def))
	})
}

func TestEncodeWrapsWriteError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Close())

	err := Encode(ctx, s, KeySessions, []item{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Contains(t, err.Error(), "write sessions")
}

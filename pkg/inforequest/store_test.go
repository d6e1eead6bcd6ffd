package inforequest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	store := NewStore(2, time.Minute)
	svc := NewService(&Config{Extractor: &fakeExtractor{}})

	newSession := func() *Session {
		s, err := svc.Start(context.Background(), nil)
		require.NoError(t, err)
		return s
	}

	t.Run("Success", func(t *testing.T) {
		s := newSession()
		require.NoError(t, store.Put(s))

		got, err := store.Get(s.ID())
		require.NoError(t, err)
		require.Same(t, s, got)

		require.True(t, store.Remove(s.ID()))
		_, err = store.Get(s.ID())
		require.ErrorIs(t, err, ErrSessionNotFound)
		require.False(t, store.Remove(s.ID()))
	})

	t.Run("Least recently used session is evicted", func(t *testing.T) {
		first, second, third := newSession(), newSession(), newSession()

		require.NoError(t, store.Put(first))
		require.NoError(t, store.Put(second))
		require.NoError(t, store.Put(third))

		_, err := store.Get(first.ID())
		require.ErrorIs(t, err, ErrSessionNotFound)
		require.Equal(t, 2, store.Len())
	})

	t.Run("Expired session", func(t *testing.T) {
		short := NewStore(10, 10*time.Millisecond)
		s := newSession()
		require.NoError(t, short.Put(s))

		require.Eventually(t, func() bool {
			_, err := short.Get(s.ID())
			return err == ErrSessionNotFound
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Unknown id", func(t *testing.T) {
		_, err := store.Get("missing")
		require.ErrorIs(t, err, ErrSessionNotFound)
	})
}

package blobx

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("upload then delete round trip", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		url, err := store.Upload(ctx, []byte("jpeg bytes"), "image/jpeg", "tickets")
		require.NoError(t, err)
		require.True(t, strings.Contains(url, "/tickets/"))
		require.True(t, store.Has(url))

		require.NoError(t, store.Delete(ctx, url))
		require.False(t, store.Has(url))
		require.Equal(t, 0, store.Len())
	})

	t.Run("delete of a foreign url fails", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		err := store.Delete(ctx, "https://elsewhere.example/x.png")
		require.ErrorIs(t, err, ErrBadRef)
	})

	t.Run("forced failures surface as unavailable", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		store.FailUploads = true
		_, err := store.Upload(ctx, []byte("x"), "image/png", "tickets")
		require.ErrorIs(t, err, ErrUnavailable)

		store.FailUploads = false
		url, err := store.Upload(ctx, []byte("x"), "image/png", "tickets")
		require.NoError(t, err)

		store.FailDeletes = true
		require.ErrorIs(t, store.Delete(ctx, url), ErrUnavailable)
	})

	t.Run("cancelled context short-circuits", func(t *testing.T) {
		t.Parallel()

		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		store := NewMemoryStore()
		_, err := store.Upload(cancelled, []byte("x"), "image/png", "tickets")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestObjectKey(t *testing.T) {
	t.Parallel()

	key := objectKey("tickets", "image/png")
	require.True(t, strings.HasPrefix(key, "tickets/"))
	require.True(t, strings.HasSuffix(key, ".png"))

	key = objectKey("", "application/octet-stream")
	require.True(t, strings.HasPrefix(key, "misc/"))
}

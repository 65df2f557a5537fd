package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wagate/internal/store"
)

// runStoreSuite exercises semantics every Store implementation must share.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) store.Store) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("get or create is idempotent", func(t *testing.T) {
		s := newStore(t)
		first, err := s.GetOrCreate(ctx, "alpha")
		require.NoError(t, err)
		assert.Equal(t, "alpha", first.ID)
		assert.Equal(t, store.StatusInitializing, first.Status)
		assert.False(t, first.CreatedAt.IsZero())

		require.NoError(t, s.Update(ctx, "alpha", store.StatusPatch(store.StatusQR)))

		second, err := s.GetOrCreate(ctx, "alpha")
		require.NoError(t, err)
		assert.Equal(t, store.StatusQR, second.Status)
		assert.WithinDuration(t, first.CreatedAt, second.CreatedAt, time.Millisecond)

		list, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("update upserts", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Update(ctx, "never-created", store.StatusPatch(store.StatusDisconnected)))

		got, err := s.Get(ctx, "never-created")
		require.NoError(t, err)
		assert.Equal(t, store.StatusDisconnected, got.Status)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("qr then ready clears code", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Update(ctx, "beta", store.QRPatch("data:image/png;base64,AAAA")))

		got, err := s.Get(ctx, "beta")
		require.NoError(t, err)
		assert.Equal(t, store.StatusQR, got.Status)
		assert.Equal(t, "data:image/png;base64,AAAA", got.LastQRCode)
		assert.Nil(t, got.LastConnectedAt)

		at := time.Now().UTC().Truncate(time.Millisecond)
		require.NoError(t, s.Update(ctx, "beta", store.ReadyPatch(at, "15550001111@s.whatsapp.net")))

		got, err = s.Get(ctx, "beta")
		require.NoError(t, err)
		assert.Equal(t, store.StatusReady, got.Status)
		assert.Empty(t, got.LastQRCode)
		require.NotNil(t, got.LastConnectedAt)
		assert.WithinDuration(t, at, *got.LastConnectedAt, time.Millisecond)
		assert.Equal(t, "15550001111@s.whatsapp.net", got.Serialized)

		// A later status-only write keeps the other fields.
		require.NoError(t, s.Update(ctx, "beta", store.StatusPatch(store.StatusDisconnected)))
		got, err = s.Get(ctx, "beta")
		require.NoError(t, err)
		assert.Equal(t, store.StatusDisconnected, got.Status)
		assert.NotNil(t, got.LastConnectedAt)
		assert.Equal(t, "15550001111@s.whatsapp.net", got.Serialized)
	})

	t.Run("leaving qr clears code", func(t *testing.T) {
		s := newStore(t)
		for _, st := range []store.Status{store.StatusDisconnected, store.StatusAuthFailure, store.StatusInitializing} {
			require.NoError(t, s.Update(ctx, "gamma", store.QRPatch("data:image/png;base64,BBBB")))
			require.NoError(t, s.Update(ctx, "gamma", store.StatusPatch(st)))

			got, err := s.Get(ctx, "gamma")
			require.NoError(t, err)
			assert.Equal(t, st, got.Status)
			assert.Empty(t, got.LastQRCode, st)
		}
	})

	t.Run("empty id rejected", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetOrCreate(ctx, "")
		assert.ErrorIs(t, err, store.ErrEmptyID)
		assert.ErrorIs(t, s.Update(ctx, "", store.Patch{}), store.ErrEmptyID)
	})

	t.Run("list ordered by creation", func(t *testing.T) {
		s := newStore(t)
		for _, id := range []string{"one", "two", "three"} {
			_, err := s.GetOrCreate(ctx, id)
			require.NoError(t, err)
			time.Sleep(2 * time.Millisecond)
		}
		list, err := s.List(ctx)
		require.NoError(t, err)
		ids := make([]string, 0, len(list))
		for _, sess := range list {
			ids = append(ids, sess.ID)
		}
		assert.Equal(t, []string{"one", "two", "three"}, ids)
	})
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	runStoreSuite(t, func(*testing.T) store.Store { return store.NewMemoryStore() })
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := store.NewMemoryStore()

	require.NoError(t, s.Update(ctx, "id", store.ReadyPatch(time.Now(), "jid")))
	got, err := s.Get(ctx, "id")
	require.NoError(t, err)

	got.Status = store.StatusAuthFailure
	*got.LastConnectedAt = time.Time{}

	again, err := s.Get(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, store.StatusReady, again.Status)
	assert.False(t, again.LastConnectedAt.IsZero())
}

func TestMemoryStore_ConcurrentUpdates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := store.NewMemoryStore()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.GetOrCreate(ctx, "shared")
			_ = s.Update(ctx, "shared", store.StatusPatch(store.StatusQR))
		}()
	}
	wg.Wait()

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, store.StatusQR, list[0].Status)
}

func TestStatus_Valid(t *testing.T) {
	t.Parallel()
	assert.True(t, store.StatusAuthFailure.Valid())
	assert.False(t, store.Status("paused").Valid())
}

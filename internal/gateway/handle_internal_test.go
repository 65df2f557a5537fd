package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wagate/internal/store"
	"github.com/dmitrymomot/wagate/internal/transport"
	"github.com/dmitrymomot/wagate/pkg/statemachine"
)

func TestHandleApply(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("declared transitions set flags", func(t *testing.T) {
		h := newHandle("s1")
		assert.True(t, h.Initializing())

		require.NoError(t, h.apply(ctx, transport.EventQR))
		assert.Equal(t, store.StatusQR, h.Status())
		assert.True(t, h.Initializing())
		assert.False(t, h.Ready())

		require.NoError(t, h.apply(ctx, transport.EventReady))
		assert.Equal(t, store.StatusReady, h.Status())
		assert.True(t, h.Ready())
		assert.False(t, h.Initializing())

		require.NoError(t, h.apply(ctx, transport.EventDisconnected))
		assert.Equal(t, store.StatusDisconnected, h.Status())
		assert.False(t, h.Ready())
		assert.False(t, h.Initializing())
	})

	t.Run("undeclared transition follows reported status", func(t *testing.T) {
		h := newHandle("s1")
		require.NoError(t, h.apply(ctx, transport.EventReady))

		err := h.apply(ctx, transport.EventQR)
		assert.True(t, statemachine.IsNoTransitionAvailableError(err))
		assert.Equal(t, store.StatusQR, h.Status())
		assert.False(t, h.Ready())
		assert.True(t, h.Initializing())

		require.NoError(t, h.apply(ctx, transport.EventReady))
		assert.True(t, h.Ready())
	})

	t.Run("detached handle rejects events", func(t *testing.T) {
		h := newHandle("s1")
		require.NoError(t, h.apply(ctx, transport.EventReady))
		require.True(t, h.detach())

		err := h.apply(ctx, transport.EventReady)
		assert.True(t, statemachine.IsTransitionRejectedError(err))
		assert.Equal(t, store.StatusReady, h.Status())
		assert.False(t, h.Ready())

		err = h.apply(ctx, transport.EventDisconnected)
		assert.True(t, statemachine.IsTransitionRejectedError(err))
		assert.Equal(t, store.StatusReady, h.Status())
	})

	t.Run("messages do not touch the lifecycle", func(t *testing.T) {
		h := newHandle("s1")
		require.NoError(t, h.apply(ctx, transport.EventMessage))
		assert.Equal(t, store.StatusInitializing, h.Status())
	})
}

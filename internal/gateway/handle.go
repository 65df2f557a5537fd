package gateway

import (
	"context"
	"sync"

	"github.com/dmitrymomot/wagate/internal/store"
	"github.com/dmitrymomot/wagate/internal/transport"
	"github.com/dmitrymomot/wagate/pkg/statemachine"
)

// Handle is a registry entry: one live client and its lifecycle flags.
type Handle struct {
	id string

	mu           sync.RWMutex
	client       transport.Client
	ready        bool
	initializing bool
	// detached handles were removed from the registry; their late
	// lifecycle events are ignored.
	detached  bool
	lifecycle statemachine.StateMachine
}

func newHandle(id string) *Handle {
	h := &Handle{id: id, initializing: true}
	h.lifecycle = h.newLifecycle(stateInitializing)
	return h
}

func (h *Handle) ID() string { return h.id }

// Client returns nil while the client is still being constructed.
func (h *Handle) Client() transport.Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.client
}

func (h *Handle) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ready
}

func (h *Handle) Initializing() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.initializing
}

// Status is the lifecycle state of the live handle.
func (h *Handle) Status() store.Status {
	h.mu.RLock()
	lc := h.lifecycle
	h.mu.RUnlock()
	return store.Status(lc.Current().Name())
}

func (h *Handle) setClient(c transport.Client) {
	h.mu.Lock()
	h.client = c
	h.mu.Unlock()
}

// detach marks the handle removed and reports whether it was still attached.
func (h *Handle) detach() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.detached {
		return false
	}
	h.detached = true
	h.ready = false
	h.initializing = false
	return true
}

func (h *Handle) isDetached() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.detached
}

// enter sets the flags for status. Callers hold h.mu. Detached handles keep
// their cleared flags.
func (h *Handle) enter(status store.Status) {
	if h.detached {
		return
	}
	h.ready = status == store.StatusReady
	h.initializing = status == store.StatusInitializing || status == store.StatusQR
}

// apply advances the machine for a lifecycle event. A detached handle refuses
// the event with a transition-rejected error and nothing changes. An
// undeclared transition returns a no-transition error and the machine is
// moved to the reported status anyway, matching what gets persisted.
func (h *Handle) apply(ctx context.Context, kind transport.EventKind) error {
	event, status, ok := lifecycleEvent(kind)
	if !ok {
		return nil
	}

	h.mu.RLock()
	lc := h.lifecycle
	h.mu.RUnlock()

	err := lc.Fire(ctx, event, nil)
	if err == nil || !statemachine.IsNoTransitionAvailableError(err) {
		return err
	}

	next := h.newLifecycle(statemachine.StringState(status))
	h.mu.Lock()
	h.lifecycle = next
	h.enter(status)
	h.mu.Unlock()
	return err
}

package gateway

import (
	"context"

	"github.com/dmitrymomot/wagate/internal/store"
	"github.com/dmitrymomot/wagate/internal/transport"
	"github.com/dmitrymomot/wagate/pkg/statemachine"
)

var (
	stateInitializing = statemachine.StringState(store.StatusInitializing)
	stateQR           = statemachine.StringState(store.StatusQR)
	stateReady        = statemachine.StringState(store.StatusReady)
	stateDisconnected = statemachine.StringState(store.StatusDisconnected)
	stateAuthFailure  = statemachine.StringState(store.StatusAuthFailure)

	eventQR           = statemachine.StringEvent(transport.EventQR.String())
	eventReady        = statemachine.StringEvent(transport.EventReady.String())
	eventAuthFailure  = statemachine.StringEvent(transport.EventAuthFailure.String())
	eventDisconnected = statemachine.StringEvent(transport.EventDisconnected.String())
)

var lifecycleTransitions = []struct {
	from, to statemachine.State
	event    statemachine.Event
}{
	{stateInitializing, stateQR, eventQR},
	{stateQR, stateQR, eventQR},
	{stateInitializing, stateReady, eventReady},
	{stateQR, stateReady, eventReady},
	{stateReady, stateReady, eventReady},
	{stateInitializing, stateAuthFailure, eventAuthFailure},
	{stateQR, stateAuthFailure, eventAuthFailure},
	{stateInitializing, stateDisconnected, eventDisconnected},
	{stateQR, stateDisconnected, eventDisconnected},
	{stateReady, stateDisconnected, eventDisconnected},
}

// newLifecycle builds the machine for h starting at initial. Every transition
// is refused once h is detached and updates the handle flags when taken.
func (h *Handle) newLifecycle(initial statemachine.State) statemachine.StateMachine {
	attached := func(context.Context, statemachine.State, statemachine.Event, any) bool {
		return !h.isDetached()
	}
	enter := func(_ context.Context, _, to statemachine.State, _ statemachine.Event, _ any) error {
		h.mu.Lock()
		h.enter(store.Status(to.Name()))
		h.mu.Unlock()
		return nil
	}

	opts := make([]statemachine.Option, 0, len(lifecycleTransitions))
	for _, t := range lifecycleTransitions {
		opts = append(opts, statemachine.WithTransition(t.from, t.to, t.event,
			statemachine.WithGuard(attached),
			statemachine.WithAction(enter),
		))
	}
	return statemachine.MustNew(initial, opts...)
}

// lifecycleEvent maps a transport event to its lifecycle event and the
// status it records.
func lifecycleEvent(kind transport.EventKind) (statemachine.Event, store.Status, bool) {
	switch kind {
	case transport.EventQR:
		return eventQR, store.StatusQR, true
	case transport.EventReady:
		return eventReady, store.StatusReady, true
	case transport.EventAuthFailure:
		return eventAuthFailure, store.StatusAuthFailure, true
	case transport.EventDisconnected:
		return eventDisconnected, store.StatusDisconnected, true
	}
	return nil, "", false
}

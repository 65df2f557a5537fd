// Package statemachine implements a small guarded finite state machine.
//
// Transitions are declared up front with WithTransition, optionally carrying
// guards and actions, and triggered with Fire:
//
//	sm := statemachine.MustNew(Initializing,
//		statemachine.WithTransition(Initializing, Ready, Connected,
//			statemachine.WithGuard(attached),
//		),
//	)
//	if err := sm.Fire(ctx, Ready, nil); statemachine.IsNoTransitionAvailableError(err) {
//		// event not expected in the current state
//	}
//
// Guards must all pass for a transition to be taken; the first matching
// transition wins. Actions run in order before the state changes and abort the
// transition on error.
package statemachine

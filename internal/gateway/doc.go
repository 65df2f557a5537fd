// Package gateway manages live messaging sessions.
//
// A Manager keeps a registry of Handles, one per session ID, each wrapping a
// transport.Client. InitSession creates at most one client per ID and starts
// connecting in the background; the client's lifecycle events (pairing code,
// ready, auth failure, disconnect) drive a small state machine per handle
// and are persisted to the session store in order, without blocking the
// transport. Sessions that fail or disconnect are removed from the registry
// and are not reconnected automatically; callers call InitSession again.
//
// SendMessage only works on a handle that has reported ready. Bare phone
// numbers are turned into user addresses, and media for image and document
// messages is downloaded through a transport.MediaFetcher.
package gateway

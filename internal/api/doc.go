// Package api exposes the session manager over HTTP.
//
// Every route except /health, /ready and /webhook requires the configured API
// key, sent in the API key header or as an Authorization bearer token.
// /webhook is an echo endpoint gated by the webhook shared secret so external
// systems can test their side of the integration.
//
// Errors are rendered as
//
//	{"error": {"code": "session_not_ready", "message": "...", "details": {...}}}
//
// with a status derived from the gateway, store and validator sentinels.
package api

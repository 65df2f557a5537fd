// Package forwarder relays inbound messages to an external webhook.
//
// Each message becomes one JSON POST carrying the session id, sender,
// recipient, body, type, unix timestamp and provider message id, plus the
// configured shared-secret header. There are no retries. A circuit breaker
// skips delivery while the destination keeps failing.
package forwarder

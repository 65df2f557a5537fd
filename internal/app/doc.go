// Package app assembles the gateway: configuration, storage, transport,
// session manager and HTTP API.
package app

// Package media downloads images and documents referenced by outbound
// messages. Transient failures (connection errors, 5xx, 429) are retried
// with backoff; content type is taken from the response or sniffed.
package media

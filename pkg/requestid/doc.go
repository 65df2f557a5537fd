// Package requestid tags each HTTP request with a correlation ID.
//
// Middleware accepts a client-supplied X-Request-ID when it is at most 128
// characters of [a-zA-Z0-9_-], otherwise it generates a UUIDv7. The ID is
// echoed in the response header and available through FromContext.
// LoggerExtractor plugs the ID into pkg/logger so every record written with
// the request context carries request_id.
package requestid

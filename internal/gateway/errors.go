package gateway

import "errors"

var (
	ErrNotReady         = errors.New("session is not ready")
	ErrUnsupportedType  = errors.New("unsupported message type")
	ErrTransport        = errors.New("transport failure")
	ErrInvalidSessionID = errors.New("invalid session id")
	ErrClosed           = errors.New("session closed")
	ErrShuttingDown     = errors.New("session manager is shut down")
	ErrNilStore         = errors.New("session store is nil")
	ErrNilFactory       = errors.New("client factory is nil")
	ErrNoMediaFetcher   = errors.New("media fetcher is not configured")
)

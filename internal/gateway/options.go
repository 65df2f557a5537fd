package gateway

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/wagate/internal/transport"
)

// Forwarder receives inbound messages. Forward must not block.
type Forwarder interface {
	Forward(sessionID string, msg transport.InboundMessage)
}

// Option configures a Manager.
type Option func(*Manager)

// WithSessionDir sets the directory holding per-session credentials.
func WithSessionDir(dir string) Option {
	return func(m *Manager) {
		if dir != "" {
			m.sessionDir = dir
		}
	}
}

func WithMediaFetcher(f transport.MediaFetcher) Option {
	return func(m *Manager) { m.fetcher = f }
}

func WithForwarder(f Forwarder) Option {
	return func(m *Manager) { m.forwarder = f }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithStoreWriteTimeout bounds each event-triggered store write.
func WithStoreWriteTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.writeTimeout = d
		}
	}
}

// WithQRSize sets the pixel size of generated pairing QR images.
func WithQRSize(px int) Option {
	return func(m *Manager) {
		if px > 0 {
			m.qrSize = px
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

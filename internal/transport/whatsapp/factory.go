package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"

	"github.com/dmitrymomot/wagate/internal/transport"
	"github.com/dmitrymomot/wagate/pkg/logger"
)

// credentialsFile is the SQLite database inside each session directory.
const credentialsFile = "device.db"

// Factory creates whatsmeow clients, one SQLite credential store per session.
type Factory struct {
	log *slog.Logger
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

func WithLogger(l *slog.Logger) FactoryOption {
	return func(f *Factory) {
		if l != nil {
			f.log = l
		}
	}
}

// WithDeviceName sets the name shown in the phone's linked devices list.
// It applies process wide.
func WithDeviceName(name string) FactoryOption {
	return func(*Factory) {
		if name != "" {
			store.SetOSInfo(name, [3]uint32{1, 0, 0})
		}
	}
}

func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{log: logger.Noop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// New opens (or creates) the credential store in dir and returns a client
// bound to it. Automatic reconnection is disabled; the session manager
// decides when to connect again.
func (f *Factory) New(ctx context.Context, sessionID, dir string, handler transport.EventHandler) (transport.Client, error) {
	log := f.log.With(logger.Component("whatsapp"), logger.SessionID(sessionID))

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", filepath.Join(dir, credentialsFile))
	container, err := sqlstore.New(ctx, "sqlite3", dsn, newLogger(log, "store"))
	if err != nil {
		return nil, errors.Join(ErrCredentialStore, err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		_ = container.Close()
		return nil, errors.Join(ErrCredentialStore, err)
	}

	cli := whatsmeow.NewClient(device, newLogger(log, "client"))
	cli.EnableAutoReconnect = false

	return newClient(sessionID, cli, container, handler, log), nil
}

var _ transport.ClientFactory = (*Factory)(nil)

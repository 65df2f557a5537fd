package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"

	"github.com/dmitrymomot/wagate/internal/transport"
	"github.com/dmitrymomot/wagate/pkg/logger"
)

// Client is a transport.Client backed by one whatsmeow connection and its
// own SQLite credential store.
type Client struct {
	id        string
	cli       *whatsmeow.Client
	container *sqlstore.Container
	handler   transport.EventHandler
	log       *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once
}

func newClient(id string, cli *whatsmeow.Client, container *sqlstore.Container, handler transport.EventHandler, log *slog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		id:        id,
		cli:       cli,
		container: container,
		handler:   handler,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
	cli.AddEventHandler(c.onEvent)
	return c
}

// Connect opens the connection. Unpaired devices first subscribe to the
// pairing channel so QR codes are reported as events.
func (c *Client) Connect(ctx context.Context) error {
	if c.cli.Store.ID == nil {
		qr, err := c.cli.GetQRChannel(c.ctx)
		if err != nil {
			return errors.Join(ErrConnect, err)
		}
		go c.watchPairing(qr)
	}
	if err := c.cli.Connect(); err != nil {
		return errors.Join(ErrConnect, err)
	}
	return nil
}

func (c *Client) watchPairing(items <-chan whatsmeow.QRChannelItem) {
	for item := range items {
		if ev, ok := mapQRItem(item); ok {
			c.handler(ev)
		}
	}
}

func (c *Client) onEvent(evt any) {
	ev, ok := mapEvent(evt, c.Identity())
	if !ok {
		return
	}
	c.log.Debug("whatsapp event", logger.Event(ev.Kind.String()), slog.String("reason", ev.Reason))
	c.handler(ev)
}

// Logout unlinks the device at the provider. whatsmeow also removes the
// local credentials.
func (c *Client) Logout(ctx context.Context) error {
	if c.cli.Store.ID == nil {
		return ErrNotPaired
	}
	return c.cli.Logout(ctx)
}

// Disconnect closes the connection and the credential store. Safe to call
// more than once.
func (c *Client) Disconnect() {
	c.closeOnce.Do(func() {
		c.cancel()
		c.cli.Disconnect()
		if err := c.container.Close(); err != nil {
			c.log.Warn("failed to close credential store", logger.Error(err))
		}
	})
}

func (c *Client) Identity() string {
	if id := c.cli.Store.ID; id != nil {
		return id.ToNonAD().String()
	}
	return ""
}

func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	return c.send(ctx, to, textMessage(body))
}

func (c *Client) SendImage(ctx context.Context, to string, media transport.Media, caption string) (string, error) {
	up, err := c.cli.Upload(ctx, media.Data, whatsmeow.MediaImage)
	if err != nil {
		return "", errors.Join(ErrUpload, err)
	}
	return c.send(ctx, to, imageMessage(up, media, caption))
}

func (c *Client) SendDocument(ctx context.Context, to string, media transport.Media) (string, error) {
	up, err := c.cli.Upload(ctx, media.Data, whatsmeow.MediaDocument)
	if err != nil {
		return "", errors.Join(ErrUpload, err)
	}
	return c.send(ctx, to, documentMessage(up, media))
}

func (c *Client) SendButtons(ctx context.Context, to string, msg transport.ButtonsMessage) (string, error) {
	return c.send(ctx, to, buttonsMessage(msg))
}

func (c *Client) send(ctx context.Context, to string, msg *waE2E.Message) (string, error) {
	jid, err := types.ParseJID(to)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidRecipient, to)
	}
	resp, err := c.cli.SendMessage(ctx, jid, msg)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

var _ transport.Client = (*Client)(nil)

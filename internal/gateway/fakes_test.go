package gateway_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/wagate/internal/transport"
)

type sent struct {
	kind    string
	to      string
	body    string
	media   transport.Media
	caption string
	buttons transport.ButtonsMessage
}

type fakeClient struct {
	id      string
	dir     string
	handler transport.EventHandler

	connectErr error
	logoutErr  error
	sendErr    error

	connects    atomic.Int32
	logouts     atomic.Int32
	disconnects atomic.Int32

	mu   sync.Mutex
	sent []sent
}

func (c *fakeClient) Connect(context.Context) error {
	c.connects.Add(1)
	return c.connectErr
}

func (c *fakeClient) Logout(context.Context) error {
	c.logouts.Add(1)
	return c.logoutErr
}

func (c *fakeClient) Disconnect()      { c.disconnects.Add(1) }
func (c *fakeClient) Identity() string { return "15550001111@s.whatsapp.net" }

func (c *fakeClient) record(s sent) (string, error) {
	if c.sendErr != nil {
		return "", c.sendErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, s)
	return "MSG" + string(rune('A'+len(c.sent)-1)), nil
}

func (c *fakeClient) SendText(_ context.Context, to, body string) (string, error) {
	return c.record(sent{kind: "text", to: to, body: body})
}

func (c *fakeClient) SendImage(_ context.Context, to string, media transport.Media, caption string) (string, error) {
	return c.record(sent{kind: "image", to: to, media: media, caption: caption})
}

func (c *fakeClient) SendDocument(_ context.Context, to string, media transport.Media) (string, error) {
	return c.record(sent{kind: "document", to: to, media: media})
}

func (c *fakeClient) SendButtons(_ context.Context, to string, msg transport.ButtonsMessage) (string, error) {
	return c.record(sent{kind: "buttons", to: to, buttons: msg})
}

func (c *fakeClient) sentMessages() []sent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]sent, len(c.sent))
	copy(out, c.sent)
	return out
}

func (c *fakeClient) emit(ev transport.Event) { c.handler(ev) }

type fakeFactory struct {
	err        error
	connectErr error
	sendErr    error

	// When gate is set, New signals entered and blocks until gate is closed.
	gate    chan struct{}
	entered chan struct{}

	created atomic.Int32
	mu      sync.Mutex
	clients map[string]*fakeClient
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{clients: make(map[string]*fakeClient)}
}

func (f *fakeFactory) New(_ context.Context, sessionID, dir string, handler transport.EventHandler) (transport.Client, error) {
	f.created.Add(1)
	if f.gate != nil {
		f.entered <- struct{}{}
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	c := &fakeClient{
		id:         sessionID,
		dir:        dir,
		handler:    handler,
		connectErr: f.connectErr,
		sendErr:    f.sendErr,
	}
	f.mu.Lock()
	f.clients[sessionID] = c
	f.mu.Unlock()
	return c, nil
}

func (f *fakeFactory) client(id string) *fakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clients[id]
}

type fakeFetcher struct {
	media transport.Media
	err   error
	urls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*transport.Media, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	m := f.media
	return &m, nil
}

type fakeForwarder struct {
	mu       sync.Mutex
	messages []transport.InboundMessage
	sessions []string
}

func (f *fakeForwarder) Forward(sessionID string, msg transport.InboundMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, sessionID)
	f.messages = append(f.messages, msg)
}

var errBoom = errors.New("boom")

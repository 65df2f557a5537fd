package api_test

import (
	"context"
	"strconv"
	"sync"

	"github.com/dmitrymomot/wagate/internal/transport"
)

type sentMessage struct {
	kind    string
	to      string
	body    string
	buttons []transport.Button
}

type fakeClient struct {
	handler transport.EventHandler
	sendErr error

	mu   sync.Mutex
	sent []sentMessage
}

func (c *fakeClient) Connect(context.Context) error { return nil }
func (c *fakeClient) Logout(context.Context) error  { return nil }
func (c *fakeClient) Disconnect()                   {}
func (c *fakeClient) Identity() string              { return "15550001111@s.whatsapp.net" }

func (c *fakeClient) record(m sentMessage) (string, error) {
	if c.sendErr != nil {
		return "", c.sendErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, m)
	return "MSG" + strconv.Itoa(len(c.sent)), nil
}

func (c *fakeClient) SendText(_ context.Context, to, body string) (string, error) {
	return c.record(sentMessage{kind: "text", to: to, body: body})
}

func (c *fakeClient) SendImage(_ context.Context, to string, _ transport.Media, caption string) (string, error) {
	return c.record(sentMessage{kind: "image", to: to, body: caption})
}

func (c *fakeClient) SendDocument(_ context.Context, to string, media transport.Media) (string, error) {
	return c.record(sentMessage{kind: "document", to: to, body: media.FileName})
}

func (c *fakeClient) SendButtons(_ context.Context, to string, msg transport.ButtonsMessage) (string, error) {
	return c.record(sentMessage{kind: "buttons", to: to, body: msg.Body, buttons: msg.Buttons})
}

func (c *fakeClient) messages() []sentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sentMessage(nil), c.sent...)
}

type fakeFactory struct {
	sendErr error

	mu      sync.Mutex
	created int
	clients map[string]*fakeClient
}

func (f *fakeFactory) New(_ context.Context, sessionID, _ string, handler transport.EventHandler) (transport.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clients == nil {
		f.clients = make(map[string]*fakeClient)
	}
	f.created++
	c := &fakeClient{handler: handler, sendErr: f.sendErr}
	f.clients[sessionID] = c
	return c, nil
}

func (f *fakeFactory) client(id string) *fakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clients[id]
}

func (f *fakeFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wagate/internal/forwarder"
	"github.com/dmitrymomot/wagate/internal/gateway"
	"github.com/dmitrymomot/wagate/internal/store"
	"github.com/dmitrymomot/wagate/internal/transport"
)

func TestInboundMessage_UnreachableWebhookKeepsSessionReady(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := srv.URL
	srv.Close()

	fwd := forwarder.New(forwarder.Config{TargetURL: target, Timeout: time.Second})
	e := newEnv(t, gateway.WithForwarder(fwd))
	c := e.readySession(t, "s1")

	msg := transport.InboundMessage{ID: "ABC", From: "1@s.whatsapp.net", Body: "hello", Type: "text", Timestamp: time.Now()}
	c.emit(transport.Event{Kind: transport.EventMessage, Message: &msg})
	fwd.Wait()

	assert.Equal(t, store.StatusReady, e.status(t, "s1"))
	assert.NotNil(t, e.manager.Client("s1"))
	assert.Zero(t, c.disconnects.Load())

	_, err := e.manager.SendMessage(context.Background(), "s1", "123", gateway.Payload{Type: gateway.TypeText, Message: "still up"})
	require.NoError(t, err)
}

func TestInboundMessage_DeliveredToWebhook(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	fwd := forwarder.New(forwarder.Config{TargetURL: srv.URL, Timeout: time.Second})
	e := newEnv(t, gateway.WithForwarder(fwd))
	c := e.readySession(t, "s1")

	msg := transport.InboundMessage{ID: "ABC", From: "1@s.whatsapp.net", Body: "hello", Type: "text"}
	c.emit(transport.Event{Kind: transport.EventMessage, Message: &msg})
	fwd.Wait()

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, store.StatusReady, e.status(t, "s1"))
}

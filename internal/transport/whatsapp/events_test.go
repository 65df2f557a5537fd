package whatsapp

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"

	"github.com/dmitrymomot/wagate/internal/transport"
)

const self = "15550001111@s.whatsapp.net"

func TestMapEvent_Lifecycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		evt  any
		want transport.EventKind
	}{
		{"connected", &events.Connected{}, transport.EventReady},
		{"pair error", &events.PairError{Error: errors.New("bad key")}, transport.EventAuthFailure},
		{"logged out on connect", &events.LoggedOut{OnConnect: true, Reason: events.ConnectFailureLoggedOut}, transport.EventAuthFailure},
		{"logged out later", &events.LoggedOut{Reason: events.ConnectFailureLoggedOut}, transport.EventDisconnected},
		{"client outdated", &events.ClientOutdated{}, transport.EventAuthFailure},
		{"stream replaced", &events.StreamReplaced{}, transport.EventDisconnected},
		{"disconnected", &events.Disconnected{}, transport.EventDisconnected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := mapEvent(tt.evt, self)
			require.True(t, ok)
			assert.Equal(t, tt.want, ev.Kind)
		})
	}

	_, ok := mapEvent(&events.Receipt{}, self)
	assert.False(t, ok, "unrelated events are ignored")
}

func TestMapEvent_Message(t *testing.T) {
	t.Parallel()
	sender := types.NewJID("919999999999", types.DefaultUserServer)
	sender.Device = 3
	ts := time.Unix(1_700_000_000, 0)

	evt := &events.Message{
		Info: types.MessageInfo{
			MessageSource: types.MessageSource{Chat: sender.ToNonAD(), Sender: sender},
			ID:            "3EB0ABC",
			Timestamp:     ts,
		},
		Message: &waE2E.Message{Conversation: proto.String("hello")},
	}

	ev, ok := mapEvent(evt, self)
	require.True(t, ok)
	require.Equal(t, transport.EventMessage, ev.Kind)
	assert.Equal(t, transport.InboundMessage{
		ID:        "3EB0ABC",
		From:      "919999999999@s.whatsapp.net",
		To:        self,
		Body:      "hello",
		Type:      "text",
		Timestamp: ts,
	}, *ev.Message)

	group := types.NewJID("120363000000000000", types.GroupServer)
	evt.Info.IsGroup = true
	evt.Info.Chat = group
	ev, ok = mapEvent(evt, self)
	require.True(t, ok)
	assert.Equal(t, group.String(), ev.Message.To)

	evt.Info.IsFromMe = true
	_, ok = mapEvent(evt, self)
	assert.False(t, ok, "own messages are not forwarded")
}

func TestMapQRItem(t *testing.T) {
	t.Parallel()

	ev, ok := mapQRItem(whatsmeow.QRChannelItem{Event: whatsmeow.QRChannelEventCode, Code: "2@abc"})
	require.True(t, ok)
	assert.Equal(t, transport.EventQR, ev.Kind)
	assert.Equal(t, "2@abc", ev.QRCode)

	_, ok = mapQRItem(whatsmeow.QRChannelSuccess)
	assert.False(t, ok)

	ev, ok = mapQRItem(whatsmeow.QRChannelTimeout)
	require.True(t, ok)
	assert.Equal(t, transport.EventDisconnected, ev.Kind)

	ev, ok = mapQRItem(whatsmeow.QRChannelItem{Event: whatsmeow.QRChannelEventError, Error: errors.New("bad")})
	require.True(t, ok)
	assert.Equal(t, transport.EventAuthFailure, ev.Kind)
	assert.Equal(t, "bad", ev.Reason)

	ev, ok = mapQRItem(whatsmeow.QRChannelClientOutdated)
	require.True(t, ok)
	assert.Equal(t, transport.EventAuthFailure, ev.Kind)
}

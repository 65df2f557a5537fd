package whatsapp

import (
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/dmitrymomot/wagate/internal/transport"
)

// mapEvent converts a whatsmeow event. self is the account's own address,
// used as the recipient of direct messages.
func mapEvent(evt any, self string) (transport.Event, bool) {
	switch v := evt.(type) {
	case *events.Connected:
		return transport.Event{Kind: transport.EventReady}, true
	case *events.PairError:
		reason := "pairing failed"
		if v.Error != nil {
			reason = v.Error.Error()
		}
		return transport.Event{Kind: transport.EventAuthFailure, Reason: reason}, true
	case *events.LoggedOut:
		if v.OnConnect {
			return transport.Event{Kind: transport.EventAuthFailure, Reason: v.Reason.String()}, true
		}
		return transport.Event{Kind: transport.EventDisconnected, Reason: "logged out: " + v.Reason.String()}, true
	case *events.ConnectFailure:
		return transport.Event{Kind: transport.EventAuthFailure, Reason: v.Reason.String()}, true
	case *events.TemporaryBan:
		return transport.Event{Kind: transport.EventAuthFailure, Reason: v.String()}, true
	case *events.ClientOutdated:
		return transport.Event{Kind: transport.EventAuthFailure, Reason: "client outdated"}, true
	case *events.StreamReplaced:
		return transport.Event{Kind: transport.EventDisconnected, Reason: "stream replaced"}, true
	case *events.Disconnected:
		return transport.Event{Kind: transport.EventDisconnected, Reason: "connection lost"}, true
	case *events.Message:
		if v.Info.IsFromMe || v.Message == nil {
			return transport.Event{}, false
		}
		body, kind := inboundBody(v.Message)
		to := self
		if v.Info.IsGroup {
			to = v.Info.Chat.String()
		}
		return transport.Event{Kind: transport.EventMessage, Message: &transport.InboundMessage{
			ID:        v.Info.ID,
			From:      v.Info.Sender.ToNonAD().String(),
			To:        to,
			Body:      body,
			Type:      kind,
			Timestamp: v.Info.Timestamp,
		}}, true
	}
	return transport.Event{}, false
}

// mapQRItem converts a pairing channel item. Success is reported later by
// events.Connected, so it maps to nothing.
func mapQRItem(item whatsmeow.QRChannelItem) (transport.Event, bool) {
	switch item.Event {
	case whatsmeow.QRChannelEventCode:
		return transport.Event{Kind: transport.EventQR, QRCode: item.Code}, true
	case whatsmeow.QRChannelSuccess.Event:
		return transport.Event{}, false
	case whatsmeow.QRChannelTimeout.Event:
		return transport.Event{Kind: transport.EventDisconnected, Reason: "pairing timed out"}, true
	case whatsmeow.QRChannelEventError:
		reason := "pairing error"
		if item.Error != nil {
			reason = item.Error.Error()
		}
		return transport.Event{Kind: transport.EventAuthFailure, Reason: reason}, true
	}
	return transport.Event{Kind: transport.EventAuthFailure, Reason: item.Event}, true
}

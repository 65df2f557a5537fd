package transport

import (
	"context"
	"time"
)

// EventKind identifies a lifecycle or inbound event emitted by a Client.
type EventKind int

const (
	EventQR EventKind = iota + 1
	EventReady
	EventAuthFailure
	EventDisconnected
	EventMessage
)

func (k EventKind) String() string {
	switch k {
	case EventQR:
		return "qr"
	case EventReady:
		return "ready"
	case EventAuthFailure:
		return "auth_failure"
	case EventDisconnected:
		return "disconnected"
	case EventMessage:
		return "message"
	}
	return "unknown"
}

// Event is delivered to the EventHandler bound at client construction.
type Event struct {
	Kind EventKind
	// QRCode is the raw pairing payload for EventQR.
	QRCode string
	// Reason describes EventAuthFailure and EventDisconnected.
	Reason  string
	Message *InboundMessage
}

// InboundMessage is a message received by a session.
type InboundMessage struct {
	ID        string
	From      string
	To        string
	Body      string
	Type      string
	Timestamp time.Time
}

// EventHandler must not block for long; clients call it from their I/O goroutines.
type EventHandler func(Event)

// Button is one interactive reply option.
type Button struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ButtonsMessage is a text body with reply buttons.
type ButtonsMessage struct {
	Body    string
	Title   string
	Footer  string
	Buttons []Button
}

// Media is downloaded content ready for upload.
type Media struct {
	Data     []byte
	MimeType string
	FileName string
}

// Client is one messaging account connection. Send methods return the
// provider-assigned message ID.
type Client interface {
	// Connect starts the connection and returns once it is underway.
	// Progress is reported through the EventHandler.
	Connect(ctx context.Context) error
	// Logout revokes the paired device and removes local credentials.
	Logout(ctx context.Context) error
	// Disconnect closes the connection and keeps credentials.
	Disconnect()
	// Identity is the authenticated account address, empty before pairing.
	Identity() string

	SendText(ctx context.Context, to, body string) (string, error)
	SendImage(ctx context.Context, to string, media Media, caption string) (string, error)
	SendDocument(ctx context.Context, to string, media Media) (string, error)
	SendButtons(ctx context.Context, to string, msg ButtonsMessage) (string, error)
}

// ClientFactory builds a Client whose credentials live under dir.
type ClientFactory interface {
	New(ctx context.Context, sessionID, dir string, handler EventHandler) (Client, error)
}

// MediaFetcher downloads media referenced by URL.
type MediaFetcher interface {
	Fetch(ctx context.Context, url string) (*Media, error)
}

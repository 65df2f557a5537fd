package gateway

import "github.com/dmitrymomot/wagate/internal/transport"

// MessageType selects how a Payload is sent.
type MessageType string

const (
	TypeText     MessageType = "text"
	TypeImage    MessageType = "image"
	TypeDocument MessageType = "document"
	TypeButtons  MessageType = "buttons"
)

// Supported reports whether t can be dispatched.
func (t MessageType) Supported() bool {
	switch t {
	case TypeText, TypeImage, TypeDocument, TypeButtons:
		return true
	}
	return false
}

// Payload is an outbound message. Which fields are read depends on Type:
// text uses Message; image uses URL and Caption; document uses URL;
// buttons uses Message, Buttons, Title and Footer.
type Payload struct {
	Type    MessageType
	Message string
	URL     string
	Caption string
	Title   string
	Footer  string
	Buttons []transport.Button
}

package whatsapp

import (
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"google.golang.org/protobuf/proto"

	"github.com/dmitrymomot/wagate/internal/transport"
)

func textMessage(body string) *waE2E.Message {
	return &waE2E.Message{Conversation: proto.String(body)}
}

func imageMessage(up whatsmeow.UploadResponse, media transport.Media, caption string) *waE2E.Message {
	img := &waE2E.ImageMessage{
		Mimetype:      proto.String(media.MimeType),
		URL:           proto.String(up.URL),
		DirectPath:    proto.String(up.DirectPath),
		MediaKey:      up.MediaKey,
		FileEncSHA256: up.FileEncSHA256,
		FileSHA256:    up.FileSHA256,
		FileLength:    proto.Uint64(up.FileLength),
	}
	if caption != "" {
		img.Caption = proto.String(caption)
	}
	return &waE2E.Message{ImageMessage: img}
}

func documentMessage(up whatsmeow.UploadResponse, media transport.Media) *waE2E.Message {
	return &waE2E.Message{DocumentMessage: &waE2E.DocumentMessage{
		Mimetype:      proto.String(media.MimeType),
		FileName:      proto.String(media.FileName),
		Title:         proto.String(media.FileName),
		URL:           proto.String(up.URL),
		DirectPath:    proto.String(up.DirectPath),
		MediaKey:      up.MediaKey,
		FileEncSHA256: up.FileEncSHA256,
		FileSHA256:    up.FileSHA256,
		FileLength:    proto.Uint64(up.FileLength),
	}}
}

// buttonsMessage keeps buttons in input order. A title becomes a text header.
func buttonsMessage(msg transport.ButtonsMessage) *waE2E.Message {
	buttons := make([]*waE2E.ButtonsMessage_Button, 0, len(msg.Buttons))
	for _, b := range msg.Buttons {
		buttons = append(buttons, &waE2E.ButtonsMessage_Button{
			ButtonID:   proto.String(b.ID),
			ButtonText: &waE2E.ButtonsMessage_Button_ButtonText{DisplayText: proto.String(b.Text)},
			Type:       waE2E.ButtonsMessage_Button_RESPONSE.Enum(),
		})
	}

	bm := &waE2E.ButtonsMessage{
		ContentText: proto.String(msg.Body),
		Buttons:     buttons,
		HeaderType:  waE2E.ButtonsMessage_EMPTY.Enum(),
	}
	if msg.Footer != "" {
		bm.FooterText = proto.String(msg.Footer)
	}
	if msg.Title != "" {
		bm.HeaderType = waE2E.ButtonsMessage_TEXT.Enum()
		bm.Header = &waE2E.ButtonsMessage_Text{Text: msg.Title}
	}
	return &waE2E.Message{ButtonsMessage: bm}
}

// inboundBody extracts the human readable part of a received message.
func inboundBody(m *waE2E.Message) (body, kind string) {
	switch {
	case m.GetConversation() != "":
		return m.GetConversation(), "text"
	case m.GetExtendedTextMessage() != nil:
		return m.GetExtendedTextMessage().GetText(), "text"
	case m.GetImageMessage() != nil:
		return m.GetImageMessage().GetCaption(), "image"
	case m.GetDocumentMessage() != nil:
		doc := m.GetDocumentMessage()
		if c := doc.GetCaption(); c != "" {
			return c, "document"
		}
		return doc.GetFileName(), "document"
	case m.GetVideoMessage() != nil:
		return m.GetVideoMessage().GetCaption(), "video"
	case m.GetAudioMessage() != nil:
		return "", "audio"
	case m.GetStickerMessage() != nil:
		return "", "sticker"
	case m.GetLocationMessage() != nil:
		return m.GetLocationMessage().GetName(), "location"
	case m.GetButtonsResponseMessage() != nil:
		return m.GetButtonsResponseMessage().GetSelectedDisplayText(), "buttons_response"
	}
	return "", "unknown"
}

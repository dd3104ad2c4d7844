package model

import (
	"time"

	"glimpse/internal/gateway"
	"glimpse/pkg/errors"
)

const (
	FieldConversationKey = "conversationKey"
	FieldFromUserID      = "fromUserID"
	FieldToUserID        = "toUserID"
	FieldText            = "text"
	FieldMediaURL        = "mediaURL"
	FieldMediaType       = "mediaType"
	FieldViewOnce        = "viewOnce"
	FieldViewed          = "viewed"
)

// Message belongs to exactly one conversation. Append-only except for
// the single viewed false→true transition; CreatedAt is assigned by the
// backend's server clock and is the sole sort key.
type Message struct {
	ID              string
	ConversationKey string
	FromUserID      string
	ToUserID        string
	Text            string
	MediaURL        string
	MediaType       string
	ViewOnce        bool
	Viewed          bool
	CreatedAt       time.Time
}

func (m *Message) HasMedia() bool { return m.MediaURL != "" }

func (m *Message) Fields() gateway.Fields {
	return gateway.Fields{
		FieldConversationKey: m.ConversationKey,
		FieldFromUserID:      m.FromUserID,
		FieldToUserID:        m.ToUserID,
		FieldText:            m.Text,
		FieldMediaURL:        m.MediaURL,
		FieldMediaType:       m.MediaType,
		FieldViewOnce:        m.ViewOnce,
		FieldViewed:          m.Viewed,
		FieldCreatedAt:       gateway.ServerTimestamp,
	}
}

// MessageFromDocument validates and decodes a backend document. The
// payloads are duck-typed on the wire; malformed ones are rejected here
// rather than trusted.
func MessageFromDocument(doc gateway.Document) (*Message, error) {
	m := &Message{
		ID:              doc.ID,
		ConversationKey: doc.Str(FieldConversationKey),
		FromUserID:      doc.Str(FieldFromUserID),
		ToUserID:        doc.Str(FieldToUserID),
		Text:            doc.Str(FieldText),
		MediaURL:        doc.Str(FieldMediaURL),
		MediaType:       doc.Str(FieldMediaType),
		ViewOnce:        doc.Bool(FieldViewOnce),
		Viewed:          doc.Bool(FieldViewed),
		CreatedAt:       doc.Time(FieldCreatedAt),
	}
	if m.ConversationKey == "" || m.FromUserID == "" || m.ToUserID == "" {
		return nil, errors.ErrMalformedDocument
	}
	return m, nil
}

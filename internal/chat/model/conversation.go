package model

import (
	"time"

	"glimpse/internal/gateway"
	"glimpse/pkg/errors"
)

// Backend field names, shared across collections.
const (
	FieldParticipants = "participants"
	FieldCreatedAt    = "createdAt"
)

// Conversation is a two-party conversation record. Key is the
// deterministic participant-order-independent identifier; conversations
// are created lazily and never deleted.
type Conversation struct {
	Key          string
	Participants []string
	CreatedAt    time.Time
}

func (c *Conversation) Fields() gateway.Fields {
	return gateway.Fields{
		FieldParticipants: c.Participants,
		FieldCreatedAt:    gateway.ServerTimestamp,
	}
}

// ConversationFromDocument validates and decodes a backend document.
func ConversationFromDocument(doc gateway.Document) (*Conversation, error) {
	participants, ok := doc.Fields[FieldParticipants].([]string)
	if !ok {
		// backends that round-trip through JSON deliver []any
		raw, rawOK := doc.Fields[FieldParticipants].([]any)
		if !rawOK {
			return nil, errors.ErrMalformedDocument
		}
		for _, v := range raw {
			s, sOK := v.(string)
			if !sOK {
				return nil, errors.ErrMalformedDocument
			}
			participants = append(participants, s)
		}
	}
	if len(participants) != 2 {
		return nil, errors.ErrMalformedDocument
	}
	return &Conversation{
		Key:          doc.ID,
		Participants: participants,
		CreatedAt:    doc.Time(FieldCreatedAt),
	}, nil
}

package model

import (
	"time"

	"glimpse/internal/gateway"
	"glimpse/pkg/errors"
)

const (
	FieldFromUserID = "fromUserID"
	FieldToUserID   = "toUserID"
	FieldMediaURL   = "mediaURL"
	FieldMediaType  = "mediaType"
	FieldCreatedAt  = "createdAt"
)

// IndexEntry is the denormalized, receiver-indexed copy of a sent
// attachment. It carries no back-reference to its message; orphans are
// possible and acceptable. Revocation clears ToUserID instead of
// deleting the record.
type IndexEntry struct {
	ID         string
	FromUserID string
	ToUserID   string
	MediaURL   string
	MediaType  string
	CreatedAt  time.Time
}

func (e *IndexEntry) Fields() gateway.Fields {
	return gateway.Fields{
		FieldFromUserID: e.FromUserID,
		FieldToUserID:   e.ToUserID,
		FieldMediaURL:   e.MediaURL,
		FieldMediaType:  e.MediaType,
		FieldCreatedAt:  gateway.ServerTimestamp,
	}
}

func IndexEntryFromDocument(doc gateway.Document) (*IndexEntry, error) {
	e := &IndexEntry{
		ID:         doc.ID,
		FromUserID: doc.Str(FieldFromUserID),
		ToUserID:   doc.Str(FieldToUserID),
		MediaURL:   doc.Str(FieldMediaURL),
		MediaType:  doc.Str(FieldMediaType),
		CreatedAt:  doc.Time(FieldCreatedAt),
	}
	if e.MediaURL == "" || e.FromUserID == "" {
		return nil, errors.ErrMalformedDocument
	}
	return e, nil
}

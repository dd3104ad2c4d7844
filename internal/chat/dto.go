package chat

import (
	"context"

	"glimpse/internal/media"
)

// NOTE: commands travel from the view layer to the usecase.

type SendCommand struct {
	ConversationKey string
	Text            string
	// Attachment, when set, makes the message view-once.
	Attachment *media.Attachment
}

// Coarse send-progress stages polled by the view layer. UI state only,
// never persisted.
const (
	ProgressIdle           = 0
	ProgressUploadStarted  = 50
	ProgressUploadComplete = 80
	ProgressMessageWritten = 100
)

// Uploader is the slice of the media pipeline the chat usecase needs.
type Uploader interface {
	// Upload blocks until the attachment is durably stored and returns
	// its reference. Failure aborts the send.
	Upload(ctx context.Context, conversationKey string, att media.Attachment) (media.Ref, error)
	// RecordSent writes the receiver-indexed media index entry. Callers
	// treat failure as best-effort: log, never roll back the message.
	RecordSent(ctx context.Context, ref media.Ref, fromUserID, toUserID string) error
}

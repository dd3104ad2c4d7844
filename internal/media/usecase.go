package media

import (
	"context"

	"glimpse/internal/media/model"
)

type MediaUsecase interface {
	// StartUpload begins an attachment upload for a conversation and
	// returns the in-flight task.
	StartUpload(ctx context.Context, conversationKey string, att Attachment) (Task, error)

	// Upload is the blocking form of StartUpload; it drains progress
	// internally and returns the durable reference.
	Upload(ctx context.Context, conversationKey string, att Attachment) (Ref, error)

	// RecordSent writes the media index entry for a delivered attachment.
	RecordSent(ctx context.Context, ref Ref, fromUserID, toUserID string) error

	// ReviewList lists the current identity's received, non-revoked media.
	ReviewList(ctx context.Context) ([]model.IndexEntry, error)

	// Revoke soft-revokes a received entry.
	Revoke(ctx context.Context, entryID string) error
}

// MessageMarker is the slice of message persistence the view-once state
// machine needs. The chat repository satisfies it.
type MessageMarker interface {
	IsViewed(ctx context.Context, messageID string) (bool, error)
	// MarkViewed flips viewed to true. The transition is monotonic; it
	// is never reverted.
	MarkViewed(ctx context.Context, messageID string) error
}

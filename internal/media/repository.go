package media

import (
	"context"

	"glimpse/internal/gateway"
	"glimpse/internal/media/model"
)

type MediaRepository interface {
	// Upload streams the attachment to blob storage under path.
	// Last-write-wins when two uploads share a path.
	Upload(ctx context.Context, path string, att Attachment) (gateway.UploadTask, error)

	InsertIndexEntry(ctx context.Context, entry *model.IndexEntry) error
	// ListForReceiver returns non-revoked entries addressed to receiverID,
	// newest first.
	ListForReceiver(ctx context.Context, receiverID string) ([]model.IndexEntry, error)
	// Revoke clears the receiver id on an entry (soft revocation).
	Revoke(ctx context.Context, entryID string) error
}

package repository

import (
	"bytes"
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"glimpse/internal/gateway"
	"glimpse/internal/media"
	"glimpse/internal/media/model"
	apperrors "glimpse/pkg/errors"
	"glimpse/pkg/logger"
)

type MediaRepository struct {
	store  gateway.DocumentStore
	blobs  gateway.BlobStore
	logger *logger.Logger
}

func NewMediaRepository(store gateway.DocumentStore, blobs gateway.BlobStore, logger logger.Logger) *MediaRepository {
	return &MediaRepository{
		store:  store,
		blobs:  blobs,
		logger: &logger,
	}
}

func (r *MediaRepository) Upload(ctx context.Context, path string, att media.Attachment) (gateway.UploadTask, error) {
	task, err := r.blobs.Upload(ctx, path, bytes.NewReader(att.Data), int64(len(att.Data)), att.ContentType)
	if err != nil {
		return nil, errors.Wrap(err, "mediaRepo.Upload.Start: ")
	}
	return task, nil
}

func (r *MediaRepository) InsertIndexEntry(ctx context.Context, entry *model.IndexEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	err := r.store.Upsert(ctx, gateway.CollectionMediaIndex, entry.ID, entry.Fields(), false)
	if err != nil {
		return errors.Wrap(err, "mediaRepo.InsertIndexEntry.Upsert: ")
	}
	return nil
}

func (r *MediaRepository) ListForReceiver(ctx context.Context, receiverID string) ([]model.IndexEntry, error) {
	docs, err := r.store.Query(ctx, gateway.Query{
		Collection: gateway.CollectionMediaIndex,
		Filters: []gateway.Filter{
			{Field: model.FieldToUserID, Op: "==", Value: receiverID},
		},
		OrderBy:    model.FieldCreatedAt,
		Descending: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "mediaRepo.ListForReceiver.Query: ")
	}

	entries := make([]model.IndexEntry, 0, len(docs))
	for _, doc := range docs {
		e, err := model.IndexEntryFromDocument(doc)
		if err != nil {
			r.logger.Warn("dropping malformed media index document", "id", doc.ID, "err", err)
			continue
		}
		entries = append(entries, *e)
	}
	return entries, nil
}

func (r *MediaRepository) Revoke(ctx context.Context, entryID string) error {
	err := r.store.UpdateFields(ctx, gateway.CollectionMediaIndex, entryID, gateway.Fields{
		model.FieldToUserID: "",
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NotFound("media index entry not found")
		}
		return errors.Wrap(err, "mediaRepo.Revoke.UpdateFields: ")
	}
	return nil
}

package usecase

import (
	"context"

	"glimpse/internal/gateway"
	"glimpse/internal/media"
	"glimpse/internal/media/model"
	"glimpse/pkg/errors"
	"glimpse/pkg/logger"
	"glimpse/pkg/utils"
)

type MediaUsecase struct {
	repo     media.MediaRepository
	identity gateway.Identity
	logger   logger.Logger
}

func NewMediaUsecase(repo media.MediaRepository, identity gateway.Identity, logger logger.Logger) *MediaUsecase {
	return &MediaUsecase{repo: repo, identity: identity, logger: logger}
}

func (uc *MediaUsecase) StartUpload(ctx context.Context, conversationKey string, att media.Attachment) (media.Task, error) {
	if len(att.Data) == 0 {
		return nil, errors.ErrEmptyUpload
	}
	if att.Filename == "" {
		return nil, errors.InvalidArg("attachment has no filename")
	}

	contentType := utils.DetectMediaType(att.ContentType, att.Data)

	// namespaced by conversation + original filename; a repeated name
	// overwrites the earlier blob (accepted, no dedup)
	path := conversationKey + "/" + att.Filename
	task, err := uc.repo.Upload(ctx, path, att)
	if err != nil {
		return nil, errors.ErrTransferFailed(err)
	}
	return &uploadTask{inner: task, contentType: contentType}, nil
}

func (uc *MediaUsecase) Upload(ctx context.Context, conversationKey string, att media.Attachment) (media.Ref, error) {
	task, err := uc.StartUpload(ctx, conversationKey, att)
	if err != nil {
		return media.Ref{}, err
	}
	for range task.Progress() {
		// drain; blocking callers have no use for fractional progress
	}
	return task.Wait(ctx)
}

func (uc *MediaUsecase) RecordSent(ctx context.Context, ref media.Ref, fromUserID, toUserID string) error {
	entry := &model.IndexEntry{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		MediaURL:   ref.URL,
		MediaType:  ref.Type,
	}
	return uc.repo.InsertIndexEntry(ctx, entry)
}

func (uc *MediaUsecase) ReviewList(ctx context.Context) ([]model.IndexEntry, error) {
	me, err := uc.identity.Current(ctx)
	if err != nil {
		return nil, errors.ErrIdentityMissing
	}
	return uc.repo.ListForReceiver(ctx, me.ID)
}

func (uc *MediaUsecase) Revoke(ctx context.Context, entryID string) error {
	if _, err := uc.identity.Current(ctx); err != nil {
		return errors.ErrIdentityMissing
	}
	return uc.repo.Revoke(ctx, entryID)
}

// uploadTask adapts the gateway task to the media-typed result.
type uploadTask struct {
	inner       gateway.UploadTask
	contentType string
}

func (t *uploadTask) Progress() <-chan int { return t.inner.Progress() }

func (t *uploadTask) Wait(ctx context.Context) (media.Ref, error) {
	url, err := t.inner.Wait(ctx)
	if err != nil {
		if errors.CodeOf(err) == errors.CodeUnknown {
			return media.Ref{}, errors.ErrTransferFailed(err)
		}
		return media.Ref{}, err
	}
	return media.Ref{URL: url, Type: t.contentType}, nil
}

func (t *uploadTask) Cancel() { t.inner.Cancel() }

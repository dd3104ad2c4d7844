package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/benbjohnson/clock"

	"glimpse/config"
	"glimpse/internal/chat"
	"glimpse/internal/chat/model"
	"glimpse/internal/gateway"
	"glimpse/internal/media"
	"glimpse/pkg/errors"
	"glimpse/pkg/logger"
)

type ChatUsecase struct {
	repo     chat.ChatRepository
	uploader chat.Uploader
	identity gateway.Identity
	logger   logger.Logger
	progress *progressTracker
}

func NewChatUsecase(repo chat.ChatRepository, uploader chat.Uploader, identity gateway.Identity,
	clk clock.Clock, logger logger.Logger, config config.Config) *ChatUsecase {

	resetAfter := time.Duration(config.Chat.ProgressResetSeconds) * time.Second
	return &ChatUsecase{
		repo:     repo,
		uploader: uploader,
		identity: identity,
		logger:   logger,
		progress: newProgressTracker(clk, resetAfter),
	}
}

func (uc *ChatUsecase) EnsureConversation(ctx context.Context, peerID string) (string, error) {
	me, err := uc.identity.Current(ctx)
	if err != nil {
		return "", errors.ErrIdentityMissing
	}

	key, err := chat.ConversationKey(me.ID, peerID)
	if err != nil {
		return "", err
	}

	if _, err := uc.repo.GetConversation(ctx, key); err == nil {
		// already exists; createdAt and participants stay untouched
		return key, nil
	} else if !errors.IsNotFound(err) {
		uc.logger.Error("conversation lookup failed", "key", key, "err", err)
		return "", errors.Internal("internal server error")
	}

	participants := []string{me.ID, peerID}
	sort.Strings(participants)
	conv := &model.Conversation{Key: key, Participants: participants}
	if err := uc.repo.CreateConversation(ctx, conv); err != nil {
		uc.logger.Error("conversation create failed", "key", key, "err", err)
		return "", errors.Internal("internal server error")
	}
	return key, nil
}

func (uc *ChatUsecase) Subscribe(ctx context.Context, conversationKey string) (chat.MessageSubscription, error) {
	return uc.repo.ListenMessages(ctx, conversationKey)
}

func (uc *ChatUsecase) Send(ctx context.Context, cmd chat.SendCommand) (string, error) {
	// nothing to send: silent no-op, no backend write
	if strings.TrimSpace(cmd.Text) == "" && cmd.Attachment == nil {
		return "", nil
	}

	me, err := uc.identity.Current(ctx)
	if err != nil {
		return "", errors.ErrIdentityMissing
	}

	conv, err := uc.repo.GetConversation(ctx, cmd.ConversationKey)
	if err != nil {
		return "", err
	}
	to := otherParticipant(conv.Participants, me.ID)
	if to == "" {
		return "", errors.FailedPrecondition("sender is not a conversation participant")
	}

	msg := &model.Message{
		ConversationKey: cmd.ConversationKey,
		FromUserID:      me.ID,
		ToUserID:        to,
		Text:            cmd.Text,
		ViewOnce:        cmd.Attachment != nil,
		Viewed:          false,
	}

	if cmd.Attachment != nil {
		uc.progress.set(chat.ProgressUploadStarted)
		ref, err := uc.uploader.Upload(ctx, cmd.ConversationKey, *cmd.Attachment)
		if err != nil {
			// upload failed before any message write; safe to retry
			uc.progress.set(chat.ProgressIdle)
			return "", err
		}
		uc.progress.set(chat.ProgressUploadComplete)
		msg.MediaURL = ref.URL
		msg.MediaType = ref.Type
	}

	id, err := uc.repo.AppendMessage(ctx, msg)
	if err != nil {
		uc.progress.set(chat.ProgressIdle)
		uc.logger.Error("message write failed", "conversation", cmd.ConversationKey, "err", err)
		return "", errors.ErrSendFailed(err)
	}
	uc.progress.complete(chat.ProgressMessageWritten)

	if cmd.Attachment != nil {
		// best-effort secondary write; the message is already committed
		ref := media.Ref{URL: msg.MediaURL, Type: msg.MediaType}
		if err := uc.uploader.RecordSent(ctx, ref, me.ID, to); err != nil {
			uc.logger.Warn("media index write failed", "message", id, "err", err)
		}
	}
	return id, nil
}

func (uc *ChatUsecase) Progress() int {
	return uc.progress.current()
}

func otherParticipant(participants []string, me string) string {
	for _, p := range participants {
		if p != me {
			return p
		}
	}
	return ""
}

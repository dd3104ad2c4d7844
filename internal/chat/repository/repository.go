package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"glimpse/internal/chat"
	"glimpse/internal/chat/model"
	"glimpse/internal/gateway"
	apperrors "glimpse/pkg/errors"
	"glimpse/pkg/logger"
)

type ChatRepository struct {
	store  gateway.DocumentStore
	logger *logger.Logger
}

func NewChatRepository(store gateway.DocumentStore, logger logger.Logger) *ChatRepository {
	return &ChatRepository{
		store:  store,
		logger: &logger,
	}
}

func (r *ChatRepository) GetConversation(ctx context.Context, key string) (*model.Conversation, error) {
	doc, err := r.store.GetOne(ctx, gateway.CollectionConversations, key)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ErrConversationNotFound
		}
		return nil, errors.Wrap(err, "chatRepo.GetConversation.GetOne: ")
	}
	conv, err := model.ConversationFromDocument(*doc)
	if err != nil {
		return nil, errors.Wrap(err, "chatRepo.GetConversation.Decode: ")
	}
	return conv, nil
}

func (r *ChatRepository) CreateConversation(ctx context.Context, conv *model.Conversation) error {
	err := r.store.Create(ctx, gateway.CollectionConversations, conv.Key, conv.Fields())
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeAlreadyExists {
			// lost a first-send race to the peer; the existing record,
			// its createdAt included, wins
			return nil
		}
		return errors.Wrap(err, "chatRepo.CreateConversation.Create: ")
	}
	return nil
}

func (r *ChatRepository) AppendMessage(ctx context.Context, msg *model.Message) (string, error) {
	id := uuid.NewString()
	err := r.store.Upsert(ctx, gateway.CollectionMessages, id, msg.Fields(), false)
	if err != nil {
		return "", errors.Wrap(err, "chatRepo.AppendMessage.Upsert: ")
	}
	return id, nil
}

func (r *ChatRepository) IsViewed(ctx context.Context, messageID string) (bool, error) {
	doc, err := r.store.GetOne(ctx, gateway.CollectionMessages, messageID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, apperrors.ErrMessageNotFound
		}
		return false, errors.Wrap(err, "chatRepo.IsViewed.GetOne: ")
	}
	return doc.Bool(model.FieldViewed), nil
}

func (r *ChatRepository) MarkViewed(ctx context.Context, messageID string) error {
	err := r.store.UpdateFields(ctx, gateway.CollectionMessages, messageID, gateway.Fields{
		model.FieldViewed: true,
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.ErrMessageNotFound
		}
		return errors.Wrap(err, "chatRepo.MarkViewed.UpdateFields: ")
	}
	return nil
}

func (r *ChatRepository) ListenMessages(ctx context.Context, conversationKey string) (chat.MessageSubscription, error) {
	sub, err := r.store.Listen(ctx, gateway.Query{
		Collection: gateway.CollectionMessages,
		Filters: []gateway.Filter{
			{Field: model.FieldConversationKey, Op: "==", Value: conversationKey},
		},
		OrderBy: model.FieldCreatedAt,
	})
	if err != nil {
		return nil, apperrors.ErrSubscribeFailed(err)
	}

	ms := &messageSubscription{
		inner:     sub,
		snapshots: make(chan []model.Message),
		stop:      make(chan struct{}),
		logger:    r.logger,
	}
	go ms.run()
	return ms, nil
}

// messageSubscription maps raw document snapshots onto validated message
// models. Malformed documents are logged and dropped, never trusted.
type messageSubscription struct {
	inner     gateway.Subscription
	snapshots chan []model.Message
	stop      chan struct{}
	closeOnce sync.Once
	logger    *logger.Logger
}

func (ms *messageSubscription) run() {
	defer close(ms.snapshots)
	for docs := range ms.inner.Snapshots() {
		msgs := make([]model.Message, 0, len(docs))
		for _, doc := range docs {
			m, err := model.MessageFromDocument(doc)
			if err != nil {
				ms.logger.Warn("dropping malformed message document", "id", doc.ID, "err", err)
				continue
			}
			msgs = append(msgs, *m)
		}
		select {
		case ms.snapshots <- msgs:
		case <-ms.stop:
			return
		}
	}
}

func (ms *messageSubscription) Snapshots() <-chan []model.Message { return ms.snapshots }

func (ms *messageSubscription) Err() error { return ms.inner.Err() }

func (ms *messageSubscription) Close() error {
	ms.closeOnce.Do(func() { close(ms.stop) })
	return ms.inner.Close()
}

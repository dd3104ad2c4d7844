package repository

import (
	"context"
	"sync"

	chatmodel "glimpse/internal/chat/model"
	"glimpse/internal/gateway"
	"glimpse/internal/notification"
	apperrors "glimpse/pkg/errors"
	"glimpse/pkg/logger"
)

type NotificationRepository struct {
	store  gateway.DocumentStore
	logger *logger.Logger
}

func NewNotificationRepository(store gateway.DocumentStore, logger logger.Logger) *NotificationRepository {
	return &NotificationRepository{
		store:  store,
		logger: &logger,
	}
}

func (r *NotificationRepository) ListenConversations(ctx context.Context, userID string) (notification.ConversationSubscription, error) {
	sub, err := r.store.Listen(ctx, gateway.Query{
		Collection: gateway.CollectionConversations,
		Filters: []gateway.Filter{
			{Field: chatmodel.FieldParticipants, Op: "array-contains", Value: userID},
		},
	})
	if err != nil {
		return nil, apperrors.ErrSubscribeFailed(err)
	}

	cs := &conversationSubscription{
		inner:     sub,
		snapshots: make(chan []chatmodel.Conversation),
		stop:      make(chan struct{}),
		logger:    r.logger,
	}
	go cs.run()
	return cs, nil
}

type conversationSubscription struct {
	inner     gateway.Subscription
	snapshots chan []chatmodel.Conversation
	stop      chan struct{}
	closeOnce sync.Once
	logger    *logger.Logger
}

func (cs *conversationSubscription) run() {
	defer close(cs.snapshots)
	for docs := range cs.inner.Snapshots() {
		convs := make([]chatmodel.Conversation, 0, len(docs))
		for _, doc := range docs {
			c, err := chatmodel.ConversationFromDocument(doc)
			if err != nil {
				cs.logger.Warn("dropping malformed conversation document", "id", doc.ID, "err", err)
				continue
			}
			convs = append(convs, *c)
		}
		select {
		case cs.snapshots <- convs:
		case <-cs.stop:
			return
		}
	}
}

func (cs *conversationSubscription) Snapshots() <-chan []chatmodel.Conversation { return cs.snapshots }

func (cs *conversationSubscription) Err() error { return cs.inner.Err() }

func (cs *conversationSubscription) Close() error {
	cs.closeOnce.Do(func() { close(cs.stop) })
	return cs.inner.Close()
}

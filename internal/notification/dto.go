package notification

import (
	"context"

	chatmodel "glimpse/internal/chat/model"
)

// Notification is an ephemeral, in-memory tuple surfaced for an unseen
// message. Never persisted; discarded when the consuming view goes away.
type Notification struct {
	ConversationKey string
	MessageID       string
	SenderName      string
	Text            string
}

// ConversationSubscription is a standing live view of the conversations
// a user participates in. Owner must Close it.
type ConversationSubscription interface {
	Snapshots() <-chan []chatmodel.Conversation
	Err() error
	Close() error
}

type NotificationRepository interface {
	ListenConversations(ctx context.Context, userID string) (ConversationSubscription, error)
}

package chat

import (
	"context"

	"glimpse/internal/chat/model"
)

// MessageSubscription is a standing live view of one conversation's
// messages. Every backend change delivers the full current snapshot in
// ascending creation order. The owning view must Close it; an unclosed
// subscription leaks a listener.
type MessageSubscription interface {
	Snapshots() <-chan []model.Message
	Err() error
	Close() error
}

type ChatRepository interface {
	GetConversation(ctx context.Context, key string) (*model.Conversation, error)
	// CreateConversation writes the conversation record with a server
	// timestamp, only if none exists. A concurrent create loses silently;
	// the existing record's participants and createdAt are preserved.
	CreateConversation(ctx context.Context, conv *model.Conversation) error

	// AppendMessage writes a new message and returns its id.
	AppendMessage(ctx context.Context, msg *model.Message) (string, error)
	ListenMessages(ctx context.Context, conversationKey string) (MessageSubscription, error)

	IsViewed(ctx context.Context, messageID string) (bool, error)
	MarkViewed(ctx context.Context, messageID string) error
}

package chat

import "context"

type ChatUsecase interface {
	// EnsureConversation derives the key for the current identity and
	// peerID and lazily creates the conversation record. Idempotent; an
	// existing record keeps its original createdAt and participants.
	EnsureConversation(ctx context.Context, peerID string) (key string, err error)

	// Subscribe opens a live ordered view of a conversation's messages.
	Subscribe(ctx context.Context, conversationKey string) (MessageSubscription, error)

	// Send appends a message. Empty text with no attachment is a silent
	// no-op ("" id, nil error). With an attachment, the upload completes
	// before the message is written; upload failure aborts the send.
	Send(ctx context.Context, cmd SendCommand) (messageID string, err error)

	// Progress reports the coarse four-stage send indicator (0/50/80/100);
	// it resets to 0 one reset-interval after completing.
	Progress() int
}

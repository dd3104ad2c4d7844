package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glimpse/config"
	"glimpse/internal/chat"
	"glimpse/internal/chat/model"
	"glimpse/internal/gateway"
	"glimpse/internal/gateway/memstore"
	appErrors "glimpse/pkg/errors"
	"glimpse/pkg/logger"
)

func newTestRepo(t *testing.T) (*memstore.Store, *ChatRepository) {
	t.Helper()
	store := memstore.New()
	log, err := logger.NewLogger(&config.Config{})
	require.NoError(t, err)
	return store, NewChatRepository(store, *log)
}

func awaitSnapshot(t *testing.T, sub chat.MessageSubscription, want int) []model.Message {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case msgs, ok := <-sub.Snapshots():
			require.True(t, ok, "subscription closed early")
			if len(msgs) == want {
				return msgs
			}
		case <-deadline:
			t.Fatalf("timed out waiting for snapshot of %d messages", want)
		}
	}
}

func Test_CreateAndGetConversation(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	conv := &model.Conversation{Key: "u1_u2", Participants: []string{"u1", "u2"}}
	require.NoError(t, repo.CreateConversation(ctx, conv))

	got, err := repo.GetConversation(ctx, "u1_u2")
	require.NoError(t, err)
	assert.Equal(t, "u1_u2", got.Key)
	assert.Equal(t, []string{"u1", "u2"}, got.Participants)
	assert.False(t, got.CreatedAt.IsZero(), "server timestamp should be set")
}

func Test_CreateConversation_FirstWriterWins(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	conv := &model.Conversation{Key: "u1_u2", Participants: []string{"u1", "u2"}}
	require.NoError(t, repo.CreateConversation(ctx, conv))

	first, err := repo.GetConversation(ctx, "u1_u2")
	require.NoError(t, err)

	// two clients first-sending at once both attempt the create; the
	// loser must not re-stamp createdAt
	require.NoError(t, repo.CreateConversation(ctx, conv))

	second, err := repo.GetConversation(ctx, "u1_u2")
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func Test_GetConversation_NotFound(t *testing.T) {
	_, repo := newTestRepo(t)

	_, err := repo.GetConversation(context.Background(), "nope")
	assert.Equal(t, appErrors.ErrConversationNotFound, err)
}

func Test_AppendMessage_AssignsIDAndTimestamp(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.AppendMessage(ctx, &model.Message{
		ConversationKey: "u1_u2",
		FromUserID:      "u1",
		ToUserID:        "u2",
		Text:            "hello",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	viewed, err := repo.IsViewed(ctx, id)
	require.NoError(t, err)
	assert.False(t, viewed)
}

func Test_MarkViewed(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.AppendMessage(ctx, &model.Message{
		ConversationKey: "u1_u2",
		FromUserID:      "u1",
		ToUserID:        "u2",
		MediaURL:        "mem://u1_u2/cat.png",
		MediaType:       "image/png",
		ViewOnce:        true,
	})
	require.NoError(t, err)

	require.NoError(t, repo.MarkViewed(ctx, id))

	viewed, err := repo.IsViewed(ctx, id)
	require.NoError(t, err)
	assert.True(t, viewed)

	// marking again is harmless; viewed never reverts
	require.NoError(t, repo.MarkViewed(ctx, id))
	viewed, err = repo.IsViewed(ctx, id)
	require.NoError(t, err)
	assert.True(t, viewed)
}

func Test_MarkViewed_MissingMessage(t *testing.T) {
	_, repo := newTestRepo(t)

	err := repo.MarkViewed(context.Background(), "missing")
	assert.Equal(t, appErrors.ErrMessageNotFound, err)

	_, err = repo.IsViewed(context.Background(), "missing")
	assert.Equal(t, appErrors.ErrMessageNotFound, err)
}

func Test_ListenMessages_OrderedSnapshots(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	sub, err := repo.ListenMessages(ctx, "u1_u2")
	require.NoError(t, err)
	defer sub.Close()

	_, err = repo.AppendMessage(ctx, &model.Message{
		ConversationKey: "u1_u2", FromUserID: "u1", ToUserID: "u2", Text: "first",
	})
	require.NoError(t, err)
	msgs := awaitSnapshot(t, sub, 1)
	assert.Equal(t, "first", msgs[0].Text)

	_, err = repo.AppendMessage(ctx, &model.Message{
		ConversationKey: "u1_u2", FromUserID: "u2", ToUserID: "u1", Text: "second",
	})
	require.NoError(t, err)

	// every delivery is the full snapshot, ascending by creation time
	msgs = awaitSnapshot(t, sub, 2)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)
	assert.True(t, msgs[0].CreatedAt.Before(msgs[1].CreatedAt))
}

func Test_ListenMessages_IgnoresOtherConversations(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	sub, err := repo.ListenMessages(ctx, "u1_u2")
	require.NoError(t, err)
	defer sub.Close()

	_, err = repo.AppendMessage(ctx, &model.Message{
		ConversationKey: "u3_u4", FromUserID: "u3", ToUserID: "u4", Text: "elsewhere",
	})
	require.NoError(t, err)
	_, err = repo.AppendMessage(ctx, &model.Message{
		ConversationKey: "u1_u2", FromUserID: "u1", ToUserID: "u2", Text: "here",
	})
	require.NoError(t, err)

	msgs := awaitSnapshot(t, sub, 1)
	assert.Equal(t, "here", msgs[0].Text)
}

func Test_ListenMessages_DropsMalformedDocuments(t *testing.T) {
	store, repo := newTestRepo(t)
	ctx := context.Background()

	sub, err := repo.ListenMessages(ctx, "u1_u2")
	require.NoError(t, err)
	defer sub.Close()

	// a document with no sender must never reach the caller
	require.NoError(t, store.Upsert(ctx, gateway.CollectionMessages, "bad", gateway.Fields{
		model.FieldConversationKey: "u1_u2",
		model.FieldText:            "broken",
	}, false))
	_, err = repo.AppendMessage(ctx, &model.Message{
		ConversationKey: "u1_u2", FromUserID: "u1", ToUserID: "u2", Text: "good",
	})
	require.NoError(t, err)

	msgs := awaitSnapshot(t, sub, 1)
	assert.Equal(t, "good", msgs[0].Text)
}

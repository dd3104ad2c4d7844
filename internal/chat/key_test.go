package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "glimpse/pkg/errors"
)

func Test_ConversationKey(t *testing.T) {
	t.Run("happy path - sorted pair", func(t *testing.T) {
		key, err := ConversationKey("u1", "u2")
		require.NoError(t, err)
		assert.Equal(t, "u1_u2", key)
	})

	t.Run("happy path - order independent", func(t *testing.T) {
		ab, err := ConversationKey("alice", "bob")
		require.NoError(t, err)
		ba, err := ConversationKey("bob", "alice")
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
	})

	t.Run("happy path - reversed input still sorted", func(t *testing.T) {
		key, err := ConversationKey("u2", "u1")
		require.NoError(t, err)
		assert.Equal(t, "u1_u2", key)
	})

	t.Run("sad path - empty participant", func(t *testing.T) {
		_, err := ConversationKey("", "u2")
		assert.Equal(t, appErrors.ErrEmptyParticipant, err)

		_, err = ConversationKey("u1", "")
		assert.Equal(t, appErrors.ErrEmptyParticipant, err)
	})

	t.Run("sad path - same participant twice", func(t *testing.T) {
		_, err := ConversationKey("u1", "u1")
		assert.Equal(t, appErrors.ErrSelfConversation, err)
	})
}

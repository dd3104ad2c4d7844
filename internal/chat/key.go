package chat

import "glimpse/pkg/errors"

// ConversationKey derives the stable identifier for a two-party
// conversation: the participant ids sorted lexicographically and joined
// with "_". Both sides of a pair always derive the same key.
func ConversationKey(a, b string) (string, error) {
	if a == "" || b == "" {
		return "", errors.ErrEmptyParticipant
	}
	if a == b {
		return "", errors.ErrSelfConversation
	}
	if a < b {
		return a + "_" + b, nil
	}
	return b + "_" + a, nil
}

package usecase

import (
	"context"
	"sync"

	"glimpse/internal/chat"
	"glimpse/internal/gateway"
	"glimpse/internal/notification"
	"glimpse/pkg/errors"
	"glimpse/pkg/logger"
)

// Scanner surfaces unseen messages across all of the current identity's
// conversations: one root subscription on the conversation set, fanned
// out into one message subscription per conversation. Each delivery
// rescans the full unseen set, so the cost is O(conversations × unseen
// messages) per change — no backpressure, no pagination. Tolerable only
// at small data volumes; a cross-conversation indexed query would
// replace this if the backend offered one.
type Scanner struct {
	repo     notification.NotificationRepository
	messages chat.ChatRepository
	identity gateway.Identity
	logger   logger.Logger

	out  chan notification.Notification
	stop chan struct{}

	mu      sync.Mutex
	seen    map[string]bool
	watched map[string]chat.MessageSubscription

	rootSub   notification.ConversationSubscription
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewScanner(repo notification.NotificationRepository, messages chat.ChatRepository,
	identity gateway.Identity, logger logger.Logger) *Scanner {

	return &Scanner{
		repo:     repo,
		messages: messages,
		identity: identity,
		logger:   logger,
		out:      make(chan notification.Notification, 16),
		stop:     make(chan struct{}),
		seen:     make(map[string]bool),
		watched:  make(map[string]chat.MessageSubscription),
	}
}

// Start begins scanning and returns the notification stream. The stream
// closes after Close.
func (s *Scanner) Start(ctx context.Context) (<-chan notification.Notification, error) {
	me, err := s.identity.Current(ctx)
	if err != nil {
		return nil, errors.ErrIdentityMissing
	}

	rootSub, err := s.repo.ListenConversations(ctx, me.ID)
	if err != nil {
		return nil, err
	}
	s.rootSub = rootSub

	s.wg.Add(1)
	go s.run(ctx, me.ID)
	return s.out, nil
}

func (s *Scanner) run(ctx context.Context, userID string) {
	defer s.wg.Done()
	for convs := range s.rootSub.Snapshots() {
		for _, conv := range convs {
			s.watch(ctx, userID, conv.Key)
		}
	}
}

// watch opens the per-conversation message subscription once per key.
func (s *Scanner) watch(ctx context.Context, userID, conversationKey string) {
	s.mu.Lock()
	select {
	case <-s.stop:
		// Close already swept the watched set; a subscription opened
		// now would never be torn down
		s.mu.Unlock()
		return
	default:
	}
	if _, ok := s.watched[conversationKey]; ok {
		s.mu.Unlock()
		return
	}
	sub, err := s.messages.ListenMessages(ctx, conversationKey)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("message subscription failed", "conversation", conversationKey, "err", err)
		return
	}
	s.watched[conversationKey] = sub
	s.mu.Unlock()

	s.wg.Add(1)
	go s.scanLoop(ctx, userID, conversationKey, sub)
}

func (s *Scanner) scanLoop(ctx context.Context, userID, conversationKey string, sub chat.MessageSubscription) {
	defer s.wg.Done()
	for msgs := range sub.Snapshots() {
		for _, m := range msgs {
			if m.Viewed || m.FromUserID == userID {
				continue
			}
			if !s.markSeen(m.ID) {
				continue // already surfaced this session
			}
			n := notification.Notification{
				ConversationKey: conversationKey,
				MessageID:       m.ID,
				SenderName:      s.senderName(ctx, m.FromUserID),
				Text:            m.Text,
			}
			select {
			case s.out <- n:
			case <-s.stop:
				return
			}
		}
	}
}

// markSeen records a message id, false when it was already surfaced.
// Handlers may receive duplicate snapshot deliveries; this keeps them
// idempotent.
func (s *Scanner) markSeen(messageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[messageID] {
		return false
	}
	s.seen[messageID] = true
	return true
}

func (s *Scanner) senderName(ctx context.Context, senderID string) string {
	u, err := s.identity.Resolve(ctx, senderID)
	if err != nil {
		if !errors.IsNotFound(err) {
			s.logger.Warn("sender lookup failed", "sender", senderID, "err", err)
		}
		return ""
	}
	return u.DisplayName
}

// Close tears down the root subscription and every per-conversation
// subscription, then closes the notification stream.
func (s *Scanner) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		if s.rootSub != nil {
			s.rootSub.Close()
		}
		s.mu.Lock()
		for _, sub := range s.watched {
			sub.Close()
		}
		s.mu.Unlock()
		s.wg.Wait()
		close(s.out)
	})
	return nil
}

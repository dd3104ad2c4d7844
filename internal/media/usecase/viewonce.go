package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"glimpse/config"
	"glimpse/internal/media"
	"glimpse/pkg/errors"
	"glimpse/pkg/logger"
)

// ViewState is the client-side lifecycle of a view-once attachment.
type ViewState int

const (
	// StateHidden: media present, not yet consumed.
	StateHidden ViewState = iota
	// StateRevealed: viewed was just persisted; media is on screen.
	StateRevealed
	// StateConcealed: terminal. Auto-hidden after the dwell interval, or
	// rendered unavailable on load because viewed is already true.
	StateConcealed
)

func (s ViewState) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StateRevealed:
		return "revealed"
	case StateConcealed:
		return "concealed"
	}
	return "unknown"
}

// UnavailablePlaceholder is the static text rendered in place of
// consumed media. Views must also disable context-menu and pointer
// interaction on the media element while revealed; like the capture-key
// heuristic below, that is a deterrent, not a security control.
const UnavailablePlaceholder = "This media is no longer available"

// ViewOnceItem is the slice of a message the state machine needs.
type ViewOnceItem struct {
	MessageID string
	ViewOnce  bool
	Viewed    bool
	MediaURL  string
}

// Reveal is a successful Hidden→Revealed transition. Concealed closes
// when the item auto-hides after the dwell interval.
type Reveal struct {
	Concealed <-chan struct{}
}

// Viewer drives the view-once consumption state machine. The viewed
// flag is persisted synchronously before anything renders (fail-closed);
// the later Revealed→Concealed transition is local-only.
type Viewer struct {
	marker media.MessageMarker
	clk    clock.Clock
	dwell  time.Duration
	logger logger.Logger

	mu       sync.Mutex
	states   map[string]ViewState
	pending  map[string]bool
	conceals map[string]chan struct{}
}

func NewViewer(marker media.MessageMarker, clk clock.Clock, logger logger.Logger, config config.Config) *Viewer {
	return &Viewer{
		marker:   marker,
		clk:      clk,
		dwell:    time.Duration(config.Chat.DwellSeconds) * time.Second,
		logger:   logger,
		states:   make(map[string]ViewState),
		pending:  make(map[string]bool),
		conceals: make(map[string]chan struct{}),
	}
}

// State reports how item must render right now. A message whose viewed
// flag is already set always renders concealed, on any load, for any
// participant.
func (v *Viewer) State(item ViewOnceItem) ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	if s, ok := v.states[item.MessageID]; ok {
		return s
	}
	if item.Viewed {
		return StateConcealed
	}
	return StateHidden
}

// Reveal performs the guarded Hidden→Revealed transition. An
// already-consumed item yields ErrAlreadyViewed; callers downgrade that
// to rendering UnavailablePlaceholder, no further write happens. A
// failed persist aborts the reveal.
func (v *Viewer) Reveal(ctx context.Context, item ViewOnceItem) (*Reveal, error) {
	if !item.ViewOnce || item.MediaURL == "" {
		return nil, errors.InvalidArg("message has no view-once media")
	}

	v.mu.Lock()
	if s, ok := v.states[item.MessageID]; ok && s != StateHidden {
		v.mu.Unlock()
		return nil, errors.ErrAlreadyViewed
	}
	if item.Viewed || v.pending[item.MessageID] {
		v.states[item.MessageID] = StateConcealed
		v.mu.Unlock()
		return nil, errors.ErrAlreadyViewed
	}
	v.pending[item.MessageID] = true
	v.mu.Unlock()

	// re-check against the backend: another device may have consumed it
	viewed, err := v.marker.IsViewed(ctx, item.MessageID)
	if err != nil {
		v.clearPending(item.MessageID)
		return nil, err
	}
	if viewed {
		v.finishPending(item.MessageID, StateConcealed)
		return nil, errors.ErrAlreadyViewed
	}

	if err := v.marker.MarkViewed(ctx, item.MessageID); err != nil {
		// fail-closed: nothing renders
		v.clearPending(item.MessageID)
		return nil, err
	}

	concealed := make(chan struct{})
	v.mu.Lock()
	delete(v.pending, item.MessageID)
	v.states[item.MessageID] = StateRevealed
	v.conceals[item.MessageID] = concealed
	v.mu.Unlock()

	id := item.MessageID
	v.clk.AfterFunc(v.dwell, func() { v.conceal(id) })
	return &Reveal{Concealed: concealed}, nil
}

// ReportCaptureAttempt accelerates concealment while an item is on
// screen: the media hides immediately and an opaque overlay is held for
// one dwell interval (overlayCleared closes when it lifts). This only
// reacts to observed key events; it cannot stop capture by any other
// means.
func (v *Viewer) ReportCaptureAttempt(messageID string) (overlayCleared <-chan struct{}, triggered bool) {
	v.mu.Lock()
	revealed := v.states[messageID] == StateRevealed
	v.mu.Unlock()
	if !revealed {
		return nil, false
	}

	v.logger.Warn("capture key observed while media revealed", "message", messageID)
	v.conceal(messageID)

	cleared := make(chan struct{})
	v.clk.AfterFunc(v.dwell, func() { close(cleared) })
	return cleared, true
}

// IsCaptureCombo reports whether a key event matches the screenshot
// deterrent heuristic: the print-screen key, or a copy/print combination
// with a ctrl/meta modifier held.
func IsCaptureCombo(key string, ctrlOrMeta bool) bool {
	if key == "PrintScreen" {
		return true
	}
	if !ctrlOrMeta {
		return false
	}
	switch key {
	case "p", "P", "c", "C", "s", "S":
		return true
	}
	return false
}

func (v *Viewer) conceal(messageID string) {
	v.mu.Lock()
	if v.states[messageID] != StateRevealed {
		v.mu.Unlock()
		return
	}
	v.states[messageID] = StateConcealed
	ch := v.conceals[messageID]
	delete(v.conceals, messageID)
	v.mu.Unlock()

	if ch != nil {
		close(ch)
	}
}

func (v *Viewer) clearPending(messageID string) {
	v.mu.Lock()
	delete(v.pending, messageID)
	v.mu.Unlock()
}

func (v *Viewer) finishPending(messageID string, s ViewState) {
	v.mu.Lock()
	delete(v.pending, messageID)
	v.states[messageID] = s
	v.mu.Unlock()
}

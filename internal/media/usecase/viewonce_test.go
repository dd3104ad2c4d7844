package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glimpse/config"
	"glimpse/internal/media/mocks"
	appErrors "glimpse/pkg/errors"
	"glimpse/pkg/logger"
)

func newViewer(t *testing.T, marker *mocks.MockMessageMarker) (*Viewer, *clock.Mock) {
	t.Helper()
	log, err := logger.NewLogger(&config.Config{})
	require.NoError(t, err)
	clk := clock.NewMock()
	cfg := config.Config{Chat: config.Chat{DwellSeconds: 8}}
	return NewViewer(marker, clk, *log, cfg), clk
}

func Test_Reveal(t *testing.T) {
	item := ViewOnceItem{MessageID: "m1", ViewOnce: true, MediaURL: "mem://u1_u2/cat.png"}

	t.Run("happy path - persists viewed once, conceals after dwell", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		marker := mocks.NewMockMessageMarker(ctrl)
		v, clk := newViewer(t, marker)

		// exactly one write; the auto-conceal is local only
		marker.EXPECT().IsViewed(gomock.Any(), "m1").Return(false, nil)
		marker.EXPECT().MarkViewed(gomock.Any(), "m1").Return(nil)

		r, err := v.Reveal(context.Background(), item)
		require.NoError(t, err)
		assert.Equal(t, StateRevealed, v.State(item))

		select {
		case <-r.Concealed:
			t.Fatal("concealed before the dwell interval elapsed")
		default:
		}

		clk.Add(8 * time.Second)
		select {
		case <-r.Concealed:
		case <-time.After(2 * time.Second):
			t.Fatal("dwell elapsed but media never concealed")
		}
		assert.Equal(t, StateConcealed, v.State(item))

		// consumed is terminal; no second reveal, no second write
		_, err = v.Reveal(context.Background(), item)
		assert.Equal(t, appErrors.ErrAlreadyViewed, err)
	})

	t.Run("sad path - already viewed renders unavailable without a write", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		marker := mocks.NewMockMessageMarker(ctrl)
		v, _ := newViewer(t, marker)

		viewed := item
		viewed.Viewed = true

		// no marker expectations: the placeholder path writes nothing
		_, err := v.Reveal(context.Background(), viewed)
		assert.Equal(t, appErrors.ErrAlreadyViewed, err)
		assert.Equal(t, StateConcealed, v.State(viewed))
	})

	t.Run("sad path - consumed elsewhere between load and tap", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		marker := mocks.NewMockMessageMarker(ctrl)
		v, _ := newViewer(t, marker)

		marker.EXPECT().IsViewed(gomock.Any(), "m1").Return(true, nil)

		_, err := v.Reveal(context.Background(), item)
		assert.Equal(t, appErrors.ErrAlreadyViewed, err)
		assert.Equal(t, StateConcealed, v.State(item))
	})

	t.Run("sad path - persist failure keeps media hidden", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		marker := mocks.NewMockMessageMarker(ctrl)
		v, _ := newViewer(t, marker)

		boom := errors.New("write rejected")
		marker.EXPECT().IsViewed(gomock.Any(), "m1").Return(false, nil)
		marker.EXPECT().MarkViewed(gomock.Any(), "m1").Return(boom)

		_, err := v.Reveal(context.Background(), item)
		assert.Equal(t, boom, err)
		assert.Equal(t, StateHidden, v.State(item), "fail-closed: nothing rendered")

		// the failure is retryable
		marker.EXPECT().IsViewed(gomock.Any(), "m1").Return(false, nil)
		marker.EXPECT().MarkViewed(gomock.Any(), "m1").Return(nil)
		_, err = v.Reveal(context.Background(), item)
		require.NoError(t, err)
		assert.Equal(t, StateRevealed, v.State(item))
	})

	t.Run("sad path - not view-once media", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		marker := mocks.NewMockMessageMarker(ctrl)
		v, _ := newViewer(t, marker)

		_, err := v.Reveal(context.Background(), ViewOnceItem{MessageID: "m2", ViewOnce: false})
		assert.Equal(t, appErrors.CodeInvalidArgument, appErrors.CodeOf(err))
	})
}

func Test_ReportCaptureAttempt(t *testing.T) {
	item := ViewOnceItem{MessageID: "m1", ViewOnce: true, MediaURL: "mem://u1_u2/cat.png"}

	t.Run("happy path - conceals immediately and holds the overlay", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		marker := mocks.NewMockMessageMarker(ctrl)
		v, clk := newViewer(t, marker)

		marker.EXPECT().IsViewed(gomock.Any(), "m1").Return(false, nil)
		marker.EXPECT().MarkViewed(gomock.Any(), "m1").Return(nil)
		r, err := v.Reveal(context.Background(), item)
		require.NoError(t, err)

		cleared, triggered := v.ReportCaptureAttempt("m1")
		require.True(t, triggered)
		assert.Equal(t, StateConcealed, v.State(item))
		select {
		case <-r.Concealed:
		case <-time.After(2 * time.Second):
			t.Fatal("capture attempt should conceal immediately")
		}

		select {
		case <-cleared:
			t.Fatal("overlay lifted early")
		default:
		}
		clk.Add(8 * time.Second)
		select {
		case <-cleared:
		case <-time.After(2 * time.Second):
			t.Fatal("overlay never lifted")
		}
	})

	t.Run("no-op - nothing revealed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		marker := mocks.NewMockMessageMarker(ctrl)
		v, _ := newViewer(t, marker)

		_, triggered := v.ReportCaptureAttempt("m1")
		assert.False(t, triggered)
	})
}

func Test_IsCaptureCombo(t *testing.T) {
	assert.True(t, IsCaptureCombo("PrintScreen", false))
	assert.True(t, IsCaptureCombo("p", true))
	assert.True(t, IsCaptureCombo("C", true))
	assert.True(t, IsCaptureCombo("s", true))
	assert.False(t, IsCaptureCombo("p", false))
	assert.False(t, IsCaptureCombo("x", true))
	assert.False(t, IsCaptureCombo("Enter", false))
}

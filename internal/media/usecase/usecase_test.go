package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glimpse/config"
	"glimpse/internal/gateway"
	"glimpse/internal/gateway/memstore"
	"glimpse/internal/media"
	mediarepo "glimpse/internal/media/repository"
	appErrors "glimpse/pkg/errors"
	"glimpse/pkg/logger"
)

func newMediaTest(t *testing.T) (*memstore.Store, *MediaUsecase) {
	t.Helper()
	store := memstore.New()
	log, err := logger.NewLogger(&config.Config{})
	require.NoError(t, err)
	repo := mediarepo.NewMediaRepository(store, store, *log)
	return store, NewMediaUsecase(repo, store, *log)
}

func Test_StartUpload(t *testing.T) {
	t.Run("happy path - strictly increasing progress up to 100", func(t *testing.T) {
		store, uc := newMediaTest(t)

		data := make([]byte, 1<<20)
		for i := range data {
			data[i] = byte(i)
		}
		att := media.Attachment{Filename: "big.bin", ContentType: "application/octet-stream", Data: data}

		task, err := uc.StartUpload(context.Background(), "u1_u2", att)
		require.NoError(t, err)

		var seen []int
		for pct := range task.Progress() {
			seen = append(seen, pct)
		}
		require.NotEmpty(t, seen)
		for i := 1; i < len(seen); i++ {
			assert.Greater(t, seen[i], seen[i-1], "progress must never repeat or regress")
		}
		assert.Equal(t, 100, seen[len(seen)-1])

		ref, err := task.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "mem://u1_u2/big.bin", ref.URL)
		assert.Equal(t, "application/octet-stream", ref.Type)

		stored, ok := store.Blob("u1_u2/big.bin")
		require.True(t, ok)
		assert.Equal(t, data, stored)
	})

	t.Run("happy path - sniffs content type when undeclared", func(t *testing.T) {
		_, uc := newMediaTest(t)

		png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
		att := media.Attachment{Filename: "cat.png", Data: png}

		ref, err := uc.Upload(context.Background(), "u1_u2", att)
		require.NoError(t, err)
		assert.Equal(t, "image/png", ref.Type)
	})

	t.Run("sad path - empty upload", func(t *testing.T) {
		_, uc := newMediaTest(t)

		_, err := uc.StartUpload(context.Background(), "u1_u2", media.Attachment{Filename: "x"})
		assert.Equal(t, appErrors.ErrEmptyUpload, err)
	})

	t.Run("sad path - missing filename", func(t *testing.T) {
		_, uc := newMediaTest(t)

		_, err := uc.StartUpload(context.Background(), "u1_u2", media.Attachment{Data: []byte("x")})
		assert.Equal(t, appErrors.CodeInvalidArgument, appErrors.CodeOf(err))
	})
}

func Test_RecordSentAndReviewList(t *testing.T) {
	store, uc := newMediaTest(t)
	ctx := context.Background()

	ref := media.Ref{URL: "mem://u1_u2/cat.png", Type: "image/png"}
	require.NoError(t, uc.RecordSent(ctx, ref, "u1", "u2"))

	t.Run("happy path - receiver sees the entry", func(t *testing.T) {
		store.SignIn(gateway.User{ID: "u2"})
		entries, err := uc.ReviewList(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, ref.URL, entries[0].MediaURL)
		assert.Equal(t, "u1", entries[0].FromUserID)
	})

	t.Run("happy path - sender is not the receiver", func(t *testing.T) {
		store.SignIn(gateway.User{ID: "u1"})
		entries, err := uc.ReviewList(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("sad path - unauthenticated", func(t *testing.T) {
		store.SignOut()
		_, err := uc.ReviewList(ctx)
		assert.Equal(t, appErrors.ErrIdentityMissing, err)
	})
}

func Test_Revoke(t *testing.T) {
	store, uc := newMediaTest(t)
	ctx := context.Background()

	require.NoError(t, uc.RecordSent(ctx, media.Ref{URL: "mem://u1_u2/cat.png", Type: "image/png"}, "u1", "u2"))

	store.SignIn(gateway.User{ID: "u2"})
	entries, err := uc.ReviewList(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	t.Run("happy path - revoked entry leaves the receiver's list", func(t *testing.T) {
		require.NoError(t, uc.Revoke(ctx, entries[0].ID))

		after, err := uc.ReviewList(ctx)
		require.NoError(t, err)
		assert.Empty(t, after)
	})

	t.Run("sad path - unknown entry", func(t *testing.T) {
		err := uc.Revoke(ctx, "missing")
		assert.True(t, appErrors.IsNotFound(err))
	})
}

package memstore

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glimpse/internal/gateway"
	apperrors "glimpse/pkg/errors"
)

func Test_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("merge keeps fields the new write omits", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Upsert(ctx, "things", "a", gateway.Fields{
			"createdAt": gateway.ServerTimestamp,
			"color":     "red",
		}, true))

		before, err := s.GetOne(ctx, "things", "a")
		require.NoError(t, err)
		created := before.Time("createdAt")
		require.False(t, created.IsZero())

		require.NoError(t, s.Upsert(ctx, "things", "a", gateway.Fields{"color": "blue"}, true))

		after, err := s.GetOne(ctx, "things", "a")
		require.NoError(t, err)
		assert.Equal(t, "blue", after.Str("color"))
		assert.Equal(t, created, after.Time("createdAt"))
	})

	t.Run("server timestamps are strictly increasing", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Upsert(ctx, "things", "a", gateway.Fields{"at": gateway.ServerTimestamp}, false))
		require.NoError(t, s.Upsert(ctx, "things", "b", gateway.Fields{"at": gateway.ServerTimestamp}, false))

		a, err := s.GetOne(ctx, "things", "a")
		require.NoError(t, err)
		b, err := s.GetOne(ctx, "things", "b")
		require.NoError(t, err)
		assert.True(t, a.Time("at").Before(b.Time("at")))
	})
}

func Test_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a second create and keeps the original", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Create(ctx, "things", "a", gateway.Fields{
			"createdAt": gateway.ServerTimestamp,
		}))

		before, err := s.GetOne(ctx, "things", "a")
		require.NoError(t, err)

		err = s.Create(ctx, "things", "a", gateway.Fields{"createdAt": gateway.ServerTimestamp})
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeAlreadyExists, apperrors.CodeOf(err))

		after, err := s.GetOne(ctx, "things", "a")
		require.NoError(t, err)
		assert.Equal(t, before.Time("createdAt"), after.Time("createdAt"))
	})
}

func Test_Listen(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers an initial snapshot, then one per change", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Upsert(ctx, "things", "a", gateway.Fields{"n": 1}, false))

		sub, err := s.Listen(ctx, gateway.Query{Collection: "things"})
		require.NoError(t, err)
		defer sub.Close()

		select {
		case docs := <-sub.Snapshots():
			assert.Len(t, docs, 1)
		case <-time.After(2 * time.Second):
			t.Fatal("no initial snapshot")
		}

		require.NoError(t, s.Upsert(ctx, "things", "b", gateway.Fields{"n": 2}, false))
		deadline := time.After(2 * time.Second)
		for {
			select {
			case docs := <-sub.Snapshots():
				if len(docs) == 2 {
					return
				}
			case <-deadline:
				t.Fatal("change never delivered")
			}
		}
	})

	t.Run("ignores other collections", func(t *testing.T) {
		s := New()
		sub, err := s.Listen(ctx, gateway.Query{Collection: "things"})
		require.NoError(t, err)
		defer sub.Close()

		<-sub.Snapshots() // initial, empty

		require.NoError(t, s.Upsert(ctx, "other", "x", gateway.Fields{"n": 1}, false))
		select {
		case docs := <-sub.Snapshots():
			assert.Empty(t, docs, "unrelated write must not add documents")
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("close ends the snapshot stream", func(t *testing.T) {
		s := New()
		sub, err := s.Listen(ctx, gateway.Query{Collection: "things"})
		require.NoError(t, err)
		require.NoError(t, sub.Close())

		deadline := time.After(2 * time.Second)
		for {
			select {
			case _, ok := <-sub.Snapshots():
				if !ok {
					return
				}
			case <-deadline:
				t.Fatal("snapshot channel never closed")
			}
		}
	})
}

func Test_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the blob and reports a durable URL", func(t *testing.T) {
		s := New()
		s.UploadChunk = 8

		data := []byte("0123456789abcdef0123456789abcdef")
		task, err := s.Upload(ctx, "u1_u2/x.bin", bytes.NewReader(data), int64(len(data)), "application/octet-stream")
		require.NoError(t, err)

		last := -1
		for pct := range task.Progress() {
			assert.Greater(t, pct, last)
			last = pct
		}
		assert.Equal(t, 100, last)

		url, err := task.Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, "mem://u1_u2/x.bin", url)

		stored, ok := s.Blob("u1_u2/x.bin")
		require.True(t, ok)
		assert.Equal(t, data, stored)
	})

	t.Run("rejects empty uploads", func(t *testing.T) {
		s := New()
		_, err := s.Upload(ctx, "p", bytes.NewReader(nil), 0, "")
		require.Error(t, err)
	})
}

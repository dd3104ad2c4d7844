package firebase

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"cloud.google.com/go/storage"

	"glimpse/internal/gateway"
	apperrors "glimpse/pkg/errors"
)

// uploadChunkBytes is the granularity of both the resumable upload and
// the emitted progress stream.
const uploadChunkBytes = 256 * 1024

type BlobStore struct {
	bucket     *storage.BucketHandle
	bucketName string
}

var _ gateway.BlobStore = (*BlobStore)(nil)

type uploadTask struct {
	progress chan int
	done     chan struct{}
	url      string
	err      error
	cancel   context.CancelFunc
	once     sync.Once
}

func (b *BlobStore) Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) (gateway.UploadTask, error) {
	if size <= 0 {
		return nil, apperrors.ErrEmptyUpload
	}
	ctx, cancel := context.WithCancel(ctx)
	task := &uploadTask{
		progress: make(chan int, 128),
		done:     make(chan struct{}),
		cancel:   cancel,
	}
	go b.run(ctx, task, path, r, size, contentType)
	return task, nil
}

func (b *BlobStore) run(ctx context.Context, task *uploadTask, path string, r io.Reader, size int64, contentType string) {
	defer close(task.done)
	defer close(task.progress)

	w := b.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.ChunkSize = uploadChunkBytes

	var written int64
	last := -1
	chunk := make([]byte, uploadChunkBytes)
	for {
		n, rerr := r.Read(chunk)
		if n > 0 {
			if _, werr := w.Write(chunk[:n]); werr != nil {
				w.Close()
				task.err = apperrors.ErrTransferFailed(werr)
				return
			}
			written += int64(n)
			pct := int(float64(written) / float64(size) * 100)
			if pct > 100 {
				pct = 100
			}
			if pct > last {
				last = pct
				task.progress <- pct
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			w.Close()
			task.err = apperrors.ErrTransferFailed(rerr)
			return
		}
	}

	if err := w.Close(); err != nil {
		task.err = apperrors.ErrTransferFailed(err)
		return
	}
	task.url = b.publicURL(path)
}

// publicURL builds the canonical public fetch URL for an object.
func (b *BlobStore) publicURL(path string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s",
		b.bucketName, url.PathEscape(strings.TrimPrefix(path, "/")))
}

func (t *uploadTask) Progress() <-chan int { return t.progress }

func (t *uploadTask) Wait(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-t.done:
		return t.url, t.err
	}
}

func (t *uploadTask) Cancel() {
	t.once.Do(t.cancel)
}

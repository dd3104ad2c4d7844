// Package memstore is an in-memory implementation of the gateway
// contract. It backs the test suites and the local development mode of
// the CLI; it mimics the managed platform's observable behavior
// (monotonic server timestamps, full-snapshot listener delivery,
// merge-on-conflict upserts) without any persistence.
package memstore

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"glimpse/internal/gateway"
	apperrors "glimpse/pkg/errors"
)

type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]gateway.Fields
	blobs       map[string][]byte

	current *gateway.User
	users   map[string]gateway.User

	subs   map[int]*subscription
	nextID int

	// server clock: strictly increasing per write
	base time.Time
	seq  int64

	// UploadChunk controls progress granularity for blob uploads.
	UploadChunk int
}

func New() *Store {
	return &Store{
		collections: make(map[string]map[string]gateway.Fields),
		blobs:       make(map[string][]byte),
		users:       make(map[string]gateway.User),
		subs:        make(map[int]*subscription),
		base:        time.Now(),
		UploadChunk: 64 * 1024,
	}
}

var (
	_ gateway.DocumentStore = (*Store)(nil)
	_ gateway.BlobStore     = (*Store)(nil)
	_ gateway.Identity      = (*Store)(nil)
)

// --- Identity ---

// SignIn sets the current identity and registers its profile.
func (s *Store) SignIn(u gateway.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &u
	s.users[u.ID] = u
}

// SignOut clears the current identity.
func (s *Store) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// AddUser registers a resolvable profile without signing it in.
func (s *Store) AddUser(u gateway.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Store) Current(ctx context.Context) (*gateway.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, apperrors.ErrIdentityMissing
	}
	u := *s.current
	return &u, nil
}

func (s *Store) Resolve(ctx context.Context, id string) (*gateway.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

// --- DocumentStore ---

func (s *Store) now() time.Time {
	s.seq++
	return s.base.Add(time.Duration(s.seq) * time.Millisecond)
}

func (s *Store) resolveSentinels(fields gateway.Fields) gateway.Fields {
	out := make(gateway.Fields, len(fields))
	for k, v := range fields {
		if v == gateway.ServerTimestamp {
			out[k] = s.now()
			continue
		}
		out[k] = v
	}
	return out
}

func (s *Store) Upsert(ctx context.Context, collection, id string, fields gateway.Fields, merge bool) error {
	s.mu.Lock()
	col, ok := s.collections[collection]
	if !ok {
		col = make(map[string]gateway.Fields)
		s.collections[collection] = col
	}
	resolved := s.resolveSentinels(fields)
	if existing, ok := col[id]; ok && merge {
		merged := make(gateway.Fields, len(existing)+len(resolved))
		for k, v := range existing {
			merged[k] = v
		}
		for k, v := range resolved {
			merged[k] = v
		}
		col[id] = merged
	} else {
		col[id] = resolved
	}
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *Store) Create(ctx context.Context, collection, id string, fields gateway.Fields) error {
	s.mu.Lock()
	col, ok := s.collections[collection]
	if !ok {
		col = make(map[string]gateway.Fields)
		s.collections[collection] = col
	}
	if _, exists := col[id]; exists {
		s.mu.Unlock()
		return apperrors.AlreadyExists("document already exists")
	}
	col[id] = s.resolveSentinels(fields)
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *Store) GetOne(ctx context.Context, collection, id string) (*gateway.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields, ok := s.collections[collection][id]
	if !ok {
		return nil, apperrors.NotFound("document not found")
	}
	return &gateway.Document{ID: id, Fields: cloneFields(fields)}, nil
}

func (s *Store) UpdateFields(ctx context.Context, collection, id string, partial gateway.Fields) error {
	s.mu.Lock()
	fields, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return apperrors.NotFound("document not found")
	}
	for k, v := range s.resolveSentinels(partial) {
		fields[k] = v
	}
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	delete(s.collections[collection], id)
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *Store) Query(ctx context.Context, q gateway.Query) ([]gateway.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evaluate(q), nil
}

// evaluate runs q against current state. Caller holds at least a read lock.
func (s *Store) evaluate(q gateway.Query) []gateway.Document {
	var docs []gateway.Document
	for id, fields := range s.collections[q.Collection] {
		if matches(fields, q.Filters) {
			docs = append(docs, gateway.Document{ID: id, Fields: cloneFields(fields)})
		}
	}
	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			less := fieldLess(docs[i].Fields[q.OrderBy], docs[j].Fields[q.OrderBy])
			if q.Descending {
				return !less
			}
			return less
		})
	}
	return docs
}

func matches(fields gateway.Fields, filters []gateway.Filter) bool {
	for _, f := range filters {
		switch f.Op {
		case "==":
			if fields[f.Field] != f.Value {
				return false
			}
		case "!=":
			if fields[f.Field] == f.Value {
				return false
			}
		case "array-contains":
			arr, ok := fields[f.Field].([]string)
			if !ok {
				return false
			}
			found := false
			for _, v := range arr {
				if v == f.Value {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func fieldLess(a, b any) bool {
	switch av := a.(type) {
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Before(bv)
	case string:
		bv, ok := b.(string)
		return ok && av < bv
	case int:
		bv, ok := b.(int)
		return ok && av < bv
	}
	return false
}

func cloneFields(fields gateway.Fields) gateway.Fields {
	out := make(gateway.Fields, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// --- Listen ---

type subscription struct {
	store *Store
	id    int
	query gateway.Query

	snapshots chan []gateway.Document
	wake      chan struct{}
	stop      chan struct{}

	closeOnce sync.Once
	err       error
}

func (s *Store) Listen(ctx context.Context, q gateway.Query) (gateway.Subscription, error) {
	s.mu.Lock()
	s.nextID++
	sub := &subscription{
		store:     s,
		id:        s.nextID,
		query:     q,
		snapshots: make(chan []gateway.Document),
		wake:      make(chan struct{}, 1),
		stop:      make(chan struct{}),
	}
	s.subs[sub.id] = sub
	s.mu.Unlock()

	// initial snapshot, then one per matching change
	sub.wake <- struct{}{}
	go sub.run(ctx)
	return sub, nil
}

func (sub *subscription) run(ctx context.Context) {
	defer close(sub.snapshots)
	for {
		select {
		case <-sub.stop:
			return
		case <-ctx.Done():
			sub.err = ctx.Err()
			sub.store.drop(sub.id)
			return
		case <-sub.wake:
			sub.store.mu.RLock()
			docs := sub.store.evaluate(sub.query)
			sub.store.mu.RUnlock()
			select {
			case sub.snapshots <- docs:
			case <-sub.stop:
				return
			case <-ctx.Done():
				sub.err = ctx.Err()
				sub.store.drop(sub.id)
				return
			}
		}
	}
}

func (sub *subscription) Snapshots() <-chan []gateway.Document { return sub.snapshots }

func (sub *subscription) Err() error { return sub.err }

func (sub *subscription) Close() error {
	sub.closeOnce.Do(func() {
		sub.store.drop(sub.id)
		close(sub.stop)
	})
	return nil
}

func (s *Store) drop(id int) {
	s.mu.Lock()
	delete(s.subs, id)
	s.mu.Unlock()
}

func (s *Store) notify(collection string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subs {
		if sub.query.Collection != collection {
			continue
		}
		select {
		case sub.wake <- struct{}{}:
		default: // a wake-up is already pending; snapshots coalesce
		}
	}
}

// --- BlobStore ---

type uploadTask struct {
	progress chan int
	done     chan struct{}
	url      string
	err      error
	cancel   chan struct{}
	once     sync.Once
}

func (s *Store) Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) (gateway.UploadTask, error) {
	if size <= 0 {
		return nil, apperrors.ErrEmptyUpload
	}
	task := &uploadTask{
		progress: make(chan int, 128),
		done:     make(chan struct{}),
		cancel:   make(chan struct{}),
	}
	go s.runUpload(task, path, r, size)
	return task, nil
}

func (s *Store) runUpload(task *uploadTask, path string, r io.Reader, size int64) {
	defer close(task.done)
	defer close(task.progress)

	var buf bytes.Buffer
	chunk := make([]byte, s.UploadChunk)
	last := -1
	for {
		select {
		case <-task.cancel:
			task.err = apperrors.ErrTransferFailed(context.Canceled)
			return
		default:
		}

		n, err := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			pct := int(float64(buf.Len()) / float64(size) * 100)
			if pct > 100 {
				pct = 100
			}
			if pct > last {
				last = pct
				task.progress <- pct
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			task.err = apperrors.ErrTransferFailed(err)
			return
		}
	}

	s.mu.Lock()
	s.blobs[path] = buf.Bytes()
	s.mu.Unlock()
	task.url = "mem://" + strings.TrimPrefix(path, "/")
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
	t.once.Do(func() { close(t.cancel) })
}

// Blob returns stored blob content, for assertions in tests.
func (s *Store) Blob(path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[path]
	return b, ok
}

package firebase

import (
	"context"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"glimpse/internal/gateway"
	apperrors "glimpse/pkg/errors"
)

type DocumentStore struct {
	client *firestore.Client
}

var _ gateway.DocumentStore = (*DocumentStore)(nil)

// resolveSentinels swaps the gateway server-timestamp sentinel for the
// Firestore one.
func resolveSentinels(fields gateway.Fields) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if v == gateway.ServerTimestamp {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}

func mapCode(err error, op string) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return apperrors.NotFound("document not found")
	case codes.AlreadyExists:
		return apperrors.AlreadyExists("document already exists")
	case codes.Unauthenticated, codes.PermissionDenied:
		return apperrors.Wrap(apperrors.CodeUnauthenticated, op, err)
	default:
		return apperrors.Wrap(apperrors.CodeUnavailable, op, err)
	}
}

func (s *DocumentStore) Upsert(ctx context.Context, collection, id string, fields gateway.Fields, merge bool) error {
	ref := s.client.Collection(collection).Doc(id)
	var err error
	if merge {
		_, err = ref.Set(ctx, resolveSentinels(fields), firestore.MergeAll)
	} else {
		_, err = ref.Set(ctx, resolveSentinels(fields))
	}
	return mapCode(err, "firestore upsert failed")
}

func (s *DocumentStore) Create(ctx context.Context, collection, id string, fields gateway.Fields) error {
	_, err := s.client.Collection(collection).Doc(id).Create(ctx, resolveSentinels(fields))
	return mapCode(err, "firestore create failed")
}

func (s *DocumentStore) GetOne(ctx context.Context, collection, id string) (*gateway.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapCode(err, "firestore get failed")
	}
	return &gateway.Document{ID: snap.Ref.ID, Fields: snap.Data()}, nil
}

func (s *DocumentStore) UpdateFields(ctx context.Context, collection, id string, partial gateway.Fields) error {
	updates := make([]firestore.Update, 0, len(partial))
	for k, v := range resolveSentinels(partial) {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	return mapCode(err, "firestore update failed")
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	return mapCode(err, "firestore delete failed")
}

func (s *DocumentStore) build(q gateway.Query) firestore.Query {
	fq := s.client.Collection(q.Collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, f.Op, f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Descending {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(q.OrderBy, dir)
	}
	return fq
}

func (s *DocumentStore) Query(ctx context.Context, q gateway.Query) ([]gateway.Document, error) {
	it := s.build(q).Documents(ctx)
	defer it.Stop()

	var docs []gateway.Document
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			return docs, nil
		}
		if err != nil {
			return nil, mapCode(err, "firestore query failed")
		}
		docs = append(docs, gateway.Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
}

type subscription struct {
	snapshots chan []gateway.Document
	cancel    context.CancelFunc

	mu        sync.Mutex
	err       error
	closeOnce sync.Once
}

func (s *DocumentStore) Listen(ctx context.Context, q gateway.Query) (gateway.Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	sub := &subscription{
		snapshots: make(chan []gateway.Document),
		cancel:    cancel,
	}
	it := s.build(q).Snapshots(ctx)
	go sub.run(ctx, it)
	return sub, nil
}

func (sub *subscription) run(ctx context.Context, it *firestore.QuerySnapshotIterator) {
	defer close(sub.snapshots)
	defer it.Stop()
	for {
		snap, err := it.Next()
		if err != nil {
			if status.Code(err) != codes.Canceled && ctx.Err() == nil {
				sub.setErr(mapCode(err, "firestore snapshot listener failed"))
			}
			return
		}

		docs := make([]gateway.Document, 0, snap.Size)
		docIt := snap.Documents
		for {
			d, err := docIt.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				sub.setErr(mapCode(err, "firestore snapshot read failed"))
				return
			}
			docs = append(docs, gateway.Document{ID: d.Ref.ID, Fields: d.Data()})
		}

		select {
		case sub.snapshots <- docs:
		case <-ctx.Done():
			return
		}
	}
}

func (sub *subscription) setErr(err error) {
	sub.mu.Lock()
	sub.err = err
	sub.mu.Unlock()
}

func (sub *subscription) Snapshots() <-chan []gateway.Document { return sub.snapshots }

func (sub *subscription) Err() error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.err
}

func (sub *subscription) Close() error {
	sub.closeOnce.Do(sub.cancel)
	return nil
}

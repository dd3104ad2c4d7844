// Package gateway defines the contract of the managed backend platform the
// app delegates to: identity, a document store with live queries, and a
// blob store with resumable uploads. Everything here is consumed, not
// built; implementations live in subpackages.
package gateway

import (
	"context"
	"io"
	"time"
)

// Collection names on the backend.
const (
	CollectionConversations = "conversations"
	CollectionMessages      = "messages"
	CollectionMediaIndex    = "media_index"
)

type User struct {
	ID          string
	DisplayName string
}

// Identity exposes the platform's authentication state.
type Identity interface {
	// Current returns the signed-in user, or ErrIdentityMissing.
	Current(ctx context.Context) (*User, error)
	// Resolve looks up another user's public profile by id.
	Resolve(ctx context.Context, id string) (*User, error)
}

// Fields is a raw document payload as the backend stores it.
type Fields map[string]any

// ServerTimestamp is a sentinel: implementations replace it with the
// backend's server clock at write time. Server timestamps are monotonic
// per collection and are the sole sort key for messages.
var ServerTimestamp = serverTimestamp{}

type serverTimestamp struct{}

type Document struct {
	ID     string
	Fields Fields
}

// Time reads a timestamp field, zero time if absent or mistyped.
func (d Document) Time(key string) time.Time {
	if t, ok := d.Fields[key].(time.Time); ok {
		return t
	}
	return time.Time{}
}

// Str reads a string field, "" if absent or mistyped.
func (d Document) Str(key string) string {
	if s, ok := d.Fields[key].(string); ok {
		return s
	}
	return ""
}

// Bool reads a bool field, false if absent or mistyped.
func (d Document) Bool(key string) bool {
	if b, ok := d.Fields[key].(bool); ok {
		return b
	}
	return false
}

type Filter struct {
	Field string
	Op    string // "==", "!=", "array-contains"
	Value any
}

type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string
	Descending bool
}

// Subscription is a standing live query. Every matching change delivers
// the full current ordered snapshot (not a diff) on Snapshots. The owner
// must call Close; an unclosed subscription leaks a listener.
type Subscription interface {
	Snapshots() <-chan []Document
	// Err reports why Snapshots closed, nil on clean Close.
	Err() error
	Close() error
}

// DocumentStore is the platform's document collection API.
type DocumentStore interface {
	// Upsert writes a document. With merge set, provided fields are laid
	// over an existing document instead of replacing it.
	Upsert(ctx context.Context, collection, id string, fields Fields, merge bool) error
	// Create writes a document only if none exists yet, failing with an
	// AlreadyExists-coded error otherwise. Unlike a merge Upsert it never
	// re-resolves server timestamps on an existing document.
	Create(ctx context.Context, collection, id string, fields Fields) error
	// GetOne fetches a document, ErrNotFound-coded error when absent.
	GetOne(ctx context.Context, collection, id string) (*Document, error)
	// UpdateFields patches only the given fields of an existing document.
	UpdateFields(ctx context.Context, collection, id string, partial Fields) error
	Delete(ctx context.Context, collection, id string) error
	// Query runs a one-shot ordered query.
	Query(ctx context.Context, q Query) ([]Document, error)
	// Listen opens a standing subscription for q.
	Listen(ctx context.Context, q Query) (Subscription, error)
}

// UploadTask is a cancellable upload exposing a finite progress stream of
// rounded percentages, terminated by success or failure.
type UploadTask interface {
	Progress() <-chan int
	// Wait blocks until the upload finishes and returns the durable,
	// publicly fetchable URL.
	Wait(ctx context.Context) (string, error)
	Cancel()
}

// BlobStore is the platform's content-addressed blob storage.
type BlobStore interface {
	Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) (UploadTask, error)
}

// Package firebase implements the gateway contract on the Firebase
// platform: Firestore for documents and live queries, Cloud Storage for
// blobs, Firebase Auth for identity.
package firebase

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"glimpse/config"
	apperrors "glimpse/pkg/errors"
)

// Gateway bundles the three platform clients. It satisfies
// gateway.DocumentStore, gateway.BlobStore and gateway.Identity.
type Gateway struct {
	*DocumentStore
	*BlobStore
	*Identity
}

func New(ctx context.Context, cfg config.Firebase, sessionToken string) (*Gateway, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnavailable, "firebase app init failed", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnavailable, "firestore client init failed", err)
	}

	storageClient, err := app.Storage(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnavailable, "storage client init failed", err)
	}
	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnavailable, "storage bucket lookup failed", err)
	}

	var authClient *auth.Client
	authClient, err = app.Auth(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnavailable, "auth client init failed", err)
	}

	return &Gateway{
		DocumentStore: &DocumentStore{client: fs},
		BlobStore:     &BlobStore{bucket: bucket, bucketName: cfg.StorageBucket},
		Identity:      &Identity{client: authClient, sessionToken: sessionToken},
	}, nil
}

// Close releases the Firestore client; storage and auth clients hold no
// long-lived connections of their own.
func (g *Gateway) Close() error {
	return g.DocumentStore.client.Close()
}

package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"glimpse/internal/gateway"
	apperrors "glimpse/pkg/errors"
)

// Identity resolves the current user from a session ID token issued by
// the platform's sign-in flow, and looks up other users' profiles.
type Identity struct {
	client       *auth.Client
	sessionToken string
}

var _ gateway.Identity = (*Identity)(nil)

func (i *Identity) Current(ctx context.Context) (*gateway.User, error) {
	if i.sessionToken == "" {
		return nil, apperrors.ErrIdentityMissing
	}
	tok, err := i.client.VerifyIDToken(ctx, i.sessionToken)
	if err != nil {
		return nil, apperrors.ErrIdentityMissing
	}
	return i.Resolve(ctx, tok.UID)
}

func (i *Identity) Resolve(ctx context.Context, id string) (*gateway.User, error) {
	rec, err := i.client.GetUser(ctx, id)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.CodeUnavailable, "user lookup failed", err)
	}
	return &gateway.User{ID: rec.UID, DisplayName: rec.DisplayName}, nil
}

package ctxutil

import (
	"context"
	"strings"
)

type identityKey struct{}

// Identity is the verified caller attached by the auth middleware.
// UserID is the auth provider subject; it is never taken from request bodies.
type Identity struct {
	UserID string
	Token  string
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func GetIdentity(ctx context.Context) *Identity {
	if id, ok := ctx.Value(identityKey{}).(*Identity); ok && id != nil && strings.TrimSpace(id.UserID) != "" {
		return id
	}
	return nil
}

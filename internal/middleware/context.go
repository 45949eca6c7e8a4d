package middleware

import (
	"context"

	"github.com/profilehub/user-service/internal/models"
)

type contextKey string

const (
	requestIDKey contextKey = "requestID"
	identityKey  contextKey = "identity"
)

// WithIdentity returns a context carrying the authenticated identity
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom retrieves the authenticated identity from context
func IdentityFrom(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*models.Identity)
	return identity, ok
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

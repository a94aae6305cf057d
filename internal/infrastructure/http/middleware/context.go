package middleware

import (
	"context"

	"github.com/kwybro/guilloteam/internal/domain"
)

type contextKey string

const userContextKey contextKey = "user"

// WithAuth injects the authenticated user ID into the context.
func WithAuth(ctx context.Context, userID domain.UserID) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}

// AuthFromContext returns the authenticated user ID from the context.
func AuthFromContext(ctx context.Context) (domain.UserID, bool) {
	v := ctx.Value(userContextKey)
	if v == nil {
		return domain.UserID{}, false
	}
	id, ok := v.(domain.UserID)
	return id, ok
}

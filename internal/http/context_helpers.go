package httpx

import (
	"context"

	"github.com/lionswap/messaging-api/internal/domain/model"
)

type contextKey string

const identityContextKey contextKey = "identity"

// SetIdentityInContext attaches the verified caller identity to the context.
func SetIdentityInContext(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext returns the verified caller identity, or nil if the
// request did not pass through RequireAuth.
func IdentityFromContext(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityContextKey).(*model.Identity)
	return identity
}

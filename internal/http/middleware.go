package http

import (
	"context"
	"net/http"
	"time"

	"github.com/avdeev/go-storefront/internal/domain"
	"github.com/avdeev/go-storefront/internal/identity"
)

type ctxKey string

const ownerKey ctxKey = "owner"

// OwnerMiddleware resolves the request identity (user or guest) once and
// installs it into the context for every handler downstream.
func OwnerMiddleware(resolver *identity.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := resolver.Resolve(w, r)
			ctx := context.WithValue(r.Context(), ownerKey, owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ownerFromContext(ctx context.Context) domain.Owner {
	if owner, ok := ctx.Value(ownerKey).(domain.Owner); ok {
		return owner
	}
	return domain.Owner{Guest: true}
}

func contextWithTimeout(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeout)
}

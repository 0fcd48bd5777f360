package middleware

import (
	"context"
	"net/http"

	"github.com/opencourse/campus/pkg/contextkeys"
	"github.com/opencourse/campus/pkg/identity"
)

// Session resolves the caller's identity from session cookies on every
// request and applies any cookie refresh the resolution produced. A
// failed or absent session leaves the request anonymous; downstream
// gates decide what anonymous callers may reach.
func Session(bridge *identity.Bridge) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, mutations := bridge.Resolve(r.Context(), identity.Snapshot(r))
			identity.ApplyCookies(w, mutations)

			ctx := r.Context()
			if ident != nil {
				ctx = contextkeys.WithIdentity(ctx, ident)
				ctx = contextkeys.WithUserID(ctx, ident.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the resolved identity, or nil for an
// anonymous request.
func IdentityFromContext(ctx context.Context) *identity.Identity {
	if ident, ok := ctx.Value(contextkeys.IdentityKey).(*identity.Identity); ok {
		return ident
	}
	return nil
}

// Package middleware exposes the HTTP adapter for session-based
// authorization checks built on top of vaultgate.Engine.
//
// [Guard] resolves the identity from the request's "user" path value and
// rejects the request unless that identity currently holds an open
// session. It translates HTTP semantics into Engine calls and makes no
// authorization decision of its own beyond pass/reject.
package middleware

import (
	"context"
	"net/http"
)

// identityContextKey carries the authorized identity to the wrapped
// handler.
type identityContextKey struct{}

// IdentityFromContext returns the identity Guard authorized for this
// request.
func IdentityFromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(string)
	return identity, ok
}

// Authorizer is the engine capability Guard needs.
type Authorizer interface {
	IsAuthorized(ctx context.Context, identity string) (bool, error)
}

// Guard wraps a handler registered on a route with a {user} path segment.
// Requests for identities without an open session are rejected with 403;
// storage failures map to 500 without detail.
func Guard(engine Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			identity := r.PathValue("user")
			if identity == "" {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ok, err := engine.IsAuthorized(r.Context(), identity)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if !ok {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

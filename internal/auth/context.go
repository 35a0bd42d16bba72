package auth

import (
	"context"
	"net/http"

	"github.com/mind-engage/docquiz/internal/identity"
)

type ctxKey string

const ctxKeyStore ctxKey = "identity-store"

func WithStore(ctx context.Context, st identity.Store) context.Context {
	return context.WithValue(ctx, ctxKeyStore, st)
}

// StoreFromContext returns the request's identity store, or an empty
// in-memory one when none was attached.
func StoreFromContext(ctx context.Context) identity.Store {
	if v, ok := ctx.Value(ctxKeyStore).(identity.Store); ok {
		return v
	}
	return identity.MapStore{}
}

// Middleware attaches a CookieStore to every request.
func Middleware(s *Signer, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := NewCookieStore(s, w, r, secure)
			next.ServeHTTP(w, r.WithContext(WithStore(r.Context(), st)))
		})
	}
}

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// BearerCredential extracts the bearer credential from a request.
// Returns empty string when the header is absent or not a bearer scheme.
func BearerCredential(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}

// RequireAuth wraps a handler with credential enforcement. Requests
// without a resolvable credential receive 401; on success the resolved
// Identity is placed in the request context.
//
// Throttling is not this middleware's concern: the admission gate runs
// independently and fails open, so an unauthenticated request reaches
// this check unthrottled and is rejected here.
func RequireAuth(resolver *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := BearerCredential(r)
			if credential == "" {
				slog.Warn("missing bearer credential",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
				)
				writeAuthError(w, "missing bearer credential")
				return
			}

			identity, err := resolver.Resolve(r.Context(), credential)
			if err != nil {
				slog.Warn("credential rejected",
					"error", err,
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
				)
				writeAuthError(w, authErrorDetail(err))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authErrorDetail maps resolution errors to client-safe detail strings.
func authErrorDetail(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "token expired"
	case errors.Is(err, ErrKeyNotFound):
		return "invalid API key"
	case errors.Is(err, ErrUserNotFound):
		return "user not found"
	default:
		return "invalid token"
	}
}

func writeAuthError(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":  "unauthorized",
		"detail": detail,
	})
}

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const identityKey contextKey = "identity"

// IdentityFrom retrieves the resolved Identity from a request context.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok
}

// ContextWithIdentity returns ctx carrying identity. Exposed for
// handler tests.
func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

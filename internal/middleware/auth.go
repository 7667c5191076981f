// Package middleware provides HTTP middlewares for authentication, request
// logging, and rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rafaelmdsouza/vitrine/internal/proxy"
)

type ctxKey string

const tokenKey ctxKey = "token"

// RequireAuth is a middleware that rejects requests carrying no Authorization
// header before the upstream is ever contacted.
//
// The gateway does not validate the token itself — it is an opaque credential
// the backend owns — so a present header is enough to pass. On success the
// raw bearer value is stored in the request context for downstream use.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			proxy.WriteError(w, http.StatusUnauthorized, "Token não fornecido", "")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		ctx := context.WithValue(r.Context(), tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetTokenFromContext extracts the bearer token stored by RequireAuth.
// Returns an empty string if not found.
func GetTokenFromContext(ctx context.Context) string {
	val := ctx.Value(tokenKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

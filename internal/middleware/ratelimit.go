package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/rafaelmdsouza/vitrine/internal/proxy"
)

// RateLimit returns a middleware that rejects requests above r events per
// second (with burst b) with 429 and the standard error envelope.
func RateLimit(r rate.Limit, b int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(r, b)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !limiter.Allow() {
				proxy.WriteError(w, http.StatusTooManyRequests, "Muitas requisições, tente novamente em instantes", "")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

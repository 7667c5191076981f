package http

import (
	"net/http"

	"github.com/rafaelmdsouza/vitrine/internal/proxy"
)

// AuthHandler proxies the authentication endpoints. Successful responses
// carry an AuthToken (access_token, token_type, user) that the storefront
// persists; the gateway itself stores nothing.
type AuthHandler struct {
	Proxy *proxy.Forwarder
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.Proxy.Forward(w, r, "/auth/login")
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.Proxy.Forward(w, r, "/auth/register")
}

// Me handles GET /api/auth/me. Requires an Authorization header.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	h.Proxy.Forward(w, r, "/auth/me")
}

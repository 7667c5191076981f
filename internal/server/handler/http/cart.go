// Package http provides the gateway's HTTP handlers: thin forwarders that
// relay storefront requests to the upstream backend through a shared proxy
// helper.
package http

import (
	"net/http"

	"github.com/rafaelmdsouza/vitrine/internal/proxy"
)

// CartHandler handles the cart proxy routes.
type CartHandler struct {
	// Proxy forwards requests to the upstream backend.
	Proxy *proxy.Forwarder
}

// Add handles POST /api/cart/add. The route requires an Authorization header
// (enforced by middleware before this handler runs) and forwards the opaque
// cart-item payload to the backend.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.Proxy.Forward(w, r, "/cart/add")
}

// Get handles GET /api/cart and GET /api/cart/add. The latter path is kept
// for compatibility with the storefront, which historically fetched the cart
// through it. Auth is optional; the header is passed through when present.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.Proxy.Forward(w, r, "/cart/")
}

package http

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/rafaelmdsouza/vitrine/internal/proxy"
)

// OrdersHandler handles the orders proxy routes.
type OrdersHandler struct {
	Proxy *proxy.Forwarder
}

// List handles GET /api/orders.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	h.Proxy.Forward(w, r, "/orders")
}

// Create handles POST /api/orders. The order-creation payload is opaque to
// the gateway and relayed as-is.
func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.Proxy.Forward(w, r, "/orders")
}

// Get handles GET /api/orders/{id}.
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := url.PathEscape(chi.URLParam(r, "id"))
	h.Proxy.Forward(w, r, "/orders/"+id)
}

// Cancel handles PATCH /api/orders/{id}/cancel, the only PATCH sub-action the
// gateway exposes on an order.
func (h *OrdersHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := url.PathEscape(chi.URLParam(r, "id"))
	h.Proxy.Forward(w, r, "/orders/"+id+"/cancel")
}

// NotFound answers PATCH /api/orders/{id} for any path not ending in /cancel.
// The upstream is never contacted.
func (h *OrdersHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	proxy.WriteError(w, http.StatusNotFound, "Endpoint não encontrado", "")
}

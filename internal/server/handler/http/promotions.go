package http

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/rafaelmdsouza/vitrine/internal/proxy"
)

// PromotionsHandler proxies the promotions resource. Promotion records are a
// discriminated shape owned by the backend; the gateway relays them without
// checking which fields are meaningful for the promotion type.
type PromotionsHandler struct {
	Proxy *proxy.Forwarder
}

// List handles GET /api/promotions.
func (h *PromotionsHandler) List(w http.ResponseWriter, r *http.Request) {
	h.Proxy.Forward(w, r, "/promotions")
}

// Create handles POST /api/promotions. Creation is admin-only, but that check
// belongs to the backend; the gateway only requires that a token be present.
func (h *PromotionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.Proxy.Forward(w, r, "/promotions")
}

// Get handles GET /api/promotions/{id}.
func (h *PromotionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := url.PathEscape(chi.URLParam(r, "id"))
	h.Proxy.Forward(w, r, "/promotions/"+id)
}

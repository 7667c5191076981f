package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rafaelmdsouza/vitrine/internal/proxy"
)

// paymentResults are the redirect outcomes the payment SDK can produce.
var paymentResults = map[string]bool{
	"success":  true,
	"error":    true,
	"pending":  true,
	"rejected": true,
}

// PaymentsHandler terminates the payment SDK's browser redirect flow and
// proxies the PIX payload.
type PaymentsHandler struct {
	Proxy *proxy.Forwarder
	// FrontendURL is where the browser is sent after the result is recorded.
	FrontendURL string
	Log         *zap.Logger
}

// Result handles GET /payments/{result}. The payment SDK redirects the buyer
// here with payment_id, order_id, status and error/message query parameters.
// The gateway logs the outcome and sends the browser to the storefront's
// order page, or to the dashboard when no order id came back.
func (h *PaymentsHandler) Result(w http.ResponseWriter, r *http.Request) {
	result := chi.URLParam(r, "result")
	if !paymentResults[result] {
		proxy.WriteError(w, http.StatusNotFound, "Endpoint não encontrado", "")
		return
	}

	q := r.URL.Query()
	orderID := q.Get("order_id")
	if orderID == "" {
		orderID = q.Get("id")
	}
	message := q.Get("error")
	if message == "" {
		message = q.Get("message")
	}

	h.Log.Info("payment redirect",
		zap.String("result", result),
		zap.String("payment_id", q.Get("payment_id")),
		zap.String("order_id", orderID),
		zap.String("status", q.Get("status")),
		zap.String("message", message),
	)

	target := strings.TrimRight(h.FrontendURL, "/") + "/dashboard"
	if orderID != "" {
		target = strings.TrimRight(h.FrontendURL, "/") + "/orders/" + url.PathEscape(orderID)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Pix handles GET /api/payments/{id}/pix, relaying the QR code and
// copy-paste payload for a pending PIX payment.
func (h *PaymentsHandler) Pix(w http.ResponseWriter, r *http.Request) {
	id := url.PathEscape(chi.URLParam(r, "id"))
	h.Proxy.Forward(w, r, "/payments/"+id+"/pix")
}

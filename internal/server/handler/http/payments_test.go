package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPaymentsResult_RedirectsToOrder(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		expected string
	}{
		{
			name:     "success with order id",
			target:   "/payments/success?payment_id=pay1&order_id=o1&status=approved",
			expected: "http://front/orders/o1",
		},
		{
			name:     "pending with legacy id param",
			target:   "/payments/pending?payment_id=pay2&id=o2",
			expected: "http://front/orders/o2",
		},
		{
			name:     "error without order id falls back to dashboard",
			target:   "/payments/error?error=card_declined",
			expected: "http://front/dashboard",
		},
		{
			name:     "rejected without order id",
			target:   "/payments/rejected?payment_id=pay3&message=insufficient_funds",
			expected: "http://front/dashboard",
		},
	}

	router := newTestRouter("http://127.0.0.1:0", nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.target, nil))

			if rec.Code != http.StatusFound {
				t.Fatalf("expected 302, got %d", rec.Code)
			}
			if got := rec.Header().Get("Location"); got != tt.expected {
				t.Errorf("expected redirect to %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestPaymentsResult_UnknownResult(t *testing.T) {
	router := newTestRouter("http://127.0.0.1:0", nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/payments/unknown", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown result, got %d", rec.Code)
	}
}

func TestPaymentsPix_Forwards(t *testing.T) {
	up := &fakeUpstream{status: http.StatusOK, body: `{"qr_code":"000201...","copy_paste":"000201..."}`}
	srv := httptest.NewServer(up.handler())
	defer srv.Close()
	router := newTestRouter(srv.URL, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/payments/pay1/pix", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if hit := up.last(t); hit.path != "/payments/pay1/pix" {
		t.Errorf("expected upstream /payments/pay1/pix, got %s", hit.path)
	}
}

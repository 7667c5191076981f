package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	dummy := &dummyHandler{}
	h := RateLimit(rate.Limit(1), 1)(dummy)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/orders", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}
}

func TestRateLimit_RejectsAboveBurst(t *testing.T) {
	h := RateLimit(rate.Limit(0.001), 1)(&dummyHandler{})

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest("GET", "/api/orders", nil))

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest("GET", "/api/orders", nil))

	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 above burst, got %d", second.Code)
	}
}

package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/rafaelmdsouza/vitrine/internal/proxy"
)

// recordedHit captures one request seen by the fake upstream.
type recordedHit struct {
	method string
	path   string
	auth   string
	body   string
}

// fakeUpstream is a backend stand-in that records every request and answers
// with a fixed JSON response.
type fakeUpstream struct {
	mu     sync.Mutex
	hits   []recordedHit
	status int
	body   string
}

func (f *fakeUpstream) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.hits = append(f.hits, recordedHit{
			method: r.Method,
			path:   r.URL.Path,
			auth:   r.Header.Get("Authorization"),
			body:   string(body),
		})
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, f.body)
	}
}

func (f *fakeUpstream) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.hits)
}

func (f *fakeUpstream) last(t *testing.T) recordedHit {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.hits) == 0 {
		t.Fatal("upstream was never contacted")
	}
	return f.hits[len(f.hits)-1]
}

func newTestRouter(upstreamURL string, providers map[string]*oauth2.Config) http.Handler {
	fwd := proxy.New(upstreamURL, zap.NewNop())
	return NewRouter(
		&CartHandler{Proxy: fwd},
		&OrdersHandler{Proxy: fwd},
		&PromotionsHandler{Proxy: fwd},
		&AuthHandler{Proxy: fwd},
		&PaymentsHandler{Proxy: fwd, FrontendURL: "http://front", Log: zap.NewNop()},
		&OAuthHandler{
			Providers:   providers,
			BackendURL:  upstreamURL,
			FrontendURL: "http://front",
			Client:      &http.Client{},
			Log:         zap.NewNop(),
		},
		zap.NewNop(),
		rate.Inf,
		0,
	)
}

func TestRouter_CartAddRequiresToken(t *testing.T) {
	up := &fakeUpstream{status: http.StatusOK, body: `{}`}
	srv := httptest.NewServer(up.handler())
	defer srv.Close()
	router := newTestRouter(srv.URL, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/cart/add", strings.NewReader(`{"product_id":"p1"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var payload map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if payload["detail"] != "Token não fornecido" {
		t.Errorf("unexpected detail: %q", payload["detail"])
	}
	if up.count() != 0 {
		t.Error("upstream must not be contacted without a token")
	}
}

func TestRouter_CartAddForwards(t *testing.T) {
	up := &fakeUpstream{status: http.StatusCreated, body: `{"items":1}`}
	srv := httptest.NewServer(up.handler())
	defer srv.Close()
	router := newTestRouter(srv.URL, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/cart/add", strings.NewReader(`{"product_id":"p1","quantity":2}`))
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	hit := up.last(t)
	if hit.path != "/cart/add" || hit.method != "POST" {
		t.Errorf("expected POST /cart/add upstream, got %s %s", hit.method, hit.path)
	}
	if hit.auth != "Bearer tok" {
		t.Errorf("Authorization not forwarded, got %q", hit.auth)
	}
	if hit.body != `{"product_id":"p1","quantity":2}` {
		t.Errorf("body not forwarded, got %q", hit.body)
	}
}

func TestRouter_CartFetchThroughLegacyPath(t *testing.T) {
	up := &fakeUpstream{status: http.StatusOK, body: `{"items":[]}`}
	srv := httptest.NewServer(up.handler())
	defer srv.Close()
	router := newTestRouter(srv.URL, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/cart/add", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if hit := up.last(t); hit.path != "/cart/" {
		t.Errorf("legacy cart fetch should hit /cart/, got %s", hit.path)
	}
}

func TestRouter_OrdersCreatePassthrough(t *testing.T) {
	up := &fakeUpstream{status: http.StatusCreated, body: `{"id":"o1","status":"pending"}`}
	srv := httptest.NewServer(up.handler())
	defer srv.Close()
	router := newTestRouter(srv.URL, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/orders", strings.NewReader(`{"items":[{"product_id":"p1"}]}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"id":"o1","status":"pending"}` {
		t.Errorf("body not relayed verbatim: %q", got)
	}
}

func TestRouter_OrderPatchOnlyCancelExists(t *testing.T) {
	up := &fakeUpstream{status: http.StatusOK, body: `{"id":"o1","status":"cancelled"}`}
	srv := httptest.NewServer(up.handler())
	defer srv.Close()
	router := newTestRouter(srv.URL, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("PATCH", "/api/orders/o1", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for PATCH without /cancel, got %d", rec.Code)
	}
	var payload map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if payload["detail"] != "Endpoint não encontrado" {
		t.Errorf("unexpected detail: %q", payload["detail"])
	}
	if up.count() != 0 {
		t.Error("upstream must not be contacted for unknown PATCH actions")
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("PATCH", "/api/orders/o1/cancel", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected cancel to forward, got %d", rec.Code)
	}
	if hit := up.last(t); hit.path != "/orders/o1/cancel" {
		t.Errorf("expected upstream /orders/o1/cancel, got %s", hit.path)
	}
}

func TestRouter_OrdersUpstreamUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // upstream down
	router := newTestRouter(srv.URL, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/orders", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var payload map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if payload["detail"] == "" || payload["error"] == "" {
		t.Errorf("expected detail and error fields, got %v", payload)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	up := &fakeUpstream{status: http.StatusOK, body: `{}`}
	srv := httptest.NewServer(up.handler())
	defer srv.Close()
	router := newTestRouter(srv.URL, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/api/cart/add", nil)
	req.Header.Set("Origin", "http://front")
	req.Header.Set("Access-Control-Request-Method", "POST")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS headers on preflight response")
	}
	if up.count() != 0 {
		t.Error("preflight must not reach the upstream")
	}
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter("http://127.0.0.1:0", nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"status":"ok"}` {
		t.Errorf("unexpected health body: %q", got)
	}
}

func TestRouter_PromotionCreateRequiresToken(t *testing.T) {
	up := &fakeUpstream{status: http.StatusCreated, body: `{"id":"promo1"}`}
	srv := httptest.NewServer(up.handler())
	defer srv.Close()
	router := newTestRouter(srv.URL, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/promotions", strings.NewReader(`{"name":"x"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/promotions", strings.NewReader(`{"name":"x","type":"percentage"}`))
	req.Header.Set("Authorization", "Bearer admintok")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if hit := up.last(t); hit.path != "/promotions" {
		t.Errorf("expected upstream /promotions, got %s", hit.path)
	}
}

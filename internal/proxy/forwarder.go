// Package proxy implements the single reverse-proxy helper every gateway
// route is built on. It forwards a browser request to the upstream backend
// and normalizes whatever comes back into JSON the storefront can rely on.
package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// maxRawErrorLen bounds how much of a non-JSON upstream body is echoed back
// to the browser.
const maxRawErrorLen = 200

// forwardedHeaders are the only inbound headers relayed to the upstream.
var forwardedHeaders = []string{"Content-Type", "Authorization", "Accept"}

// Envelope is the flat error shape returned by every gateway route.
type Envelope struct {
	// Detail is a human-readable message shown to the user.
	Detail string `json:"detail"`
	// Error carries the underlying cause, when one exists.
	Error string `json:"error,omitempty"`
}

// Forwarder proxies requests to a single upstream base URL.
type Forwarder struct {
	// BaseURL is the upstream backend base URL without a trailing slash.
	BaseURL string
	// Client performs the upstream calls.
	Client *http.Client
	// Log records upstream failures.
	Log *zap.Logger
}

// New constructs a Forwarder for the given upstream base URL.
func New(baseURL string, log *zap.Logger) *Forwarder {
	return &Forwarder{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{},
		Log:     log,
	}
}

// Forward relays the inbound request to baseURL+upstreamPath and writes the
// normalized upstream response.
//
// Policy, applied uniformly to every route:
//   - upstream responded with JSON: relay its status code and body verbatim;
//   - upstream responded with anything else: 502 with an Envelope carrying
//     the raw body truncated to 200 characters;
//   - upstream unreachable: 500 with an Envelope carrying the transport
//     error.
//
// The method, JSON body and the Content-Type/Authorization/Accept headers are
// forwarded unchanged; nothing is retried.
func (f *Forwarder) Forward(w http.ResponseWriter, r *http.Request, upstreamPath string) {
	var body io.Reader
	if r.Body != nil {
		body = r.Body
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, f.BaseURL+upstreamPath, body)
	if err != nil {
		f.Log.Error("building upstream request", zap.String("path", upstreamPath), zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "Erro de comunicação com o servidor", err.Error())
		return
	}
	for _, h := range forwardedHeaders {
		if v := r.Header.Get(h); v != "" {
			req.Header.Set(h, v)
		}
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		f.Log.Error("upstream unreachable",
			zap.String("method", r.Method),
			zap.String("path", upstreamPath),
			zap.Error(err),
		)
		WriteError(w, http.StatusInternalServerError, "Erro de comunicação com o servidor", err.Error())
		return
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		f.Log.Error("reading upstream body", zap.String("path", upstreamPath), zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "Erro de comunicação com o servidor", err.Error())
		return
	}

	if isJSON(resp.Header.Get("Content-Type"), raw) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.StatusCode)
		_, _ = w.Write(raw)
		return
	}

	f.Log.Warn("non-JSON upstream response",
		zap.String("path", upstreamPath),
		zap.Int("upstream_status", resp.StatusCode),
	)
	WriteError(w, http.StatusBadGateway, "Resposta inválida do servidor", truncate(string(raw)))
}

// isJSON reports whether the upstream response can be relayed as-is. An empty
// body with a JSON content type still counts: some backends answer 204-style
// with no payload.
func isJSON(contentType string, body []byte) bool {
	if !strings.Contains(contentType, "application/json") {
		return false
	}
	return len(body) == 0 || json.Valid(body)
}

func truncate(s string) string {
	if len(s) > maxRawErrorLen {
		return s[:maxRawErrorLen]
	}
	return s
}

// WriteError writes an Envelope with the given status. Handlers use it for
// locally produced errors (missing token, unknown endpoint) so that every
// failure a browser sees has the same shape.
func WriteError(w http.ResponseWriter, status int, detail, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Detail: detail, Error: errMsg})
}

package api

import (
	"net/http"

	"github.com/rafaelmdsouza/vitrine/internal/client/session"
)

// authTransport attaches the session's bearer token to outgoing requests and
// invalidates the session when the server answers 401. This is the only
// place session teardown is triggered by server feedback; the store's own
// idempotence guarantees a single logout event no matter how many 401s race.
type authTransport struct {
	store *session.Store
	next  http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token := t.store.Token(); token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = t.store.Clear()
	}
	return resp, nil
}

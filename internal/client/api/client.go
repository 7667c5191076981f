// Package api is the storefront client's HTTP layer. A single shared Client
// talks to the gateway, attaching the session's bearer token to every request
// and tearing the session down when the backend answers 401.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rafaelmdsouza/vitrine/internal/client/session"
	"github.com/rafaelmdsouza/vitrine/internal/models"
)

// APIError is a non-2xx answer from the gateway or backend, carrying the
// flat error envelope when one was returned.
type APIError struct {
	Status int
	Detail string
	Raw    string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// Client is the typed API surface over the gateway.
type Client struct {
	base  string
	http  *http.Client
	store *session.Store
}

// New builds a Client for the gateway at baseURL, wired to the session store
// for token attachment and 401 handling.
func New(baseURL string, store *session.Store) *Client {
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		store: store,
		http: &http.Client{
			Transport: &authTransport{store: store, next: http.DefaultTransport},
		},
	}
}

// do performs one JSON round trip. A non-2xx status is returned as *APIError;
// a 2xx body that cannot be decoded into out is a parse error.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Raw: string(raw)}
		var envelope struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &envelope) == nil {
			apiErr.Detail = envelope.Detail
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Login authenticates with email and password and stores the returned
// session.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Session, error) {
	return c.authenticate(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Register creates an account and stores the returned session.
func (c *Client) Register(ctx context.Context, email, fullName, password string) (*session.Session, error) {
	return c.authenticate(ctx, "/api/auth/register", map[string]string{
		"email":     email,
		"full_name": fullName,
		"password":  password,
	})
}

func (c *Client) authenticate(ctx context.Context, path string, payload map[string]string) (*session.Session, error) {
	var token models.AuthToken
	if err := c.do(ctx, http.MethodPost, path, payload, &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("auth response carried no access token")
	}

	sess := session.Session{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		User:        token.User,
	}
	if err := c.store.Set(sess); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}
	return &sess, nil
}

// Logout clears the session locally. There is no server-side session to
// revoke.
func (c *Client) Logout() error {
	return c.store.Clear()
}

// Me fetches the fresh user record and refreshes the cached copy.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	if sess, ok := c.store.Get(); ok {
		sess.User = user
		if err := c.store.Set(sess); err != nil {
			return nil, fmt.Errorf("refreshing cached user: %w", err)
		}
	}
	return &user, nil
}

// CartAdd adds an opaque item payload to the cart.
func (c *Client) CartAdd(ctx context.Context, item any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/cart/add", item, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Cart fetches the current cart.
func (c *Client) Cart(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Orders lists the caller's orders.
func (c *Client) Orders(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateOrder submits an opaque order-creation payload.
func (c *Client) CreateOrder(ctx context.Context, payload any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/orders", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrderStatus is the subset of an order the client displays.
type OrderStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Order fetches one order by id.
func (c *Client) Order(ctx context.Context, id string) (*OrderStatus, json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), nil, &raw); err != nil {
		return nil, nil, err
	}
	var status OrderStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, nil, fmt.Errorf("decoding order: %w", err)
	}
	return &status, raw, nil
}

// CancelOrder requests cancellation of an order.
func (c *Client) CancelOrder(ctx context.Context, id string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPatch, "/api/orders/"+url.PathEscape(id)+"/cancel", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Promotions lists current promotions.
func (c *Client) Promotions(ctx context.Context) ([]models.Promotion, error) {
	var out []models.Promotion
	if err := c.do(ctx, http.MethodGet, "/api/promotions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePromotion creates a promotion. The backend decides whether the
// caller may.
func (c *Client) CreatePromotion(ctx context.Context, p models.Promotion) (*models.Promotion, error) {
	var out models.Promotion
	if err := c.do(ctx, http.MethodPost, "/api/promotions", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PixPayload fetches the PIX QR code and copy-paste code for a payment.
func (c *Client) PixPayload(ctx context.Context, paymentID string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/payments/"+url.PathEscape(paymentID)+"/pix", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

package http

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/go-chi/chi/v5"

	"github.com/rafaelmdsouza/vitrine/internal/models"
	"github.com/rafaelmdsouza/vitrine/internal/proxy"
)

// stateCookie carries the anti-CSRF state between the login redirect and the
// provider callback.
const stateCookie = "oauth_state"

// OAuthHandler drives the OAuth-style login: redirect the browser to the
// provider, exchange the returned code, trade the provider token for a
// platform AuthToken at the backend, and send the browser back to the
// storefront callback page with that token.
type OAuthHandler struct {
	// Providers maps provider name to its oauth2 configuration. A provider
	// absent from the map is unsupported.
	Providers map[string]*oauth2.Config
	// BackendURL is the upstream backend base URL used to mint the session.
	BackendURL string
	// FrontendURL is the storefront base URL for the final redirect.
	FrontendURL string
	// Client performs the code exchange and the backend call.
	Client *http.Client
	Log    *zap.Logger
}

// OAuthProviders builds the provider configurations for the given gateway
// public URL. Providers with an empty client ID are left out.
func OAuthProviders(publicURL, googleID, googleSecret, githubID, githubSecret string) map[string]*oauth2.Config {
	base := strings.TrimRight(publicURL, "/")
	providers := make(map[string]*oauth2.Config)
	if googleID != "" {
		providers["google"] = &oauth2.Config{
			ClientID:     googleID,
			ClientSecret: googleSecret,
			Endpoint:     endpoints.Google,
			RedirectURL:  base + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
		}
	}
	if githubID != "" {
		providers["github"] = &oauth2.Config{
			ClientID:     githubID,
			ClientSecret: githubSecret,
			Endpoint:     endpoints.GitHub,
			RedirectURL:  base + "/auth/github/callback",
			Scopes:       []string{"read:user", "user:email"},
		}
	}
	return providers
}

// Login handles GET /auth/{provider}/login. It sets the state cookie and
// redirects the browser to the provider's consent page.
func (h *OAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	conf, ok := h.Providers[provider]
	if !ok {
		proxy.WriteError(w, http.StatusNotFound, "Provedor não suportado", "")
		return
	}

	state, err := randomState()
	if err != nil {
		proxy.WriteError(w, http.StatusInternalServerError, "Erro ao iniciar autenticação", err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, conf.AuthCodeURL(state), http.StatusFound)
}

// Callback handles GET /auth/{provider}/callback. It validates the state,
// exchanges the code, posts the provider token to the backend to mint a
// platform AuthToken, and redirects to the storefront callback page with
// access_token in the query string.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	conf, ok := h.Providers[provider]
	if !ok {
		proxy.WriteError(w, http.StatusNotFound, "Provedor não suportado", "")
		return
	}

	cookie, err := r.Cookie(stateCookie)
	state := r.URL.Query().Get("state")
	if err != nil || cookie.Value == "" || cookie.Value != state {
		proxy.WriteError(w, http.StatusBadRequest, "Estado OAuth inválido", "")
		return
	}
	// state is single-use
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/auth", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		proxy.WriteError(w, http.StatusBadRequest, "Código OAuth ausente", "")
		return
	}

	ctx := context.WithValue(r.Context(), oauth2.HTTPClient, h.Client)
	providerToken, err := conf.Exchange(ctx, code)
	if err != nil {
		h.Log.Error("oauth code exchange failed", zap.String("provider", provider), zap.Error(err))
		proxy.WriteError(w, http.StatusBadGateway, "Falha na autenticação com o provedor", err.Error())
		return
	}

	token, err := h.mintSession(r.Context(), provider, providerToken.AccessToken)
	if err != nil {
		h.Log.Error("minting backend session failed", zap.String("provider", provider), zap.Error(err))
		proxy.WriteError(w, http.StatusBadGateway, "Falha ao criar sessão", err.Error())
		return
	}

	target := strings.TrimRight(h.FrontendURL, "/") + "/auth/callback?access_token=" + url.QueryEscape(token.AccessToken)
	http.Redirect(w, r, target, http.StatusFound)
}

// mintSession trades a provider access token for a platform AuthToken at the
// backend.
func (h *OAuthHandler) mintSession(ctx context.Context, provider, accessToken string) (*models.AuthToken, error) {
	payload, err := json.Marshal(map[string]string{
		"provider":     provider,
		"access_token": accessToken,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(h.BackendURL, "/")+"/auth/oauth", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("backend rejected oauth session: status %d", resp.StatusCode)
	}

	var token models.AuthToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decoding backend session: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("backend returned empty access token")
	}
	return &token, nil
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

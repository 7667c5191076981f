package http

import (
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/rafaelmdsouza/vitrine/internal/middleware"
)

// NewRouter constructs the HTTP handler that serves the gateway API.
//
// Routes:
//
//	POST  /api/cart/add             → cart.Add (requires Authorization)
//	GET   /api/cart/add             → cart.Get (compatibility path)
//	GET   /api/cart                 → cart.Get
//	GET   /api/orders               → orders.List
//	POST  /api/orders               → orders.Create
//	GET   /api/orders/{id}          → orders.Get
//	PATCH /api/orders/{id}/cancel   → orders.Cancel
//	PATCH /api/orders/{id}          → orders.NotFound (only /cancel is patchable)
//	GET   /api/promotions           → promotions.List
//	POST  /api/promotions           → promotions.Create (requires Authorization)
//	GET   /api/promotions/{id}      → promotions.Get
//	POST  /api/auth/login           → auth.Login
//	POST  /api/auth/register        → auth.Register
//	GET   /api/auth/me              → auth.Me (requires Authorization)
//	GET   /api/payments/{id}/pix    → payments.Pix
//	GET   /auth/{provider}/login    → oauth.Login
//	GET   /auth/{provider}/callback → oauth.Callback
//	GET   /payments/{result}        → payments.Result
//	GET   /healthz                  → liveness probe
//
// Middleware chain (applied in order):
//  1. cors.Handler — one permissive CORS policy for every route, including
//     preflight (replaces per-route OPTIONS handling)
//  2. WithRequestLogging(logger) — logs each request with a request ID
//  3. RateLimit — sheds load above the configured rate
func NewRouter(
	cart *CartHandler,
	orders *OrdersHandler,
	promotions *PromotionsHandler,
	auth *AuthHandler,
	payments *PaymentsHandler,
	oauth *OAuthHandler,
	logger *zap.Logger,
	rps rate.Limit,
	burst int,
) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.RateLimit(rps, burst))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.With(middleware.RequireAuth).Post("/add", cart.Add)
			r.Get("/add", cart.Get)
			r.Get("/", cart.Get)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orders.List)
			r.Post("/", orders.Create)
			r.Get("/{id}", orders.Get)
			r.Patch("/{id}/cancel", orders.Cancel)
			r.Patch("/{id}", orders.NotFound)
		})

		r.Route("/promotions", func(r chi.Router) {
			r.Get("/", promotions.List)
			r.With(middleware.RequireAuth).Post("/", promotions.Create)
			r.Get("/{id}", promotions.Get)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", auth.Login)
			r.Post("/register", auth.Register)
			r.With(middleware.RequireAuth).Get("/me", auth.Me)
		})

		r.Get("/payments/{id}/pix", payments.Pix)
	})

	r.Get("/auth/{provider}/login", oauth.Login)
	r.Get("/auth/{provider}/callback", oauth.Callback)
	r.Get("/payments/{result}", payments.Result)

	return r
}

// Package main initializes and starts the vitrine gateway, the server-side
// edge of the storefront: it proxies cart, order, promotion and auth traffic
// to the upstream commerce backend and terminates the OAuth and payment
// redirect flows.
package main

import (
	"cmp"
	"fmt"

	nethttp "net/http"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rafaelmdsouza/vitrine/internal/config"
	"github.com/rafaelmdsouza/vitrine/internal/logger"
	"github.com/rafaelmdsouza/vitrine/internal/proxy"
	"github.com/rafaelmdsouza/vitrine/internal/server/handler/http"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// One forwarder serves every proxy route; the upstream base URL is the
	// single place the backend address is configured.
	forwarder := proxy.New(options.BackendURL, zapLogger)

	cartHandler := &http.CartHandler{Proxy: forwarder}
	ordersHandler := &http.OrdersHandler{Proxy: forwarder}
	promotionsHandler := &http.PromotionsHandler{Proxy: forwarder}
	authHandler := &http.AuthHandler{Proxy: forwarder}
	paymentsHandler := &http.PaymentsHandler{
		Proxy:       forwarder,
		FrontendURL: options.FrontendURL,
		Log:         zapLogger,
	}
	oauthHandler := &http.OAuthHandler{
		Providers: http.OAuthProviders(
			options.PublicURL,
			options.GoogleClientID, options.GoogleClientSecret,
			options.GithubClientID, options.GithubClientSecret,
		),
		BackendURL:  options.BackendURL,
		FrontendURL: options.FrontendURL,
		Client:      &nethttp.Client{},
		Log:         zapLogger,
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(
		cartHandler,
		ordersHandler,
		promotionsHandler,
		authHandler,
		paymentsHandler,
		oauthHandler,
		zapLogger,
		rate.Limit(options.RatePerSecond),
		options.RateBurst,
	)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting gateway",
		zap.String("addr", options.Port),
		zap.String("backend", options.BackendURL),
	)
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start gateway", zap.Error(err))
	}
}

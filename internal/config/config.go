// Package config provides functionality for managing configuration options
// for the gateway using command-line flags, a .env file, environment
// variables, and an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// BackendURL is the base URL of the upstream commerce backend. Every
	// proxy route resolves against this single value.
	BackendURL string

	// FrontendURL is the base URL the gateway redirects browsers back to
	// after payment and OAuth flows.
	FrontendURL string

	// PublicURL is the externally reachable base URL of the gateway itself,
	// used to build OAuth redirect URIs.
	PublicURL string

	// LogLevel sets the zap logging level.
	LogLevel string

	// RatePerSecond and RateBurst configure the request rate limiter.
	RatePerSecond float64
	RateBurst     int

	// OAuth client credentials. A provider with an empty client ID is
	// disabled.
	GoogleClientID     string
	GoogleClientSecret string
	GithubClientID     string
	GithubClientSecret string

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.BackendURL, "b", "http://localhost:8000", "upstream backend base URL")
	flag.StringVar(&options.FrontendURL, "f", "http://localhost:3000", "storefront base URL for redirects")
	flag.StringVar(&options.PublicURL, "p", "http://localhost:8080", "public base URL of this gateway")
	flag.StringVar(&options.LogLevel, "l", "info", "log level")
	flag.Float64Var(&options.RatePerSecond, "rps", 50, "allowed requests per second")
	flag.IntVar(&options.RateBurst, "burst", 100, "rate limiter burst size")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags, .env file, and environment variables to
// set configuration values. It returns a pointer to the Options struct
// containing the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using flags and environment")
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if backendURL := os.Getenv("BACKEND_URL"); backendURL != "" {
		options.BackendURL = backendURL
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		options.FrontendURL = frontendURL
	}
	if publicURL := os.Getenv("PUBLIC_URL"); publicURL != "" {
		options.PublicURL = publicURL
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		options.LogLevel = logLevel
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		options.GoogleClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		options.GoogleClientSecret = v
	}
	if v := os.Getenv("GITHUB_CLIENT_ID"); v != "" {
		options.GithubClientID = v
	}
	if v := os.Getenv("GITHUB_CLIENT_SECRET"); v != "" {
		options.GithubClientSecret = v
	}

	return options
}

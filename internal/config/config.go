package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var ErrEmptyEnvironmentVariable = errors.New("empty environment variable")

// Config holds all application configuration
type Config struct {
	Auth     AuthConfig
	Checkout CheckoutConfig
	Services ServicesConfig
	Server   ServerConfig
}

// AuthConfig holds authentication-related configuration.
// JWTSecret is optional: when empty the subscribe endpoint is public.
type AuthConfig struct {
	JWTSecret      string
	ResolveTimeout time.Duration
}

// CheckoutConfig holds server-side defaults for checkout requests
type CheckoutConfig struct {
	DefaultAmount   int64  // minor currency units
	DefaultCurrency string // lowercase ISO 4217
}

// ServicesConfig holds external service API keys and configuration
type ServicesConfig struct {
	StripeSecretKey string
	WebAppURI       string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{}

	var err error
	if cfg.Services.StripeSecretKey, err = requireEnv("STRIPE_SECRET_KEY"); err != nil {
		return nil, err
	}
	if cfg.Services.WebAppURI, err = requireEnv("WEB_APP_URI"); err != nil {
		return nil, err
	}

	// Auth configuration (optional bearer auth on the subscribe endpoint)
	cfg.Auth.JWTSecret = os.Getenv("AUTH_JWT_SECRET")
	resolveTimeoutMs, err := optionalIntEnv("AUTH_RESOLVE_TIMEOUT_MS", 3000)
	if err != nil {
		return nil, err
	}
	cfg.Auth.ResolveTimeout = time.Duration(resolveTimeoutMs) * time.Millisecond

	// Checkout defaults applied when the request omits amount/currency
	defaultAmount, err := optionalIntEnv("DEFAULT_CHECKOUT_AMOUNT", 1000)
	if err != nil {
		return nil, err
	}
	cfg.Checkout.DefaultAmount = int64(defaultAmount)
	cfg.Checkout.DefaultCurrency = optionalEnv("DEFAULT_CHECKOUT_CURRENCY", "gbp")

	port, err := optionalIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Server.Port = port

	return cfg, nil
}

// requireEnv returns the value of the environment variable or an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyEnvironmentVariable, key)
	}
	return value, nil
}

// optionalEnv returns the value of the environment variable or the fallback if empty
func optionalEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

// optionalIntEnv returns the integer value of the environment variable or the fallback if empty
func optionalIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return parsed, nil
}

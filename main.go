package main

import (
	"context"
	"log"

	"subscribe-server/internal/auth"
	checkoutHandler "subscribe-server/internal/checkout/handler"
	checkoutProcessor "subscribe-server/internal/checkout/processor"
	"subscribe-server/internal/clients/billing"
	"subscribe-server/internal/config"
	"subscribe-server/internal/observability"
	"subscribe-server/internal/server"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %s", err)
	}

	logger := observability.NewLogger()
	ctx := context.Background()

	billingClient := billing.New(cfg.Services.StripeSecretKey, logger)
	processor := checkoutProcessor.New(billingClient, cfg.Checkout.DefaultAmount,
		cfg.Checkout.DefaultCurrency, logger)
	handler := checkoutHandler.New(processor, logger)

	// Bearer auth on the subscribe endpoint is enabled only when a JWT
	// secret is configured.
	var authMiddleware gin.HandlerFunc
	if cfg.Auth.JWTSecret != "" {
		verifier := auth.NewVerifier(cfg.Auth.JWTSecret, logger)
		authMiddleware = verifier.Middleware(cfg.Auth.ResolveTimeout)
	}

	srv := server.New(cfg, handler, authMiddleware, logger)
	srv.Setup()
	if err := srv.Start(ctx); err != nil {
		logger.Fatal(ctx, "failed to start server", err)
	}

	if err := srv.WaitForShutdown(ctx); err != nil {
		logger.Fatal(ctx, "shutdown failed", err)
	}
}

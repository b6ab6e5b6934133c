package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"finflow-gateway/internal/adapters/backend"
	"finflow-gateway/internal/adapters/http/middleware"
	"finflow-gateway/internal/adapters/http/routes"
	"finflow-gateway/internal/config"
	"finflow-gateway/internal/core/services"
	"finflow-gateway/internal/core/session"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"

	_ "finflow-gateway/docs" // Swagger docs
)

// @title FinFlow Gateway API
// @version 1.0
// @description Edge gateway for the FinFlow personal-finance client: session lifecycle, route guarding and finance data mediation.

// @host localhost:3000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Backend client and session registry
	client := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	registry := session.NewRegistry(client, cfg.Session.TTL)
	finance := services.NewFinanceService(client)

	// Periodic session sweep: re-verifies cached sessions and evicts the
	// ones that no longer resolve (fail-closed).
	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.Session.SweepSchedule, func() {
		registry.Sweep(context.Background())
	}); err != nil {
		log.Fatalf("invalid SESSION_SWEEP_INTERVAL: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "FinFlow Gateway v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, cfg, client, registry, finance)

	// Graceful shutdown
	go gracefulShutdown(app)

	log.Printf("gateway starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down gateway...")
	if err := app.Shutdown(); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	log.Println("gateway stopped")
}

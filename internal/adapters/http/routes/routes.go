package routes

import (
	"finflow-gateway/internal/adapters/backend"
	"finflow-gateway/internal/adapters/http/handlers"
	"finflow-gateway/internal/adapters/http/middleware"
	"finflow-gateway/internal/config"
	"finflow-gateway/internal/core/services"
	"finflow-gateway/internal/core/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Setup configures all routes for the gateway
func Setup(app *fiber.App, cfg *config.Config, client *backend.Client, registry *session.Registry, finance *services.FinanceService) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(registry)
	authHandler := handlers.NewAuthHandler(client, registry, finance, cfg)
	financeHandler := handlers.NewFinanceHandler(finance)
	shellHandler := handlers.NewShellHandler()

	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Every navigation passes the route guard: protected pages bounce
	// anonymous visitors to the login page, auth pages bounce signed-in
	// users to the dashboard.
	app.Use(middleware.RouteGuard(registry, cfg))

	// Application shell pages
	app.Get("/", shellHandler.Page)
	app.Get("/auth/login", shellHandler.Page)
	app.Get("/auth/register", shellHandler.Page)
	app.Get("/intern/*", shellHandler.Page)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Session routes (public, rate limited)
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Post("/refresh", authHandler.Refresh)
	authRoutes.Get("/me", middleware.AuthRequired(registry, cfg), authHandler.Me)

	// Finance routes (authenticated)
	financeRoutes := apiV1.Group("/", middleware.AuthRequired(registry, cfg))
	financeRoutes.Get("/accounts", financeHandler.ListAccounts)
	financeRoutes.Post("/account", financeHandler.CreateAccount)
	financeRoutes.Patch("/account/:id", financeHandler.UpdateAccount)
	financeRoutes.Delete("/account/:id", financeHandler.DeleteAccount)

	financeRoutes.Get("/categories", financeHandler.ListCategories)
	financeRoutes.Post("/category", financeHandler.CreateCategory)
	financeRoutes.Patch("/category/:id", financeHandler.UpdateCategory)
	financeRoutes.Delete("/category/:id", financeHandler.DeleteCategory)

	financeRoutes.Get("/transactions", financeHandler.ListTransactions)
	financeRoutes.Post("/transaction", financeHandler.CreateTransaction)
	financeRoutes.Patch("/transaction/:id", financeHandler.UpdateTransaction)
	financeRoutes.Delete("/transaction/:id", financeHandler.DeleteTransaction)
}

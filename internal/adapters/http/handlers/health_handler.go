package handlers

import (
	"finflow-gateway/internal/config"
	"finflow-gateway/internal/core/session"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	registry *session.Registry
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(registry *session.Registry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// HealthCheck handles health check
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"mode":   config.AppConfig.AppMode,
		"checks": fiber.Map{
			"gateway":  "healthy",
			"sessions": h.registry.Len(),
		},
	})
}

// APIInfo handles API v1 info
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "FinFlow Gateway API v1.0",
		"version": "1.0.0",
		"docs":    "/swagger/index.html",
	})
}

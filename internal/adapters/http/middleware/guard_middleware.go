package middleware

import (
	"strings"
	"time"

	"finflow-gateway/internal/config"
	"finflow-gateway/internal/core/guard"
	"finflow-gateway/internal/core/session"
	"finflow-gateway/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RouteGuard applies the route-access decision to every navigation. The
// credential cookie is resolved through the session registry; a cookie
// that no longer verifies is expired on the spot so the browser stops
// presenting it.
func RouteGuard(reg *session.Registry, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state := guard.SessionState{}

		if credential := c.Cookies(cfg.Cookie.Name); credential != "" {
			if _, err := reg.Resolve(c.Context(), credential); err == nil {
				state.Authenticated = true
			} else {
				expireCookie(c, cfg)
			}
		}

		decision := guard.Decide(c.Path(), state)
		switch decision.Action {
		case guard.ActionRedirect:
			return c.Redirect(decision.Target, fiber.StatusSeeOther)
		case guard.ActionWait:
			// Per-request resolution is synchronous, so a restoring
			// session is never observed here; kept for completeness.
			c.Set("Retry-After", "1")
			return response.Error(c, fiber.StatusServiceUnavailable, "Session restoring")
		default:
			return c.Next()
		}
	}
}

// AuthRequired gates the finance API: it extracts the credential (cookie
// first, Authorization header second), resolves it through the registry
// and exposes the caller's identity via locals.
func AuthRequired(reg *session.Registry, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		credential := c.Cookies(cfg.Cookie.Name)
		if credential == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				credential = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if credential == "" {
			return response.Unauthorized(c, "Access token required")
		}

		user, err := reg.Resolve(c.Context(), credential)
		if err != nil {
			expireCookie(c, cfg)
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("userID", user.ID)
		c.Locals("user", user)
		c.Locals("credential", credential)

		return c.Next()
	}
}

// expireCookie overwrites the credential cookie with an expired one
func expireCookie(c *fiber.Ctx, cfg *config.Config) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.Cookie.Name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   cfg.Cookie.Secure,
		SameSite: cfg.Cookie.SameSite,
		Domain:   cfg.Cookie.Domain,
		Path:     "/",
	})
}

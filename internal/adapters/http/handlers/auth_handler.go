package handlers

import (
	"errors"
	"strings"
	"time"

	"finflow-gateway/internal/adapters/backend"
	"finflow-gateway/internal/config"
	"finflow-gateway/internal/core/domain"
	"finflow-gateway/internal/core/services"
	"finflow-gateway/internal/core/session"
	"finflow-gateway/internal/pkg/response"
	"finflow-gateway/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles the session endpoints
type AuthHandler struct {
	backend  *backend.Client
	registry *session.Registry
	finance  *services.FinanceService
	cfg      *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(b *backend.Client, registry *session.Registry, finance *services.FinanceService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		backend:  b,
		registry: registry,
		finance:  finance,
		cfg:      cfg,
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user login
// @Summary Login
// @Description Authenticate against the finance backend and set the session cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" {
		return response.BadRequest(c, "E-mail is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	return h.login(c, strings.TrimSpace(req.Email), req.Password)
}

// login exchanges credentials, resolves the user and sets the cookie
func (h *AuthHandler) login(c *fiber.Ctx, email, password string) error {
	credential, err := h.backend.Login(c.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, displayMessage(err, "Invalid e-mail or password"))
		case errors.Is(err, domain.ErrNetwork):
			return response.BadGateway(c, "Authentication service unreachable")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	user, err := h.registry.Resolve(c.Context(), credential)
	if err != nil {
		return response.Unauthorized(c, "Invalid access token")
	}

	h.setAuthCookie(c, credential)

	return response.Success(c, "Logged in", fiber.Map{
		"token": credential,
		"user":  user,
	})
}

// Register handles user registration. On backend success it immediately
// performs a login with the same credentials.
// @Summary Register
// @Description Register a new user and log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.Email == "" {
		return response.BadRequest(c, "E-mail is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	email := strings.TrimSpace(req.Email)
	if err := h.backend.Register(c.Context(), strings.TrimSpace(req.Name), email, req.Password); err != nil {
		switch {
		case errors.Is(err, domain.ErrRegistrationFailed):
			return response.BadRequest(c, displayMessage(err, "Could not register user"))
		case errors.Is(err, domain.ErrNetwork):
			return response.BadGateway(c, "Authentication service unreachable")
		default:
			return response.InternalServerError(c, "Failed to register user")
		}
	}

	return h.login(c, email, req.Password)
}

// Logout clears the session cookie and all session-scoped caches. It
// always succeeds, even without a valid session.
// @Summary Logout
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if credential := h.credential(c); credential != "" {
		if userID, err := token.Decode(credential); err == nil {
			h.finance.Forget(userID)
		}
		h.registry.Invalidate(credential)
	}
	h.clearAuthCookie(c)

	return response.Success(c, "Logged out", nil)
}

// Refresh re-verifies the held credential and re-fetches the user record.
// A credential that no longer verifies is treated as no session.
// @Summary Refresh session
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	credential := h.credential(c)
	if credential == "" {
		return response.Unauthorized(c, "Access token required")
	}

	// Drop the cached resolution so the backend is asked again
	h.registry.Invalidate(credential)

	user, err := h.registry.Resolve(c.Context(), credential)
	if err != nil {
		h.clearAuthCookie(c)
		return response.Unauthorized(c, "Session expired")
	}

	return response.Success(c, "Session refreshed", fiber.Map{"user": user})
}

// Me returns the authenticated user
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := c.Locals("user")
	return response.Success(c, "", fiber.Map{"user": user})
}

// credential extracts the bearer credential: cookie first, header second
func (h *AuthHandler) credential(c *fiber.Ctx) string {
	if credential := c.Cookies(h.cfg.Cookie.Name); credential != "" {
		return credential
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// setAuthCookie persists the credential in the browser-side token slot
func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, credential string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.Cookie.Name,
		Value:    credential,
		Expires:  time.Now().Add(h.cfg.Cookie.MaxAge),
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
		Path:     "/",
	})
}

// clearAuthCookie removes the credential cookie; clearing an absent
// cookie is a no-op.
func (h *AuthHandler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.Cookie.Name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
		Path:     "/",
	})
}

// displayMessage prefers the backend-provided message, falling back to a
// generic one when the payload carried none.
func displayMessage(err error, fallback string) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

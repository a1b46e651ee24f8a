package handler

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"go-stockbit/internal/metrics"
	"go-stockbit/internal/middleware"
	"go-stockbit/internal/service"
)

type AuthHandler struct {
	authService  service.AuthService
	metrics      *metrics.Metrics
	log          *slog.Logger
	cookieSecure bool
}

func NewAuthHandler(authService service.AuthService, m *metrics.Metrics, log *slog.Logger, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, metrics: m, log: log, cookieSecure: cookieSecure}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Register creates an account
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		return fail(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful! Please log in.",
		"data":    user.ToResponse(),
	})
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username and password are required"})
	}

	response, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		h.metrics.LoginFailures.Inc()
		return fail(c, h.log, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    response.Token,
		Path:     "/",
		Expires:  response.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(response)
}

// Logout ends every session of the current user
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.authService.Logout(user.ID); err != nil {
		return fail(c, h.log, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"message": "You have been logged out."})
}

// Me returns the current profile and the anti-forgery token to echo back on
// writes.
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(fiber.Map{
		"data":       user.ToResponse(),
		"csrf_token": middleware.CSRFToken(c),
	})
}

package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"go-stockbit/internal/model"
	"go-stockbit/internal/service"
	"go-stockbit/pkg/jwt"
)

// SessionCookie carries the signed session token.
const SessionCookie = "session"

const (
	localUser   = "user"
	localUserID = "user_id"
)

// sessionToken reads the session cookie, falling back to a Bearer header for
// API clients.
func sessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(SessionCookie); token != "" {
		return token
	}

	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireAuth resolves the session to the current user and stores it in the
// request locals for downstream handlers.
func RequireAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.Authenticate(sessionToken(c))
		switch {
		case errors.Is(err, jwt.ErrMissingToken):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Please log in to access this page"})
		case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, service.ErrSessionExpired):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": service.ErrSessionExpired.Error()})
		case err != nil:
			return err
		}

		c.Locals(localUser, user)
		c.Locals(localUserID, user.ID.String())
		return c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": service.ErrAdminOnly.Error()})
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth, or nil.
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(localUser).(*model.User)
	return user
}

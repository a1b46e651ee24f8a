package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
)

const (
	CSRFCookie = "csrf_token"
	CSRFHeader = "X-Csrf-Token"
	CSRFField  = "csrf_token"
	// CSRFContextKey holds the current token in the request locals.
	CSRFContextKey = "csrf"
)

type CSRFConfig struct {
	Expiration   time.Duration
	CookieSecure bool
	// Exempt lists paths that run before a session exists.
	Exempt []string
	// Storage keeps issued tokens; nil means in-process memory.
	Storage fiber.Storage
}

// CSRF guards every unsafe method with a double-submitted token: the value
// sent in the csrf_token form field or the X-Csrf-Token header must match the
// csrf_token cookie and must have been issued by this server.
func CSRF(cfg CSRFConfig) fiber.Handler {
	exempt := make(map[string]bool, len(cfg.Exempt))
	for _, p := range cfg.Exempt {
		exempt[p] = true
	}

	return csrf.New(csrf.Config{
		Next: func(c *fiber.Ctx) bool {
			return exempt[c.Path()]
		},
		CookieName: CSRFCookie,
		// Clients echo the cookie back, so scripts must be able to read it.
		CookieHTTPOnly: false,
		CookieSecure:   cfg.CookieSecure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		Expiration:     cfg.Expiration,
		Storage:        cfg.Storage,
		ContextKey:     CSRFContextKey,
		Extractor:      formOrHeader,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Invalid or missing CSRF token"})
		},
	})
}

func formOrHeader(c *fiber.Ctx) (string, error) {
	if token := c.FormValue(CSRFField); token != "" {
		return token, nil
	}
	return csrf.CsrfFromHeader(CSRFHeader)(c)
}

// CSRFToken returns the token issued for this request, if any.
func CSRFToken(c *fiber.Ctx) string {
	token, _ := c.Locals(CSRFContextKey).(string)
	return token
}

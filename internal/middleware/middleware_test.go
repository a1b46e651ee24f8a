package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-stockbit/internal/model"
	"go-stockbit/internal/service"
	"go-stockbit/pkg/jwt"
)

// stubAuth accepts "good-token" for user and "admin-token" for admin.
type stubAuth struct {
	service.AuthService
	user, admin *model.User
}

func (s stubAuth) Authenticate(token string) (*model.User, error) {
	switch token {
	case "":
		return nil, jwt.ErrMissingToken
	case "good-token":
		return s.user, nil
	case "admin-token":
		return s.admin, nil
	case "stale-token":
		return nil, service.ErrSessionExpired
	default:
		return nil, jwt.ErrInvalidToken
	}
}

func newStubAuth() stubAuth {
	user := &model.User{Username: "alice"}
	user.ID = uuid.New()
	admin := &model.User{Username: "admin", IsAdmin: true}
	admin.ID = uuid.New()
	return stubAuth{user: user, admin: admin}
}

func TestRequireAuth(t *testing.T) {
	auth := newStubAuth()
	app := fiber.New()
	app.Get("/me", RequireAuth(auth), func(c *fiber.Ctx) error {
		return c.SendString(CurrentUser(c).Username)
	})
	app.Get("/admin", RequireAuth(auth), RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	tests := []struct {
		name   string
		path   string
		cookie string
		header string
		status int
	}{
		{"no session", "/me", "", "", fiber.StatusUnauthorized},
		{"cookie", "/me", "good-token", "", fiber.StatusOK},
		{"bearer", "/me", "", "Bearer good-token", fiber.StatusOK},
		{"garbage", "/me", "nope", "", fiber.StatusUnauthorized},
		{"logged in elsewhere", "/me", "stale-token", "", fiber.StatusUnauthorized},
		{"admin route as user", "/admin", "good-token", "", fiber.StatusForbidden},
		{"admin route as admin", "/admin", "admin-token", "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func csrfCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == CSRFCookie {
			return c
		}
	}
	return nil
}

func TestCSRF(t *testing.T) {
	app := fiber.New()
	app.Use(CSRF(CSRFConfig{Expiration: time.Hour, Exempt: []string{"/login"}}))
	ok := func(c *fiber.Ctx) error { return c.SendString(CSRFToken(c)) }
	app.Get("/form", ok)
	app.Post("/login", ok)
	app.Post("/products", ok)
	app.Delete("/products/1", ok)

	resp, err := app.Test(httptest.NewRequest("GET", "/form", nil))
	require.NoError(t, err)
	cookie := csrfCookie(resp)
	require.NotNil(t, cookie)
	assert.False(t, cookie.HttpOnly)

	t.Run("exempt path", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		for _, method := range []string{"POST", "DELETE"} {
			path := "/products"
			if method == "DELETE" {
				path = "/products/1"
			}
			req := httptest.NewRequest(method, path, nil)
			req.AddCookie(cookie)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, method)
		}
	})

	t.Run("header token", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/products/1", nil)
		req.AddCookie(cookie)
		req.Header.Set(CSRFHeader, cookie.Value)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("form token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/products", strings.NewReader("csrf_token="+cookie.Value+"&name=Rice"))
		req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
		req.AddCookie(cookie)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("token not matching cookie", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/products", nil)
		req.AddCookie(cookie)
		req.Header.Set(CSRFHeader, "forged")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("token never issued", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/products", nil)
		req.AddCookie(&http.Cookie{Name: CSRFCookie, Value: "made-up"})
		req.Header.Set(CSRFHeader, "made-up")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}

func TestLoginLimiter(t *testing.T) {
	app := fiber.New()
	app.Post("/login", LoginLimiter(2, nil), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	codes := make([]int, 3)
	for i := range codes {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		require.NoError(t, err)
		codes[i] = resp.StatusCode
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

package middleware

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jipsalddae/backend/internal/pkg/session"
	"github.com/jipsalddae/backend/internal/pkg/usercontext"
)

func newApp() *fiber.App {
	session.NewMemoryStore()

	app := fiber.New()
	app.Use(UserContextMiddleware)
	app.Post("/login", func(c *fiber.Ctx) error {
		return session.Login(c, "u-1", "tester", false)
	})
	app.Get("/private", RequireAPISessionAuth, func(c *fiber.Ctx) error {
		return c.JSON(usercontext.GetUserContext(c))
	})
	app.Get("/api/auth/kakao/callback", func(c *fiber.Ctx) error {
		return c.JSON(usercontext.GetUserContext(c))
	})
	return app
}

func TestRequireAPISessionAuthRejectsAnonymous(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "unauthorized", payload["error"])
}

func TestUserContextFromSession(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	var ck *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			ck = c
		}
	}
	require.NotNil(t, ck)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(ck)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var uc usercontext.UserContext
	require.NoError(t, json.Unmarshal(body, &uc))
	assert.Equal(t, "u-1", uc.UserID)
	assert.Equal(t, "tester", uc.Nickname)
	assert.False(t, uc.HasInfo)

	// The OAuth routes never see the app session.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/kakao/callback", nil)
	req.AddCookie(ck)
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &uc))
	assert.False(t, uc.IsLoggedIn)
}

func TestAdminBasicAuth(t *testing.T) {
	t.Setenv("ADMIN_USER", "ops")
	t.Setenv("ADMIN_PASSWORD", "s3cret")

	app := fiber.New()
	app.Get("/admin", AdminBasicAuth(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	call := func(user, pass string) int {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if user != "" {
			req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(user+":"+pass)))
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusUnauthorized, call("", ""))
	assert.Equal(t, fiber.StatusUnauthorized, call("ops", "wrong"))
	assert.Equal(t, fiber.StatusOK, call("ops", "s3cret"))
}

func TestAdminBasicAuthWithoutPassword(t *testing.T) {
	t.Setenv("ADMIN_USER", "admin")
	t.Setenv("ADMIN_PASSWORD", "")

	app := fiber.New()
	app.Get("/admin", AdminBasicAuth(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("admin:")))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"

	"github.com/jipsalddae/backend/internal/pkg/env"
)

// AdminBasicAuth guards the operator endpoints (/metrics, /api/admin) with the
// ADMIN_USER / ADMIN_PASSWORD pair. Without a password every request is refused.
func AdminBasicAuth() fiber.Handler {
	user := env.GetEnv("ADMIN_USER", "admin")
	password := env.GetEnv("ADMIN_PASSWORD", "")

	return basicauth.New(basicauth.Config{
		Realm: "jipsalddae admin",
		Authorizer: func(u, p string) bool {
			return password != "" && u == user && p == password
		},
		Unauthorized: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderWWWAuthenticate, `basic realm="jipsalddae admin"`)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "admin credentials required",
			})
		},
	})
}

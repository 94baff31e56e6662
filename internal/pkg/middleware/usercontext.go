package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/jipsalddae/backend/internal/pkg/session"
	"github.com/jipsalddae/backend/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request
// from the values Login stored in the session.
func UserContextMiddleware(c *fiber.Ctx) error {
	// Goth keeps its own session store on the OAuth routes; touching ours
	// there would mix the two cookies.
	if strings.HasPrefix(c.Path(), "/api/auth/") {
		usercontext.SetUserContext(c, usercontext.UserContext{})
		return c.Next()
	}

	uc, err := session.Load(c)
	if err != nil {
		log.Warnf("[Session] %v", err)
		uc = usercontext.UserContext{}
	}
	usercontext.SetUserContext(c, uc)

	return c.Next()
}

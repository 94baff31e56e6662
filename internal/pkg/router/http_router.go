package router

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/jipsalddae/backend/internal/pkg/env"
	"github.com/jipsalddae/backend/internal/pkg/middleware"
	"github.com/jipsalddae/backend/internal/pkg/oauth"
	"github.com/jipsalddae/backend/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session, unless a store was installed already (tests use memory)
	if session.GetSessionStore() == nil {
		session.NewSessionStore()
	}

	// init oauth providers
	oauth.Setup()

	// The browser frontend calls with cookies from another origin.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(),
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Apply UserContext middleware globally
	app.Use(middleware.UserContextMiddleware)
}

func corsOrigins() string {
	raw := env.GetEnv("CORS_ORIGINS", "http://localhost:3000")
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" && p != "*" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "http://localhost:3000"
	}
	return strings.Join(out, ",")
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

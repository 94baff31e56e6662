package router

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/jipsalddae/backend/app/controllers"
	"github.com/jipsalddae/backend/internal/pkg/env"
	"github.com/jipsalddae/backend/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        rateLimit(),
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "too_many_requests",
				"message": "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.",
			})
		},
	}))
	api.Get("/", controllers.HandleIndex)

	// Accounts
	api.Post("/signup", controllers.HandleSignup)
	api.Post("/login", controllers.HandleLogin)
	api.Post("/logout", controllers.HandleLogout)

	// OAuth (kakao, naver, google)
	api.Get("/auth/:provider", gothfiber.BeginAuthHandler)
	api.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)

	// Catalog and regions are public
	api.Get("/policies", controllers.HandlePolicyList)
	api.Get("/policies/recommended", middleware.RequireAPISessionAuth, controllers.HandleRecommended)
	api.Get("/policies/recommended/detail", middleware.RequireAPISessionAuth, controllers.HandleRecommendedDetail)
	api.Get("/policies/:id", controllers.HandlePolicyDetail)

	api.Get("/regions/sido", controllers.HandleSidoList)
	api.Get("/regions/sigungu/:sido", controllers.HandleSigunguList)
	api.Get("/regions/apart", controllers.HandleApartList)

	// Session protected
	user := api.Group("/user", middleware.RequireAPISessionAuth)
	user.Get("/me", controllers.HandleMe)
	user.Get("/info/me", controllers.HandleGetUserInfo)
	user.Put("/info/me", controllers.HandlePutUserInfo)

	favorites := api.Group("/favorites", middleware.RequireAPISessionAuth)
	favorites.Get("/me", controllers.HandleMyFavorites)
	favorites.Post("/:policy_id", controllers.HandleToggleFavorite)

	h.registerAdminRoutes(api)
}

func rateLimit() int {
	if n, err := strconv.Atoi(env.GetEnv("API_RATE_LIMIT", "120")); err == nil && n > 0 {
		return n
	}
	return 120
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

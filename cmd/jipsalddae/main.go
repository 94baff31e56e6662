package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jipsalddae/backend/app/controllers"
	"github.com/jipsalddae/backend/app/repository"
	"github.com/jipsalddae/backend/internal/pkg/cache"
	"github.com/jipsalddae/backend/internal/pkg/database"
	"github.com/jipsalddae/backend/internal/pkg/env"
	"github.com/jipsalddae/backend/internal/pkg/marketprice"
	"github.com/jipsalddae/backend/internal/pkg/metrics/counter"
	"github.com/jipsalddae/backend/internal/pkg/middleware"
	"github.com/jipsalddae/backend/internal/pkg/recommendation"
	"github.com/jipsalddae/backend/internal/pkg/refdata"
	"github.com/jipsalddae/backend/internal/pkg/router"
	"github.com/jipsalddae/backend/internal/pkg/seed"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	cache.SetupCache()
	database.SetupDatabase()

	repository.InitializeFactory(database.GetDB())
	repos := repository.GetGlobalRepositories()
	refdata.Initialize(repos)

	if env.GetEnv("SEED_ON_BOOT", "false") == "true" {
		runSeed()
	}

	tradeCfg, err := marketprice.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load trade API configuration: %v", err)
	}
	if tradeCfg.ServiceKey == "" {
		log.Println("Warning: PUBLIC_DATA_DECODING_KEY is not set, apartment lookups will fail")
	}
	trades := marketprice.NewCachedProvider(marketprice.NewClient(tradeCfg), cache.GetClient(), tradeCfg.CacheTTL)

	catalog := refdata.Get()
	controllers.InitializeControllers(controllers.Dependencies{
		Repos:       repos,
		Catalog:     catalog,
		Cache:       catalog,
		Recommender: recommendation.NewService(repos.Profile, repos.Region, catalog, trades, tradeCfg.Months),
		Usage:       counter.New(cache.GetClient()),
	})

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/jipsalddae to project root
		"../../../", // Fallback
	}
	basePath := "./"
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public/docs/v1/openapi.yml"); err == nil {
			basePath = path
			break
		}
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName:      "jipsalddae",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		BodyLimit:    1 << 20,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		ErrorHandler: errorHandler,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", middleware.AdminBasicAuth(), monitor.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app
}

func runSeed() {
	cfg := seed.DefaultConfig()
	cfg.Dir = env.GetEnv("SEED_DIR", cfg.Dir)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := seed.Run(ctx, database.GetDB(), cfg); err != nil {
		log.Printf("Warning: seeding failed: %v", err)
		return
	}
	refdata.Get().Invalidate()
}

// errorHandler keeps framework errors (404 route, body too large) in the API's JSON shape.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code == fiber.StatusInternalServerError {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   "http_error",
		"message": err.Error(),
	})
}

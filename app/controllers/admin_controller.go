package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/jipsalddae/backend/internal/pkg/marketprice"
)

// AdminController exposes operator endpoints for the reference data and trade caches
type AdminController struct {
	deps Dependencies
}

func NewAdminController(deps Dependencies) *AdminController {
	return &AdminController{deps: deps}
}

// HandleReloadReference drops the cached policy catalog and loads it again.
func (ac *AdminController) HandleReloadReference(c *fiber.Ctx) error {
	ac.deps.Cache.Invalidate()

	// Warm up so a broken table is reported here instead of on the next user request.
	if _, err := ac.deps.Catalog.Outputs(c.UserContext()); err != nil {
		return handleError(c, err)
	}

	log.Info("[Admin] Reference data reloaded")
	return c.JSON(fiber.Map{
		"message": "reference data reloaded",
		"stats":   ac.deps.Cache.Stats(),
	})
}

func (ac *AdminController) HandleReferenceStats(c *fiber.Ctx) error {
	return c.JSON(ac.deps.Cache.Stats())
}

// HandlePolicyStats ranks policies by detail views and favorites. ?limit=N, default 10.
func (ac *AdminController) HandlePolicyStats(c *fiber.Ctx) error {
	if ac.deps.Usage == nil {
		return respondError(c, fiber.StatusServiceUnavailable, "counter_disabled", "usage counters are not configured")
	}
	limit := 10
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			return respondError(c, fiber.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
		}
		limit = n
	}

	ctx := c.UserContext()
	views, err := ac.deps.Usage.TopViews(ctx, limit)
	if err != nil {
		return handleError(c, err)
	}
	favorites, err := ac.deps.Usage.TopFavorites(ctx, limit)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{
		"views":     views,
		"favorites": favorites,
	})
}

// tradeCachePattern limits the scan to one region when ?region=<5 digit code> is given.
func tradeCachePattern(c *fiber.Ctx) string {
	if region := strings.TrimSpace(c.Query("region")); region != "" {
		return marketprice.CacheKeyPrefix + region + ":*"
	}
	return marketprice.CacheKeyPrefix + "*"
}

type tradeCacheEntry struct {
	Key        string `json:"key"`
	TTLSeconds int64  `json:"ttl_seconds"`
}

// HandleTradeCache lists cached trade responses with their remaining TTL.
func (ac *AdminController) HandleTradeCache(c *fiber.Ctx) error {
	ctx := c.UserContext()
	keys, err := ac.deps.Repos.Cache.FindKeysByPatterns(ctx, []string{tradeCachePattern(c)})
	if err != nil {
		return handleError(c, err)
	}

	entries := make([]tradeCacheEntry, 0, len(keys))
	for _, key := range keys {
		ttl, err := ac.deps.Repos.Cache.GetTTL(ctx, key)
		if err != nil {
			return handleError(c, err)
		}
		entries = append(entries, tradeCacheEntry{Key: key, TTLSeconds: int64(ttl.Seconds())})
	}

	return c.JSON(fiber.Map{
		"count":   len(entries),
		"entries": entries,
	})
}

func (ac *AdminController) HandleClearTradeCache(c *fiber.Ctx) error {
	ctx := c.UserContext()
	keys, err := ac.deps.Repos.Cache.FindKeysByPatterns(ctx, []string{tradeCachePattern(c)})
	if err != nil {
		return handleError(c, err)
	}
	deleted, err := ac.deps.Repos.Cache.DeleteKeys(ctx, keys)
	if err != nil {
		return handleError(c, err)
	}

	log.Infof("[Admin] Cleared %d trade cache entries", deleted)
	return c.JSON(fiber.Map{"deleted": deleted})
}

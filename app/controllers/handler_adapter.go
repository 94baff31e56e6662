package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/jipsalddae/backend/app/models"
	"github.com/jipsalddae/backend/app/repository"
	"github.com/jipsalddae/backend/internal/pkg/metrics/counter"
	"github.com/jipsalddae/backend/internal/pkg/recommendation"
	"github.com/jipsalddae/backend/internal/pkg/refdata"
)

// PolicyCatalog is the cached read side of the policy tables.
type PolicyCatalog interface {
	recommendation.ReferenceData
	Outputs(ctx context.Context) ([]models.PolicyOutput, error)
}

// ReferenceCache is the operator view of the policy catalog cache.
type ReferenceCache interface {
	Invalidate()
	Stats() refdata.Stats
}

// Recommender answers the recommendation endpoints.
type Recommender interface {
	Recommend(ctx context.Context, userID string) (*recommendation.Result, error)
	RecommendForApartment(ctx context.Context, userID, sido, sigungu, apartName string) (*recommendation.DetailResult, error)
	ApartmentNames(ctx context.Context, sido, sigungu string) ([]string, error)
}

// UsageCounter records policy views and favorite changes. Optional.
type UsageCounter interface {
	AddPolicyView(ctx context.Context, policyID int) error
	AddFavorite(ctx context.Context, policyID int, delta int64) error
	TopViews(ctx context.Context, limit int) ([]counter.PolicyCount, error)
	TopFavorites(ctx context.Context, limit int) ([]counter.PolicyCount, error)
}

// Dependencies groups what the controllers need from the rest of the application.
type Dependencies struct {
	Repos       *repository.Repositories
	Catalog     PolicyCatalog
	Cache       ReferenceCache
	Recommender Recommender
	Usage       UsageCounter
	Now         func() time.Time
}

func (d Dependencies) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// Counter failures never fail the request.
func (d Dependencies) recordView(ctx context.Context, policyID int) {
	if d.Usage == nil {
		return
	}
	if err := d.Usage.AddPolicyView(ctx, policyID); err != nil {
		log.Warnf("[Counter] policy %d view not recorded: %v", policyID, err)
	}
}

func (d Dependencies) recordFavorite(ctx context.Context, policyID int, added bool) {
	if d.Usage == nil {
		return
	}
	delta := int64(-1)
	if added {
		delta = 1
	}
	if err := d.Usage.AddFavorite(ctx, policyID, delta); err != nil {
		log.Warnf("[Counter] policy %d favorite not recorded: %v", policyID, err)
	}
}

// Global controller instances
var (
	authController     *AuthController
	userInfoController *UserInfoController
	policyController   *PolicyController
	regionController   *RegionController
	favoriteController *FavoriteController
	oauthController    *OAuthController
	adminController    *AdminController
)

// InitializeControllers builds every controller from the same dependencies.
func InitializeControllers(deps Dependencies) {
	authController = NewAuthController(deps)
	userInfoController = NewUserInfoController(deps)
	policyController = NewPolicyController(deps)
	regionController = NewRegionController(deps)
	favoriteController = NewFavoriteController(deps)
	oauthController = NewOAuthController(deps)
	adminController = NewAdminController(deps)
}

func mustInit[T any](c *T) *T {
	if c == nil {
		panic("controllers not initialized. Call InitializeControllers first.")
	}
	return c
}

// Adapter functions used by the router

func HandleSignup(c *fiber.Ctx) error {
	return mustInit(authController).HandleSignup(c)
}

func HandleLogin(c *fiber.Ctx) error {
	return mustInit(authController).HandleLogin(c)
}

func HandleLogout(c *fiber.Ctx) error {
	return mustInit(authController).HandleLogout(c)
}

func HandleMe(c *fiber.Ctx) error {
	return mustInit(authController).HandleMe(c)
}

func HandleGetUserInfo(c *fiber.Ctx) error {
	return mustInit(userInfoController).HandleGet(c)
}

func HandlePutUserInfo(c *fiber.Ctx) error {
	return mustInit(userInfoController).HandlePut(c)
}

func HandlePolicyList(c *fiber.Ctx) error {
	return mustInit(policyController).HandleList(c)
}

func HandlePolicyDetail(c *fiber.Ctx) error {
	return mustInit(policyController).HandleDetail(c)
}

func HandleRecommended(c *fiber.Ctx) error {
	return mustInit(policyController).HandleRecommended(c)
}

func HandleRecommendedDetail(c *fiber.Ctx) error {
	return mustInit(policyController).HandleRecommendedDetail(c)
}

func HandleSidoList(c *fiber.Ctx) error {
	return mustInit(regionController).HandleSido(c)
}

func HandleSigunguList(c *fiber.Ctx) error {
	return mustInit(regionController).HandleSigungu(c)
}

func HandleApartList(c *fiber.Ctx) error {
	return mustInit(regionController).HandleApart(c)
}

func HandleToggleFavorite(c *fiber.Ctx) error {
	return mustInit(favoriteController).HandleToggle(c)
}

func HandleMyFavorites(c *fiber.Ctx) error {
	return mustInit(favoriteController).HandleList(c)
}

func HandleOAuthCallback(c *fiber.Ctx) error {
	return mustInit(oauthController).HandleCallback(c)
}

func HandleAdminReloadReference(c *fiber.Ctx) error {
	return mustInit(adminController).HandleReloadReference(c)
}

func HandleAdminReferenceStats(c *fiber.Ctx) error {
	return mustInit(adminController).HandleReferenceStats(c)
}

func HandleAdminPolicyStats(c *fiber.Ctx) error {
	return mustInit(adminController).HandlePolicyStats(c)
}

func HandleAdminTradeCache(c *fiber.Ctx) error {
	return mustInit(adminController).HandleTradeCache(c)
}

func HandleAdminClearTradeCache(c *fiber.Ctx) error {
	return mustInit(adminController).HandleClearTradeCache(c)
}

package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jipsalddae/backend/internal/pkg/usercontext"
)

type FavoriteController struct {
	deps Dependencies
}

func NewFavoriteController(deps Dependencies) *FavoriteController {
	return &FavoriteController{deps: deps}
}

// HandleToggle adds the policy to the caller's favorites or removes it when present.
func (fc *FavoriteController) HandleToggle(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == "" {
		return respondError(c, fiber.StatusUnauthorized, "unauthorized", MSG_LOGIN_REQUIRED)
	}
	policyID, ok := paramInt(c, "policy_id")
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "invalid_request", "정책 ID가 올바르지 않습니다.")
	}

	ctx := c.UserContext()
	out, err := fc.deps.Catalog.Output(ctx, policyID)
	if err != nil {
		return handleError(c, err)
	}
	if out == nil {
		return respondError(c, fiber.StatusNotFound, "not_found", MSG_POLICY_NOTFOUND)
	}

	added, err := fc.deps.Repos.Favorite.Toggle(ctx, userID, policyID)
	if err != nil {
		return handleError(c, err)
	}
	fc.deps.recordFavorite(ctx, policyID, added)
	if added {
		return c.JSON(fiber.Map{"status": "added", "isFavorite": true, "message": "즐겨찾기 등록"})
	}
	return c.JSON(fiber.Map{"status": "removed", "isFavorite": false, "message": "즐겨찾기 해제"})
}

func (fc *FavoriteController) HandleList(c *fiber.Ctx) error {
	ids, err := fc.deps.Repos.Favorite.ListPolicyIDs(c.UserContext(), usercontext.GetUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	if ids == nil {
		ids = []int{}
	}
	return c.JSON(ids)
}

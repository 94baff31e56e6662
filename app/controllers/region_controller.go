package controllers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type RegionController struct {
	deps Dependencies
}

func NewRegionController(deps Dependencies) *RegionController {
	return &RegionController{deps: deps}
}

func (rc *RegionController) HandleSido(c *fiber.Ctx) error {
	names, err := rc.deps.Repos.Region.GetSidoNames(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(names)
}

func (rc *RegionController) HandleSigungu(c *fiber.Ctx) error {
	sido := utils.CopyString(c.Params("sido"))
	if decoded, err := url.PathUnescape(sido); err == nil {
		sido = decoded
	}
	sido = strings.TrimSpace(sido)
	names, err := rc.deps.Repos.Region.GetSigunguNames(c.UserContext(), sido)
	if err != nil {
		return handleError(c, err)
	}
	if len(names) == 0 {
		return respondError(c, fiber.StatusNotFound, "not_found", MSG_REGION_NOTFOUND)
	}
	return c.JSON(names)
}

// HandleApart lists apartment names traded in the region over the recent months.
func (rc *RegionController) HandleApart(c *fiber.Ctx) error {
	sido := utils.CopyString(strings.TrimSpace(c.Query("sido_name")))
	sigungu := utils.CopyString(strings.TrimSpace(c.Query("sigungu_name")))
	if sido == "" || sigungu == "" {
		return respondError(c, fiber.StatusBadRequest, "invalid_request", "sido_name, sigungu_name 값이 필요합니다.")
	}

	names, err := rc.deps.Recommender.ApartmentNames(c.UserContext(), sido, sigungu)
	if err != nil {
		return handleError(c, err)
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(names)
}

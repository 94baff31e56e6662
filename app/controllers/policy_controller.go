package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jipsalddae/backend/app/models"
	"github.com/jipsalddae/backend/internal/pkg/eligibility"
	"github.com/jipsalddae/backend/internal/pkg/usercontext"
)

// PolicyDetail is a policy record with its income caps. Limits are converted to
// annual amounts when a household size is known.
type PolicyDetail struct {
	models.PolicyOutput
	HouseholdSize int                         `json:"household_size,omitempty"`
	IncomeRules   []eligibility.IncomeVariant `json:"income_rules"`
	IncomeLimits  []eligibility.ResolvedLimit `json:"income_limits,omitempty"`
}

type PolicyController struct {
	deps Dependencies
}

func NewPolicyController(deps Dependencies) *PolicyController {
	return &PolicyController{deps: deps}
}

func (pc *PolicyController) HandleList(c *fiber.Ctx) error {
	outputs, err := pc.deps.Catalog.Outputs(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	if outputs == nil {
		outputs = []models.PolicyOutput{}
	}
	return c.JSON(outputs)
}

// HandleDetail returns one policy. ?household_size=N, or the caller's profile,
// selects the income standard used for income_limits.
func (pc *PolicyController) HandleDetail(c *fiber.Ctx) error {
	id, ok := paramInt(c, "id")
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "invalid_request", "정책 ID가 올바르지 않습니다.")
	}
	ctx := c.UserContext()

	out, err := pc.deps.Catalog.Output(ctx, id)
	if err != nil {
		return handleError(c, err)
	}
	if out == nil {
		return respondError(c, fiber.StatusNotFound, "not_found", MSG_POLICY_NOTFOUND)
	}
	pc.deps.recordView(ctx, id)

	variants, err := pc.deps.Repos.Policy.GetIncomeRuleVariants(ctx, id)
	if err != nil {
		return handleError(c, err)
	}
	detail := PolicyDetail{PolicyOutput: *out, IncomeRules: variants.All()}
	if detail.IncomeRules == nil {
		detail.IncomeRules = []eligibility.IncomeVariant{}
	}

	size, err := pc.householdSize(c)
	if err != nil {
		return handleError(c, err)
	}
	if size > 0 && variants.Kind() != eligibility.VariantNone {
		standard, found, err := pc.deps.Catalog.GetStandard(ctx, size)
		if err != nil {
			return handleError(c, err)
		}
		if found {
			detail.HouseholdSize = size
			detail.IncomeLimits = variants.Resolve(standard)
		}
	}

	return c.JSON(detail)
}

func (pc *PolicyController) householdSize(c *fiber.Ctx) (int, error) {
	if q := strings.TrimSpace(c.Query("household_size")); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			return n, nil
		}
		return 0, nil
	}
	user := usercontext.GetUserContext(c)
	if !user.IsLoggedIn {
		return 0, nil
	}
	info, err := pc.deps.Repos.Profile.Get(c.UserContext(), user.UserID)
	if err != nil || info == nil {
		return 0, err
	}
	return info.HouseholdSize, nil
}

func (pc *PolicyController) HandleRecommended(c *fiber.Ctx) error {
	result, err := pc.deps.Recommender.Recommend(c.UserContext(), usercontext.GetUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(result)
}

// HandleRecommendedDetail narrows the recommendation to one apartment.
func (pc *PolicyController) HandleRecommendedDetail(c *fiber.Ctx) error {
	sido := utils.CopyString(strings.TrimSpace(c.Query("sido_name")))
	sigungu := utils.CopyString(strings.TrimSpace(c.Query("sigungu_name")))
	apart := utils.CopyString(c.Query("apart_name"))
	if sido == "" || sigungu == "" || strings.TrimSpace(apart) == "" {
		return respondError(c, fiber.StatusBadRequest, "invalid_request", "sido_name, sigungu_name, apart_name 값이 필요합니다.")
	}

	result, err := pc.deps.Recommender.RecommendForApartment(c.UserContext(), usercontext.GetUserID(c), sido, sigungu, apart)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(result)
}

package controllers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/jipsalddae/backend/app/repository"
	"github.com/jipsalddae/backend/internal/pkg/eligibility"
	"github.com/jipsalddae/backend/internal/pkg/marketprice"
)

const (
	MSG_LOGIN_REQUIRED     = "로그인이 필요한 서비스입니다."
	MSG_PROFILE_MISSING    = "사용자 정보를 먼저 입력해주세요."
	MSG_APARTMENT_NOTFOUND = "해당 아파트를 찾을 수 없습니다."
	MSG_REGION_NOTFOUND    = "해당 지역(시/도)을 찾을 수 없습니다."
	MSG_POLICY_NOTFOUND    = "해당 정책을 찾을 수 없습니다."
	MSG_INTERNAL           = "요청을 처리하는 중 오류가 발생했습니다."
)

var validate = validator.New()

// respondError writes the {"error","message"} body used by every API error.
func respondError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}

// handleError maps domain errors onto HTTP responses. Anything unknown is a 500.
func handleError(c *fiber.Ctx, err error) error {
	var missingStandard *eligibility.MissingStandardError

	switch {
	case errors.Is(err, eligibility.ErrUnauthenticated):
		return respondError(c, fiber.StatusUnauthorized, "unauthorized", MSG_LOGIN_REQUIRED)
	case errors.Is(err, eligibility.ErrProfileMissing):
		return respondError(c, fiber.StatusBadRequest, "profile_missing", MSG_PROFILE_MISSING)
	case errors.As(err, &missingStandard):
		log.Errorf("[API] %s %s: %v", c.Method(), c.Path(), err)
		return respondError(c, fiber.StatusInternalServerError, "configuration_error",
			"가구원 수 "+strconv.Itoa(missingStandard.HouseholdSize)+"에 대한 기준 중위소득이 없습니다.")
	case errors.Is(err, eligibility.ErrMissingReferenceData):
		log.Errorf("[API] %s %s: %v", c.Method(), c.Path(), err)
		return respondError(c, fiber.StatusInternalServerError, "configuration_error", MSG_INTERNAL)
	case errors.Is(err, marketprice.ErrApartmentNotFound):
		return respondError(c, fiber.StatusNotFound, "not_found", MSG_APARTMENT_NOTFOUND)
	case errors.Is(err, repository.ErrRegionNotFound):
		return respondError(c, fiber.StatusNotFound, "not_found", MSG_REGION_NOTFOUND)
	default:
		log.Errorf("[API] %s %s: %v", c.Method(), c.Path(), err)
		return respondError(c, fiber.StatusInternalServerError, "internal_server_error", MSG_INTERNAL)
	}
}

// badRequest reports a malformed body or query. Validation details go into the message.
func badRequest(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return respondError(c, fiber.StatusBadRequest, "invalid_request",
			verrs[0].Field()+" 값이 올바르지 않습니다.")
	}
	return respondError(c, fiber.StatusBadRequest, "invalid_request", "요청 형식이 올바르지 않습니다.")
}

// paramInt reads a positive integer route parameter.
func paramInt(c *fiber.Ctx, name string) (int, bool) {
	v, err := strconv.Atoi(c.Params(name))
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

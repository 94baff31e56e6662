package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/jipsalddae/backend/app/models"
	"github.com/jipsalddae/backend/internal/pkg/session"
	"github.com/jipsalddae/backend/internal/pkg/usercontext"
)

const birthDateLayout = "2006-01-02"

// UserInfoRequest is the profile form. etc carries the household category labels.
type UserInfoRequest struct {
	BirthDate     string   `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Income        int64    `json:"income" validate:"gte=0"`
	Asset         int64    `json:"asset" validate:"gte=0"`
	IsHouseOwner  bool     `json:"is_house_owner"`
	IsMarried     bool     `json:"is_married"`
	IsNewlywed    bool     `json:"is_newlywed"`
	HasNewborn    bool     `json:"has_newborn"`
	ChildCount    int      `json:"child_count" validate:"gte=0"`
	HouseholdSize int      `json:"household_size" validate:"gte=1,lte=20"`
	DualIncome    bool     `json:"dual_income"`
	Etc           []string `json:"etc"`
}

// UserInfoResponse is the profile as the frontend form renders it.
type UserInfoResponse struct {
	Name           string   `json:"name"`
	BirthYear      string   `json:"birthYear"`
	BirthMonth     string   `json:"birthMonth"`
	BirthDay       string   `json:"birthDay"`
	Income         string   `json:"income"`
	Assets         string   `json:"assets"`
	HasHouse       bool     `json:"hasHouse"`
	IsMarried      bool     `json:"isMarried"`
	IsNewlywed     bool     `json:"isNewlywed"`
	HasNewborn     bool     `json:"hasNewborn"`
	ChildCount     string   `json:"childCount"`
	HouseholdCount string   `json:"householdCount"`
	IsDualIncome   bool     `json:"isDualIncome"`
	Etc            []string `json:"etc"`
}

func formatUserInfo(nickname string, ui *models.UserInfo) UserInfoResponse {
	return UserInfoResponse{
		Name:           nickname,
		BirthYear:      strconv.Itoa(ui.BirthDate.Year()),
		BirthMonth:     strconv.Itoa(int(ui.BirthDate.Month())),
		BirthDay:       strconv.Itoa(ui.BirthDate.Day()),
		Income:         strconv.FormatInt(ui.Income, 10),
		Assets:         strconv.FormatInt(ui.Asset, 10),
		HasHouse:       ui.IsHouseOwner,
		IsMarried:      ui.IsMarried,
		IsNewlywed:     ui.IsNewlywed,
		HasNewborn:     ui.HasNewborn,
		ChildCount:     strconv.Itoa(ui.ChildCount),
		HouseholdCount: strconv.Itoa(ui.HouseholdSize),
		IsDualIncome:   ui.DualIncome,
		Etc:            ui.EtcLabels(),
	}
}

type UserInfoController struct {
	deps Dependencies
}

func NewUserInfoController(deps Dependencies) *UserInfoController {
	return &UserInfoController{deps: deps}
}

func (uc *UserInfoController) HandleGet(c *fiber.Ctx) error {
	user := usercontext.GetUserContext(c)
	if !user.IsLoggedIn {
		return respondError(c, fiber.StatusUnauthorized, "unauthorized", MSG_LOGIN_REQUIRED)
	}

	info, err := uc.deps.Repos.Profile.Get(c.UserContext(), user.UserID)
	if err != nil {
		return handleError(c, err)
	}
	if info == nil {
		return respondError(c, fiber.StatusBadRequest, "profile_missing", MSG_PROFILE_MISSING)
	}

	return c.JSON(formatUserInfo(user.Nickname, info))
}

// HandlePut creates or replaces the profile and flips has_info in the session.
func (uc *UserInfoController) HandlePut(c *fiber.Ctx) error {
	user := usercontext.GetUserContext(c)
	if !user.IsLoggedIn {
		return respondError(c, fiber.StatusUnauthorized, "unauthorized", MSG_LOGIN_REQUIRED)
	}

	var req UserInfoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err)
	}
	birth, err := time.Parse(birthDateLayout, req.BirthDate)
	if err != nil {
		return badRequest(c, err)
	}
	if birth.After(uc.deps.now()) {
		return respondError(c, fiber.StatusBadRequest, "invalid_request", "생년월일이 올바르지 않습니다.")
	}

	info := &models.UserInfo{
		UserID:        user.UserID,
		BirthDate:     birth,
		Income:        req.Income,
		Asset:         req.Asset,
		IsHouseOwner:  req.IsHouseOwner,
		IsMarried:     req.IsMarried,
		IsNewlywed:    req.IsNewlywed,
		HasNewborn:    req.HasNewborn,
		ChildCount:    req.ChildCount,
		HouseholdSize: req.HouseholdSize,
		DualIncome:    req.DualIncome,
	}
	info.ApplyEtc(req.Etc)
	if err := info.Validate(); err != nil {
		return badRequest(c, err)
	}

	if err := uc.deps.Repos.Profile.Upsert(c.UserContext(), info); err != nil {
		log.Errorf("[UserInfo] save for %s failed: %v", user.UserID, err)
		return respondError(c, fiber.StatusInternalServerError, "internal_server_error", "정보 저장 중 오류가 발생했습니다.")
	}
	if err := session.SetSessionValue(c, usercontext.KeyHasInfo, true); err != nil {
		log.Warnf("[UserInfo] could not update session: %v", err)
	}

	return c.JSON(fiber.Map{
		"message":  "정보가 성공적으로 저장되었습니다.",
		"has_info": true,
	})
}

package controllers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/jipsalddae/backend/app/models"
	"github.com/jipsalddae/backend/internal/pkg/session"
	"github.com/jipsalddae/backend/internal/pkg/usercontext"
)

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=255"`
	Password string `json:"password" validate:"required,min=4,max=72"`
	Nickname string `json:"nickname" validate:"required,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthController handles local accounts and the session lifecycle
type AuthController struct {
	deps Dependencies
}

func NewAuthController(deps Dependencies) *AuthController {
	return &AuthController{deps: deps}
}

// HandleSignup creates a local account. Usernames are unique.
func (ac *AuthController) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Nickname = strings.TrimSpace(req.Nickname)
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err)
	}

	repo := ac.deps.Repos.User
	existing, err := repo.GetByUsername(req.Username)
	if err != nil {
		return handleError(c, err)
	}
	if existing != nil {
		return respondError(c, fiber.StatusBadRequest, "duplicate_username", "이미 사용 중인 아이디입니다.")
	}

	user, err := models.CreateUser(req.Username, req.Nickname, req.Password)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.Is(err, models.ErrPasswordTooShort) || errors.As(err, &verrs) {
			return badRequest(c, err)
		}
		return handleError(c, err)
	}
	if err := repo.Create(user); err != nil {
		log.Errorf("[Auth] signup %q failed: %v", req.Username, err)
		return respondError(c, fiber.StatusInternalServerError, "internal_server_error", "회원가입 처리 중 오류가 발생했습니다.")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "환영합니다, " + user.Nickname + "님! 회원가입이 완료되었습니다.",
	})
}

// HandleLogin checks the password and stores the identity in the session.
func (ac *AuthController) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err)
	}

	user, err := ac.deps.Repos.User.GetByUsername(req.Username)
	if err != nil {
		return handleError(c, err)
	}
	// notice: the same message for unknown user and wrong password
	if user == nil || !user.CheckPassword(req.Password) {
		return respondError(c, fiber.StatusUnauthorized, "invalid_credentials", "아이디 또는 비밀번호가 틀렸습니다.")
	}

	hasInfo, err := ac.deps.Repos.Profile.Exists(c.UserContext(), user.ID)
	if err != nil {
		return handleError(c, err)
	}
	if err := session.Login(c, user.ID, user.Nickname, hasInfo); err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "로그인 성공!",
		"has_info": hasInfo,
	})
}

func (ac *AuthController) HandleLogout(c *fiber.Ctx) error {
	if err := session.Logout(c); err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "로그아웃 되었습니다."})
}

// HandleMe echoes the session identity together with the stored profile (null if none).
func (ac *AuthController) HandleMe(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if !uc.IsLoggedIn {
		return respondError(c, fiber.StatusUnauthorized, "unauthorized", MSG_LOGIN_REQUIRED)
	}

	info, err := ac.deps.Repos.Profile.Get(c.UserContext(), uc.UserID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"user_id":  uc.UserID,
		"nickname": uc.Nickname,
		"has_info": uc.HasInfo,
		"result":   info,
		"message":  "세션 정보 확인 완료! 당신은 로그인 상태입니다.",
	})
}

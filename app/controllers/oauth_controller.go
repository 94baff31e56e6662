package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/markbates/goth"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/jipsalddae/backend/app/models"
	"github.com/jipsalddae/backend/internal/pkg/oauth"
	"github.com/jipsalddae/backend/internal/pkg/session"
)

type OAuthController struct {
	deps Dependencies
}

func NewOAuthController(deps Dependencies) *OAuthController {
	return &OAuthController{deps: deps}
}

// HandleCallback completes the provider flow, logs the user in and sends the
// browser back to the frontend.
func (oc *OAuthController) HandleCallback(c *fiber.Ctx) error {
	provider := c.Params("provider")

	u, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		log.Warnf("[OAuth] %s callback failed: %v", provider, err)
		return c.Redirect(fmt.Sprintf("%s/login?error=%s_failed", oauth.FrontendURL(), provider), fiber.StatusSeeOther)
	}

	user, err := oc.linkSocialUser(u)
	if err != nil {
		log.Errorf("[OAuth] %s login failed: %v", u.Provider, err)
		return c.Redirect(oauth.FrontendURL()+"/login?error=server_error", fiber.StatusSeeOther)
	}

	hasInfo, err := oc.deps.Repos.Profile.Exists(c.UserContext(), user.ID)
	if err != nil {
		log.Errorf("[OAuth] profile lookup for %s failed: %v", user.ID, err)
		return c.Redirect(oauth.FrontendURL()+"/login?error=server_error", fiber.StatusSeeOther)
	}
	if err := session.Login(c, user.ID, user.Nickname, hasInfo); err != nil {
		log.Errorf("[OAuth] session for %s failed: %v", user.ID, err)
		return c.Redirect(oauth.FrontendURL()+"/login?error=server_error", fiber.StatusSeeOther)
	}

	return c.Redirect(oauth.FrontendURL()+"/main", fiber.StatusSeeOther)
}

// linkSocialUser finds the account behind an OAuth identity, creating it on first
// login, and stores the fresh provider tokens.
func (oc *OAuthController) linkSocialUser(u goth.User) (*models.User, error) {
	repo := oc.deps.Repos.User

	user, err := repo.GetByProvider(u.Provider, u.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Accounts created before provider_accounts existed are found by username.
		candidate := models.NewSocialUser(u.Provider, u.UserID, firstNonEmpty(u.NickName, u.Name))
		user, err = repo.GetByUsername(candidate.Username)
		if err != nil {
			return nil, err
		}
		if user == nil {
			if err := repo.Create(candidate); err != nil {
				return nil, fmt.Errorf("create user: %w", err)
			}
			log.Infof("[OAuth] Created %s user %s", u.Provider, candidate.ID)
			user = candidate
		}
	}

	var expires *time.Time
	if !u.ExpiresAt.IsZero() {
		t := u.ExpiresAt
		expires = &t
	}
	account := &models.ProviderAccount{
		UserID:         user.ID,
		Provider:       u.Provider,
		ProviderUserID: u.UserID,
		AccessToken:    u.AccessToken,
		RefreshToken:   u.RefreshToken,
		ExpiresAt:      expires,
	}
	if err := repo.UpsertProviderAccount(account); err != nil {
		return nil, fmt.Errorf("link provider: %w", err)
	}

	return user, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

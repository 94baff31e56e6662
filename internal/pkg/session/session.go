package session

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"

	"github.com/jipsalddae/backend/internal/pkg/cache"
	"github.com/jipsalddae/backend/internal/pkg/env"
	"github.com/jipsalddae/backend/internal/pkg/usercontext"
)

const (
	CookieName = "session_id"
	Expiration = 24 * time.Hour
)

var sessionStore *session.Store

func NewSessionStore() *session.Store {
	// Get Redis client configuration from existing cache setup
	cacheClient := cache.GetClient()
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	// Sessions live in database 1, the cache uses DB 0
	storage := redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})

	sessionStore = session.New(config(storage))

	return sessionStore
}

// NewMemoryStore installs a session store backed by Fiber's in-memory storage.
func NewMemoryStore() *session.Store {
	sessionStore = session.New(config(nil))
	return sessionStore
}

func config(storage fiber.Storage) session.Config {
	cfg := session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     Expiration,
		KeyLookup:      "cookie:" + CookieName,
	}
	if storage != nil {
		cfg.Storage = storage
	}
	return cfg
}

func GetSessionStore() *session.Store {
	return sessionStore
}

// SetSessionValue stores a key-value pair in the user's individual session
func SetSessionValue(c *fiber.Ctx, key string, value interface{}) error {
	if sessionStore == nil {
		return fmt.Errorf("session store not initialized")
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	sess.Set(key, value)
	return sess.Save()
}

// GetSessionValue retrieves a string value by key from the user's individual session
func GetSessionValue(c *fiber.Ctx, key string) string {
	if sessionStore == nil {
		return ""
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return ""
	}

	if strValue, ok := sess.Get(key).(string); ok {
		return strValue
	}

	return ""
}

// Login writes the identity of a freshly authenticated user into the session.
func Login(c *fiber.Ctx, userID, nickname string, hasInfo bool) error {
	if sessionStore == nil {
		return fmt.Errorf("session store not initialized")
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("failed to regenerate session: %w", err)
	}

	sess.Set(usercontext.KeyUserID, userID)
	sess.Set(usercontext.KeyNickname, nickname)
	sess.Set(usercontext.KeyHasInfo, hasInfo)
	return sess.Save()
}

// Logout destroys the session and its storage entry.
func Logout(c *fiber.Ctx) error {
	if sessionStore == nil {
		return fmt.Errorf("session store not initialized")
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	return sess.Destroy()
}

// Load reads the identity stored by Login. The returned context is anonymous
// when the session carries no user id.
func Load(c *fiber.Ctx) (usercontext.UserContext, error) {
	if sessionStore == nil {
		return usercontext.UserContext{}, fmt.Errorf("session store not initialized")
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return usercontext.UserContext{}, fmt.Errorf("failed to get session: %w", err)
	}

	userID, _ := sess.Get(usercontext.KeyUserID).(string)
	if userID == "" {
		return usercontext.UserContext{}, nil
	}
	nickname, _ := sess.Get(usercontext.KeyNickname).(string)
	hasInfo, _ := sess.Get(usercontext.KeyHasInfo).(bool)

	return usercontext.UserContext{
		UserID:     userID,
		Nickname:   nickname,
		HasInfo:    hasInfo,
		IsLoggedIn: true,
	}, nil
}

package oauth

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/session"
	redisstorage "github.com/gofiber/storage/redis"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"github.com/markbates/goth/providers/kakao"
	"github.com/markbates/goth/providers/naver"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/jipsalddae/backend/internal/pkg/cache"
	"github.com/jipsalddae/backend/internal/pkg/env"
)

// Config holds the provider credentials and the URLs of the OAuth round trip.
type Config struct {
	PublicDomain string `env:"PUBLIC_DOMAIN"`
	AppPort      string `env:"APP_PORT" envDefault:"4000"`
	FrontendURL  string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	KakaoKey     string `env:"KAKAO_KEY"`
	KakaoSecret  string `env:"KAKAO_SECRET"`
	NaverKey     string `env:"NAVER_KEY"`
	NaverSecret  string `env:"NAVER_SECRET"`
	GoogleKey    string `env:"GOOGLE_KEY"`
	GoogleSecret string `env:"GOOGLE_SECRET"`
}

var current Config

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BaseURL is the public origin the providers redirect back to.
func (c Config) BaseURL() string {
	base := strings.TrimRight(c.PublicDomain, "/")
	if base == "" {
		base = "http://localhost:" + c.AppPort
	}
	return base
}

func (c Config) CallbackURL(provider string) string {
	return c.BaseURL() + "/api/auth/" + provider + "/callback"
}

// Providers returns the goth providers that have a client key configured.
func (c Config) Providers() []goth.Provider {
	var providers []goth.Provider
	if c.KakaoKey != "" {
		providers = append(providers, kakao.New(c.KakaoKey, c.KakaoSecret, c.CallbackURL("kakao")))
	}
	if c.NaverKey != "" {
		providers = append(providers, naver.New(c.NaverKey, c.NaverSecret, c.CallbackURL("naver")))
	}
	if c.GoogleKey != "" {
		providers = append(providers, google.New(c.GoogleKey, c.GoogleSecret, c.CallbackURL("google"), "email", "profile"))
	}
	return providers
}

// FrontendURL is where the callback sends the browser after login.
func FrontendURL() string {
	if current.FrontendURL == "" {
		return "http://localhost:3000"
	}
	return strings.TrimRight(current.FrontendURL, "/")
}

// Setup initializes Goth providers and session store based on environment variables.
// It is safe to call multiple times; providers will just be re-registered.
func Setup() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Errorf("[OAuth] %v", err)
		return
	}
	current = cfg

	providers := cfg.Providers()
	if len(providers) == 0 {
		log.Warn("[OAuth] no provider keys configured, social login disabled")
	} else {
		goth.UseProviders(providers...)
		log.Infof("[OAuth] %d provider(s) enabled", len(providers))
	}

	// OAuth state via Redis, using same connection as app sessions (separate DB)
	host, port := "127.0.0.1", 6379
	var username, password string
	if cacheClient := cache.GetClient(); cacheClient != nil {
		cacheOpts := cacheClient.Options()
		if h, p, err := net.SplitHostPort(cacheOpts.Addr); err == nil {
			host = h
			if parsed, e := strconv.Atoi(p); e == nil {
				port = parsed
			}
		} else if cacheOpts.Addr != "" {
			host = cacheOpts.Addr
		}
		username, password = cacheOpts.Username, cacheOpts.Password
	}

	gothfiber.SessionStore = session.New(session.Config{
		Storage: redisstorage.New(redisstorage.Config{
			Host:     host,
			Port:     port,
			Username: username,
			Password: password,
			Database: 2,
			Reset:    false,
		}),
		KeyLookup:      "cookie:" + gothic.SessionName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     10 * time.Minute,
	})
}

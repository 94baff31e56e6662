package marketprice

import (
	"time"

	"github.com/jipsalddae/backend/internal/pkg/env"
)

const DefaultBaseURL = "http://apis.data.go.kr/1613000/RTMSDataSvcAptTrade/getRTMSDataSvcAptTrade"

// Config configures the apartment-trade client and its Redis cache.
type Config struct {
	BaseURL    string        `env:"TRADE_API_BASE_URL" envDefault:"http://apis.data.go.kr/1613000/RTMSDataSvcAptTrade/getRTMSDataSvcAptTrade"`
	ServiceKey string        `env:"PUBLIC_DATA_DECODING_KEY"`
	Timeout    time.Duration `env:"TRADE_API_TIMEOUT" envDefault:"15s"`
	NumOfRows  int           `env:"TRADE_API_ROWS" envDefault:"1000"`
	CacheTTL   time.Duration `env:"TRADE_CACHE_TTL" envDefault:"6h"`
	Months     int           `env:"TRADE_MONTHS" envDefault:"3"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

package marketprice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

const CacheKeyPrefix = "trades:"

// CurrentMonthTTL caps the cache lifetime of the month still receiving new deals.
const CurrentMonthTTL = 30 * time.Minute

// CachedProvider keeps provider responses in Redis per region and month.
// Redis failures fall through to the wrapped provider.
type CachedProvider struct {
	next   TradeProvider
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewCachedProvider(next TradeProvider, client *redis.Client, ttl time.Duration) *CachedProvider {
	return &CachedProvider{next: next, client: client, ttl: ttl, now: time.Now}
}

func (p *CachedProvider) ttlFor(yearMonth string) time.Duration {
	if yearMonth == p.now().Format("200601") && p.ttl > CurrentMonthTTL {
		return CurrentMonthTTL
	}
	return p.ttl
}

func CacheKey(regionCode, yearMonth string) string {
	return fmt.Sprintf("%s%s:%s", CacheKeyPrefix, regionCode, yearMonth)
}

func (p *CachedProvider) GetRecentTrades(ctx context.Context, regionCode, yearMonth string) ([]TradeRecord, error) {
	key := CacheKey(regionCode, yearMonth)

	if p.client != nil {
		raw, err := p.client.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var trades []TradeRecord
			uerr := json.Unmarshal(raw, &trades)
			if uerr == nil {
				return trades, nil
			}
			log.Warnf("[TradeAPI] Ignoring corrupt cache entry %s: %v", key, uerr)
		case !errors.Is(err, redis.Nil):
			log.Warnf("[TradeAPI] Cache read failed for %s: %v", key, err)
		}
	}

	trades, err := p.next.GetRecentTrades(ctx, regionCode, yearMonth)
	if err != nil {
		return nil, err
	}

	// An empty month is refetched next time.
	if p.client != nil && p.ttl > 0 && len(trades) > 0 {
		if raw, merr := json.Marshal(trades); merr == nil {
			if serr := p.client.Set(ctx, key, raw, p.ttlFor(yearMonth)).Err(); serr != nil {
				log.Warnf("[TradeAPI] Cache write failed for %s: %v", key, serr)
			}
		}
	}
	return trades, nil
}

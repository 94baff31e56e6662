// Package counter keeps lightweight usage counters for policies in Redis.
package counter

import (
	"context"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	policyViewsKey     = "policy:counters:views"
	policyFavoritesKey = "policy:counters:favorites"
)

// PolicyCount is one entry of a ranking.
type PolicyCount struct {
	PolicyID int   `json:"policy_id"`
	Count    int64 `json:"count"`
}

type Counter struct {
	rdb redis.Cmdable
}

func New(rdb redis.Cmdable) *Counter {
	return &Counter{rdb: rdb}
}

// AddPolicyView increments the view counter of a policy detail page.
func (c *Counter) AddPolicyView(ctx context.Context, policyID int) error {
	return c.rdb.HIncrBy(ctx, policyViewsKey, strconv.Itoa(policyID), 1).Err()
}

// AddFavorite moves the favorite counter by delta (+1 added, -1 removed).
func (c *Counter) AddFavorite(ctx context.Context, policyID int, delta int64) error {
	return c.rdb.HIncrBy(ctx, policyFavoritesKey, strconv.Itoa(policyID), delta).Err()
}

// TopViews returns the most viewed policies, highest first. limit <= 0 returns all.
func (c *Counter) TopViews(ctx context.Context, limit int) ([]PolicyCount, error) {
	return c.top(ctx, policyViewsKey, limit)
}

// TopFavorites returns the most favorited policies, highest first.
func (c *Counter) TopFavorites(ctx context.Context, limit int) ([]PolicyCount, error) {
	return c.top(ctx, policyFavoritesKey, limit)
}

// Reset drops both counters.
func (c *Counter) Reset(ctx context.Context) error {
	return c.rdb.Del(ctx, policyViewsKey, policyFavoritesKey).Err()
}

func (c *Counter) top(ctx context.Context, key string, limit int) ([]PolicyCount, error) {
	data, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	return rank(data, limit), nil
}

// rank parses a counter hash and orders it by count, then by policy id.
// Malformed fields and non-positive counts are skipped.
func rank(data map[string]string, limit int) []PolicyCount {
	out := make([]PolicyCount, 0, len(data))
	for k, v := range data {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			continue
		}
		out = append(out, PolicyCount{PolicyID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].PolicyID < out[j].PolicyID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

package marketprice

import (
	"context"
	"testing"
	"time"

	"github.com/jipsalddae/backend/internal/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const isolatedTradeCacheTestRedisDB = 12

func TestCachedProviderServesFromRedis(t *testing.T) {
	client := testutil.RedisClient(t, isolatedTradeCacheTestRedisDB)
	p := &fakeProvider{trades: map[string][]TradeRecord{"202501": {trade("래미안", "101", "50,000")}}}
	cp := NewCachedProvider(p, client, time.Minute)
	ctx := context.Background()

	first, err := cp.GetRecentTrades(ctx, "11110", "202501")
	require.NoError(t, err)
	second, err := cp.GetRecentTrades(ctx, "11110", "202501")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, p.calls, 1)

	ttl, err := client.TTL(ctx, CacheKey("11110", "202501")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	client := testutil.RedisClient(t, isolatedTradeCacheTestRedisDB)
	p := &fakeProvider{fail: map[string]bool{"202501": true}}
	cp := NewCachedProvider(p, client, time.Minute)

	_, err := cp.GetRecentTrades(context.Background(), "11110", "202501")
	assert.Error(t, err)
	_, err = cp.GetRecentTrades(context.Background(), "11110", "202501")
	assert.Error(t, err)
	assert.Len(t, p.calls, 2)
}

func TestCachedProviderWithoutRedis(t *testing.T) {
	p := &fakeProvider{trades: map[string][]TradeRecord{"202501": {trade("a", "", "1")}}}
	cp := NewCachedProvider(p, nil, time.Minute)

	got, err := cp.GetRecentTrades(context.Background(), "11110", "202501")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCachedProviderTTLForCurrentMonth(t *testing.T) {
	cp := NewCachedProvider(&fakeProvider{}, nil, 6*time.Hour)
	cp.now = func() time.Time { return time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC) }

	assert.Equal(t, CurrentMonthTTL, cp.ttlFor("202503"))
	assert.Equal(t, 6*time.Hour, cp.ttlFor("202502"))

	short := NewCachedProvider(&fakeProvider{}, nil, time.Minute)
	short.now = cp.now
	assert.Equal(t, time.Minute, short.ttlFor("202503"))
}

func TestCachedProviderSkipsEmptyMonths(t *testing.T) {
	client := testutil.RedisClient(t, isolatedTradeCacheTestRedisDB)
	p := &fakeProvider{trades: map[string][]TradeRecord{}}
	cp := NewCachedProvider(p, client, time.Minute)
	ctx := context.Background()
	key := CacheKey("11110", "202412")

	for i := 0; i < 2; i++ {
		got, err := cp.GetRecentTrades(ctx, "11110", "202412")
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Len(t, p.calls, 2)

	n, err := client.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCachedProviderCurrentMonthExpiresSooner(t *testing.T) {
	client := testutil.RedisClient(t, isolatedTradeCacheTestRedisDB)
	p := &fakeProvider{trades: map[string][]TradeRecord{"202503": {trade("래미안", "101", "50,000")}}}
	cp := NewCachedProvider(p, client, 6*time.Hour)
	cp.now = func() time.Time { return time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	_, err := cp.GetRecentTrades(ctx, "11110", "202503")
	require.NoError(t, err)

	ttl, err := client.TTL(ctx, CacheKey("11110", "202503")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, CurrentMonthTTL)
}

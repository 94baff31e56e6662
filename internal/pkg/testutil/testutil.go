// Package testutil connects tests to the Redis and database services of the
// docker-compose stack and skips the test when they are not reachable.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jipsalddae/backend/internal/pkg/database"
	"github.com/jipsalddae/backend/internal/pkg/env"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func resolveTestRedis(t *testing.T) (string, string, string) {
	t.Helper()

	hosts := lo.Uniq(lo.Compact([]string{
		env.GetEnv("CACHE_HOST", ""),
		"cache",
		"localhost",
		"127.0.0.1",
	}))
	ports := lo.Uniq(lo.Compact([]string{
		env.GetEnv("CACHE_PORT", "6379"),
		"6379",
	}))
	passwords := lo.Uniq([]string{
		env.GetEnv("CACHE_PASSWORD", ""),
		"",
	})

	var lastErr error
	for _, host := range hosts {
		for _, port := range ports {
			for _, password := range passwords {
				client := redis.NewClient(&redis.Options{
					Addr:     fmt.Sprintf("%s:%s", host, port),
					Password: password,
					DB:       0,
				})

				ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
				_, err := client.Ping(ctx).Result()
				cancel()
				_ = client.Close()
				if err == nil {
					return host, port, password
				}
				lastErr = err
			}
		}
	}

	t.Skipf("Skipping Redis-dependent test: no reachable Redis endpoint (%v)", lastErr)
	return "", "", ""
}

// RedisClient returns a client on an isolated, flushed Redis database.
func RedisClient(t *testing.T, db int) *redis.Client {
	t.Helper()

	host, port, password := resolveTestRedis(t)
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	_, err := client.Ping(ctx).Result()
	cancel()
	if err != nil {
		_ = client.Close()
		t.Skipf("Skipping Redis-dependent test: isolated DB ping failed (%v)", err)
	}

	if err := client.FlushDB(context.Background()).Err(); err != nil {
		_ = client.Close()
		t.Fatalf("failed to flush isolated redis db %d: %v", db, err)
	}

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}

// GormDB opens the configured database, migrates it and returns a transaction
// that is rolled back when the test ends.
func GormDB(t *testing.T) *gorm.DB {
	t.Helper()

	if env.GetEnv("DB_NAME", "") == "" {
		t.Skip("Skipping database test: DB_NAME is not set")
	}

	db, err := gorm.Open(database.Dialector(), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Skipf("Skipping database test: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Skipf("Skipping database test: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		t.Skipf("Skipping database test: %v", err)
	}

	if err := db.AutoMigrate(database.Models()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	tx := db.Begin()
	t.Cleanup(func() {
		tx.Rollback()
		_ = sqlDB.Close()
	})
	return tx
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"provision-store/internal/logging"
	"provision-store/internal/models"
)

const statsKey = "provision_store:dashboard:stats"

// StatsCache keeps the last computed dashboard stats in Redis. A nil client
// turns every call into a no-op miss.
type StatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// Connect dials Redis and verifies it with a ping.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return rdb, nil
}

func NewStatsCache(rdb *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{rdb: rdb, ttl: ttl}
}

func (c *StatsCache) Get(ctx context.Context) (models.DashboardStats, bool) {
	if c == nil || c.rdb == nil {
		return models.DashboardStats{}, false
	}

	val, err := c.rdb.Get(ctx, statsKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			logging.WithCtx(ctx).Warn("stats cache read failed", "error", err)
		}
		return models.DashboardStats{}, false
	}

	var stats models.DashboardStats
	if err := json.Unmarshal(val, &stats); err != nil {
		return models.DashboardStats{}, false
	}
	return stats, true
}

func (c *StatsCache) Set(ctx context.Context, stats models.DashboardStats) {
	if c == nil || c.rdb == nil {
		return
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, statsKey, data, c.ttl).Err(); err != nil {
		logging.WithCtx(ctx).Warn("stats cache write failed", "error", err)
	}
}

func (c *StatsCache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, statsKey).Err(); err != nil {
		logging.WithCtx(ctx).Warn("stats cache invalidate failed", "error", err)
	}
}

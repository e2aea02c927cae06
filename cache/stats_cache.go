package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yeremiapane/hospitality-suite/utils"
)

const revenuePrefix = "revenue:"

// StatsCache is a small redis-backed cache for the aggregated billing views.
// A nil *StatsCache is valid and disables caching, so callers never have to
// branch on whether redis is configured.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to redis at addr. Returns nil (cache disabled) when addr is
// empty or the server is unreachable; a cold cache is never a startup error.
func New(addr string) *StatsCache {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		utils.ErrorLogger.Printf("stats cache: redis unreachable at %s, caching disabled: %v", addr, err)
		return nil
	}

	return &StatsCache{client: client, ttl: 5 * time.Minute}
}

// GetRevenue loads a cached revenue summary into dest. The bool reports a hit.
func (c *StatsCache) GetRevenue(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	raw, err := c.client.Get(ctx, revenuePrefix+key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

// SetRevenue stores a revenue summary. Failures are logged only; the caller
// already has the computed value.
func (c *StatsCache) SetRevenue(ctx context.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, revenuePrefix+key, raw, c.ttl).Err(); err != nil {
		utils.ErrorLogger.Printf("stats cache: set %s: %v", key, err)
	}
}

// InvalidateRevenue drops every cached revenue summary. Called after deletes
// that touch the bill or booking stores.
func (c *StatsCache) InvalidateRevenue(ctx context.Context) {
	if c == nil {
		return
	}
	keys, err := c.client.Keys(ctx, revenuePrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		utils.ErrorLogger.Printf("stats cache: invalidate: %v", err)
	}
}

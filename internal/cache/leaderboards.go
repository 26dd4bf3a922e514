// Package cache memoizes the leaderboard aggregate in Redis. The
// aggregator itself stays a pure function; this collaborator owns the
// warm/invalidate lifecycle and the warm timestamp.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taylor26fl-cyber/Protracker-v1/pkg/models"
)

const (
	leaderboardKey = "protracker:leaderboards"

	// LeaderboardTTL bounds staleness when nobody invalidates
	LeaderboardTTL = 24 * time.Hour
)

// RedisCache implements contracts.LeaderboardCache
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a leaderboard cache over an existing client
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the cached leaderboards, ok=false on a cold cache
func (c *RedisCache) Get(ctx context.Context) (*models.CachedLeaderboards, bool, error) {
	data, err := c.client.Get(ctx, leaderboardKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get leaderboards: %w", err)
	}

	var cached models.CachedLeaderboards
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false, fmt.Errorf("unmarshal leaderboards: %w", err)
	}
	return &cached, true, nil
}

// Warm stores freshly computed leaderboards with the warm timestamp
func (c *RedisCache) Warm(ctx context.Context, lb models.Leaderboards) (*models.CachedLeaderboards, error) {
	cached := &models.CachedLeaderboards{
		WarmedAt:     time.Now().UTC(),
		Leaderboards: lb,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return nil, fmt.Errorf("marshal leaderboards: %w", err)
	}
	if err := c.client.Set(ctx, leaderboardKey, data, LeaderboardTTL).Err(); err != nil {
		return nil, fmt.Errorf("set leaderboards: %w", err)
	}
	return cached, nil
}

// Invalidate drops the cached aggregate
func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, leaderboardKey).Err()
}

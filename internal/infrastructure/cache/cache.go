package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pennyverse/internal/domain/insight"
)

const keyPrefix = "pennyverse:dashboard:"

// Connect opens a client for url and verifies it with a ping.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DialTimeout = 2 * time.Second
	opt.ReadTimeout = 500 * time.Millisecond
	opt.WriteTimeout = 500 * time.Millisecond

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// DashboardCache stores rendered dashboards as JSON with a fixed TTL.
type DashboardCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewDashboardCache(rdb redis.Cmdable, ttl time.Duration) *DashboardCache {
	return &DashboardCache{rdb: rdb, ttl: ttl}
}

func dashboardKey(userID uuid.UUID) string {
	return keyPrefix + userID.String()
}

func (c *DashboardCache) GetDashboard(ctx context.Context, userID uuid.UUID) (*insight.Dashboard, bool, error) {
	data, err := c.rdb.Get(ctx, dashboardKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read dashboard cache: %w", err)
	}

	var d insight.Dashboard
	if err := json.Unmarshal(data, &d); err != nil {
		// A stale layout is treated as a miss and overwritten on the next set.
		return nil, false, nil
	}
	return &d, true, nil
}

func (c *DashboardCache) SetDashboard(ctx context.Context, userID uuid.UUID, d *insight.Dashboard) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode dashboard: %w", err)
	}
	if err := c.rdb.Set(ctx, dashboardKey(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write dashboard cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached dashboard of userID.
func (c *DashboardCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.rdb.Del(ctx, dashboardKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate dashboard cache: %w", err)
	}
	return nil
}

package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// SummaryCache stores rating summaries between writes.
type SummaryCache interface {
	Get(ctx context.Context, trekID int64) (*Summary, bool, error)
	Set(ctx context.Context, s *Summary) error
	Invalidate(ctx context.Context, trekID int64) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient accepts either a redis:// URL or a bare host:port.
func NewRedisClient(addr string) (*redis.Client, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{Addr: addr}), nil
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func summaryKey(trekID int64) string {
	return fmt.Sprintf("rating_summary:%d", trekID)
}

func (c *RedisCache) Get(ctx context.Context, trekID int64) (*Summary, bool, error) {
	raw, err := c.client.Get(ctx, summaryKey(trekID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var s Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, err
	}
	return &s, true, nil
}

func (c *RedisCache) Set(ctx context.Context, s *Summary) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, summaryKey(s.TrekID), raw, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, trekID int64) error {
	return c.client.Del(ctx, summaryKey(trekID)).Err()
}

// NoopCache is used when no Redis is configured.
type NoopCache struct{}

func (NoopCache) Get(context.Context, int64) (*Summary, bool, error) { return nil, false, nil }
func (NoopCache) Set(context.Context, *Summary) error                { return nil }
func (NoopCache) Invalidate(context.Context, int64) error            { return nil }

// Package ratelimit provides the pre-parse request budget check.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed-window limiter: one counter per client per window,
// incremented on every request and expired with the window.
type Redis struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Limit    int64
	Window   time.Duration
}

func NewRedis(cfg RedisConfig) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Redis{
		rdb:    rdb,
		limit:  cfg.Limit,
		window: cfg.Window,
	}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	bucket := fmt.Sprintf("ratelimit:%s", key)

	pipe := r.rdb.Pipeline()
	count := pipe.Incr(ctx, bucket)
	pipe.ExpireNX(ctx, bucket, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("increment rate limit counter: %w", err)
	}

	return count.Val() <= r.limit, nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}

// Noop allows everything; used when no redis is configured.
type Noop struct{}

func (Noop) Allow(ctx context.Context, key string) (bool, error) {
	return true, nil
}

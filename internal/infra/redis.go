package infra

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewRedis opens a client from a redis:// URL and verifies connectivity with
// a ping. Callers treat the result as optional infrastructure: the product
// cache, the alert queue, and the health check all accept a nil client and
// degrade (direct reads, dropped jobs, "disabled" status), so a failure here
// is survivable at startup.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

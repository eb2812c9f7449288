package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis opens a go-redis client and verifies connectivity before the
// worker pool and the change-feed notifier start depending on it.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

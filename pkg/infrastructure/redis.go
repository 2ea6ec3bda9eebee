package infrastructure

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the server at redisURL
// (redis[s]://[user:password@]host:port[/db]) and pings it. A rediss URL
// enables TLS.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

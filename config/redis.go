package config

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// InitRedis returns nil when no address is configured; callers treat that as
// "caching disabled".
func InitRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	if addr == "" {
		log.Info().Msg("REDIS_ADD not set, list cache disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info().Str("addr", addr).Msg("Connected to Redis")
	return client, nil
}

// Package cache keeps serialized listing pages in Redis. A Cache built
// without a client is a no-op.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTTL = 10 * time.Minute
	scanCount  = 100
)

type ListCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *ListCache {
	return &ListCache{rdb: rdb, ttl: ttl}
}

// Key hashes the query parameters in canonical order so equivalent queries
// share an entry.
func Key(prefix string, query url.Values) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		values := append([]string(nil), query[key]...)
		sort.Strings(values)
		for _, val := range values {
			sb.WriteString(key)
			sb.WriteString("=")
			sb.WriteString(val)
			sb.WriteString("&")
		}
	}
	rawKey := strings.TrimSuffix(sb.String(), "&")

	sum := sha256.Sum256([]byte(rawKey))
	return prefix + ":" + hex.EncodeToString(sum[:])
}

func (c *ListCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Redis GET failed")
		}
		return nil, false
	}
	return data, true
}

func (c *ListCache) Set(ctx context.Context, key string, data []byte) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Failed to cache response")
	}
}

// Invalidate drops every entry under prefix.
func (c *ListCache) Invalidate(ctx context.Context, prefix string) {
	if c == nil || c.rdb == nil {
		return
	}

	pattern := prefix + ":*"
	var keys []string
	var cursor uint64
	for {
		batch, next, err := c.rdb.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("pattern", pattern).Msg("Redis SCAN failed")
			return
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return
	}

	pipe := c.rdb.Pipeline()
	for _, key := range keys {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Ctx(ctx).Error().Err(err).Int("keys", len(keys)).Msg("Failed to invalidate list cache")
		return
	}
	log.Ctx(ctx).Debug().Int("keys", len(keys)).Str("pattern", pattern).Msg("List cache invalidated")
}

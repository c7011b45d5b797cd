package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const versionKey = "guide:version"

// Cache is a short-TTL cache for rendered grid responses. A nil *Cache is
// valid and disables caching, so the server runs without Redis configured.
type Cache struct {
	rdb *redis.Client
}

func New(address, username, password string) *Cache {
	if address == "" {
		return nil
	}
	return &Cache{rdb: redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})}
}

// GridKey builds the cache key for one grid response. The guide version is
// part of the key, so bumping the version after a sync invalidates every
// cached grid at once.
func GridKey(version string, channelIDs []string, date string) string {
	return fmt.Sprintf("guide:grid:%s:%s:%s", version, date, strings.Join(channelIDs, ","))
}

func (c *Cache) Version(ctx context.Context) string {
	if c == nil {
		return "0"
	}
	v, err := c.rdb.Get(ctx, versionKey).Result()
	if err != nil {
		return "0"
	}
	return v
}

// BumpVersion marks all cached grids stale after a guide replacement.
func (c *Cache) BumpVersion(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.rdb.Incr(ctx, versionKey).Err(); err != nil {
		log.Error().Err(err).Msg("failed to bump guide version in redis")
	}
}

func (c *Cache) GetGrid(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

func (c *Cache) SetGrid(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	if c == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to cache grid")
	}
}

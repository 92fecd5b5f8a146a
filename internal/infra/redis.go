package infra

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

const (
	cachePrefix     = "cache:"
	cacheVersionKey = "cache:version"
)

// RedisCache is the report cache. Entries expire after ttl; Invalidar bumps a
// version counter that callers fold into their keys, so old entries are never
// read again and simply age out.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.rdb.Get(ctx, cachePrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("cache: get failed")
		}
		return nil, false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key string, val []byte) {
	if err := c.rdb.Set(ctx, cachePrefix+key, val, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: set failed")
	}
}

func (c *RedisCache) Version(ctx context.Context) int64 {
	raw, err := c.rdb.Get(ctx, cacheVersionKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("cache: version read failed")
		}
		return 0
	}
	v, _ := strconv.ParseInt(raw, 10, 64)
	return v
}

func (c *RedisCache) Invalidar(ctx context.Context) {
	if err := c.rdb.Incr(ctx, cacheVersionKey).Err(); err != nil {
		log.Warn().Err(err).Msg("cache: invalidation failed")
	}
}

package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache is the caching interface. All cache operations go through here.
// Implementations must be safe for concurrent use.
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	IncrWithExpiry(ctx context.Context, key string, expiry time.Duration) (int64, error)
	MarkNotified(ctx context.Context, alertID uuid.UUID, urls []string, ttl time.Duration) error
	FilterNotified(ctx context.Context, alertID uuid.UUID, urls []string) ([]string, error)
}

// RedisCache implements the Cache interface using go-redis/v9.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new RedisCache from a Redis URL.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *RedisCache) IncrWithExpiry(ctx context.Context, key string, expiry time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, expiry)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// MarkNotified records job URLs as delivered for one alert. The set carries
// a TTL so it cannot grow without bound; the durable last_notified boundary
// on the alert row is the primary dedup, this set is the backstop.
func (c *RedisCache) MarkNotified(ctx context.Context, alertID uuid.UUID, urls []string, ttl time.Duration) error {
	if len(urls) == 0 {
		return nil
	}
	key := NotifiedSetKey(alertID)
	members := make([]any, len(urls))
	for i, u := range urls {
		members[i] = u
	}

	pipe := c.client.TxPipeline()
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// FilterNotified returns the subset of urls that have NOT been delivered for
// the alert yet, preserving input order.
func (c *RedisCache) FilterNotified(ctx context.Context, alertID uuid.UUID, urls []string) ([]string, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	members := make([]any, len(urls))
	for i, u := range urls {
		members[i] = u
	}

	seen, err := c.client.SMIsMember(ctx, NotifiedSetKey(alertID), members...).Result()
	if err != nil {
		return nil, err
	}

	fresh := make([]string, 0, len(urls))
	for i, u := range urls {
		if !seen[i] {
			fresh = append(fresh, u)
		}
	}
	return fresh, nil
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces every key written by RedisCache.
const DefaultRedisPrefix = "cardtable:"

// RedisConfig configures a RedisCache.
type RedisConfig struct {
	// URL is a redis:// or rediss:// URL. When set it takes precedence
	// over Addr, Password and DB.
	URL      string `toml:"url" json:"url,omitempty"`
	Addr     string `toml:"addr" json:"addr,omitempty"`
	Password string `toml:"password" json:"-"`
	DB       int    `toml:"db" json:"db,omitempty"`
	Prefix   string `toml:"prefix" json:"prefix,omitempty"`

	DialTimeout time.Duration `toml:"dial_timeout" json:"dial_timeout,omitempty"`
}

func (c RedisConfig) options() (*redis.Options, error) {
	var opts *redis.Options
	switch {
	case c.URL != "":
		parsed, err := redis.ParseURL(c.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	case c.Addr != "":
		opts = &redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB}
	default:
		return nil, errors.New("redis cache needs an address or URL")
	}
	if c.DialTimeout > 0 {
		opts.DialTimeout = c.DialTimeout
	}
	return opts, nil
}

// RedisCache stores entries in Redis with native key expiry.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to Redis and verifies the connection.
// Unreachable servers are retried with backoff before giving up.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	opts, err := cfg.options()
	if err != nil {
		return nil, err
	}
	c := NewRedisCacheFromClient(redis.NewClient(opts), cfg.Prefix)

	err = RetryWithBackoff(ctx, func() error {
		if err := c.client.Ping(ctx).Err(); err != nil {
			return Retryable(fmt.Errorf("%w: %v", ErrUnavailable, err))
		}
		return nil
	})
	if err != nil {
		_ = c.client.Close()
		return nil, err
	}
	return c, nil
}

// NewRedisCacheFromClient wraps an existing client. An empty prefix means
// DefaultRedisPrefix.
func NewRedisCacheFromClient(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisCache{client: client, prefix: prefix}
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return data, true, nil
}

// Set stores a value; Redis expires it after ttl.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) key(key string) string {
	return c.prefix + key
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)

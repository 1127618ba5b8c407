package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-b2b/internal/resilience"
)

// JSON stores JSON payloads in Redis under a common prefix. A nil *JSON or one
// without a client behaves as an always-empty cache.
type JSON struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	breaker *resilience.Breaker
}

// NewJSON constructs a JSON cache. A non-positive ttl stores keys without expiry.
func NewJSON(client *redis.Client, prefix string, ttl time.Duration) *JSON {
	if ttl < 0 {
		ttl = 0
	}
	return &JSON{client: client, prefix: prefix, ttl: ttl}
}

// WithBreaker guards Redis calls with b. While b is open, reads and writes fail
// fast with resilience.ErrOpenCircuit.
func (c *JSON) WithBreaker(b *resilience.Breaker) *JSON {
	if c != nil {
		c.breaker = b
	}
	return c
}

// Key joins parts into a cache key under the configured prefix.
func (c *JSON) Key(parts ...string) string {
	if c == nil {
		return strings.Join(parts, ":")
	}
	if c.prefix == "" {
		return strings.Join(parts, ":")
	}
	return c.prefix + ":" + strings.Join(parts, ":")
}

// GetJSON unmarshals a cached JSON payload into dst. It reports whether the key existed.
func (c *JSON) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if c == nil || c.client == nil || key == "" {
		return false, nil
	}
	var (
		data  []byte
		found bool
	)
	err := c.breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		data, err = c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		found = err == nil
		return err
	})
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON serialises v as JSON and stores it with the configured TTL.
func (c *JSON) SetJSON(ctx context.Context, key string, v any) error {
	if c == nil || c.client == nil || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.breaker.Do(ctx, func(ctx context.Context) error {
		return c.client.Set(ctx, key, data, c.ttl).Err()
	})
}

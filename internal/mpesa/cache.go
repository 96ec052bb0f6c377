package mpesa

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache stores the Daraja access token between requests.
type TokenCache interface {
	Get(ctx context.Context) (string, bool)
	Set(ctx context.Context, token string, ttl time.Duration)
}

// NewTokenCache picks the redis-backed cache when a client is provided;
// otherwise tokens live in process memory.
func NewTokenCache(rdb *redis.Client) TokenCache {
	if rdb != nil {
		return &redisTokenCache{rdb: rdb}
	}
	return NewMemoryTokenCache()
}

type memoryTokenCache struct {
	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewMemoryTokenCache() TokenCache {
	return &memoryTokenCache{}
}

func (c *memoryTokenCache) Get(_ context.Context) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" || time.Now().After(c.expires) {
		return "", false
	}
	return c.token, true
}

func (c *memoryTokenCache) Set(_ context.Context, token string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.expires = time.Now().Add(ttl)
}

const redisTokenKey = "mpesa:access_token"

type redisTokenCache struct {
	rdb *redis.Client
}

func (c *redisTokenCache) Get(ctx context.Context) (string, bool) {
	token, err := c.rdb.Get(ctx, redisTokenKey).Result()
	if err != nil || token == "" {
		// Cache miss or redis down; the caller fetches a fresh token.
		return "", false
	}
	return token, true
}

func (c *redisTokenCache) Set(ctx context.Context, token string, ttl time.Duration) {
	_ = c.rdb.Set(ctx, redisTokenKey, token, ttl).Err()
}
